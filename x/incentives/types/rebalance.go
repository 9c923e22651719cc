package types

// Rebalancing reference points
const (
	SentimentNeutral       uint64 = 70
	EfficiencyBonusFloor   uint64 = 80
	ILCompensationFloor    uint64 = 20
	ILCompensationCap      uint64 = 100
	SignalAdjustmentWeight uint64 = 150
	RateDivisor            uint64 = 500
	HealthBoostThreshold   uint64 = 50
	BoostFactor            uint64 = 150
	NeutralBoostFactor     uint64 = 100
)

// RebalanceInputs are the oracle supplied market signals, each in [0,100]
type RebalanceInputs struct {
	Sentiment  uint64 `json:"sentiment"`
	Efficiency uint64 `json:"efficiency"`
	ILFactor   uint64 `json:"il_factor"`
}

// Validate checks every signal lies in [0,100]
func (in RebalanceInputs) Validate() error {
	if !ValidScore(in.Sentiment) || !ValidScore(in.Efficiency) || !ValidScore(in.ILFactor) {
		return ErrInvalidParameters.Wrapf("sentiment %d, efficiency %d, il-factor %d must be <= %d",
			in.Sentiment, in.Efficiency, in.ILFactor, MaxScore)
	}
	return nil
}

// MarketMultiplier moves one point per three sentiment points away from neutral.
// Bounded to [77,110] for sentiment in [0,100].
func MarketMultiplier(sentiment uint64) uint64 {
	if sentiment > SentimentNeutral {
		return 100 + (sentiment-SentimentNeutral)/3
	}
	return 100 - (SentimentNeutral-sentiment)/3
}

// EfficiencyBonus pays one point per four efficiency points above 80
func EfficiencyBonus(efficiency uint64) uint64 {
	if efficiency > EfficiencyBonusFloor {
		return (efficiency - EfficiencyBonusFloor) / 4
	}
	return 0
}

// ILCompensation offsets impermanent loss above 20
func ILCompensation(ilFactor uint64) uint64 {
	if ilFactor <= ILCompensationFloor {
		return 0
	}
	comp := ilFactor - ILCompensationFloor
	if comp > ILCompensationCap {
		return ILCompensationCap
	}
	return comp
}

// SignalAdjustment scales the safety margin (100 - score) by 1.5
func SignalAdjustment(score uint64) uint64 {
	return (MaxScore - score) * SignalAdjustmentWeight / 100
}

// PoolHealth averages safety, stability, sentiment and efficiency
func PoolHealth(risk, volatility, sentiment, efficiency uint64) uint64 {
	return ((MaxScore - risk) + (MaxScore - volatility) + sentiment + efficiency) / 4
}

// ComputeRebalance derives the dynamic rate and health of a pool from its
// current risk signals and the supplied market inputs. Inputs must already be
// range checked.
func ComputeRebalance(pool *Pool, in RebalanceInputs) RebalanceResult {
	res := RebalanceResult{
		PoolID:          pool.PoolID,
		MarketMult:      MarketMultiplier(in.Sentiment),
		EfficiencyBonus: EfficiencyBonus(in.Efficiency),
		ILComp:          ILCompensation(in.ILFactor),
		RiskAdjustment:  SignalAdjustment(pool.AIRiskScore),
		VolAdjustment:   SignalAdjustment(pool.VolatilityIndex),
	}

	sum := res.MarketMult + res.EfficiencyBonus + res.ILComp + res.RiskAdjustment + res.VolAdjustment
	res.DynamicRate = BaseRewardRate * sum / RateDivisor
	res.Health = PoolHealth(pool.AIRiskScore, pool.VolatilityIndex, in.Sentiment, in.Efficiency)

	res.Boosted = res.Health < HealthBoostThreshold
	boost := NeutralBoostFactor
	if res.Boosted {
		boost = BoostFactor
	}
	res.Rate = res.DynamicRate * boost / 100
	return res
}

// RelievedRisk lowers a risk score after a boost, floored at 0
func RelievedRisk(risk uint64) uint64 {
	if risk < RiskReliefOnBoost {
		return 0
	}
	return risk - RiskReliefOnBoost
}
