package types

import (
	"fmt"

	"cosmossdk.io/math"
)

// Module name and store key
const (
	ModuleName = "incentives"
	StoreKey   = ModuleName
)

// Reward model constants
const (
	// BaseRewardRate is paid per elapsed height unit at a neutral (100) multiplier
	BaseRewardRate uint64 = 1000

	// LoyaltyMaturityBlocks is the time to full loyalty
	LoyaltyMaturityBlocks int64 = 144000

	// MaxScore bounds every oracle supplied score
	MaxScore uint64 = 100

	// MaxTotalMultiplier caps the averaged multiplier
	MaxTotalMultiplier uint64 = 300

	// NeutralScore is assigned to risk and volatility of a new pool
	NeutralScore uint64 = 50

	// RiskReliefOnBoost is subtracted from pool risk when a rebalance boosts the rate
	RiskReliefOnBoost uint64 = 10
)

// MinLiquidityThreshold is the smallest position that may claim rewards
var MinLiquidityThreshold = math.NewUint(1_000_000)

// Metric names written by rebalancing
const (
	MetricMarketSentiment = "market-sentiment"
	MetricEfficiencyRatio = "efficiency-ratio"
	MetricILFactor        = "il-factor"
	MetricPoolHealth      = "pool-health"
	MetricDynamicRate     = "dynamic-rate"
)

// Weight factors
const (
	WeightLoyalty = "loyalty"
	WeightDepth   = "depth"
	WeightAIRisk  = "ai-risk"
)

// DefaultWeights returns the basis point weight table stored by InitializeWeights
func DefaultWeights() []Weight {
	return []Weight{
		{Factor: WeightLoyalty, BasisPoints: 3000},
		{Factor: WeightDepth, BasisPoints: 3000},
		{Factor: WeightAIRisk, BasisPoints: 4000},
	}
}

// Pool is a numbered liquidity pool with its own reward budget and risk signals
type Pool struct {
	PoolID            uint64    `json:"pool_id"`
	TotalLiquidity    math.Uint `json:"total_liquidity"`
	Active            bool      `json:"active"`
	RewardPoolBalance math.Uint `json:"reward_pool_balance"`
	CreatedHeight     int64     `json:"created_height"`
	AIRiskScore       uint64    `json:"ai_risk_score"`
	VolatilityIndex   uint64    `json:"volatility_index"`
}

// NewPool creates an active pool with neutral risk signals
func NewPool(poolID uint64, rewardBalance math.Uint, height int64) *Pool {
	return &Pool{
		PoolID:            poolID,
		TotalLiquidity:    math.ZeroUint(),
		Active:            true,
		RewardPoolBalance: rewardBalance,
		CreatedHeight:     height,
		AIRiskScore:       NeutralScore,
		VolatilityIndex:   NeutralScore,
	}
}

// Validate checks pool field ranges
func (p *Pool) Validate() error {
	if p.TotalLiquidity.IsNil() || p.RewardPoolBalance.IsNil() {
		return fmt.Errorf("pool %d: nil amount", p.PoolID)
	}
	if p.AIRiskScore > MaxScore || p.VolatilityIndex > MaxScore {
		return fmt.Errorf("pool %d: score out of range", p.PoolID)
	}
	return nil
}

// Position is one participant's stake in one pool
type Position struct {
	Participant        string    `json:"participant"`
	PoolID             uint64    `json:"pool_id"`
	LiquidityAmount    math.Uint `json:"liquidity_amount"`
	EntryHeight        int64     `json:"entry_height"`
	LastClaimHeight    int64     `json:"last_claim_height"`
	AccumulatedRewards math.Uint `json:"accumulated_rewards"`
	LoyaltyScore       uint64    `json:"loyalty_score"`
}

// NewPosition creates a position at its first deposit
func NewPosition(participant string, poolID uint64, amount math.Uint, height int64) *Position {
	return &Position{
		Participant:        participant,
		PoolID:             poolID,
		LiquidityAmount:    amount,
		EntryHeight:        height,
		LastClaimHeight:    height,
		AccumulatedRewards: math.ZeroUint(),
		LoyaltyScore:       0,
	}
}

// MeetsClaimThreshold reports whether the position may claim
func (p *Position) MeetsClaimThreshold() bool {
	return p.LiquidityAmount.GTE(MinLiquidityThreshold)
}

// MetricRecord holds the latest value of a named pool metric
type MetricRecord struct {
	PoolID            uint64 `json:"pool_id"`
	Name              string `json:"name"`
	Value             uint64 `json:"value"`
	LastUpdatedHeight int64  `json:"last_updated_height"`
}

// GlobalState holds ledger-wide counters and switches
type GlobalState struct {
	TotalPools              uint64    `json:"total_pools"`
	TotalRewardsDistributed math.Uint `json:"total_rewards_distributed"`
	Oracle                  string    `json:"oracle"`
	Paused                  bool      `json:"paused"`
}

// DefaultGlobalState returns the state of an empty ledger
func DefaultGlobalState(oracle string) *GlobalState {
	return &GlobalState{
		TotalPools:              0,
		TotalRewardsDistributed: math.ZeroUint(),
		Oracle:                  oracle,
		Paused:                  false,
	}
}

// Weight is one entry of the basis point weight table
type Weight struct {
	Factor      string `json:"factor"`
	BasisPoints uint64 `json:"basis_points"`
}

// RebalanceResult is the output of a rebalancing derivation
type RebalanceResult struct {
	PoolID          uint64 `json:"pool_id"`
	Rate            uint64 `json:"rate"`
	DynamicRate     uint64 `json:"dynamic_rate"`
	Health          uint64 `json:"health"`
	Boosted         bool   `json:"boosted"`
	MarketMult      uint64 `json:"market_mult"`
	EfficiencyBonus uint64 `json:"efficiency_bonus"`
	ILComp          uint64 `json:"il_comp"`
	RiskAdjustment  uint64 `json:"risk_adjustment"`
	VolAdjustment   uint64 `json:"volatility_adjustment"`
}

// RewardBreakdown explains a pending reward amount
type RewardBreakdown struct {
	Participant   string    `json:"participant"`
	PoolID        uint64    `json:"pool_id"`
	Height        int64     `json:"height"`
	BlocksElapsed int64     `json:"blocks_elapsed"`
	Loyalty       uint64    `json:"loyalty"`
	Depth         uint64    `json:"depth"`
	AIRisk        uint64    `json:"ai_risk"`
	Multiplier    uint64    `json:"multiplier"`
	Pending       math.Uint `json:"pending"`
}

// ComputeRewards derives the pending reward of a position at height
func ComputeRewards(pool *Pool, pos *Position, height int64) RewardBreakdown {
	b := RewardBreakdown{
		Participant:   pos.Participant,
		PoolID:        pool.PoolID,
		Height:        height,
		BlocksElapsed: height - pos.LastClaimHeight,
		Loyalty:       Loyalty(pos.EntryHeight, height),
		Depth:         Depth(pos.LiquidityAmount, pool.TotalLiquidity),
		AIRisk:        AIRisk(pool.AIRiskScore, pool.VolatilityIndex),
	}
	if b.BlocksElapsed < 0 {
		b.BlocksElapsed = 0
	}
	b.Multiplier = TotalMultiplier(b.Loyalty, b.Depth, b.AIRisk)
	b.Pending = RewardFor(b.BlocksElapsed, b.Multiplier)
	return b
}

// LeaderboardEntry is a ranked participant in a pool
type LeaderboardEntry struct {
	Rank               int       `json:"rank"`
	Participant        string    `json:"participant"`
	AccumulatedRewards math.Uint `json:"accumulated_rewards"`
	LiquidityAmount    math.Uint `json:"liquidity_amount"`
}

// PoolRanking is a pool ordered by its last reported health
type PoolRanking struct {
	Rank           int       `json:"rank"`
	PoolID         uint64    `json:"pool_id"`
	Health         uint64    `json:"health"`
	HasHealth      bool      `json:"has_health"`
	TotalLiquidity math.Uint `json:"total_liquidity"`
}
