package types

import (
	"cosmossdk.io/math"
)

// Multipliers are percentages where 100 is neutral. All division truncates.

// Loyalty grows linearly from 0 to 100 over LoyaltyMaturityBlocks.
// A current height below the entry height yields 0.
func Loyalty(entryHeight, currentHeight int64) uint64 {
	if currentHeight <= entryHeight {
		return 0
	}
	elapsed := currentHeight - entryHeight
	if elapsed >= LoyaltyMaturityBlocks {
		return 100
	}
	return uint64(elapsed * 100 / LoyaltyMaturityBlocks)
}

// Depth rewards pool share: 100 plus one point per whole percent held.
// A sole depositor reaches 200; the result is not clamped.
func Depth(participantLiquidity, totalLiquidity math.Uint) uint64 {
	if totalLiquidity.IsNil() || totalLiquidity.IsZero() {
		return 0
	}
	if participantLiquidity.IsNil() || participantLiquidity.IsZero() {
		return 0
	}
	shareBp := participantLiquidity.MulUint64(10000).Quo(totalLiquidity)
	return 100 + shareBp.QuoUint64(100).Uint64()
}

// AIRisk maps risk and volatility scores in [0,100] onto [50,150].
// Callers validate the score range.
func AIRisk(riskScore, volatilityIndex uint64) uint64 {
	riskFactor := MaxScore - riskScore
	stabilityFactor := MaxScore - volatilityIndex
	return 50 + (riskFactor+stabilityFactor)/2
}

// TotalMultiplier averages the three factors and caps the average.
func TotalMultiplier(loyalty, depth, aiRisk uint64) uint64 {
	avg := (loyalty + depth + aiRisk) / 3
	if avg > MaxTotalMultiplier {
		return MaxTotalMultiplier
	}
	return avg
}

// RewardFor returns blocks * BaseRewardRate * multiplier / 100.
func RewardFor(blocksElapsed int64, multiplier uint64) math.Uint {
	if blocksElapsed <= 0 || multiplier == 0 {
		return math.ZeroUint()
	}
	return math.NewUint(uint64(blocksElapsed)).
		MulUint64(BaseRewardRate).
		MulUint64(multiplier).
		QuoUint64(100)
}

// ValidScore reports whether s lies in [0,100]
func ValidScore(s uint64) bool {
	return s <= MaxScore
}
