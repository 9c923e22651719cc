package keeper

import (
	"fmt"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/lp-incentives/x/incentives/types"
)

// LiquidityInvariant checks that every pool's total liquidity equals the
// sum of its positions
func (k *Keeper) LiquidityInvariant(ctx sdk.Context) error {
	for _, pool := range k.GetAllPools(ctx) {
		sum := math.ZeroUint()
		for _, pos := range k.GetPoolPositions(ctx, pool.PoolID) {
			sum = sum.Add(pos.LiquidityAmount)
		}
		if !sum.Equal(pool.TotalLiquidity) {
			return fmt.Errorf("pool %d: total liquidity %s != positions %s", pool.PoolID, pool.TotalLiquidity, sum)
		}
	}
	return nil
}

// ScoreInvariant checks that every stored score lies in [0,100]
func (k *Keeper) ScoreInvariant(ctx sdk.Context) error {
	for _, pool := range k.GetAllPools(ctx) {
		if !types.ValidScore(pool.AIRiskScore) || !types.ValidScore(pool.VolatilityIndex) {
			return fmt.Errorf("pool %d: risk %d volatility %d out of range", pool.PoolID, pool.AIRiskScore, pool.VolatilityIndex)
		}
	}
	for _, pos := range k.GetAllPositions(ctx) {
		if !types.ValidScore(pos.LoyaltyScore) {
			return fmt.Errorf("position %s/%d: loyalty %d out of range", pos.Participant, pos.PoolID, pos.LoyaltyScore)
		}
	}
	return nil
}

// CheckInvariants runs every ledger invariant
func (k *Keeper) CheckInvariants(ctx sdk.Context) error {
	if err := k.LiquidityInvariant(ctx); err != nil {
		return err
	}
	return k.ScoreInvariant(ctx)
}
