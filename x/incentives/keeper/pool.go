package keeper

import (
	"context"
	"strconv"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/lp-incentives/x/incentives/types"
)

// CreatePool registers a new pool with its reward budget
func (k *Keeper) CreatePool(ctx context.Context, caller string, poolID uint64, initialRewardBalance math.Uint) (*types.Pool, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	if err := k.requireAdmin(caller); err != nil {
		return nil, err
	}
	if k.HasPool(sdkCtx, poolID) {
		return nil, types.ErrDuplicateEntity.Wrapf("pool %d", poolID)
	}
	if initialRewardBalance.IsNil() || initialRewardBalance.IsZero() {
		return nil, types.ErrInvalidAmount.Wrap("initial reward balance must be positive")
	}

	pool := types.NewPool(poolID, initialRewardBalance, sdkCtx.BlockHeight())
	k.SetPool(sdkCtx, pool)

	gs := k.GetGlobalState(sdkCtx)
	gs.TotalPools++
	k.SetGlobalState(sdkCtx, gs)

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeCreatePool,
			sdk.NewAttribute(types.AttributeKeyPoolID, strconv.FormatUint(poolID, 10)),
			sdk.NewAttribute(types.AttributeKeyRewardBalance, initialRewardBalance.String()),
			sdk.NewAttribute(types.AttributeKeyHeight, strconv.FormatInt(sdkCtx.BlockHeight(), 10)),
		),
	)

	k.logger.Info("Pool created",
		"pool_id", poolID,
		"reward_balance", initialRewardBalance.String(),
		"total_pools", gs.TotalPools,
	)

	return pool, nil
}

// GetPoolOrErr returns a pool or ErrNotFound
func (k *Keeper) GetPoolOrErr(ctx sdk.Context, poolID uint64) (*types.Pool, error) {
	pool := k.GetPool(ctx, poolID)
	if pool == nil {
		return nil, types.ErrNotFound.Wrapf("pool %d", poolID)
	}
	return pool, nil
}

// SetScores replaces a pool's risk and volatility. Nothing else changes.
func (k *Keeper) SetScores(ctx sdk.Context, poolID uint64, risk, volatility uint64) (*types.Pool, error) {
	if !types.ValidScore(risk) || !types.ValidScore(volatility) {
		return nil, types.ErrInvalidParameters.Wrapf("risk %d, volatility %d must be <= %d", risk, volatility, types.MaxScore)
	}
	pool, err := k.GetPoolOrErr(ctx, poolID)
	if err != nil {
		return nil, err
	}
	pool.AIRiskScore = risk
	pool.VolatilityIndex = volatility
	k.SetPool(ctx, pool)
	return pool, nil
}

// AdjustLiquidity adds delta to a pool's total liquidity
func (k *Keeper) AdjustLiquidity(ctx sdk.Context, poolID uint64, delta math.Uint) (*types.Pool, error) {
	pool, err := k.GetPoolOrErr(ctx, poolID)
	if err != nil {
		return nil, err
	}
	pool.TotalLiquidity = pool.TotalLiquidity.Add(delta)
	k.SetPool(ctx, pool)
	return pool, nil
}

// DebitRewardPool pays amount out of a pool's reward balance
func (k *Keeper) DebitRewardPool(ctx sdk.Context, poolID uint64, amount math.Uint) (*types.Pool, error) {
	pool, err := k.GetPoolOrErr(ctx, poolID)
	if err != nil {
		return nil, err
	}
	if amount.GT(pool.RewardPoolBalance) {
		return nil, types.ErrInsufficientBalance.Wrapf("pool %d holds %s, need %s", poolID, pool.RewardPoolBalance, amount)
	}
	pool.RewardPoolBalance = pool.RewardPoolBalance.Sub(amount)
	k.SetPool(ctx, pool)
	return pool, nil
}

// CreditRewardPool adds amount to a pool's reward balance
func (k *Keeper) CreditRewardPool(ctx sdk.Context, poolID uint64, amount math.Uint) (*types.Pool, error) {
	pool, err := k.GetPoolOrErr(ctx, poolID)
	if err != nil {
		return nil, err
	}
	pool.RewardPoolBalance = pool.RewardPoolBalance.Add(amount)
	k.SetPool(ctx, pool)
	return pool, nil
}
