package keeper

import (
	"context"
	"strconv"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/lp-incentives/x/incentives/types"
)

func (k *Keeper) requireAdmin(caller string) error {
	if caller != k.authority {
		return types.ErrOwnerOnly.Wrapf("%s is not the administrator", caller)
	}
	return nil
}

// InitializeWeights stores the default basis point weight table. Running it
// again restores the defaults.
func (k *Keeper) InitializeWeights(ctx context.Context, caller string) ([]types.Weight, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	if err := k.requireAdmin(caller); err != nil {
		return nil, err
	}
	weights := types.DefaultWeights()
	for _, w := range weights {
		k.SetWeight(sdkCtx, w)
	}

	sdkCtx.EventManager().EmitEvent(sdk.NewEvent(types.EventTypeWeightsInitialized))
	k.logger.Info("Weights initialized", "factors", len(weights))
	return weights, nil
}

// IsPaused reports the emergency pause switch
func (k *Keeper) IsPaused(ctx sdk.Context) bool {
	return k.GetGlobalState(ctx).Paused
}

// SetPaused flips the emergency pause switch. While paused no liquidity may
// be added and no rewards claimed.
func (k *Keeper) SetPaused(ctx context.Context, caller string, paused bool) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	if err := k.requireAdmin(caller); err != nil {
		return err
	}
	gs := k.GetGlobalState(sdkCtx)
	gs.Paused = paused
	k.SetGlobalState(sdkCtx, gs)

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeSetPaused,
			sdk.NewAttribute(types.AttributeKeyPaused, strconv.FormatBool(paused)),
		),
	)

	k.logger.Info("Pause switch set", "paused", paused)
	return nil
}

// SetPoolActive activates or deactivates a pool
func (k *Keeper) SetPoolActive(ctx context.Context, caller string, poolID uint64, active bool) (*types.Pool, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	if err := k.requireAdmin(caller); err != nil {
		return nil, err
	}
	pool, err := k.GetPoolOrErr(sdkCtx, poolID)
	if err != nil {
		return nil, err
	}
	pool.Active = active
	k.SetPool(sdkCtx, pool)

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeSetPoolActive,
			sdk.NewAttribute(types.AttributeKeyPoolID, strconv.FormatUint(poolID, 10)),
			sdk.NewAttribute(types.AttributeKeyActive, strconv.FormatBool(active)),
		),
	)

	k.logger.Info("Pool status changed", "pool_id", poolID, "active", active)
	return pool, nil
}

// FundPool tops up a pool's reward balance
func (k *Keeper) FundPool(ctx context.Context, caller string, poolID uint64, amount math.Uint) (*types.Pool, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	if err := k.requireAdmin(caller); err != nil {
		return nil, err
	}
	if amount.IsNil() || amount.IsZero() {
		return nil, types.ErrInvalidAmount.Wrap("funding amount must be positive")
	}
	pool, err := k.CreditRewardPool(sdkCtx, poolID, amount)
	if err != nil {
		return nil, err
	}

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeFundPool,
			sdk.NewAttribute(types.AttributeKeyPoolID, strconv.FormatUint(poolID, 10)),
			sdk.NewAttribute(types.AttributeKeyAmount, amount.String()),
			sdk.NewAttribute(types.AttributeKeyRewardBalance, pool.RewardPoolBalance.String()),
		),
	)

	k.logger.Info("Pool funded",
		"pool_id", poolID,
		"amount", amount.String(),
		"reward_balance", pool.RewardPoolBalance.String(),
	)
	return pool, nil
}
