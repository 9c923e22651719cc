package keeper

import (
	"context"
	"strconv"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/lp-incentives/x/incentives/types"
)

// AddLiquidity deposits amount into a pool on behalf of the depositor
func (k *Keeper) AddLiquidity(ctx context.Context, depositor string, poolID uint64, amount math.Uint) (*types.Position, *types.Pool, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	if amount.IsNil() || amount.IsZero() {
		return nil, nil, types.ErrInvalidAmount.Wrap("liquidity amount must be positive")
	}
	if k.IsPaused(sdkCtx) {
		return nil, nil, types.ErrPoolInactive.Wrap("ledger is paused")
	}
	pool, err := k.GetPoolOrErr(sdkCtx, poolID)
	if err != nil {
		return nil, nil, err
	}
	if !pool.Active {
		return nil, nil, types.ErrPoolInactive.Wrapf("pool %d", poolID)
	}

	pos := k.UpsertPosition(sdkCtx, depositor, poolID, amount)
	pool, err = k.AdjustLiquidity(sdkCtx, poolID, amount)
	if err != nil {
		return nil, nil, err
	}

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeAddLiquidity,
			sdk.NewAttribute(types.AttributeKeyPoolID, strconv.FormatUint(poolID, 10)),
			sdk.NewAttribute(types.AttributeKeyParticipant, depositor),
			sdk.NewAttribute(types.AttributeKeyAmount, amount.String()),
			sdk.NewAttribute(types.AttributeKeyTotalLiquidity, pool.TotalLiquidity.String()),
		),
	)

	k.logger.Info("Liquidity added",
		"pool_id", poolID,
		"participant", depositor,
		"amount", amount.String(),
		"position", pos.LiquidityAmount.String(),
		"total_liquidity", pool.TotalLiquidity.String(),
	)

	return pos, pool, nil
}

// UpsertPosition creates a position at the current height or tops up an
// existing one. The entry height never resets.
func (k *Keeper) UpsertPosition(ctx sdk.Context, participant string, poolID uint64, amount math.Uint) *types.Position {
	height := ctx.BlockHeight()

	pos := k.GetPosition(ctx, poolID, participant)
	if pos == nil {
		pos = types.NewPosition(participant, poolID, amount, height)
	} else {
		pos.LiquidityAmount = pos.LiquidityAmount.Add(amount)
		pos.LoyaltyScore = types.Loyalty(pos.EntryHeight, height)
	}
	k.SetPosition(ctx, pos)
	return pos
}

// RecordClaim stamps a claim of paid on an existing position. The last
// claim height never moves backwards.
func (k *Keeper) RecordClaim(ctx sdk.Context, participant string, poolID uint64, paid math.Uint) (*types.Position, error) {
	pos := k.GetPosition(ctx, poolID, participant)
	if pos == nil {
		return nil, types.ErrNotFound.Wrapf("position of %s in pool %d", participant, poolID)
	}

	height := ctx.BlockHeight()
	if height < pos.LastClaimHeight {
		return nil, claimBeforeLastClaim(pos, height)
	}
	pos.LastClaimHeight = height
	pos.AccumulatedRewards = pos.AccumulatedRewards.Add(paid)
	pos.LoyaltyScore = types.Loyalty(pos.EntryHeight, height)
	k.SetPosition(ctx, pos)
	return pos, nil
}

// GetPositionOrErr returns a position or ErrNotFound
func (k *Keeper) GetPositionOrErr(ctx sdk.Context, poolID uint64, participant string) (*types.Position, error) {
	pos := k.GetPosition(ctx, poolID, participant)
	if pos == nil {
		return nil, types.ErrNotFound.Wrapf("position of %s in pool %d", participant, poolID)
	}
	return pos, nil
}

func claimBeforeLastClaim(pos *types.Position, height int64) error {
	return types.ErrInvalidParameters.Wrapf("claim at height %d precedes last claim of %s in pool %d at %d",
		height, pos.Participant, pos.PoolID, pos.LastClaimHeight)
}
