package keeper

import (
	"context"
	"strconv"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/lp-incentives/x/incentives/types"
)

// PendingRewards returns the reward a participant could claim at the
// context height
func (k *Keeper) PendingRewards(ctx context.Context, participant string, poolID uint64) (math.Uint, error) {
	b, err := k.RewardBreakdown(ctx, participant, poolID)
	if err != nil {
		return math.ZeroUint(), err
	}
	return b.Pending, nil
}

// RewardBreakdown returns pending rewards along with every multiplier input
func (k *Keeper) RewardBreakdown(ctx context.Context, participant string, poolID uint64) (*types.RewardBreakdown, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	pool, err := k.GetPoolOrErr(sdkCtx, poolID)
	if err != nil {
		return nil, err
	}
	pos, err := k.GetPositionOrErr(sdkCtx, poolID, participant)
	if err != nil {
		return nil, err
	}

	b := types.ComputeRewards(pool, pos, sdkCtx.BlockHeight())
	return &b, nil
}

// Claim pays a participant's pending rewards out of the pool reward balance.
// A second claim at the same height pays zero.
func (k *Keeper) Claim(ctx context.Context, participant string, poolID uint64) (math.Uint, *types.Position, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	if k.IsPaused(sdkCtx) {
		return math.ZeroUint(), nil, types.ErrPoolInactive.Wrap("ledger is paused")
	}
	pool, err := k.GetPoolOrErr(sdkCtx, poolID)
	if err != nil {
		return math.ZeroUint(), nil, err
	}
	if !pool.Active {
		return math.ZeroUint(), nil, types.ErrPoolInactive.Wrapf("pool %d", poolID)
	}
	pos, err := k.GetPositionOrErr(sdkCtx, poolID, participant)
	if err != nil {
		return math.ZeroUint(), nil, err
	}
	if sdkCtx.BlockHeight() < pos.LastClaimHeight {
		return math.ZeroUint(), nil, claimBeforeLastClaim(pos, sdkCtx.BlockHeight())
	}
	if !pos.MeetsClaimThreshold() {
		return math.ZeroUint(), nil, types.ErrInvalidAmount.Wrapf("liquidity %s below claim threshold %s",
			pos.LiquidityAmount, types.MinLiquidityThreshold)
	}

	amount := types.ComputeRewards(pool, pos, sdkCtx.BlockHeight()).Pending
	if amount.GT(pool.RewardPoolBalance) {
		return math.ZeroUint(), nil, types.ErrInsufficientBalance.Wrapf("pending %s exceeds pool %d balance %s",
			amount, poolID, pool.RewardPoolBalance)
	}

	// All preconditions hold; the writes below cannot fail.
	pool, err = k.DebitRewardPool(sdkCtx, poolID, amount)
	if err != nil {
		return math.ZeroUint(), nil, err
	}
	pos, err = k.RecordClaim(sdkCtx, participant, poolID, amount)
	if err != nil {
		return math.ZeroUint(), nil, err
	}
	gs := k.GetGlobalState(sdkCtx)
	gs.TotalRewardsDistributed = gs.TotalRewardsDistributed.Add(amount)
	k.SetGlobalState(sdkCtx, gs)

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeClaim,
			sdk.NewAttribute(types.AttributeKeyPoolID, strconv.FormatUint(poolID, 10)),
			sdk.NewAttribute(types.AttributeKeyParticipant, participant),
			sdk.NewAttribute(types.AttributeKeyAmount, amount.String()),
			sdk.NewAttribute(types.AttributeKeyRewardBalance, pool.RewardPoolBalance.String()),
		),
	)

	k.logger.Info("Rewards claimed",
		"pool_id", poolID,
		"participant", participant,
		"amount", amount.String(),
		"accumulated", pos.AccumulatedRewards.String(),
		"reward_balance", pool.RewardPoolBalance.String(),
	)

	return amount, pos, nil
}
