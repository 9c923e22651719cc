package keeper

import (
	"context"
	"strconv"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/lp-incentives/x/incentives/types"
)

// GetOracle returns the identity allowed to report scores
func (k *Keeper) GetOracle(ctx sdk.Context) string {
	return k.GetGlobalState(ctx).Oracle
}

// requireOracle rejects callers other than the current oracle. An unset
// oracle rejects everyone.
func (k *Keeper) requireOracle(ctx sdk.Context, caller string) error {
	oracle := k.GetOracle(ctx)
	if oracle == "" || caller != oracle {
		return types.ErrUnauthorized.Wrapf("%s is not the oracle", caller)
	}
	return nil
}

// UpdateScores applies an oracle report of pool risk and volatility
func (k *Keeper) UpdateScores(ctx context.Context, caller string, poolID uint64, risk, volatility uint64) (*types.Pool, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	if err := k.requireOracle(sdkCtx, caller); err != nil {
		return nil, err
	}
	pool, err := k.SetScores(sdkCtx, poolID, risk, volatility)
	if err != nil {
		return nil, err
	}

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeUpdateScores,
			sdk.NewAttribute(types.AttributeKeyPoolID, strconv.FormatUint(poolID, 10)),
			sdk.NewAttribute(types.AttributeKeyRiskScore, strconv.FormatUint(risk, 10)),
			sdk.NewAttribute(types.AttributeKeyVolatilityIndex, strconv.FormatUint(volatility, 10)),
		),
	)

	k.logger.Info("Scores updated",
		"pool_id", poolID,
		"risk", risk,
		"volatility", volatility,
	)

	return pool, nil
}

// SetOracle hands the reporter role to a new identity
func (k *Keeper) SetOracle(ctx context.Context, caller, newOracle string) (string, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	if err := k.requireAdmin(caller); err != nil {
		return "", err
	}
	if newOracle == "" {
		return "", types.ErrInvalidParameters.Wrap("oracle identity cannot be empty")
	}

	gs := k.GetGlobalState(sdkCtx)
	previous := gs.Oracle
	gs.Oracle = newOracle
	k.SetGlobalState(sdkCtx, gs)

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeSetOracle,
			sdk.NewAttribute(types.AttributeKeyOracle, newOracle),
			sdk.NewAttribute(types.AttributeKeyPreviousOracle, previous),
		),
	)

	k.logger.Info("Oracle rotated", "previous", previous, "oracle", newOracle)
	return previous, nil
}
