package keeper

import (
	"context"
	"strconv"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/lp-incentives/x/incentives/types"
)

// Rebalance derives a pool's dynamic rate and health from oracle market
// signals. It journals the five inputs and outputs and, when the pool is
// unhealthy enough to be boosted, relieves its risk score. The rate is
// advisory and does not feed PendingRewards.
func (k *Keeper) Rebalance(ctx context.Context, caller string, poolID uint64, in types.RebalanceInputs) (*types.RebalanceResult, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	if err := k.requireOracle(sdkCtx, caller); err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	pool, err := k.GetPoolOrErr(sdkCtx, poolID)
	if err != nil {
		return nil, err
	}

	res := types.ComputeRebalance(pool, in)

	k.SetMetric(sdkCtx, poolID, types.MetricMarketSentiment, in.Sentiment)
	k.SetMetric(sdkCtx, poolID, types.MetricEfficiencyRatio, in.Efficiency)
	k.SetMetric(sdkCtx, poolID, types.MetricILFactor, in.ILFactor)
	k.SetMetric(sdkCtx, poolID, types.MetricPoolHealth, res.Health)
	k.SetMetric(sdkCtx, poolID, types.MetricDynamicRate, res.Rate)

	if res.Boosted {
		pool.AIRiskScore = types.RelievedRisk(pool.AIRiskScore)
		k.SetPool(sdkCtx, pool)
	}

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeRebalance,
			sdk.NewAttribute(types.AttributeKeyPoolID, strconv.FormatUint(poolID, 10)),
			sdk.NewAttribute(types.AttributeKeyRate, strconv.FormatUint(res.Rate, 10)),
			sdk.NewAttribute(types.AttributeKeyHealth, strconv.FormatUint(res.Health, 10)),
			sdk.NewAttribute(types.AttributeKeyBoosted, strconv.FormatBool(res.Boosted)),
			sdk.NewAttribute(types.AttributeKeyRiskScore, strconv.FormatUint(pool.AIRiskScore, 10)),
		),
	)

	k.logger.Info("Pool rebalanced",
		"pool_id", poolID,
		"rate", res.Rate,
		"health", res.Health,
		"boosted", res.Boosted,
	)

	return &res, nil
}
