package keeper

import (
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/lp-incentives/x/incentives/types"
)

// InitGenesis loads a validated genesis state into the store
func (k *Keeper) InitGenesis(ctx sdk.Context, gs *types.GenesisState) error {
	if err := gs.Validate(); err != nil {
		return err
	}

	k.SetGlobalState(ctx, &types.GlobalState{
		TotalPools:              gs.TotalPools,
		TotalRewardsDistributed: gs.TotalRewardsDistributed,
		Oracle:                  gs.Oracle,
		Paused:                  gs.Paused,
	})
	for _, pool := range gs.Pools {
		k.SetPool(ctx, pool)
	}
	for _, pos := range gs.Positions {
		k.SetPosition(ctx, pos)
	}
	for _, m := range gs.Metrics {
		k.setMetricRecord(ctx, m)
	}
	for _, w := range gs.Weights {
		k.SetWeight(ctx, w)
	}

	k.logger.Info("Genesis loaded",
		"pools", len(gs.Pools),
		"positions", len(gs.Positions),
		"oracle", gs.Oracle,
		"height", gs.Height,
	)
	return nil
}

// ExportGenesis dumps the store as a genesis state at the context height
func (k *Keeper) ExportGenesis(ctx sdk.Context) *types.GenesisState {
	global := k.GetGlobalState(ctx)

	gs := types.NewGenesisState(global.Oracle)
	gs.Height = ctx.BlockHeight()
	gs.Paused = global.Paused
	gs.TotalPools = global.TotalPools
	gs.TotalRewardsDistributed = global.TotalRewardsDistributed
	gs.Metrics = k.GetAllMetrics(ctx)
	gs.Weights = k.GetWeights(ctx)
	if pools := k.GetAllPools(ctx); pools != nil {
		gs.Pools = pools
	}
	if positions := k.GetAllPositions(ctx); positions != nil {
		gs.Positions = positions
	}
	return gs
}
