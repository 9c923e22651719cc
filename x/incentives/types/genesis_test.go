package types

import (
	"testing"

	"cosmossdk.io/math"
)

func validGenesis() *GenesisState {
	gs := NewGenesisState("oracle")
	gs.Height = 10
	gs.TotalPools = 1
	pool := NewPool(1, math.NewUint(1000), 0)
	pool.TotalLiquidity = math.NewUint(300)
	gs.Pools = []*Pool{pool}
	gs.Positions = []*Position{
		NewPosition("alice", 1, math.NewUint(100), 0),
		NewPosition("bob", 1, math.NewUint(200), 5),
	}
	gs.Metrics = []*MetricRecord{{PoolID: 1, Name: MetricPoolHealth, Value: 60}}
	gs.Weights = DefaultWeights()
	return gs
}

func TestGenesisValidate(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(gs *GenesisState)
		wantErr bool
	}{
		{"default", func(gs *GenesisState) { *gs = *DefaultGenesis() }, false},
		{"valid", func(gs *GenesisState) {}, false},
		{"duplicate pool", func(gs *GenesisState) {
			gs.Pools = append(gs.Pools, NewPool(1, math.NewUint(1), 0))
			gs.TotalPools = 2
		}, true},
		{"total pools too small", func(gs *GenesisState) { gs.TotalPools = 0 }, true},
		{"liquidity sum mismatch", func(gs *GenesisState) {
			gs.Pools[0].TotalLiquidity = math.NewUint(301)
		}, true},
		{"position for unknown pool", func(gs *GenesisState) {
			gs.Positions = append(gs.Positions, NewPosition("carol", 9, math.NewUint(1), 0))
		}, true},
		{"duplicate position", func(gs *GenesisState) {
			gs.Positions = append(gs.Positions, NewPosition("alice", 1, math.ZeroUint(), 0))
		}, true},
		{"score out of range", func(gs *GenesisState) { gs.Pools[0].AIRiskScore = 101 }, true},
		{"metric for unknown pool", func(gs *GenesisState) {
			gs.Metrics = append(gs.Metrics, &MetricRecord{PoolID: 3, Name: MetricDynamicRate})
		}, true},
		{"duplicate weight", func(gs *GenesisState) {
			gs.Weights = append(gs.Weights, Weight{Factor: WeightDepth, BasisPoints: 1})
		}, true},
		{"claim before entry", func(gs *GenesisState) { gs.Positions[1].LastClaimHeight = 1 }, true},
		{"negative height", func(gs *GenesisState) { gs.Height = -1 }, true},
		{"claim at genesis height", func(gs *GenesisState) { gs.Positions[1].LastClaimHeight = 10 }, false},
		{"claim after genesis height", func(gs *GenesisState) { gs.Positions[1].LastClaimHeight = 11 }, true},
		{"entry after genesis height", func(gs *GenesisState) {
			gs.Positions[1].EntryHeight = 11
			gs.Positions[1].LastClaimHeight = 11
		}, true},
		{"pool created after genesis height", func(gs *GenesisState) { gs.Pools[0].CreatedHeight = 12 }, true},
		{"metric after genesis height", func(gs *GenesisState) { gs.Metrics[0].LastUpdatedHeight = 20 }, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			gs := validGenesis()
			tc.mutate(gs)
			err := gs.Validate()
			if tc.wantErr && err == nil {
				t.Error("expected error, got nil")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
