package types

import (
	"fmt"

	"cosmossdk.io/math"
)

// GenesisState is the full exported ledger
type GenesisState struct {
	// Height is the last committed height of the exported ledger
	Height                  int64           `json:"height"`
	Oracle                  string          `json:"oracle"`
	Paused                  bool            `json:"paused"`
	TotalPools              uint64          `json:"total_pools"`
	TotalRewardsDistributed math.Uint       `json:"total_rewards_distributed"`
	Pools                   []*Pool         `json:"pools"`
	Positions               []*Position     `json:"positions"`
	Metrics                 []*MetricRecord `json:"metrics"`
	Weights                 []Weight        `json:"weights"`
}

// DefaultGenesis returns an empty ledger with no oracle assigned
func DefaultGenesis() *GenesisState {
	return NewGenesisState("")
}

// NewGenesisState returns an empty ledger reporting to the given oracle
func NewGenesisState(oracle string) *GenesisState {
	return &GenesisState{
		Oracle:                  oracle,
		TotalRewardsDistributed: math.ZeroUint(),
		Pools:                   []*Pool{},
		Positions:               []*Position{},
		Metrics:                 []*MetricRecord{},
		Weights:                 []Weight{},
	}
}

// Validate checks referential integrity and the liquidity sum of every pool
func (gs GenesisState) Validate() error {
	if gs.TotalRewardsDistributed.IsNil() {
		return fmt.Errorf("total rewards distributed is nil")
	}
	if gs.Height < 0 {
		return fmt.Errorf("negative genesis height %d", gs.Height)
	}

	pools := make(map[uint64]*Pool, len(gs.Pools))
	for _, pool := range gs.Pools {
		if _, dup := pools[pool.PoolID]; dup {
			return fmt.Errorf("duplicate pool %d", pool.PoolID)
		}
		if err := pool.Validate(); err != nil {
			return err
		}
		if pool.CreatedHeight > gs.Height {
			return fmt.Errorf("pool %d created at %d after genesis height %d", pool.PoolID, pool.CreatedHeight, gs.Height)
		}
		pools[pool.PoolID] = pool
	}
	if gs.TotalPools < uint64(len(gs.Pools)) {
		return fmt.Errorf("total pools %d below %d pool records", gs.TotalPools, len(gs.Pools))
	}

	sums := make(map[uint64]math.Uint, len(pools))
	seen := make(map[string]bool, len(gs.Positions))
	for _, pos := range gs.Positions {
		if _, ok := pools[pos.PoolID]; !ok {
			return fmt.Errorf("position of %s references unknown pool %d", pos.Participant, pos.PoolID)
		}
		key := fmt.Sprintf("%d/%s", pos.PoolID, pos.Participant)
		if seen[key] {
			return fmt.Errorf("duplicate position %s", key)
		}
		seen[key] = true
		if pos.LiquidityAmount.IsNil() || pos.AccumulatedRewards.IsNil() {
			return fmt.Errorf("position %s: nil amount", key)
		}
		if pos.LoyaltyScore > MaxScore {
			return fmt.Errorf("position %s: loyalty out of range", key)
		}
		if pos.LastClaimHeight < pos.EntryHeight {
			return fmt.Errorf("position %s: last claim before entry", key)
		}
		if pos.LastClaimHeight > gs.Height {
			return fmt.Errorf("position %s: last claim at %d after genesis height %d", key, pos.LastClaimHeight, gs.Height)
		}
		sum, ok := sums[pos.PoolID]
		if !ok {
			sum = math.ZeroUint()
		}
		sums[pos.PoolID] = sum.Add(pos.LiquidityAmount)
	}
	for id, pool := range pools {
		sum, ok := sums[id]
		if !ok {
			sum = math.ZeroUint()
		}
		if !sum.Equal(pool.TotalLiquidity) {
			return fmt.Errorf("pool %d: total liquidity %s != sum of positions %s", id, pool.TotalLiquidity, sum)
		}
	}

	metrics := make(map[string]bool, len(gs.Metrics))
	for _, m := range gs.Metrics {
		if _, ok := pools[m.PoolID]; !ok {
			return fmt.Errorf("metric %s references unknown pool %d", m.Name, m.PoolID)
		}
		key := fmt.Sprintf("%d/%s", m.PoolID, m.Name)
		if metrics[key] {
			return fmt.Errorf("duplicate metric %s", key)
		}
		if m.LastUpdatedHeight > gs.Height {
			return fmt.Errorf("metric %s updated at %d after genesis height %d", key, m.LastUpdatedHeight, gs.Height)
		}
		metrics[key] = true
	}

	factors := make(map[string]bool, len(gs.Weights))
	for _, w := range gs.Weights {
		if w.Factor == "" || factors[w.Factor] {
			return fmt.Errorf("invalid or duplicate weight factor %q", w.Factor)
		}
		factors[w.Factor] = true
	}
	return nil
}
