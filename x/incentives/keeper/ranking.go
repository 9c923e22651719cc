package keeper

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/google/btree"

	"github.com/openalpha/lp-incentives/x/incentives/types"
)

const rankingDegree = 16

// healthItem orders pools by reported health. Pools never rebalanced sort
// below every reported pool; ties break on pool id.
type healthItem struct {
	health    uint64
	hasHealth bool
	pool      *types.Pool
}

// Less implements btree.Item, ascending by health
func (a *healthItem) Less(b btree.Item) bool {
	o := b.(*healthItem)
	if a.hasHealth != o.hasHealth {
		return !a.hasHealth
	}
	if a.health != o.health {
		return a.health < o.health
	}
	// Reverse id order so that Descend yields lower ids first on ties.
	return a.pool.PoolID > o.pool.PoolID
}

// PoolsByHealth ranks pools from healthiest to least healthy using the
// journaled pool-health metric
func (k *Keeper) PoolsByHealth(ctx sdk.Context, limit int) []types.PoolRanking {
	tree := btree.New(rankingDegree)
	for _, pool := range k.GetAllPools(ctx) {
		item := &healthItem{pool: pool}
		if m := k.GetMetric(ctx, pool.PoolID, types.MetricPoolHealth); m != nil {
			item.health = m.Value
			item.hasHealth = true
		}
		tree.ReplaceOrInsert(item)
	}

	ranking := []types.PoolRanking{}
	tree.Descend(func(i btree.Item) bool {
		if limit > 0 && len(ranking) >= limit {
			return false
		}
		item := i.(*healthItem)
		ranking = append(ranking, types.PoolRanking{
			Rank:           len(ranking) + 1,
			PoolID:         item.pool.PoolID,
			Health:         item.health,
			HasHealth:      item.hasHealth,
			TotalLiquidity: item.pool.TotalLiquidity,
		})
		return true
	})
	return ranking
}
