package keeper

import (
	"encoding/json"

	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/lp-incentives/x/incentives/types"
)

// The metrics journal keeps the latest value of each named metric per pool.
// Writes overwrite; there is no history.

// SetMetric overwrites a pool metric at the current height
func (k *Keeper) SetMetric(ctx sdk.Context, poolID uint64, name string, value uint64) *types.MetricRecord {
	record := &types.MetricRecord{
		PoolID:            poolID,
		Name:              name,
		Value:             value,
		LastUpdatedHeight: ctx.BlockHeight(),
	}
	k.setMetricRecord(ctx, record)
	return record
}

func (k *Keeper) setMetricRecord(ctx sdk.Context, record *types.MetricRecord) {
	bz, _ := json.Marshal(record)
	k.GetStore(ctx).Set(metricKey(record.PoolID, record.Name), bz)
}

// GetMetric returns a pool metric, nil when never written
func (k *Keeper) GetMetric(ctx sdk.Context, poolID uint64, name string) *types.MetricRecord {
	bz := k.GetStore(ctx).Get(metricKey(poolID, name))
	if bz == nil {
		return nil
	}
	var record types.MetricRecord
	if err := json.Unmarshal(bz, &record); err != nil {
		return nil
	}
	return &record
}

// GetPoolMetrics returns all metrics of a pool ordered by name
func (k *Keeper) GetPoolMetrics(ctx sdk.Context, poolID uint64) []*types.MetricRecord {
	return k.iterateMetrics(ctx, poolMetricsPrefix(poolID))
}

// GetAllMetrics returns every metric record
func (k *Keeper) GetAllMetrics(ctx sdk.Context) []*types.MetricRecord {
	return k.iterateMetrics(ctx, MetricKeyPrefix)
}

func (k *Keeper) iterateMetrics(ctx sdk.Context, prefix []byte) []*types.MetricRecord {
	iterator := storetypes.KVStorePrefixIterator(k.GetStore(ctx), prefix)
	defer iterator.Close()

	records := []*types.MetricRecord{}
	for ; iterator.Valid(); iterator.Next() {
		var record types.MetricRecord
		if err := json.Unmarshal(iterator.Value(), &record); err != nil {
			continue
		}
		records = append(records, &record)
	}
	return records
}
