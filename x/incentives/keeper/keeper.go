package keeper

import (
	"encoding/json"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	"github.com/cosmos/cosmos-sdk/codec"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/lp-incentives/x/incentives/types"
)

// Store key prefixes
var (
	PoolKeyPrefix     = []byte{0x01}
	PositionKeyPrefix = []byte{0x02}
	MetricKeyPrefix   = []byte{0x03}
	GlobalStateKey    = []byte{0x04}
	WeightKeyPrefix   = []byte{0x05}
)

// Keeper manages the incentives ledger state
type Keeper struct {
	cdc       codec.BinaryCodec
	storeKey  storetypes.StoreKey
	logger    log.Logger
	authority string
}

// NewKeeper creates a new incentives keeper. The authority is the
// administrator identity allowed to create and configure pools.
func NewKeeper(
	cdc codec.BinaryCodec,
	storeKey storetypes.StoreKey,
	authority string,
	logger log.Logger,
) *Keeper {
	return &Keeper{
		cdc:       cdc,
		storeKey:  storeKey,
		authority: authority,
		logger:    logger.With("module", "x/"+types.ModuleName),
	}
}

// Logger returns the module logger
func (k *Keeper) Logger() log.Logger {
	return k.logger
}

// GetAuthority returns the administrator identity
func (k *Keeper) GetAuthority() string {
	return k.authority
}

// GetStore returns the KVStore
func (k *Keeper) GetStore(ctx sdk.Context) storetypes.KVStore {
	return ctx.KVStore(k.storeKey)
}

func concat(parts ...[]byte) []byte {
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	out := make([]byte, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func poolKey(poolID uint64) []byte {
	return concat(PoolKeyPrefix, sdk.Uint64ToBigEndian(poolID))
}

func poolPositionsPrefix(poolID uint64) []byte {
	return concat(PositionKeyPrefix, sdk.Uint64ToBigEndian(poolID))
}

func positionKey(poolID uint64, participant string) []byte {
	return concat(poolPositionsPrefix(poolID), []byte(participant))
}

func poolMetricsPrefix(poolID uint64) []byte {
	return concat(MetricKeyPrefix, sdk.Uint64ToBigEndian(poolID))
}

func metricKey(poolID uint64, name string) []byte {
	return concat(poolMetricsPrefix(poolID), []byte(name))
}

func weightKey(factor string) []byte {
	return concat(WeightKeyPrefix, []byte(factor))
}

// ============ Pool Records ============

// SetPool saves a pool to the store
func (k *Keeper) SetPool(ctx sdk.Context, pool *types.Pool) {
	bz, _ := json.Marshal(pool)
	k.GetStore(ctx).Set(poolKey(pool.PoolID), bz)
}

// GetPool retrieves a pool, nil when absent
func (k *Keeper) GetPool(ctx sdk.Context, poolID uint64) *types.Pool {
	bz := k.GetStore(ctx).Get(poolKey(poolID))
	if bz == nil {
		return nil
	}
	var pool types.Pool
	if err := json.Unmarshal(bz, &pool); err != nil {
		return nil
	}
	return &pool
}

// HasPool reports whether a pool id is taken
func (k *Keeper) HasPool(ctx sdk.Context, poolID uint64) bool {
	return k.GetStore(ctx).Has(poolKey(poolID))
}

// GetAllPools returns every pool in ascending id order
func (k *Keeper) GetAllPools(ctx sdk.Context) []*types.Pool {
	iterator := storetypes.KVStorePrefixIterator(k.GetStore(ctx), PoolKeyPrefix)
	defer iterator.Close()

	var pools []*types.Pool
	for ; iterator.Valid(); iterator.Next() {
		var pool types.Pool
		if err := json.Unmarshal(iterator.Value(), &pool); err != nil {
			continue
		}
		pools = append(pools, &pool)
	}
	return pools
}

// ============ Position Records ============

// SetPosition saves a position to the store
func (k *Keeper) SetPosition(ctx sdk.Context, pos *types.Position) {
	bz, _ := json.Marshal(pos)
	k.GetStore(ctx).Set(positionKey(pos.PoolID, pos.Participant), bz)
}

// GetPosition retrieves a position, nil when absent
func (k *Keeper) GetPosition(ctx sdk.Context, poolID uint64, participant string) *types.Position {
	bz := k.GetStore(ctx).Get(positionKey(poolID, participant))
	if bz == nil {
		return nil
	}
	var pos types.Position
	if err := json.Unmarshal(bz, &pos); err != nil {
		return nil
	}
	return &pos
}

// GetPoolPositions returns all positions in a pool ordered by participant
func (k *Keeper) GetPoolPositions(ctx sdk.Context, poolID uint64) []*types.Position {
	return k.iteratePositions(ctx, poolPositionsPrefix(poolID))
}

// GetAllPositions returns every position
func (k *Keeper) GetAllPositions(ctx sdk.Context) []*types.Position {
	return k.iteratePositions(ctx, PositionKeyPrefix)
}

func (k *Keeper) iteratePositions(ctx sdk.Context, prefix []byte) []*types.Position {
	iterator := storetypes.KVStorePrefixIterator(k.GetStore(ctx), prefix)
	defer iterator.Close()

	var positions []*types.Position
	for ; iterator.Valid(); iterator.Next() {
		var pos types.Position
		if err := json.Unmarshal(iterator.Value(), &pos); err != nil {
			continue
		}
		positions = append(positions, &pos)
	}
	return positions
}

// ============ Global State ============

// GetGlobalState returns the ledger-wide counters
func (k *Keeper) GetGlobalState(ctx sdk.Context) *types.GlobalState {
	bz := k.GetStore(ctx).Get(GlobalStateKey)
	if bz == nil {
		return types.DefaultGlobalState("")
	}
	var gs types.GlobalState
	if err := json.Unmarshal(bz, &gs); err != nil {
		return types.DefaultGlobalState("")
	}
	if gs.TotalRewardsDistributed.IsNil() {
		gs.TotalRewardsDistributed = math.ZeroUint()
	}
	return &gs
}

// SetGlobalState saves the ledger-wide counters
func (k *Keeper) SetGlobalState(ctx sdk.Context, gs *types.GlobalState) {
	bz, _ := json.Marshal(gs)
	k.GetStore(ctx).Set(GlobalStateKey, bz)
}

// ============ Weight Table ============

// SetWeight saves a weight table entry
func (k *Keeper) SetWeight(ctx sdk.Context, w types.Weight) {
	bz, _ := json.Marshal(w)
	k.GetStore(ctx).Set(weightKey(w.Factor), bz)
}

// GetWeight returns a weight by factor name
func (k *Keeper) GetWeight(ctx sdk.Context, factor string) (types.Weight, bool) {
	bz := k.GetStore(ctx).Get(weightKey(factor))
	if bz == nil {
		return types.Weight{}, false
	}
	var w types.Weight
	if err := json.Unmarshal(bz, &w); err != nil {
		return types.Weight{}, false
	}
	return w, true
}

// GetWeights returns the whole weight table ordered by factor
func (k *Keeper) GetWeights(ctx sdk.Context) []types.Weight {
	iterator := storetypes.KVStorePrefixIterator(k.GetStore(ctx), WeightKeyPrefix)
	defer iterator.Close()

	weights := []types.Weight{}
	for ; iterator.Valid(); iterator.Next() {
		var w types.Weight
		if err := json.Unmarshal(iterator.Value(), &w); err != nil {
			continue
		}
		weights = append(weights, w)
	}
	return weights
}
