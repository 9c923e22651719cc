package keeper

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/lp-incentives/x/incentives/types"
)

// QueryServer serves read-only ledger queries
type QueryServer struct {
	keeper *Keeper
}

// NewQueryServerImpl creates a new QueryServer instance
func NewQueryServerImpl(keeper *Keeper) *QueryServer {
	return &QueryServer{keeper: keeper}
}

// StateResponse is the global state at a height
type StateResponse struct {
	Height    int64              `json:"height"`
	Admin     string             `json:"admin"`
	State     *types.GlobalState `json:"state"`
	PoolCount int                `json:"pool_count"`
}

// Pool returns a pool by ID
func (q *QueryServer) Pool(ctx context.Context, poolID uint64) (*types.Pool, error) {
	return q.keeper.GetPoolOrErr(sdk.UnwrapSDKContext(ctx), poolID)
}

// Pools returns a page of pools in id order
func (q *QueryServer) Pools(ctx context.Context, offset, limit uint64) ([]*types.Pool, uint64, error) {
	allPools := q.keeper.GetAllPools(sdk.UnwrapSDKContext(ctx))
	page, total := paginate(allPools, offset, limit)
	return page, total, nil
}

// Position returns one participant's position in a pool
func (q *QueryServer) Position(ctx context.Context, poolID uint64, participant string) (*types.Position, error) {
	return q.keeper.GetPositionOrErr(sdk.UnwrapSDKContext(ctx), poolID, participant)
}

// PoolPositions returns a page of the positions in a pool
func (q *QueryServer) PoolPositions(ctx context.Context, poolID uint64, offset, limit uint64) ([]*types.Position, uint64, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	if _, err := q.keeper.GetPoolOrErr(sdkCtx, poolID); err != nil {
		return nil, 0, err
	}
	page, total := paginate(q.keeper.GetPoolPositions(sdkCtx, poolID), offset, limit)
	return page, total, nil
}

// PendingRewards returns the claimable amount with its multiplier inputs
func (q *QueryServer) PendingRewards(ctx context.Context, poolID uint64, participant string) (*types.RewardBreakdown, error) {
	return q.keeper.RewardBreakdown(ctx, participant, poolID)
}

// PoolMetrics returns the journaled metrics of a pool
func (q *QueryServer) PoolMetrics(ctx context.Context, poolID uint64) ([]*types.MetricRecord, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	if _, err := q.keeper.GetPoolOrErr(sdkCtx, poolID); err != nil {
		return nil, err
	}
	return q.keeper.GetPoolMetrics(sdkCtx, poolID), nil
}

// State returns the global counters
func (q *QueryServer) State(ctx context.Context) (*StateResponse, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	return &StateResponse{
		Height:    sdkCtx.BlockHeight(),
		Admin:     q.keeper.GetAuthority(),
		State:     q.keeper.GetGlobalState(sdkCtx),
		PoolCount: len(q.keeper.GetAllPools(sdkCtx)),
	}, nil
}

// Weights returns the weight table
func (q *QueryServer) Weights(ctx context.Context) ([]types.Weight, error) {
	return q.keeper.GetWeights(sdk.UnwrapSDKContext(ctx)), nil
}

// Leaderboard returns a pool's top earners
func (q *QueryServer) Leaderboard(ctx context.Context, poolID uint64, limit int) ([]types.LeaderboardEntry, error) {
	return q.keeper.TopEarners(sdk.UnwrapSDKContext(ctx), poolID, limit)
}

// Ranking returns pools ordered by health
func (q *QueryServer) Ranking(ctx context.Context, limit int) ([]types.PoolRanking, error) {
	return q.keeper.PoolsByHealth(sdk.UnwrapSDKContext(ctx), limit), nil
}

func paginate[T any](items []T, offset, limit uint64) ([]T, uint64) {
	total := uint64(len(items))
	if offset >= total {
		return []T{}, total
	}
	end := offset + limit
	if end > total || limit == 0 {
		end = total
	}
	return items[offset:end], total
}
