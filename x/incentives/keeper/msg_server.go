package keeper

import (
	"context"

	"github.com/openalpha/lp-incentives/x/incentives/types"
)

// MsgServer implements types.MsgServer on top of the keeper
type MsgServer struct {
	keeper *Keeper
}

var _ types.MsgServer = &MsgServer{}

// NewMsgServerImpl creates a new MsgServer instance
func NewMsgServerImpl(keeper *Keeper) *MsgServer {
	return &MsgServer{keeper: keeper}
}

// InitializeWeights handles MsgInitializeWeights
func (m *MsgServer) InitializeWeights(ctx context.Context, msg *types.MsgInitializeWeights) (*types.MsgInitializeWeightsResponse, error) {
	weights, err := m.keeper.InitializeWeights(ctx, msg.Authority)
	if err != nil {
		return nil, err
	}
	return &types.MsgInitializeWeightsResponse{Weights: weights}, nil
}

// CreatePool handles MsgCreatePool
func (m *MsgServer) CreatePool(ctx context.Context, msg *types.MsgCreatePool) (*types.MsgCreatePoolResponse, error) {
	balance, err := msg.GetInitialRewardBalance()
	if err != nil {
		return nil, err
	}
	pool, err := m.keeper.CreatePool(ctx, msg.Authority, msg.PoolID, balance)
	if err != nil {
		return nil, err
	}
	return &types.MsgCreatePoolResponse{Pool: pool}, nil
}

// AddLiquidity handles MsgAddLiquidity
func (m *MsgServer) AddLiquidity(ctx context.Context, msg *types.MsgAddLiquidity) (*types.MsgAddLiquidityResponse, error) {
	amount, err := msg.GetAmount()
	if err != nil {
		return nil, err
	}
	pos, pool, err := m.keeper.AddLiquidity(ctx, msg.Depositor, msg.PoolID, amount)
	if err != nil {
		return nil, err
	}
	return &types.MsgAddLiquidityResponse{Position: pos, TotalLiquidity: pool.TotalLiquidity}, nil
}

// UpdateScores handles MsgUpdateScores
func (m *MsgServer) UpdateScores(ctx context.Context, msg *types.MsgUpdateScores) (*types.MsgUpdateScoresResponse, error) {
	pool, err := m.keeper.UpdateScores(ctx, msg.Oracle, msg.PoolID, msg.RiskScore, msg.VolatilityIndex)
	if err != nil {
		return nil, err
	}
	return &types.MsgUpdateScoresResponse{Pool: pool}, nil
}

// ClaimRewards handles MsgClaimRewards
func (m *MsgServer) ClaimRewards(ctx context.Context, msg *types.MsgClaimRewards) (*types.MsgClaimRewardsResponse, error) {
	amount, pos, err := m.keeper.Claim(ctx, msg.Participant, msg.PoolID)
	if err != nil {
		return nil, err
	}
	return &types.MsgClaimRewardsResponse{Amount: amount, AccumulatedRewards: pos.AccumulatedRewards}, nil
}

// Rebalance handles MsgRebalance
func (m *MsgServer) Rebalance(ctx context.Context, msg *types.MsgRebalance) (*types.MsgRebalanceResponse, error) {
	res, err := m.keeper.Rebalance(ctx, msg.Oracle, msg.PoolID, msg.Inputs())
	if err != nil {
		return nil, err
	}
	return &types.MsgRebalanceResponse{Result: *res}, nil
}

// SetOracle handles MsgSetOracle
func (m *MsgServer) SetOracle(ctx context.Context, msg *types.MsgSetOracle) (*types.MsgSetOracleResponse, error) {
	previous, err := m.keeper.SetOracle(ctx, msg.Authority, msg.NewOracle)
	if err != nil {
		return nil, err
	}
	return &types.MsgSetOracleResponse{PreviousOracle: previous}, nil
}

// SetPaused handles MsgSetPaused
func (m *MsgServer) SetPaused(ctx context.Context, msg *types.MsgSetPaused) (*types.MsgSetPausedResponse, error) {
	if err := m.keeper.SetPaused(ctx, msg.Authority, msg.Paused); err != nil {
		return nil, err
	}
	return &types.MsgSetPausedResponse{}, nil
}

// SetPoolActive handles MsgSetPoolActive
func (m *MsgServer) SetPoolActive(ctx context.Context, msg *types.MsgSetPoolActive) (*types.MsgSetPoolActiveResponse, error) {
	pool, err := m.keeper.SetPoolActive(ctx, msg.Authority, msg.PoolID, msg.Active)
	if err != nil {
		return nil, err
	}
	return &types.MsgSetPoolActiveResponse{Pool: pool}, nil
}

// FundPool handles MsgFundPool
func (m *MsgServer) FundPool(ctx context.Context, msg *types.MsgFundPool) (*types.MsgFundPoolResponse, error) {
	amount, err := msg.GetAmount()
	if err != nil {
		return nil, err
	}
	pool, err := m.keeper.FundPool(ctx, msg.Authority, msg.PoolID, amount)
	if err != nil {
		return nil, err
	}
	return &types.MsgFundPoolResponse{Pool: pool}, nil
}
