package keeper

import (
	"github.com/openalpha/lp-incentives/x/incentives/types"
)

func (s *KeeperTestSuite) TestMsgServerFlow() {
	ms := NewMsgServerImpl(s.keeper)

	weights, err := ms.InitializeWeights(s.ctx, &types.MsgInitializeWeights{Authority: testAdmin})
	s.Require().NoError(err)
	s.Require().Len(weights.Weights, 3)

	created, err := ms.CreatePool(s.ctx, &types.MsgCreatePool{
		Authority:            testAdmin,
		PoolID:               1,
		InitialRewardBalance: "1000000000",
	})
	s.Require().NoError(err)
	s.Require().Equal(uint64(1), created.Pool.PoolID)

	added, err := ms.AddLiquidity(s.ctx, &types.MsgAddLiquidity{Depositor: "alice", PoolID: 1, Amount: "2000000"})
	s.Require().NoError(err)
	s.Require().Equal("2000000", added.TotalLiquidity.String())
	s.Require().Equal("2000000", added.Position.LiquidityAmount.String())

	scored, err := ms.UpdateScores(s.ctx, &types.MsgUpdateScores{Oracle: testOracle, PoolID: 1, RiskScore: 20, VolatilityIndex: 30})
	s.Require().NoError(err)
	s.Require().Equal(uint64(20), scored.Pool.AIRiskScore)

	s.atHeight(10)
	claimed, err := ms.ClaimRewards(s.ctx, &types.MsgClaimRewards{Participant: "alice", PoolID: 1})
	s.Require().NoError(err)
	// loyalty 0, depth 200, ai-risk 125 -> multiplier 108
	s.Require().Equal("10800", claimed.Amount.String())
	s.Require().Equal("10800", claimed.AccumulatedRewards.String())

	rebalanced, err := ms.Rebalance(s.ctx, &types.MsgRebalance{Oracle: testOracle, PoolID: 1, Sentiment: 70, Efficiency: 80, ILFactor: 20})
	s.Require().NoError(err)
	s.Require().Equal(uint64(1), rebalanced.Result.PoolID)

	rotated, err := ms.SetOracle(s.ctx, &types.MsgSetOracle{Authority: testAdmin, NewOracle: "oracle-2"})
	s.Require().NoError(err)
	s.Require().Equal(testOracle, rotated.PreviousOracle)

	funded, err := ms.FundPool(s.ctx, &types.MsgFundPool{Authority: testAdmin, PoolID: 1, Amount: "10800"})
	s.Require().NoError(err)
	s.Require().Equal("1000000000", funded.Pool.RewardPoolBalance.String())

	deactivated, err := ms.SetPoolActive(s.ctx, &types.MsgSetPoolActive{Authority: testAdmin, PoolID: 1, Active: false})
	s.Require().NoError(err)
	s.Require().False(deactivated.Pool.Active)

	_, err = ms.SetPaused(s.ctx, &types.MsgSetPaused{Authority: testAdmin, Paused: true})
	s.Require().NoError(err)
	s.Require().True(s.keeper.IsPaused(s.ctx))
}

func (s *KeeperTestSuite) TestMsgServerRejectsMalformedAmounts() {
	ms := NewMsgServerImpl(s.keeper)

	_, err := ms.CreatePool(s.ctx, &types.MsgCreatePool{Authority: testAdmin, PoolID: 1, InitialRewardBalance: "-5"})
	s.Require().ErrorIs(err, types.ErrInvalidAmount)
	_, err = ms.AddLiquidity(s.ctx, &types.MsgAddLiquidity{Depositor: "alice", PoolID: 1, Amount: "lots"})
	s.Require().ErrorIs(err, types.ErrInvalidAmount)
	_, err = ms.FundPool(s.ctx, &types.MsgFundPool{Authority: testAdmin, PoolID: 1, Amount: ""})
	s.Require().ErrorIs(err, types.ErrInvalidAmount)
	s.Require().Empty(s.keeper.GetAllPools(s.ctx))
}
