package keeper

import (
	"cosmossdk.io/math"

	"github.com/openalpha/lp-incentives/x/incentives/types"
)

func (s *KeeperTestSuite) TestPendingRewardsBreakdown() {
	s.createPool(1, 10_000_000)
	_, err := s.keeper.UpdateScores(s.ctx, testOracle, 1, 20, 30)
	s.Require().NoError(err)
	s.deposit("alice", 1, 2_000_000)

	s.atHeight(72000)
	b, err := s.keeper.RewardBreakdown(s.ctx, "alice", 1)
	s.Require().NoError(err)
	s.Require().Equal(int64(72000), b.BlocksElapsed)
	s.Require().Equal(uint64(50), b.Loyalty)
	s.Require().Equal(uint64(200), b.Depth)
	s.Require().Equal(uint64(125), b.AIRisk)
	s.Require().Equal(uint64(125), b.Multiplier)
	s.Require().Equal("90000000", b.Pending.String())

	pending, err := s.keeper.PendingRewards(s.ctx, "alice", 1)
	s.Require().NoError(err)
	s.Require().True(pending.Equal(b.Pending))

	_, err = s.keeper.PendingRewards(s.ctx, "bob", 1)
	s.Require().ErrorIs(err, types.ErrNotFound)
	_, err = s.keeper.PendingRewards(s.ctx, "alice", 2)
	s.Require().ErrorIs(err, types.ErrNotFound)
}

func (s *KeeperTestSuite) TestClaimExceedingPoolBalance() {
	s.createPool(1, 10_000_000)
	_, err := s.keeper.UpdateScores(s.ctx, testOracle, 1, 20, 30)
	s.Require().NoError(err)
	s.deposit("alice", 1, 2_000_000)

	s.atHeight(72000)
	_, _, err = s.keeper.Claim(s.ctx, "alice", 1)
	s.Require().ErrorIs(err, types.ErrInsufficientBalance)

	pool := s.keeper.GetPool(s.ctx, 1)
	s.Require().Equal("10000000", pool.RewardPoolBalance.String())
	pos := s.keeper.GetPosition(s.ctx, 1, "alice")
	s.Require().Equal(int64(0), pos.LastClaimHeight)
	s.Require().True(pos.AccumulatedRewards.IsZero())
	s.Require().True(s.keeper.GetGlobalState(s.ctx).TotalRewardsDistributed.IsZero())
}

func (s *KeeperTestSuite) TestClaimIsIdempotentWithinHeight() {
	s.createPool(1, 1_000_000_000_000)
	s.deposit("alice", 1, 2_000_000)

	s.atHeight(100)
	paid, pos, err := s.keeper.Claim(s.ctx, "alice", 1)
	s.Require().NoError(err)
	s.Require().Equal("100000", paid.String())
	s.Require().Equal("100000", pos.AccumulatedRewards.String())
	s.Require().Equal(int64(100), pos.LastClaimHeight)
	s.Require().Equal(int64(0), pos.EntryHeight)
	s.Require().True(s.hasEvent(types.EventTypeClaim))

	paid, pos, err = s.keeper.Claim(s.ctx, "alice", 1)
	s.Require().NoError(err)
	s.Require().True(paid.IsZero())
	s.Require().Equal("100000", pos.AccumulatedRewards.String())

	pool := s.keeper.GetPool(s.ctx, 1)
	s.Require().Equal("999999900000", pool.RewardPoolBalance.String())
	s.Require().Equal("100000", s.keeper.GetGlobalState(s.ctx).TotalRewardsDistributed.String())

	s.atHeight(101)
	paid, pos, err = s.keeper.Claim(s.ctx, "alice", 1)
	s.Require().NoError(err)
	s.Require().Equal("1000", paid.String())
	s.Require().Equal("101000", pos.AccumulatedRewards.String())
	s.Require().Equal("101000", s.keeper.GetGlobalState(s.ctx).TotalRewardsDistributed.String())
}

func (s *KeeperTestSuite) TestClaimBelowLastClaimHeight() {
	s.createPool(1, 1_000_000_000)
	s.deposit("alice", 1, 2_000_000)

	s.atHeight(100)
	_, _, err := s.keeper.Claim(s.ctx, "alice", 1)
	s.Require().NoError(err)

	s.atHeight(50)
	_, _, err = s.keeper.Claim(s.ctx, "alice", 1)
	s.Require().ErrorIs(err, types.ErrInvalidParameters)
	_, err = s.keeper.RecordClaim(s.ctx, "alice", 1, math.ZeroUint())
	s.Require().ErrorIs(err, types.ErrInvalidParameters)

	pos := s.keeper.GetPosition(s.ctx, 1, "alice")
	s.Require().Equal(int64(100), pos.LastClaimHeight)
	s.Require().Equal("100000", pos.AccumulatedRewards.String())
	s.Require().Equal("999900000", s.keeper.GetPool(s.ctx, 1).RewardPoolBalance.String())
}

func (s *KeeperTestSuite) TestClaimPreconditions() {
	s.createPool(1, 1_000_000_000)
	s.createPool(2, 1_000_000_000)
	s.deposit("alice", 1, 2_000_000)
	s.deposit("alice", 2, 2_000_000)
	s.deposit("bob", 1, 999_999)
	_, err := s.keeper.SetPoolActive(s.ctx, testAdmin, 2, false)
	s.Require().NoError(err)
	s.atHeight(10)

	testCases := []struct {
		name        string
		participant string
		poolID      uint64
		wantErr     error
	}{
		{"unknown pool", "alice", 9, types.ErrNotFound},
		{"inactive pool", "alice", 2, types.ErrPoolInactive},
		{"no position", "carol", 1, types.ErrNotFound},
		{"below threshold", "bob", 1, types.ErrInvalidAmount},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			_, _, err := s.keeper.Claim(s.ctx, tc.participant, tc.poolID)
			s.Require().ErrorIs(err, tc.wantErr)
		})
	}

	s.Require().NoError(s.keeper.SetPaused(s.ctx, testAdmin, true))
	_, _, err = s.keeper.Claim(s.ctx, "alice", 1)
	s.Require().ErrorIs(err, types.ErrPoolInactive)

	s.Require().NoError(s.keeper.SetPaused(s.ctx, testAdmin, false))
	paid, _, err := s.keeper.Claim(s.ctx, "alice", 1)
	s.Require().NoError(err)
	s.Require().False(paid.IsZero())
}

func (s *KeeperTestSuite) TestClaimAtThresholdExactly() {
	s.createPool(1, 1_000_000_000)
	s.deposit("alice", 1, types.MinLiquidityThreshold.Uint64())

	s.atHeight(1)
	paid, _, err := s.keeper.Claim(s.ctx, "alice", 1)
	s.Require().NoError(err)
	s.Require().False(paid.IsZero())
}

func (s *KeeperTestSuite) TestFundPoolUnblocksClaim() {
	s.createPool(1, 10_000_000)
	_, err := s.keeper.UpdateScores(s.ctx, testOracle, 1, 20, 30)
	s.Require().NoError(err)
	s.deposit("alice", 1, 2_000_000)
	s.atHeight(72000)

	_, err = s.keeper.FundPool(s.ctx, "mallory", 1, math.NewUint(80_000_000))
	s.Require().ErrorIs(err, types.ErrOwnerOnly)
	_, err = s.keeper.FundPool(s.ctx, testAdmin, 1, math.ZeroUint())
	s.Require().ErrorIs(err, types.ErrInvalidAmount)
	_, err = s.keeper.FundPool(s.ctx, testAdmin, 5, math.NewUint(1))
	s.Require().ErrorIs(err, types.ErrNotFound)

	pool, err := s.keeper.FundPool(s.ctx, testAdmin, 1, math.NewUint(80_000_000))
	s.Require().NoError(err)
	s.Require().Equal("90000000", pool.RewardPoolBalance.String())

	paid, _, err := s.keeper.Claim(s.ctx, "alice", 1)
	s.Require().NoError(err)
	s.Require().Equal("90000000", paid.String())
	s.Require().True(s.keeper.GetPool(s.ctx, 1).RewardPoolBalance.IsZero())
}
