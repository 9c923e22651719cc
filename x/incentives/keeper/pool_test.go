package keeper

import (
	"cosmossdk.io/math"

	"github.com/openalpha/lp-incentives/x/incentives/types"
)

func (s *KeeperTestSuite) TestCreatePool() {
	s.atHeight(12)
	pool := s.createPool(1, 10_000_000)

	s.Require().Equal(uint64(1), pool.PoolID)
	s.Require().True(pool.Active)
	s.Require().True(pool.TotalLiquidity.IsZero())
	s.Require().Equal("10000000", pool.RewardPoolBalance.String())
	s.Require().Equal(int64(12), pool.CreatedHeight)
	s.Require().Equal(uint64(50), pool.AIRiskScore)
	s.Require().Equal(uint64(50), pool.VolatilityIndex)
	s.Require().Equal(uint64(1), s.keeper.GetGlobalState(s.ctx).TotalPools)
	s.Require().True(s.hasEvent(types.EventTypeCreatePool))

	s.createPool(7, 1)
	s.Require().Equal(uint64(2), s.keeper.GetGlobalState(s.ctx).TotalPools)
}

func (s *KeeperTestSuite) TestCreatePoolErrors() {
	s.createPool(1, 100)

	testCases := []struct {
		name    string
		caller  string
		poolID  uint64
		balance math.Uint
		wantErr error
	}{
		{"not admin", "mallory", 2, math.NewUint(100), types.ErrOwnerOnly},
		{"oracle is not admin", testOracle, 2, math.NewUint(100), types.ErrOwnerOnly},
		{"duplicate id", testAdmin, 1, math.NewUint(100), types.ErrDuplicateEntity},
		{"zero balance", testAdmin, 2, math.ZeroUint(), types.ErrInvalidAmount},
		{"owner check precedes duplicate check", "mallory", 1, math.NewUint(1), types.ErrOwnerOnly},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			_, err := s.keeper.CreatePool(s.ctx, tc.caller, tc.poolID, tc.balance)
			s.Require().ErrorIs(err, tc.wantErr)
		})
	}
	s.Require().Equal(uint64(1), s.keeper.GetGlobalState(s.ctx).TotalPools)
	s.Require().Nil(s.keeper.GetPool(s.ctx, 2))
}

func (s *KeeperTestSuite) TestRegistryOperations() {
	s.createPool(1, 500)

	_, err := s.keeper.GetPoolOrErr(s.ctx, 99)
	s.Require().ErrorIs(err, types.ErrNotFound)

	_, err = s.keeper.SetScores(s.ctx, 1, 101, 0)
	s.Require().ErrorIs(err, types.ErrInvalidParameters)
	_, err = s.keeper.SetScores(s.ctx, 99, 10, 10)
	s.Require().ErrorIs(err, types.ErrNotFound)

	pool, err := s.keeper.SetScores(s.ctx, 1, 10, 90)
	s.Require().NoError(err)
	s.Require().Equal(uint64(10), pool.AIRiskScore)
	s.Require().Equal(uint64(90), pool.VolatilityIndex)
	s.Require().Equal("500", pool.RewardPoolBalance.String())

	pool, err = s.keeper.AdjustLiquidity(s.ctx, 1, math.NewUint(25))
	s.Require().NoError(err)
	s.Require().Equal("25", pool.TotalLiquidity.String())

	_, err = s.keeper.DebitRewardPool(s.ctx, 1, math.NewUint(501))
	s.Require().ErrorIs(err, types.ErrInsufficientBalance)
	pool, err = s.keeper.DebitRewardPool(s.ctx, 1, math.NewUint(500))
	s.Require().NoError(err)
	s.Require().True(pool.RewardPoolBalance.IsZero())

	pool, err = s.keeper.CreditRewardPool(s.ctx, 1, math.NewUint(3))
	s.Require().NoError(err)
	s.Require().Equal("3", pool.RewardPoolBalance.String())
}

func (s *KeeperTestSuite) TestAddLiquidityErrors() {
	s.createPool(1, 100)
	s.createPool(2, 100)
	_, err := s.keeper.SetPoolActive(s.ctx, testAdmin, 2, false)
	s.Require().NoError(err)

	_, _, err = s.keeper.AddLiquidity(s.ctx, "alice", 1, math.ZeroUint())
	s.Require().ErrorIs(err, types.ErrInvalidAmount)

	_, _, err = s.keeper.AddLiquidity(s.ctx, "alice", 9, math.NewUint(10))
	s.Require().ErrorIs(err, types.ErrNotFound)

	_, _, err = s.keeper.AddLiquidity(s.ctx, "alice", 2, math.NewUint(10))
	s.Require().ErrorIs(err, types.ErrPoolInactive)

	s.Require().NoError(s.keeper.SetPaused(s.ctx, testAdmin, true))
	_, _, err = s.keeper.AddLiquidity(s.ctx, "alice", 1, math.NewUint(10))
	s.Require().ErrorIs(err, types.ErrPoolInactive)

	s.Require().Nil(s.keeper.GetPosition(s.ctx, 1, "alice"))
	s.Require().True(s.keeper.GetPool(s.ctx, 1).TotalLiquidity.IsZero())
}

func (s *KeeperTestSuite) TestAddLiquidityTopUpKeepsEntryHeight() {
	s.createPool(1, 100)

	s.atHeight(10)
	pos := s.deposit("alice", 1, 1_000)
	s.Require().Equal(int64(10), pos.EntryHeight)
	s.Require().Equal(int64(10), pos.LastClaimHeight)
	s.Require().Equal(uint64(0), pos.LoyaltyScore)
	s.Require().True(pos.AccumulatedRewards.IsZero())
	s.Require().True(s.hasEvent(types.EventTypeAddLiquidity))

	s.atHeight(10 + 72000)
	pos = s.deposit("alice", 1, 500)
	s.Require().Equal(int64(10), pos.EntryHeight)
	s.Require().Equal(int64(10), pos.LastClaimHeight)
	s.Require().Equal("1500", pos.LiquidityAmount.String())
	s.Require().Equal(uint64(50), pos.LoyaltyScore)
}

func (s *KeeperTestSuite) TestTotalLiquidityEqualsSumOfPositions() {
	s.createPool(1, 100)
	s.createPool(2, 100)

	deposits := []struct {
		who    string
		pool   uint64
		amount uint64
	}{
		{"alice", 1, 3_000_000},
		{"bob", 1, 1_000_000},
		{"alice", 2, 42},
		{"carol", 1, 7},
		{"bob", 1, 999},
		{"alice", 1, 1},
	}
	for i, d := range deposits {
		s.atHeight(int64(i * 10))
		s.deposit(d.who, d.pool, d.amount)
		s.Require().NoError(s.keeper.LiquidityInvariant(s.ctx))
	}

	s.Require().Equal("4001007", s.keeper.GetPool(s.ctx, 1).TotalLiquidity.String())
	s.Require().Equal("42", s.keeper.GetPool(s.ctx, 2).TotalLiquidity.String())
	s.Require().Len(s.keeper.GetPoolPositions(s.ctx, 1), 3)
	s.Require().NoError(s.keeper.CheckInvariants(s.ctx))
}

func (s *KeeperTestSuite) TestLiquidityInvariantDetectsDrift() {
	s.createPool(1, 100)
	s.deposit("alice", 1, 10)
	_, err := s.keeper.AdjustLiquidity(s.ctx, 1, math.NewUint(1))
	s.Require().NoError(err)
	s.Require().Error(s.keeper.LiquidityInvariant(s.ctx))
}
