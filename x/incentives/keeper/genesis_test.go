package keeper

import (
	"encoding/json"

	"cosmossdk.io/math"

	"github.com/openalpha/lp-incentives/x/incentives/types"
)

func (s *KeeperTestSuite) TestInitializeWeights() {
	_, err := s.keeper.InitializeWeights(s.ctx, testOracle)
	s.Require().ErrorIs(err, types.ErrOwnerOnly)
	s.Require().Empty(s.keeper.GetWeights(s.ctx))

	weights, err := s.keeper.InitializeWeights(s.ctx, testAdmin)
	s.Require().NoError(err)
	s.Require().Len(weights, 3)

	w, ok := s.keeper.GetWeight(s.ctx, types.WeightAIRisk)
	s.Require().True(ok)
	s.Require().Equal(uint64(4000), w.BasisPoints)

	total := uint64(0)
	for _, w := range s.keeper.GetWeights(s.ctx) {
		total += w.BasisPoints
	}
	s.Require().Equal(uint64(10000), total)

	// re-running restores defaults
	s.keeper.SetWeight(s.ctx, types.Weight{Factor: types.WeightDepth, BasisPoints: 1})
	_, err = s.keeper.InitializeWeights(s.ctx, testAdmin)
	s.Require().NoError(err)
	w, _ = s.keeper.GetWeight(s.ctx, types.WeightDepth)
	s.Require().Equal(uint64(3000), w.BasisPoints)
}

func (s *KeeperTestSuite) TestSetPausedRequiresAdmin() {
	s.Require().ErrorIs(s.keeper.SetPaused(s.ctx, testOracle, true), types.ErrOwnerOnly)
	s.Require().False(s.keeper.IsPaused(s.ctx))

	s.Require().NoError(s.keeper.SetPaused(s.ctx, testAdmin, true))
	s.Require().True(s.keeper.IsPaused(s.ctx))
	s.Require().True(s.hasEvent(types.EventTypeSetPaused))
}

func (s *KeeperTestSuite) TestSetPoolActive() {
	s.createPool(1, 100)

	_, err := s.keeper.SetPoolActive(s.ctx, "mallory", 1, false)
	s.Require().ErrorIs(err, types.ErrOwnerOnly)
	_, err = s.keeper.SetPoolActive(s.ctx, testAdmin, 2, false)
	s.Require().ErrorIs(err, types.ErrNotFound)

	pool, err := s.keeper.SetPoolActive(s.ctx, testAdmin, 1, false)
	s.Require().NoError(err)
	s.Require().False(pool.Active)

	// scores can still be reported for an inactive pool
	_, err = s.keeper.UpdateScores(s.ctx, testOracle, 1, 10, 10)
	s.Require().NoError(err)

	pool, err = s.keeper.SetPoolActive(s.ctx, testAdmin, 1, true)
	s.Require().NoError(err)
	s.Require().True(pool.Active)
}

func (s *KeeperTestSuite) TestGenesisRoundTrip() {
	s.createPool(1, 1_000_000_000)
	s.createPool(2, 5_000)
	s.deposit("alice", 1, 2_000_000)
	s.deposit("bob", 1, 3_000_000)
	s.deposit("carol", 2, 10)
	_, err := s.keeper.InitializeWeights(s.ctx, testAdmin)
	s.Require().NoError(err)
	s.atHeight(50)
	_, err = s.keeper.Rebalance(s.ctx, testOracle, 1, types.RebalanceInputs{Sentiment: 60, Efficiency: 90, ILFactor: 40})
	s.Require().NoError(err)
	_, _, err = s.keeper.Claim(s.ctx, "alice", 1)
	s.Require().NoError(err)

	exported := s.keeper.ExportGenesis(s.ctx)
	s.Require().NoError(exported.Validate())
	s.Require().Len(exported.Pools, 2)
	s.Require().Len(exported.Positions, 3)
	s.Require().Len(exported.Metrics, 5)
	s.Require().Len(exported.Weights, 3)
	s.Require().Equal(uint64(2), exported.TotalPools)
	s.Require().Equal(testOracle, exported.Oracle)
	s.Require().Equal(int64(50), exported.Height)

	k2, ctx2 := setupKeeper(s.T())
	ctx2 = ctx2.WithBlockHeight(exported.Height)
	s.Require().NoError(k2.InitGenesis(ctx2, exported))
	reexported := k2.ExportGenesis(ctx2)

	want, err := json.Marshal(exported)
	s.Require().NoError(err)
	got, err := json.Marshal(reexported)
	s.Require().NoError(err)
	s.Require().JSONEq(string(want), string(got))
	s.Require().NoError(k2.CheckInvariants(ctx2))
}

func (s *KeeperTestSuite) TestInitGenesisRejectsInvalidState() {
	gs := types.NewGenesisState(testOracle)
	gs.TotalPools = 1
	gs.Pools = []*types.Pool{types.NewPool(1, math.NewUint(10), 0)}
	gs.Positions = []*types.Position{types.NewPosition("alice", 1, math.NewUint(5), 0)}

	k, ctx := setupKeeper(s.T())
	s.Require().Error(k.InitGenesis(ctx, gs))
	s.Require().Nil(k.GetPool(ctx, 1))
}

func (s *KeeperTestSuite) TestTopEarners() {
	s.createPool(1, 1_000_000_000_000)
	s.deposit("alice", 1, 1_000_000)
	s.deposit("bob", 1, 3_000_000)
	s.deposit("carol", 1, 1_000_000)
	s.deposit("dave", 1, 1)

	s.atHeight(100)
	for _, who := range []string{"alice", "bob", "carol"} {
		_, _, err := s.keeper.Claim(s.ctx, who, 1)
		s.Require().NoError(err)
	}

	entries, err := s.keeper.TopEarners(s.ctx, 1, 0)
	s.Require().NoError(err)
	s.Require().Len(entries, 4)
	s.Require().Equal("bob", entries[0].Participant)
	s.Require().Equal(1, entries[0].Rank)
	// alice and carol tie and break on name
	s.Require().Equal("alice", entries[1].Participant)
	s.Require().Equal("carol", entries[2].Participant)
	s.Require().Equal("dave", entries[3].Participant)
	s.Require().True(entries[3].AccumulatedRewards.IsZero())

	entries, err = s.keeper.TopEarners(s.ctx, 1, 2)
	s.Require().NoError(err)
	s.Require().Len(entries, 2)

	_, err = s.keeper.TopEarners(s.ctx, 9, 2)
	s.Require().ErrorIs(err, types.ErrNotFound)
}

func (s *KeeperTestSuite) TestPoolsByHealth() {
	for id := uint64(1); id <= 4; id++ {
		s.createPool(id, 100)
	}
	_, err := s.keeper.Rebalance(s.ctx, testOracle, 2, types.RebalanceInputs{Sentiment: 100, Efficiency: 100})
	s.Require().NoError(err)
	_, err = s.keeper.Rebalance(s.ctx, testOracle, 3, types.RebalanceInputs{Sentiment: 10, Efficiency: 10})
	s.Require().NoError(err)

	ranking := s.keeper.PoolsByHealth(s.ctx, 0)
	s.Require().Len(ranking, 4)
	s.Require().Equal(uint64(2), ranking[0].PoolID)
	s.Require().Equal(uint64(75), ranking[0].Health)
	s.Require().Equal(uint64(3), ranking[1].PoolID)
	s.Require().Equal(uint64(30), ranking[1].Health)
	s.Require().True(ranking[1].HasHealth)
	s.Require().Equal(uint64(1), ranking[2].PoolID)
	s.Require().False(ranking[2].HasHealth)
	s.Require().Equal(uint64(4), ranking[3].PoolID)
	s.Require().Equal(4, ranking[3].Rank)

	s.Require().Len(s.keeper.PoolsByHealth(s.ctx, 1), 1)
}
