package keeper

import (
	"github.com/openalpha/lp-incentives/x/incentives/types"
)

func (s *KeeperTestSuite) TestUpdateScores() {
	s.createPool(1, 100)

	pool, err := s.keeper.UpdateScores(s.ctx, testOracle, 1, 20, 30)
	s.Require().NoError(err)
	s.Require().Equal(uint64(20), pool.AIRiskScore)
	s.Require().Equal(uint64(30), pool.VolatilityIndex)
	s.Require().True(s.hasEvent(types.EventTypeUpdateScores))

	testCases := []struct {
		name       string
		caller     string
		poolID     uint64
		risk       uint64
		volatility uint64
		wantErr    error
	}{
		{"not oracle", "mallory", 1, 90, 90, types.ErrUnauthorized},
		{"admin is not oracle", testAdmin, 1, 90, 90, types.ErrUnauthorized},
		{"risk out of range", testOracle, 1, 101, 0, types.ErrInvalidParameters},
		{"volatility out of range", testOracle, 1, 0, 250, types.ErrInvalidParameters},
		{"unknown pool", testOracle, 2, 10, 10, types.ErrNotFound},
		{"authorization precedes validation", "mallory", 1, 101, 0, types.ErrUnauthorized},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			_, err := s.keeper.UpdateScores(s.ctx, tc.caller, tc.poolID, tc.risk, tc.volatility)
			s.Require().ErrorIs(err, tc.wantErr)

			stored := s.keeper.GetPool(s.ctx, 1)
			s.Require().Equal(uint64(20), stored.AIRiskScore)
			s.Require().Equal(uint64(30), stored.VolatilityIndex)
		})
	}
}

func (s *KeeperTestSuite) TestUnsetOracleRejectsEveryone() {
	s.createPool(1, 100)
	gs := s.keeper.GetGlobalState(s.ctx)
	gs.Oracle = ""
	s.keeper.SetGlobalState(s.ctx, gs)

	_, err := s.keeper.UpdateScores(s.ctx, "", 1, 10, 10)
	s.Require().ErrorIs(err, types.ErrUnauthorized)
	_, err = s.keeper.Rebalance(s.ctx, "", 1, types.RebalanceInputs{})
	s.Require().ErrorIs(err, types.ErrUnauthorized)
}

func (s *KeeperTestSuite) TestSetOracleRotation() {
	s.createPool(1, 100)

	_, err := s.keeper.SetOracle(s.ctx, "mallory", "mallory")
	s.Require().ErrorIs(err, types.ErrOwnerOnly)
	_, err = s.keeper.SetOracle(s.ctx, testAdmin, "")
	s.Require().ErrorIs(err, types.ErrInvalidParameters)

	previous, err := s.keeper.SetOracle(s.ctx, testAdmin, "oracle-2")
	s.Require().NoError(err)
	s.Require().Equal(testOracle, previous)
	s.Require().Equal("oracle-2", s.keeper.GetOracle(s.ctx))
	s.Require().True(s.hasEvent(types.EventTypeSetOracle))

	_, err = s.keeper.UpdateScores(s.ctx, testOracle, 1, 10, 10)
	s.Require().ErrorIs(err, types.ErrUnauthorized)
	_, err = s.keeper.UpdateScores(s.ctx, "oracle-2", 1, 10, 10)
	s.Require().NoError(err)
}

func (s *KeeperTestSuite) TestRebalanceReferenceCase() {
	s.createPool(1, 100)
	s.atHeight(33)

	res, err := s.keeper.Rebalance(s.ctx, testOracle, 1, types.RebalanceInputs{
		Sentiment:  80,
		Efficiency: 88,
		ILFactor:   50,
	})
	s.Require().NoError(err)
	s.Require().Equal(uint64(103), res.MarketMult)
	s.Require().Equal(uint64(2), res.EfficiencyBonus)
	s.Require().Equal(uint64(30), res.ILComp)
	s.Require().Equal(uint64(75), res.RiskAdjustment)
	s.Require().Equal(uint64(75), res.VolAdjustment)
	s.Require().Equal(uint64(570), res.DynamicRate)
	s.Require().Equal(uint64(67), res.Health)
	s.Require().False(res.Boosted)
	s.Require().Equal(uint64(570), res.Rate)

	want := map[string]uint64{
		types.MetricMarketSentiment: 80,
		types.MetricEfficiencyRatio: 88,
		types.MetricILFactor:        50,
		types.MetricPoolHealth:      67,
		types.MetricDynamicRate:     570,
	}
	metrics := s.keeper.GetPoolMetrics(s.ctx, 1)
	s.Require().Len(metrics, len(want))
	for _, m := range metrics {
		s.Require().Equal(want[m.Name], m.Value, m.Name)
		s.Require().Equal(int64(33), m.LastUpdatedHeight)
	}

	// no boost, so risk is untouched
	s.Require().Equal(uint64(50), s.keeper.GetPool(s.ctx, 1).AIRiskScore)
	s.Require().True(s.hasEvent(types.EventTypeRebalance))
}

func (s *KeeperTestSuite) TestRebalanceBoostRelievesRisk() {
	s.createPool(1, 100)
	_, err := s.keeper.UpdateScores(s.ctx, testOracle, 1, 95, 95)
	s.Require().NoError(err)

	res, err := s.keeper.Rebalance(s.ctx, testOracle, 1, types.RebalanceInputs{})
	s.Require().NoError(err)
	s.Require().Equal(uint64(2), res.Health)
	s.Require().True(res.Boosted)
	s.Require().Equal(uint64(182), res.DynamicRate)
	s.Require().Equal(uint64(273), res.Rate)
	s.Require().Equal(uint64(85), s.keeper.GetPool(s.ctx, 1).AIRiskScore)
	s.Require().Equal(uint64(95), s.keeper.GetPool(s.ctx, 1).VolatilityIndex)
	s.Require().Equal(uint64(273), s.keeper.GetMetric(s.ctx, 1, types.MetricDynamicRate).Value)
}

func (s *KeeperTestSuite) TestRebalanceRiskReliefFloorsAtZero() {
	s.createPool(1, 100)
	_, err := s.keeper.UpdateScores(s.ctx, testOracle, 1, 5, 100)
	s.Require().NoError(err)

	res, err := s.keeper.Rebalance(s.ctx, testOracle, 1, types.RebalanceInputs{})
	s.Require().NoError(err)
	s.Require().True(res.Boosted)
	s.Require().Equal(uint64(0), s.keeper.GetPool(s.ctx, 1).AIRiskScore)
	s.Require().NoError(s.keeper.ScoreInvariant(s.ctx))
}

func (s *KeeperTestSuite) TestRebalanceErrors() {
	s.createPool(1, 100)

	_, err := s.keeper.Rebalance(s.ctx, "mallory", 1, types.RebalanceInputs{Sentiment: 50})
	s.Require().ErrorIs(err, types.ErrUnauthorized)
	_, err = s.keeper.Rebalance(s.ctx, testOracle, 1, types.RebalanceInputs{Efficiency: 101})
	s.Require().ErrorIs(err, types.ErrInvalidParameters)
	_, err = s.keeper.Rebalance(s.ctx, testOracle, 3, types.RebalanceInputs{})
	s.Require().ErrorIs(err, types.ErrNotFound)

	s.Require().Empty(s.keeper.GetPoolMetrics(s.ctx, 1))
	s.Require().Equal(uint64(50), s.keeper.GetPool(s.ctx, 1).AIRiskScore)
}

func (s *KeeperTestSuite) TestRebalanceDoesNotChangePendingRewards() {
	s.createPool(1, 1_000_000_000)
	s.deposit("alice", 1, 2_000_000)
	s.atHeight(100)

	before, err := s.keeper.PendingRewards(s.ctx, "alice", 1)
	s.Require().NoError(err)
	_, err = s.keeper.Rebalance(s.ctx, testOracle, 1, types.RebalanceInputs{Sentiment: 100, Efficiency: 100, ILFactor: 100})
	s.Require().NoError(err)
	after, err := s.keeper.PendingRewards(s.ctx, "alice", 1)
	s.Require().NoError(err)
	s.Require().Equal(before.String(), after.String())
}
