package types

import (
	"errors"
	"testing"
)

func TestComputeRebalanceReference(t *testing.T) {
	pool := &Pool{PoolID: 1, AIRiskScore: 50, VolatilityIndex: 50}
	res := ComputeRebalance(pool, RebalanceInputs{Sentiment: 80, Efficiency: 90, ILFactor: 50})

	checks := []struct {
		name string
		got  uint64
		want uint64
	}{
		{"market_mult", res.MarketMult, 103},
		{"efficiency_bonus", res.EfficiencyBonus, 2},
		{"il_comp", res.ILComp, 30},
		{"risk_adjustment", res.RiskAdjustment, 75},
		{"volatility_adjustment", res.VolAdjustment, 75},
		{"dynamic_rate", res.DynamicRate, 570},
		{"health", res.Health, 67},
		{"rate", res.Rate, 570},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %d, want %d", c.name, c.got, c.want)
		}
	}
	if res.Boosted {
		t.Errorf("expected not boosted at health %d", res.Health)
	}
}

func TestComputeRebalanceBoost(t *testing.T) {
	pool := &Pool{PoolID: 2, AIRiskScore: 90, VolatilityIndex: 90}
	res := ComputeRebalance(pool, RebalanceInputs{Sentiment: 10, Efficiency: 20, ILFactor: 0})

	// health = (10 + 10 + 10 + 20) / 4 = 12
	if res.Health != 12 {
		t.Fatalf("expected health 12, got %d", res.Health)
	}
	if !res.Boosted {
		t.Fatal("expected boost below health 50")
	}
	// market 80, bonus 0, il 0, adjustments 15 + 15 -> 1000 * 110 / 500 = 220
	if res.DynamicRate != 220 {
		t.Errorf("expected dynamic rate 220, got %d", res.DynamicRate)
	}
	if res.Rate != 330 {
		t.Errorf("expected boosted rate 330, got %d", res.Rate)
	}
}

func TestMarketMultiplier(t *testing.T) {
	testCases := []struct {
		sentiment, expected uint64
	}{
		{0, 77},
		{69, 100},
		{70, 100},
		{71, 100},
		{73, 101},
		{100, 110},
		{40, 90},
	}
	for _, tc := range testCases {
		if got := MarketMultiplier(tc.sentiment); got != tc.expected {
			t.Errorf("MarketMultiplier(%d) = %d, want %d", tc.sentiment, got, tc.expected)
		}
	}
}

func TestEfficiencyAndILComponents(t *testing.T) {
	if got := EfficiencyBonus(80); got != 0 {
		t.Errorf("expected no bonus at 80, got %d", got)
	}
	if got := EfficiencyBonus(100); got != 5 {
		t.Errorf("expected bonus 5 at 100, got %d", got)
	}
	if got := ILCompensation(20); got != 0 {
		t.Errorf("expected no compensation at 20, got %d", got)
	}
	if got := ILCompensation(100); got != 80 {
		t.Errorf("expected compensation 80 at 100, got %d", got)
	}
}

func TestRelievedRisk(t *testing.T) {
	testCases := []struct{ risk, expected uint64 }{
		{50, 40},
		{10, 0},
		{3, 0},
		{0, 0},
	}
	for _, tc := range testCases {
		if got := RelievedRisk(tc.risk); got != tc.expected {
			t.Errorf("RelievedRisk(%d) = %d, want %d", tc.risk, got, tc.expected)
		}
	}
}

func TestRebalanceInputsValidate(t *testing.T) {
	if err := (RebalanceInputs{Sentiment: 100, Efficiency: 100, ILFactor: 100}).Validate(); err != nil {
		t.Errorf("expected valid inputs, got %v", err)
	}
	err := RebalanceInputs{Sentiment: 101}.Validate()
	if !errors.Is(err, ErrInvalidParameters) {
		t.Errorf("expected ErrInvalidParameters, got %v", err)
	}
}
