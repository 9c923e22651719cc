package types

import (
	"testing"

	"cosmossdk.io/math"
)

func TestLoyalty(t *testing.T) {
	testCases := []struct {
		name     string
		entry    int64
		current  int64
		expected uint64
	}{
		{"same height", 10, 10, 0},
		{"half maturity", 0, 72000, 50},
		{"full maturity", 0, 144000, 100},
		{"past maturity saturates", 5, 5 + 10*144000, 100},
		{"truncates", 0, 1439, 0},
		{"one point", 0, 1440, 1},
		{"offset entry", 1000, 1000 + 72000, 50},
		{"height behind entry", 100, 50, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Loyalty(tc.entry, tc.current); got != tc.expected {
				t.Errorf("Loyalty(%d, %d) = %d, want %d", tc.entry, tc.current, got, tc.expected)
			}
		})
	}
}

func TestLoyaltyMonotonic(t *testing.T) {
	prev := uint64(0)
	for h := int64(0); h <= 2*LoyaltyMaturityBlocks; h += 997 {
		got := Loyalty(0, h)
		if got > 100 {
			t.Fatalf("loyalty %d out of range at height %d", got, h)
		}
		if got < prev {
			t.Fatalf("loyalty decreased from %d to %d at height %d", prev, got, h)
		}
		prev = got
	}
}

func TestDepth(t *testing.T) {
	testCases := []struct {
		name        string
		participant uint64
		total       uint64
		expected    uint64
	}{
		{"empty pool", 500, 0, 0},
		{"no stake", 0, 1000, 0},
		{"sole depositor", 2_000_000, 2_000_000, 200},
		{"half", 1000, 2000, 150},
		{"quarter", 250, 1000, 125},
		{"tiny share truncates", 1, 1_000_000, 100},
		{"one third", 1, 3, 133},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Depth(math.NewUint(tc.participant), math.NewUint(tc.total))
			if got != tc.expected {
				t.Errorf("Depth(%d, %d) = %d, want %d", tc.participant, tc.total, got, tc.expected)
			}
		})
	}
}

func TestDepthLargeAmounts(t *testing.T) {
	total := math.NewUintFromString("1000000000000000000000000000000")
	half := math.NewUintFromString("500000000000000000000000000000")
	if got := Depth(half, total); got != 150 {
		t.Errorf("expected 150 for a half share of a large pool, got %d", got)
	}
}

func TestAIRisk(t *testing.T) {
	testCases := []struct {
		risk, vol, expected uint64
	}{
		{0, 0, 150},
		{100, 100, 50},
		{20, 30, 125},
		{50, 50, 100},
		{0, 100, 100},
		{1, 0, 149},
	}

	for _, tc := range testCases {
		if got := AIRisk(tc.risk, tc.vol); got != tc.expected {
			t.Errorf("AIRisk(%d, %d) = %d, want %d", tc.risk, tc.vol, got, tc.expected)
		}
	}
}

func TestTotalMultiplier(t *testing.T) {
	testCases := []struct {
		name                 string
		loyalty, depth, risk uint64
		expected             uint64
	}{
		{"scenario", 50, 200, 125, 125},
		{"all neutral", 0, 0, 50, 16},
		{"maximums", 100, 200, 150, 150},
		{"cap applies to average", 1000, 1000, 1000, 300},
		{"just under cap", 300, 300, 302, 300},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := TotalMultiplier(tc.loyalty, tc.depth, tc.risk)
			if got != tc.expected {
				t.Errorf("TotalMultiplier(%d, %d, %d) = %d, want %d", tc.loyalty, tc.depth, tc.risk, got, tc.expected)
			}
			if got > MaxTotalMultiplier {
				t.Errorf("multiplier %d exceeds cap", got)
			}
		})
	}
}

func TestRewardFor(t *testing.T) {
	if got := RewardFor(72000, 125); got.String() != "90000000" {
		t.Errorf("expected 90000000, got %s", got)
	}
	if got := RewardFor(0, 125); !got.IsZero() {
		t.Errorf("expected zero reward for zero blocks, got %s", got)
	}
	if got := RewardFor(-5, 125); !got.IsZero() {
		t.Errorf("expected zero reward for negative blocks, got %s", got)
	}
	// 3 * 1000 * 33 / 100 = 990
	if got := RewardFor(3, 33); got.String() != "990" {
		t.Errorf("expected 990, got %s", got)
	}
}
