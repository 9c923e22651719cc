package app

import (
	"strconv"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/lp-incentives/x/incentives/types"
)

// recordEvents feeds committed module events into the metrics collector
func (app *LedgerApp) recordEvents(height int64, events sdk.Events) {
	m := app.metrics
	m.RecordHeight(height)

	for _, ev := range events {
		attrs := eventAttributes(ev)
		poolID := attrs[types.AttributeKeyPoolID]

		switch ev.Type {
		case types.EventTypeCreatePool:
			m.RecordPoolCreated(poolID, parseFloat(attrs[types.AttributeKeyRewardBalance]))
		case types.EventTypeAddLiquidity:
			m.RecordLiquidity(poolID, parseFloat(attrs[types.AttributeKeyTotalLiquidity]))
		case types.EventTypeClaim:
			m.RecordClaim(poolID, parseFloat(attrs[types.AttributeKeyAmount]), parseFloat(attrs[types.AttributeKeyRewardBalance]))
		case types.EventTypeFundPool:
			m.RecordRewardBalance(poolID, parseFloat(attrs[types.AttributeKeyRewardBalance]))
		case types.EventTypeUpdateScores:
			m.RecordScores(poolID, parseFloat(attrs[types.AttributeKeyRiskScore]), parseFloat(attrs[types.AttributeKeyVolatilityIndex]))
		case types.EventTypeRebalance:
			boosted, _ := strconv.ParseBool(attrs[types.AttributeKeyBoosted])
			m.RecordRebalance(poolID,
				parseFloat(attrs[types.AttributeKeyRate]),
				parseFloat(attrs[types.AttributeKeyHealth]),
				parseFloat(attrs[types.AttributeKeyRiskScore]),
				boosted,
			)
		case types.EventTypeSetPoolActive:
			active, _ := strconv.ParseBool(attrs[types.AttributeKeyActive])
			m.RecordPoolActive(poolID, active)
		case types.EventTypeSetPaused:
			paused, _ := strconv.ParseBool(attrs[types.AttributeKeyPaused])
			m.RecordPaused(paused)
		}
	}
}

// eventAttributes flattens an event's attributes into a map
func eventAttributes(ev sdk.Event) map[string]string {
	attrs := make(map[string]string, len(ev.Attributes))
	for _, a := range ev.Attributes {
		attrs[a.Key] = a.Value
	}
	return attrs
}

// parseFloat converts an integer attribute for a gauge. Amounts beyond
// float64 precision are approximated.
func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}
