package types

// Event types emitted by the incentives module
const (
	EventTypeWeightsInitialized = "incentives_weights_initialized"
	EventTypeCreatePool         = "incentives_create_pool"
	EventTypeAddLiquidity       = "incentives_add_liquidity"
	EventTypeUpdateScores       = "incentives_update_scores"
	EventTypeClaim              = "incentives_claim"
	EventTypeRebalance          = "incentives_rebalance"
	EventTypeSetOracle          = "incentives_set_oracle"
	EventTypeSetPaused          = "incentives_set_paused"
	EventTypeSetPoolActive      = "incentives_set_pool_active"
	EventTypeFundPool           = "incentives_fund_pool"
)

// Event attribute keys
const (
	AttributeKeyPoolID          = "pool_id"
	AttributeKeyParticipant     = "participant"
	AttributeKeyAmount          = "amount"
	AttributeKeyTotalLiquidity  = "total_liquidity"
	AttributeKeyRewardBalance   = "reward_balance"
	AttributeKeyRiskScore       = "risk_score"
	AttributeKeyVolatilityIndex = "volatility_index"
	AttributeKeyRate            = "rate"
	AttributeKeyHealth          = "health"
	AttributeKeyBoosted         = "boosted"
	AttributeKeyOracle          = "oracle"
	AttributeKeyPreviousOracle  = "previous_oracle"
	AttributeKeyPaused          = "paused"
	AttributeKeyActive          = "active"
	AttributeKeyHeight          = "height"
)
