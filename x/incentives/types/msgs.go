package types

import (
	"context"
	"fmt"

	"cosmossdk.io/math"
	"github.com/cosmos/gogoproto/proto"
)

// Message types
const (
	TypeMsgInitializeWeights = "initialize_weights"
	TypeMsgCreatePool        = "create_pool"
	TypeMsgAddLiquidity      = "add_liquidity"
	TypeMsgUpdateScores      = "update_scores"
	TypeMsgClaimRewards      = "claim_rewards"
	TypeMsgRebalance         = "rebalance"
	TypeMsgSetOracle         = "set_oracle"
	TypeMsgSetPaused         = "set_paused"
	TypeMsgSetPoolActive     = "set_pool_active"
	TypeMsgFundPool          = "fund_pool"
)

func requireSigner(role, addr string) error {
	if addr == "" {
		return ErrUnauthorized.Wrapf("empty %s", role)
	}
	return nil
}

// requireAuthority guards administrator messages, which only ever fail
// authorization as ErrOwnerOnly
func requireAuthority(addr string) error {
	if addr == "" {
		return ErrOwnerOnly.Wrap("empty authority")
	}
	return nil
}

func parseAmount(field, s string) (math.Uint, error) {
	amt, err := math.ParseUint(s)
	if err != nil {
		return math.Uint{}, ErrInvalidAmount.Wrapf("%s %q: %s", field, s, err)
	}
	return amt, nil
}

// MsgInitializeWeights stores the default multiplier weight table
type MsgInitializeWeights struct {
	Authority string `json:"authority"`
}

func (msg MsgInitializeWeights) Route() string { return ModuleName }
func (msg MsgInitializeWeights) Type() string  { return TypeMsgInitializeWeights }

// ValidateBasic performs stateless checks
func (msg MsgInitializeWeights) ValidateBasic() error {
	return requireAuthority(msg.Authority)
}

func (*MsgInitializeWeights) ProtoMessage()     {}
func (msg *MsgInitializeWeights) Reset()        { *msg = MsgInitializeWeights{} }
func (msg MsgInitializeWeights) String() string { return fmt.Sprintf("MsgInitializeWeights{Authority: %s}", msg.Authority) }

// MsgInitializeWeightsResponse lists the stored weights
type MsgInitializeWeightsResponse struct {
	Weights []Weight `json:"weights"`
}

// MsgCreatePool registers a new pool with its reward budget
type MsgCreatePool struct {
	Authority            string `json:"authority"`
	PoolID               uint64 `json:"pool_id"`
	InitialRewardBalance string `json:"initial_reward_balance"`
}

func (msg MsgCreatePool) Route() string { return ModuleName }
func (msg MsgCreatePool) Type() string  { return TypeMsgCreatePool }

// ValidateBasic performs stateless checks
func (msg MsgCreatePool) ValidateBasic() error {
	if err := requireAuthority(msg.Authority); err != nil {
		return err
	}
	_, err := msg.GetInitialRewardBalance()
	return err
}

// GetInitialRewardBalance parses the reward budget
func (msg MsgCreatePool) GetInitialRewardBalance() (math.Uint, error) {
	return parseAmount("initial reward balance", msg.InitialRewardBalance)
}

func (*MsgCreatePool) ProtoMessage() {}
func (msg *MsgCreatePool) Reset()    { *msg = MsgCreatePool{} }
func (msg MsgCreatePool) String() string {
	return fmt.Sprintf("MsgCreatePool{Authority: %s, PoolID: %d, InitialRewardBalance: %s}", msg.Authority, msg.PoolID, msg.InitialRewardBalance)
}

// MsgCreatePoolResponse returns the created pool
type MsgCreatePoolResponse struct {
	Pool *Pool `json:"pool"`
}

// MsgAddLiquidity deposits liquidity into a pool
type MsgAddLiquidity struct {
	Depositor string `json:"depositor"`
	PoolID    uint64 `json:"pool_id"`
	Amount    string `json:"amount"`
}

func (msg MsgAddLiquidity) Route() string { return ModuleName }
func (msg MsgAddLiquidity) Type() string  { return TypeMsgAddLiquidity }

// ValidateBasic performs stateless checks
func (msg MsgAddLiquidity) ValidateBasic() error {
	if err := requireSigner("depositor", msg.Depositor); err != nil {
		return err
	}
	_, err := msg.GetAmount()
	return err
}

// GetAmount parses the deposit amount
func (msg MsgAddLiquidity) GetAmount() (math.Uint, error) {
	return parseAmount("amount", msg.Amount)
}

func (*MsgAddLiquidity) ProtoMessage() {}
func (msg *MsgAddLiquidity) Reset()    { *msg = MsgAddLiquidity{} }
func (msg MsgAddLiquidity) String() string {
	return fmt.Sprintf("MsgAddLiquidity{Depositor: %s, PoolID: %d, Amount: %s}", msg.Depositor, msg.PoolID, msg.Amount)
}

// MsgAddLiquidityResponse returns the updated position
type MsgAddLiquidityResponse struct {
	Position       *Position `json:"position"`
	TotalLiquidity math.Uint `json:"total_liquidity"`
}

// MsgUpdateScores reports new risk and volatility for a pool
type MsgUpdateScores struct {
	Oracle          string `json:"oracle"`
	PoolID          uint64 `json:"pool_id"`
	RiskScore       uint64 `json:"risk_score"`
	VolatilityIndex uint64 `json:"volatility_index"`
}

func (msg MsgUpdateScores) Route() string { return ModuleName }
func (msg MsgUpdateScores) Type() string  { return TypeMsgUpdateScores }

// ValidateBasic performs stateless checks. Score ranges are checked after
// the oracle identity so that unauthorized callers learn nothing else.
func (msg MsgUpdateScores) ValidateBasic() error {
	return requireSigner("oracle", msg.Oracle)
}

func (*MsgUpdateScores) ProtoMessage() {}
func (msg *MsgUpdateScores) Reset()    { *msg = MsgUpdateScores{} }
func (msg MsgUpdateScores) String() string {
	return fmt.Sprintf("MsgUpdateScores{Oracle: %s, PoolID: %d, Risk: %d, Volatility: %d}", msg.Oracle, msg.PoolID, msg.RiskScore, msg.VolatilityIndex)
}

// MsgUpdateScoresResponse returns the updated pool
type MsgUpdateScoresResponse struct {
	Pool *Pool `json:"pool"`
}

// MsgClaimRewards pays a participant's pending rewards
type MsgClaimRewards struct {
	Participant string `json:"participant"`
	PoolID      uint64 `json:"pool_id"`
}

func (msg MsgClaimRewards) Route() string { return ModuleName }
func (msg MsgClaimRewards) Type() string  { return TypeMsgClaimRewards }

// ValidateBasic performs stateless checks
func (msg MsgClaimRewards) ValidateBasic() error {
	return requireSigner("participant", msg.Participant)
}

func (*MsgClaimRewards) ProtoMessage() {}
func (msg *MsgClaimRewards) Reset()    { *msg = MsgClaimRewards{} }
func (msg MsgClaimRewards) String() string {
	return fmt.Sprintf("MsgClaimRewards{Participant: %s, PoolID: %d}", msg.Participant, msg.PoolID)
}

// MsgClaimRewardsResponse returns the paid amount
type MsgClaimRewardsResponse struct {
	Amount             math.Uint `json:"amount"`
	AccumulatedRewards math.Uint `json:"accumulated_rewards"`
}

// MsgRebalance feeds market signals into a pool's dynamic rate
type MsgRebalance struct {
	Oracle     string `json:"oracle"`
	PoolID     uint64 `json:"pool_id"`
	Sentiment  uint64 `json:"sentiment"`
	Efficiency uint64 `json:"efficiency"`
	ILFactor   uint64 `json:"il_factor"`
}

func (msg MsgRebalance) Route() string { return ModuleName }
func (msg MsgRebalance) Type() string  { return TypeMsgRebalance }

// ValidateBasic performs stateless checks
func (msg MsgRebalance) ValidateBasic() error {
	return requireSigner("oracle", msg.Oracle)
}

// Inputs returns the market signals carried by the message
func (msg MsgRebalance) Inputs() RebalanceInputs {
	return RebalanceInputs{Sentiment: msg.Sentiment, Efficiency: msg.Efficiency, ILFactor: msg.ILFactor}
}

func (*MsgRebalance) ProtoMessage() {}
func (msg *MsgRebalance) Reset()    { *msg = MsgRebalance{} }
func (msg MsgRebalance) String() string {
	return fmt.Sprintf("MsgRebalance{Oracle: %s, PoolID: %d, Sentiment: %d, Efficiency: %d, ILFactor: %d}",
		msg.Oracle, msg.PoolID, msg.Sentiment, msg.Efficiency, msg.ILFactor)
}

// MsgRebalanceResponse returns the derivation
type MsgRebalanceResponse struct {
	Result RebalanceResult `json:"result"`
}

// MsgSetOracle rotates the oracle identity
type MsgSetOracle struct {
	Authority string `json:"authority"`
	NewOracle string `json:"new_oracle"`
}

func (msg MsgSetOracle) Route() string { return ModuleName }
func (msg MsgSetOracle) Type() string  { return TypeMsgSetOracle }

// ValidateBasic performs stateless checks
func (msg MsgSetOracle) ValidateBasic() error {
	return requireAuthority(msg.Authority)
}

func (*MsgSetOracle) ProtoMessage() {}
func (msg *MsgSetOracle) Reset()    { *msg = MsgSetOracle{} }
func (msg MsgSetOracle) String() string {
	return fmt.Sprintf("MsgSetOracle{Authority: %s, NewOracle: %s}", msg.Authority, msg.NewOracle)
}

// MsgSetOracleResponse returns the previous oracle
type MsgSetOracleResponse struct {
	PreviousOracle string `json:"previous_oracle"`
}

// MsgSetPaused toggles the emergency pause
type MsgSetPaused struct {
	Authority string `json:"authority"`
	Paused    bool   `json:"paused"`
}

func (msg MsgSetPaused) Route() string { return ModuleName }
func (msg MsgSetPaused) Type() string  { return TypeMsgSetPaused }

// ValidateBasic performs stateless checks
func (msg MsgSetPaused) ValidateBasic() error {
	return requireAuthority(msg.Authority)
}

func (*MsgSetPaused) ProtoMessage() {}
func (msg *MsgSetPaused) Reset()    { *msg = MsgSetPaused{} }
func (msg MsgSetPaused) String() string {
	return fmt.Sprintf("MsgSetPaused{Authority: %s, Paused: %t}", msg.Authority, msg.Paused)
}

// MsgSetPausedResponse is empty
type MsgSetPausedResponse struct{}

// MsgSetPoolActive activates or deactivates a pool
type MsgSetPoolActive struct {
	Authority string `json:"authority"`
	PoolID    uint64 `json:"pool_id"`
	Active    bool   `json:"active"`
}

func (msg MsgSetPoolActive) Route() string { return ModuleName }
func (msg MsgSetPoolActive) Type() string  { return TypeMsgSetPoolActive }

// ValidateBasic performs stateless checks
func (msg MsgSetPoolActive) ValidateBasic() error {
	return requireAuthority(msg.Authority)
}

func (*MsgSetPoolActive) ProtoMessage() {}
func (msg *MsgSetPoolActive) Reset()    { *msg = MsgSetPoolActive{} }
func (msg MsgSetPoolActive) String() string {
	return fmt.Sprintf("MsgSetPoolActive{Authority: %s, PoolID: %d, Active: %t}", msg.Authority, msg.PoolID, msg.Active)
}

// MsgSetPoolActiveResponse returns the updated pool
type MsgSetPoolActiveResponse struct {
	Pool *Pool `json:"pool"`
}

// MsgFundPool tops up a pool's reward budget
type MsgFundPool struct {
	Authority string `json:"authority"`
	PoolID    uint64 `json:"pool_id"`
	Amount    string `json:"amount"`
}

func (msg MsgFundPool) Route() string { return ModuleName }
func (msg MsgFundPool) Type() string  { return TypeMsgFundPool }

// ValidateBasic performs stateless checks
func (msg MsgFundPool) ValidateBasic() error {
	if err := requireAuthority(msg.Authority); err != nil {
		return err
	}
	_, err := msg.GetAmount()
	return err
}

// GetAmount parses the funding amount
func (msg MsgFundPool) GetAmount() (math.Uint, error) {
	return parseAmount("amount", msg.Amount)
}

func (*MsgFundPool) ProtoMessage() {}
func (msg *MsgFundPool) Reset()    { *msg = MsgFundPool{} }
func (msg MsgFundPool) String() string {
	return fmt.Sprintf("MsgFundPool{Authority: %s, PoolID: %d, Amount: %s}", msg.Authority, msg.PoolID, msg.Amount)
}

// MsgFundPoolResponse returns the updated pool
type MsgFundPoolResponse struct {
	Pool *Pool `json:"pool"`
}

// MsgServer is the server API for incentives messages
type MsgServer interface {
	InitializeWeights(context.Context, *MsgInitializeWeights) (*MsgInitializeWeightsResponse, error)
	CreatePool(context.Context, *MsgCreatePool) (*MsgCreatePoolResponse, error)
	AddLiquidity(context.Context, *MsgAddLiquidity) (*MsgAddLiquidityResponse, error)
	UpdateScores(context.Context, *MsgUpdateScores) (*MsgUpdateScoresResponse, error)
	ClaimRewards(context.Context, *MsgClaimRewards) (*MsgClaimRewardsResponse, error)
	Rebalance(context.Context, *MsgRebalance) (*MsgRebalanceResponse, error)
	SetOracle(context.Context, *MsgSetOracle) (*MsgSetOracleResponse, error)
	SetPaused(context.Context, *MsgSetPaused) (*MsgSetPausedResponse, error)
	SetPoolActive(context.Context, *MsgSetPoolActive) (*MsgSetPoolActiveResponse, error)
	FundPool(context.Context, *MsgFundPool) (*MsgFundPoolResponse, error)
}

// NewMsg returns an empty message for a message type name
func NewMsg(msgType string) (proto.Message, bool) {
	switch msgType {
	case TypeMsgInitializeWeights:
		return &MsgInitializeWeights{}, true
	case TypeMsgCreatePool:
		return &MsgCreatePool{}, true
	case TypeMsgAddLiquidity:
		return &MsgAddLiquidity{}, true
	case TypeMsgUpdateScores:
		return &MsgUpdateScores{}, true
	case TypeMsgClaimRewards:
		return &MsgClaimRewards{}, true
	case TypeMsgRebalance:
		return &MsgRebalance{}, true
	case TypeMsgSetOracle:
		return &MsgSetOracle{}, true
	case TypeMsgSetPaused:
		return &MsgSetPaused{}, true
	case TypeMsgSetPoolActive:
		return &MsgSetPoolActive{}, true
	case TypeMsgFundPool:
		return &MsgFundPool{}, true
	}
	return nil, false
}

// Ensure all messages implement proto.Message
var (
	_ proto.Message = &MsgInitializeWeights{}
	_ proto.Message = &MsgCreatePool{}
	_ proto.Message = &MsgAddLiquidity{}
	_ proto.Message = &MsgUpdateScores{}
	_ proto.Message = &MsgClaimRewards{}
	_ proto.Message = &MsgRebalance{}
	_ proto.Message = &MsgSetOracle{}
	_ proto.Message = &MsgSetPaused{}
	_ proto.Message = &MsgSetPoolActive{}
	_ proto.Message = &MsgFundPool{}
)
