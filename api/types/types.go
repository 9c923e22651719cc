package types

import (
	"encoding/json"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/lp-incentives/x/incentives/keeper"
)

// Ledger is the ledger application as seen by the API
type Ledger interface {
	LastHeight() int64
	Deliver(height int64, msg sdk.Msg) (any, error)
	Query(fn func(ctx sdk.Context, qs *keeper.QueryServer) error) error
}

// TxRequest is the body of a transaction submission. Height defaults to
// the ledger's last height.
type TxRequest struct {
	Height *int64          `json:"height,omitempty"`
	Msg    json.RawMessage `json:"msg"`
}

// TxResponse is returned for a committed transaction
type TxResponse struct {
	Height  int64  `json:"height"`
	MsgType string `json:"msg_type"`
	Result  any    `json:"result"`
}

// ErrorResponse is returned for every failed request
type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	Codespace string `json:"codespace,omitempty"`
	Code      uint32 `json:"code,omitempty"`
}

// ListResponse wraps a page of results
type ListResponse struct {
	Items any    `json:"items"`
	Total uint64 `json:"total"`
}

// HealthResponse reports the ledger's liveness
type HealthResponse struct {
	Status     string `json:"status"`
	LastHeight int64  `json:"last_height"`
	Timestamp  int64  `json:"timestamp"`
}
