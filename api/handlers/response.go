package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	errorsmod "cosmossdk.io/errors"

	apitypes "github.com/openalpha/lp-incentives/api/types"
	"github.com/openalpha/lp-incentives/x/incentives/types"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, apitypes.ErrorResponse{
		Error:   code,
		Message: message,
	})
}

// writeLedgerError maps a ledger error to its HTTP status
func writeLedgerError(w http.ResponseWriter, err error) {
	codespace, code, _ := errorsmod.ABCIInfo(err, false)
	writeJSON(w, statusFor(err), apitypes.ErrorResponse{
		Error:     errorName(err),
		Message:   err.Error(),
		Codespace: codespace,
		Code:      code,
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, types.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, types.ErrOwnerOnly), errors.Is(err, types.ErrUnauthorized):
		return http.StatusForbidden
	default:
		return http.StatusBadRequest
	}
}

func errorName(err error) string {
	switch {
	case errors.Is(err, types.ErrNotFound):
		return "not_found"
	case errors.Is(err, types.ErrOwnerOnly):
		return "owner_only"
	case errors.Is(err, types.ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, types.ErrInsufficientBalance):
		return "insufficient_balance"
	case errors.Is(err, types.ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, types.ErrDuplicateEntity):
		return "duplicate_entity"
	case errors.Is(err, types.ErrPoolInactive):
		return "pool_inactive"
	case errors.Is(err, types.ErrInvalidParameters):
		return "invalid_parameters"
	default:
		return "bad_request"
	}
}
