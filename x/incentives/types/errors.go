package types

import (
	"cosmossdk.io/errors"
)

// Module error codes
var (
	ErrOwnerOnly           = errors.Register(ModuleName, 1, "administrator only")
	ErrNotFound            = errors.Register(ModuleName, 2, "not found")
	ErrInsufficientBalance = errors.Register(ModuleName, 3, "insufficient balance")
	ErrInvalidAmount       = errors.Register(ModuleName, 4, "invalid amount")
	ErrDuplicateEntity     = errors.Register(ModuleName, 5, "duplicate entity")
	ErrPoolInactive        = errors.Register(ModuleName, 6, "pool inactive")
	ErrUnauthorized        = errors.Register(ModuleName, 7, "unauthorized")
	ErrInvalidParameters   = errors.Register(ModuleName, 8, "invalid parameters")
)
