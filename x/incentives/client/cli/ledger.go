package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/spf13/cobra"

	"github.com/openalpha/lp-incentives/x/incentives/keeper"
)

// Ledger is the local ledger the commands execute against
type Ledger interface {
	LastHeight() int64
	Deliver(height int64, msg sdk.Msg) (any, error)
	Query(fn func(ctx sdk.Context, qs *keeper.QueryServer) error) error
}

type ledgerCtxKey struct{}

// WithLedger attaches a ledger to a command context
func WithLedger(ctx context.Context, l Ledger) context.Context {
	return context.WithValue(ctx, ledgerCtxKey{}, l)
}

// GetLedger returns the ledger attached to the command context
func GetLedger(cmd *cobra.Command) (Ledger, error) {
	if ctx := cmd.Context(); ctx != nil {
		if l, ok := ctx.Value(ledgerCtxKey{}).(Ledger); ok {
			return l, nil
		}
	}
	return nil, fmt.Errorf("ledger is not open")
}

func printJSON(cmd *cobra.Command, v any) error {
	bz, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(bz))
	return err
}

func parsePoolID(arg string) (uint64, error) {
	poolID, err := strconv.ParseUint(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid pool id %q: %v", arg, err)
	}
	return poolID, nil
}

func parseScore(name, arg string) (uint64, error) {
	v, err := strconv.ParseUint(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %v", name, arg, err)
	}
	return v, nil
}
