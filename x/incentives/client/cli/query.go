package cli

import (
	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/client/flags"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/spf13/cobra"

	"github.com/openalpha/lp-incentives/x/incentives/keeper"
)

// PageResult wraps a page of records with the unpaged total
type PageResult struct {
	Items any    `json:"items"`
	Total uint64 `json:"total"`
}

// GetQueryCmd returns the cli query commands for the incentives module
func GetQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:                        "query",
		Aliases:                    []string{"q"},
		Short:                      "Querying commands for the incentives ledger",
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       client.ValidateCmd,
	}

	cmd.AddCommand(
		CmdQueryPool(),
		CmdQueryPools(),
		CmdQueryPosition(),
		CmdQueryPoolPositions(),
		CmdQueryPending(),
		CmdQueryMetrics(),
		CmdQueryState(),
		CmdQueryWeights(),
		CmdQueryLeaderboard(),
		CmdQueryRanking(),
	)

	return cmd
}

// runQuery executes fn against the last committed state and prints its result
func runQuery(cmd *cobra.Command, fn func(ctx sdk.Context, qs *keeper.QueryServer) (any, error)) error {
	ledger, err := GetLedger(cmd)
	if err != nil {
		return err
	}
	var out any
	err = ledger.Query(func(ctx sdk.Context, qs *keeper.QueryServer) error {
		res, err := fn(ctx, qs)
		out = res
		return err
	})
	if err != nil {
		return err
	}
	return printJSON(cmd, out)
}

func addPageFlags(cmd *cobra.Command) {
	cmd.Flags().Uint64(flags.FlagOffset, 0, "Number of records to skip")
	cmd.Flags().Uint64(flags.FlagLimit, 100, "Maximum number of records to return (0 for all)")
}

func getPage(cmd *cobra.Command) (uint64, uint64, error) {
	offset, err := cmd.Flags().GetUint64(flags.FlagOffset)
	if err != nil {
		return 0, 0, err
	}
	limit, err := cmd.Flags().GetUint64(flags.FlagLimit)
	if err != nil {
		return 0, 0, err
	}
	return offset, limit, nil
}

// CmdQueryPool returns the command to query one pool
func CmdQueryPool() *cobra.Command {
	return &cobra.Command{
		Use:   "pool [pool-id]",
		Short: "Query a pool",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			poolID, err := parsePoolID(args[0])
			if err != nil {
				return err
			}
			return runQuery(cmd, func(ctx sdk.Context, qs *keeper.QueryServer) (any, error) {
				return qs.Pool(ctx, poolID)
			})
		},
	}
}

// CmdQueryPools returns the command to list pools
func CmdQueryPools() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pools",
		Short: "List pools",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			offset, limit, err := getPage(cmd)
			if err != nil {
				return err
			}
			return runQuery(cmd, func(ctx sdk.Context, qs *keeper.QueryServer) (any, error) {
				pools, total, err := qs.Pools(ctx, offset, limit)
				return PageResult{Items: pools, Total: total}, err
			})
		},
	}

	addPageFlags(cmd)
	return cmd
}

// CmdQueryPosition returns the command to query a participant's position
func CmdQueryPosition() *cobra.Command {
	return &cobra.Command{
		Use:   "position [pool-id] [participant]",
		Short: "Query a participant's position in a pool",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			poolID, err := parsePoolID(args[0])
			if err != nil {
				return err
			}
			return runQuery(cmd, func(ctx sdk.Context, qs *keeper.QueryServer) (any, error) {
				return qs.Position(ctx, poolID, args[1])
			})
		},
	}
}

// CmdQueryPoolPositions returns the command to list a pool's positions
func CmdQueryPoolPositions() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "positions [pool-id]",
		Short: "List the positions in a pool",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			poolID, err := parsePoolID(args[0])
			if err != nil {
				return err
			}
			offset, limit, err := getPage(cmd)
			if err != nil {
				return err
			}
			return runQuery(cmd, func(ctx sdk.Context, qs *keeper.QueryServer) (any, error) {
				positions, total, err := qs.PoolPositions(ctx, poolID, offset, limit)
				return PageResult{Items: positions, Total: total}, err
			})
		},
	}

	addPageFlags(cmd)
	return cmd
}

// CmdQueryPending returns the command to query pending rewards
func CmdQueryPending() *cobra.Command {
	return &cobra.Command{
		Use:   "pending [pool-id] [participant]",
		Short: "Query claimable rewards and their multiplier inputs",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			poolID, err := parsePoolID(args[0])
			if err != nil {
				return err
			}
			return runQuery(cmd, func(ctx sdk.Context, qs *keeper.QueryServer) (any, error) {
				return qs.PendingRewards(ctx, poolID, args[1])
			})
		},
	}
}

// CmdQueryMetrics returns the command to query a pool's journaled metrics
func CmdQueryMetrics() *cobra.Command {
	return &cobra.Command{
		Use:   "metrics [pool-id]",
		Short: "Query a pool's journaled metrics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			poolID, err := parsePoolID(args[0])
			if err != nil {
				return err
			}
			return runQuery(cmd, func(ctx sdk.Context, qs *keeper.QueryServer) (any, error) {
				return qs.PoolMetrics(ctx, poolID)
			})
		},
	}
}

// CmdQueryState returns the command to query the global counters
func CmdQueryState() *cobra.Command {
	return &cobra.Command{
		Use:   "state",
		Short: "Query the global ledger state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, func(ctx sdk.Context, qs *keeper.QueryServer) (any, error) {
				return qs.State(ctx)
			})
		},
	}
}

// CmdQueryWeights returns the command to query the weight table
func CmdQueryWeights() *cobra.Command {
	return &cobra.Command{
		Use:   "weights",
		Short: "Query the multiplier weight table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, func(ctx sdk.Context, qs *keeper.QueryServer) (any, error) {
				return qs.Weights(ctx)
			})
		},
	}
}

// CmdQueryLeaderboard returns the command to rank a pool's earners
func CmdQueryLeaderboard() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "leaderboard [pool-id]",
		Short: "Rank a pool's participants by accumulated rewards",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			poolID, err := parsePoolID(args[0])
			if err != nil {
				return err
			}
			limit, err := cmd.Flags().GetInt(flags.FlagLimit)
			if err != nil {
				return err
			}
			return runQuery(cmd, func(ctx sdk.Context, qs *keeper.QueryServer) (any, error) {
				return qs.Leaderboard(ctx, poolID, limit)
			})
		},
	}

	cmd.Flags().Int(flags.FlagLimit, 10, "Number of entries to return (0 for all)")
	return cmd
}

// CmdQueryRanking returns the command to rank pools by health
func CmdQueryRanking() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ranking",
		Short: "Rank pools by their last reported health",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, err := cmd.Flags().GetInt(flags.FlagLimit)
			if err != nil {
				return err
			}
			return runQuery(cmd, func(ctx sdk.Context, qs *keeper.QueryServer) (any, error) {
				return qs.Ranking(ctx, limit)
			})
		},
	}

	cmd.Flags().Int(flags.FlagLimit, 10, "Number of entries to return (0 for all)")
	return cmd
}
