package cli

import (
	"fmt"
	"strconv"

	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/client/flags"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/spf13/cobra"

	"github.com/openalpha/lp-incentives/x/incentives/types"
)

// GetTxCmd returns the transaction commands for the incentives module
func GetTxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:                        "tx",
		Short:                      "Incentives ledger transaction commands",
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       client.ValidateCmd,
	}

	cmd.AddCommand(
		CmdInitializeWeights(),
		CmdCreatePool(),
		CmdAddLiquidity(),
		CmdUpdateScores(),
		CmdClaimRewards(),
		CmdRebalance(),
		CmdSetOracle(),
		CmdSetPaused(true),
		CmdSetPaused(false),
		CmdSetPoolActive(),
		CmdFundPool(),
	)

	return cmd
}

func addTxFlags(cmd *cobra.Command) {
	cmd.Flags().String(flags.FlagFrom, "", "Identity of the caller")
	cmd.Flags().Int64(flags.FlagHeight, 0, "Block height to apply the message at (defaults to the last committed height)")
	_ = cmd.MarkFlagRequired(flags.FlagFrom)
}

// deliver applies msg at the requested height and prints the response
func deliver(cmd *cobra.Command, msg sdk.Msg) error {
	ledger, err := GetLedger(cmd)
	if err != nil {
		return err
	}
	height, err := cmd.Flags().GetInt64(flags.FlagHeight)
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed(flags.FlagHeight) {
		height = ledger.LastHeight()
	}

	resp, err := ledger.Deliver(height, msg)
	if err != nil {
		return err
	}
	return printJSON(cmd, resp)
}

func getFrom(cmd *cobra.Command) (string, error) {
	return cmd.Flags().GetString(flags.FlagFrom)
}

// CmdInitializeWeights returns the command to store the default weight table
func CmdInitializeWeights() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init-weights",
		Short: "Store the default multiplier weight table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := getFrom(cmd)
			if err != nil {
				return err
			}
			return deliver(cmd, &types.MsgInitializeWeights{Authority: from})
		},
	}

	addTxFlags(cmd)
	return cmd
}

// CmdCreatePool returns the command to register a pool
func CmdCreatePool() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create-pool [pool-id] [reward-balance]",
		Short: "Register a new pool with its reward budget",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := getFrom(cmd)
			if err != nil {
				return err
			}
			poolID, err := parsePoolID(args[0])
			if err != nil {
				return err
			}

			msg := &types.MsgCreatePool{
				Authority:            from,
				PoolID:               poolID,
				InitialRewardBalance: args[1],
			}
			if err := msg.ValidateBasic(); err != nil {
				return err
			}
			return deliver(cmd, msg)
		},
	}

	addTxFlags(cmd)
	return cmd
}

// CmdAddLiquidity returns the command to deposit liquidity
func CmdAddLiquidity() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add-liquidity [pool-id] [amount]",
		Short: "Deposit liquidity into a pool",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := getFrom(cmd)
			if err != nil {
				return err
			}
			poolID, err := parsePoolID(args[0])
			if err != nil {
				return err
			}

			msg := &types.MsgAddLiquidity{
				Depositor: from,
				PoolID:    poolID,
				Amount:    args[1],
			}
			if err := msg.ValidateBasic(); err != nil {
				return err
			}
			return deliver(cmd, msg)
		},
	}

	addTxFlags(cmd)
	return cmd
}

// CmdUpdateScores returns the command for the oracle to report scores
func CmdUpdateScores() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update-scores [pool-id] [risk-score] [volatility-index]",
		Short: "Report a pool's risk score and volatility index",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := getFrom(cmd)
			if err != nil {
				return err
			}
			poolID, err := parsePoolID(args[0])
			if err != nil {
				return err
			}
			risk, err := parseScore("risk score", args[1])
			if err != nil {
				return err
			}
			volatility, err := parseScore("volatility index", args[2])
			if err != nil {
				return err
			}

			return deliver(cmd, &types.MsgUpdateScores{
				Oracle:          from,
				PoolID:          poolID,
				RiskScore:       risk,
				VolatilityIndex: volatility,
			})
		},
	}

	addTxFlags(cmd)
	return cmd
}

// CmdClaimRewards returns the command to claim pending rewards
func CmdClaimRewards() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "claim [pool-id]",
		Short: "Claim pending rewards from a pool",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := getFrom(cmd)
			if err != nil {
				return err
			}
			poolID, err := parsePoolID(args[0])
			if err != nil {
				return err
			}
			return deliver(cmd, &types.MsgClaimRewards{Participant: from, PoolID: poolID})
		},
	}

	addTxFlags(cmd)
	return cmd
}

// CmdRebalance returns the command for the oracle to rebalance a pool
func CmdRebalance() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rebalance [pool-id] [sentiment] [efficiency] [il-factor]",
		Short: "Derive a pool's dynamic rate from market signals",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := getFrom(cmd)
			if err != nil {
				return err
			}
			poolID, err := parsePoolID(args[0])
			if err != nil {
				return err
			}
			sentiment, err := parseScore("sentiment", args[1])
			if err != nil {
				return err
			}
			efficiency, err := parseScore("efficiency", args[2])
			if err != nil {
				return err
			}
			ilFactor, err := parseScore("il-factor", args[3])
			if err != nil {
				return err
			}

			msg := &types.MsgRebalance{
				Oracle:     from,
				PoolID:     poolID,
				Sentiment:  sentiment,
				Efficiency: efficiency,
				ILFactor:   ilFactor,
			}
			if err := msg.ValidateBasic(); err != nil {
				return err
			}
			return deliver(cmd, msg)
		},
	}

	addTxFlags(cmd)
	return cmd
}

// CmdSetOracle returns the command to rotate the oracle
func CmdSetOracle() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-oracle [new-oracle]",
		Short: "Hand the oracle role to a new identity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := getFrom(cmd)
			if err != nil {
				return err
			}
			return deliver(cmd, &types.MsgSetOracle{Authority: from, NewOracle: args[0]})
		},
	}

	addTxFlags(cmd)
	return cmd
}

// CmdSetPaused returns the pause or unpause command
func CmdSetPaused(paused bool) *cobra.Command {
	use, short := "unpause", "Lift the emergency pause"
	if paused {
		use, short = "pause", "Halt deposits and claims"
	}

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := getFrom(cmd)
			if err != nil {
				return err
			}
			return deliver(cmd, &types.MsgSetPaused{Authority: from, Paused: paused})
		},
	}

	addTxFlags(cmd)
	return cmd
}

// CmdSetPoolActive returns the command to activate or deactivate a pool
func CmdSetPoolActive() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-pool-active [pool-id] [true|false]",
		Short: "Activate or deactivate a pool",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := getFrom(cmd)
			if err != nil {
				return err
			}
			poolID, err := parsePoolID(args[0])
			if err != nil {
				return err
			}
			active, err := strconv.ParseBool(args[1])
			if err != nil {
				return fmt.Errorf("invalid active flag %q: %v", args[1], err)
			}
			return deliver(cmd, &types.MsgSetPoolActive{Authority: from, PoolID: poolID, Active: active})
		},
	}

	addTxFlags(cmd)
	return cmd
}

// CmdFundPool returns the command to top up a pool's reward balance
func CmdFundPool() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fund-pool [pool-id] [amount]",
		Short: "Top up a pool's reward balance",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := getFrom(cmd)
			if err != nil {
				return err
			}
			poolID, err := parsePoolID(args[0])
			if err != nil {
				return err
			}

			msg := &types.MsgFundPool{Authority: from, PoolID: poolID, Amount: args[1]}
			if err := msg.ValidateBasic(); err != nil {
				return err
			}
			return deliver(cmd, msg)
		},
	}

	addTxFlags(cmd)
	return cmd
}
