package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"cosmossdk.io/log"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/cosmos/cosmos-sdk/client/flags"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/openalpha/lp-incentives/app"
	"github.com/openalpha/lp-incentives/config"
	"github.com/openalpha/lp-incentives/metrics"
	"github.com/openalpha/lp-incentives/x/incentives"
	"github.com/openalpha/lp-incentives/x/incentives/client/cli"
	"github.com/openalpha/lp-incentives/x/incentives/types"
)

const (
	// FlagGenesis points at a genesis document applied when the ledger is created
	FlagGenesis = "genesis"

	// annotationNoLedger marks commands that run without opening the ledger
	annotationNoLedger = "no-ledger"

	dbName = "ledger"
)

// daemon holds what the root command prepares for its subcommands
type daemon struct {
	cfg    *config.Config
	logger log.Logger
	ledger *app.LedgerApp
}

// NewRootCmd creates a new root command for incentivesd. The returned func
// releases the ledger and must run after execution, whether it failed or not.
func NewRootCmd() (*cobra.Command, func() error) {
	d := &daemon{}

	rootCmd := &cobra.Command{
		Use:   "incentivesd",
		Short: "Incentives ledger daemon",
		Long: `incentivesd runs a height-ordered liquidity incentive ledger.
Pools pay rewards to liquidity providers scaled by loyalty, pool depth and
oracle-reported risk.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if skipLedger(cmd) {
				return nil
			}
			return d.open(cmd)
		},
	}

	rootCmd.PersistentFlags().String(flags.FlagHome, app.DefaultNodeHome, "Directory for config and data")
	rootCmd.PersistentFlags().String(FlagGenesis, "", "Genesis JSON applied when the ledger is first created")

	rootCmd.AddCommand(
		InitCmd(),
		StartCmd(d),
		ExportCmd(d),
		cli.GetTxCmd(),
		cli.GetQueryCmd(),
		VersionCmd(),
	)

	return rootCmd, d.close
}

// skipLedger reports whether cmd or one of its parents runs without the ledger
func skipLedger(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
			return true
		}
		if c.Annotations[annotationNoLedger] == "true" {
			return true
		}
	}
	return false
}

// open loads the configuration and opens the ledger for cmd
func (d *daemon) open(cmd *cobra.Command) error {
	home, err := cmd.Flags().GetString(flags.FlagHome)
	if err != nil {
		return err
	}

	cfg, err := config.Load(home)
	if err != nil {
		return err
	}

	logger, err := newLogger(cmd.ErrOrStderr(), cfg)
	if err != nil {
		return err
	}

	genesis, err := readGenesis(cmd)
	if err != nil {
		return err
	}

	db, err := dbm.NewDB(dbName, dbm.BackendType(cfg.DBBackend), cfg.DataDir())
	if err != nil {
		return fmt.Errorf("failed to open %s database: %w", cfg.DBBackend, err)
	}

	ledger, err := app.NewLedgerApp(logger, db, app.Options{
		ChainID:         cfg.ChainID,
		Admin:           cfg.Admin,
		Oracle:          cfg.Oracle,
		Genesis:         genesis,
		CheckInvariants: cfg.CheckInvariants,
		Metrics:         metrics.GetCollector(),
	})
	if err != nil {
		_ = db.Close()
		return err
	}

	d.cfg = cfg
	d.logger = logger
	d.ledger = ledger
	cmd.SetContext(cli.WithLedger(cmd.Context(), ledger))
	return nil
}

func (d *daemon) close() error {
	if d.ledger == nil {
		return nil
	}
	err := d.ledger.Close()
	d.ledger = nil
	return err
}

// newLogger builds the root logger from the configured level and format
func newLogger(w io.Writer, cfg *config.Config) (log.Logger, error) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	opts := []log.Option{log.LevelOption(level)}
	if cfg.LogFormat == "json" {
		opts = append(opts, log.OutputJSONOption())
	} else {
		opts = append(opts, log.ColorOption(false))
	}
	return log.NewLogger(w, opts...), nil
}

func readGenesis(cmd *cobra.Command) (*types.GenesisState, error) {
	path, err := cmd.Flags().GetString(FlagGenesis)
	if err != nil || path == "" {
		return nil, err
	}

	bz, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return incentives.ParseGenesis(json.RawMessage(bz))
}
