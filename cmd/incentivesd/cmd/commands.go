package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/cosmos/cosmos-sdk/client/flags"
	"github.com/spf13/cobra"

	"github.com/openalpha/lp-incentives/api"
	"github.com/openalpha/lp-incentives/config"
	"github.com/openalpha/lp-incentives/metrics"
)

const (
	flagAdmin     = "admin"
	flagOracle    = "oracle"
	flagDBBackend = "db-backend"
	flagOutput    = "output"

	// Version of the daemon
	Version = "v0.1.0"
)

// InitCmd writes a default config.toml into the home directory
func InitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Write a default configuration to the home directory",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationNoLedger: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			home, err := cmd.Flags().GetString(flags.FlagHome)
			if err != nil {
				return err
			}

			cfg := config.DefaultConfig()
			if cmd.Flags().Changed(flags.FlagChainID) {
				cfg.ChainID, _ = cmd.Flags().GetString(flags.FlagChainID)
			}
			if cmd.Flags().Changed(flagAdmin) {
				cfg.Admin, _ = cmd.Flags().GetString(flagAdmin)
			}
			if cmd.Flags().Changed(flagOracle) {
				cfg.Oracle, _ = cmd.Flags().GetString(flagOracle)
			}
			if cmd.Flags().Changed(flagDBBackend) {
				cfg.DBBackend, _ = cmd.Flags().GetString(flagDBBackend)
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			path, err := config.Write(home, cfg)
			if err != nil {
				return err
			}
			cmd.Printf("Wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().String(flags.FlagChainID, "", "Ledger chain id")
	cmd.Flags().String(flagAdmin, "", "Ledger administrator")
	cmd.Flags().String(flagOracle, "", "Initial oracle")
	cmd.Flags().String(flagDBBackend, "", "Database backend (goleveldb|memdb)")
	return cmd
}

// StartCmd runs the ledger and its API server until interrupted
func StartCmd(d *daemon) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Run the incentives ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			d.logger.Info("Ledger ready",
				"chain_id", d.ledger.ChainID(),
				"last_height", d.ledger.LastHeight(),
				"db_backend", d.cfg.DBBackend,
			)

			if !d.cfg.API.Enable {
				<-ctx.Done()
				return nil
			}

			srv := api.NewServer(d.cfg.API, d.ledger, d.logger, metrics.GetCollector())
			d.ledger.AddListener(srv.PublishEvents)
			return srv.Start(ctx)
		},
	}
}

// ExportCmd dumps the committed ledger state as genesis JSON
func ExportCmd(d *daemon) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the ledger state as genesis JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			bz, err := d.ledger.ExportGenesis()
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(bz, "", "  ")
			if err != nil {
				return err
			}

			path, _ := cmd.Flags().GetString(flagOutput)
			if path == "" {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
				return err
			}
			return os.WriteFile(path, out, 0o644)
		},
	}

	cmd.Flags().String(flagOutput, "", "Write the export to a file instead of stdout")
	return cmd
}

// VersionCmd returns a command to print the version
func VersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print the application version",
		Annotations: map[string]string{annotationNoLedger: "true"},
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Println("incentivesd " + Version)
		},
	}
}
