package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
)

func newLoadTestCmd() *cobra.Command {
	config := &Config{}
	var (
		outputFile string
		pools      []uint
	)

	cmd := &cobra.Command{
		Use:          "loadtest",
		Short:        "Drive deposits and reward queries against an incentives API",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			config.Pools = make([]uint64, len(pools))
			for i, id := range pools {
				config.Pools[i] = uint64(id)
			}

			tester := NewLoadTester(config, cmd.OutOrStdout())
			if err := tester.Run(); err != nil {
				return err
			}
			tester.PrintResults()

			if outputFile != "" {
				if err := tester.SaveReport(outputFile); err != nil {
					return err
				}
				cmd.Printf("Report saved to: %s\n", outputFile)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&config.BaseURL, "url", "http://localhost:8080", "API base URL")
	cmd.Flags().IntVarP(&config.Concurrency, "concurrency", "c", 50, "Number of concurrent workers")
	cmd.Flags().DurationVarP(&config.Duration, "duration", "d", 60*time.Second, "Test duration")
	cmd.Flags().DurationVar(&config.RampUp, "ramp", 5*time.Second, "Ramp-up time")
	cmd.Flags().UintSliceVar(&pools, "pools", []uint{1}, "Pool ids to target")
	cmd.Flags().IntVar(&config.Depositors, "depositors", 100, "Depositors per worker")
	cmd.Flags().Float64Var(&config.ReadRatio, "read-ratio", 0.5, "Share of requests that query pending rewards")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output JSON report file")
	return cmd
}

func main() {
	if err := newLoadTestCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
