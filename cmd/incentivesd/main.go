package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"cosmossdk.io/log"

	"github.com/openalpha/lp-incentives/cmd/incentivesd/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rootCmd, closeLedger := cmd.NewRootCmd()
	err := rootCmd.ExecuteContext(ctx)
	if cerr := closeLedger(); err == nil {
		err = cerr
	}
	if err != nil {
		log.NewLogger(os.Stderr).Error("failure when running app", "err", err)
		stop()
		os.Exit(1)
	}
}
