package cmd

import (
	"fmt"
	"os"

	"loan-sync/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "loan-sync",
	Short: "Library Loan Sync Service",
	Long: `Loan Sync polls library accounts for their current loans.
It keeps one sensor per loan in a persistent entity registry and can renew loans on demand.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Errors are printed with the console encoder at debug level so the
		// CLI shows readable timestamps.
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Println(err)
		}
		os.Exit(1)
	}
}
