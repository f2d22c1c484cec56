package cmd

import (
	"errors"
	"fmt"

	"loan-sync/core/logger"
	"loan-sync/core/registry"
	"loan-sync/feature/loans"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// validateCmd checks the configuration, credentials and registry schema.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check account credentials and the registry schema",
	Long:  `Logs in with every configured account, lists its loans once and checks that the registry table has every expected column.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := loadDeps(ctx, false)
		if err != nil {
			return err
		}
		defer a.logger.Sync()

		missing, err := registry.CheckSchema(a.db)
		if err != nil {
			return fmt.Errorf("failed to inspect registry schema: %w", err)
		}
		if len(missing) > 0 {
			a.logger.Error("Registry schema is missing columns", zap.Strings("columns", missing))
		} else {
			a.logger.Info("Registry schema ok")
		}

		accounts, err := a.accounts()
		if err != nil {
			return err
		}

		var errs []error
		for _, acc := range accounts {
			l := logger.ForAccount(a.logger, acc.AccountID())
			if err := loans.ValidateAccount(ctx, a.client, acc); err != nil {
				l.Error("Account validation failed", zap.Error(err))
				errs = append(errs, fmt.Errorf("%s: %w", acc.AccountID(), err))
				continue
			}
			l.Info("Account credentials ok")
		}
		if len(missing) > 0 {
			errs = append(errs, fmt.Errorf("registry schema is missing %d columns", len(missing)))
		}
		return errors.Join(errs...)
	},
}

func init() {
	RootCmd.AddCommand(validateCmd)
}
