package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	renewAll  bool
	renewLoan string
)

// renewCmd renews one loan or every renewable loan.
var renewCmd = &cobra.Command{
	Use:   "renew",
	Short: "Renew a loan or every renewable loan",
	Long: `Renews loans on the library.

Examples:
  # Renew one loan on every account that lists it
  renew --loan 12345

  # Renew every renewable loan
  renew --all`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if renewAll == (renewLoan != "") {
			return errors.New("use exactly one of --all or --loan")
		}
		ctx := cmd.Context()

		a, err := loadDeps(ctx, false)
		if err != nil {
			return err
		}
		defer a.logger.Sync()

		store, err := a.requireAll(ctx)
		if err != nil {
			return err
		}

		if renewAll {
			results, err := store.RenewAll(ctx)
			for id, renewed := range results {
				a.logger.Info("Renewed loans", zap.String("account", id), zap.Int("count", len(renewed)))
			}
			return err
		}

		results, err := store.RenewLoan(ctx, renewLoan)
		if err != nil {
			return err
		}
		for id, result := range results {
			fmt.Printf("%s: %v\n", id, result)
		}
		return nil
	},
}

func init() {
	renewCmd.Flags().BoolVar(&renewAll, "all", false, "Renew every renewable loan")
	renewCmd.Flags().StringVar(&renewLoan, "loan", "", "Loan id to renew")
	RootCmd.AddCommand(renewCmd)
}
