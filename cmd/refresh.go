package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"loan-sync/feature/loans"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// refreshCmd runs one refresh cycle for every account.
var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Refresh every account once and print its loans",
	Long:  `Sets up every configured account, which refreshes its loans and reconciles its sensors, then prints the result.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		jsonOutput, _ := cmd.Flags().GetBool("json")

		a, err := loadDeps(ctx, true)
		if err != nil {
			return err
		}
		defer a.logger.Sync()

		store, err := a.requireAll(ctx)
		if err != nil {
			return err
		}

		views := loans.NewService(store, a.logger).ListAccounts()
		if jsonOutput {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(views)
		}

		for _, view := range views {
			a.logger.Info("Account refreshed",
				zap.String("account", view.ID),
				zap.Int("loans", view.Count),
				zap.Int("renewable", view.Renewable),
			)
			fmt.Printf("\n--- %s ---\n", view.Name)
			for _, l := range view.Loans {
				fmt.Printf("%-12s %-10s %s\n", deref(l.LoanID), deref(l.DueDate), deref(l.Title))
			}
		}
		return nil
	},
}

func deref(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

func init() {
	refreshCmd.Flags().Bool("json", false, "Print the accounts as JSON")
	RootCmd.AddCommand(refreshCmd)
}
