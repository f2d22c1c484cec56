package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"loan-sync/core/logger"
	"loan-sync/core/reconcile"
	"loan-sync/feature/loans/coordinator"
	"loan-sync/feature/loans/reconciler"
	"loan-sync/feature/loans/sensor"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	applyReconcile bool
	yesConfirm     bool
)

// reconcileCmd plans the registry changes a startup would make.
var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Reconcile the entity registry with the loans on the library",
	Long: `Fetches the loans of every account and compares them with the entity registry.

Reports loans that would get a new sensor and stale registry entries that would be purged.
With --apply the plan is executed.

Examples:
  # Report only
  reconcile

  # Apply with interactive confirmation
  reconcile --apply

  # Apply without confirmation
  reconcile --apply --yes`,
	RunE: runReconcile,
}

func init() {
	reconcileCmd.Flags().BoolVar(&applyReconcile, "apply", false, "Apply the plan (create sensors and purge stale entries)")
	reconcileCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Auto-confirm destructive actions (non-interactive)")
	RootCmd.AddCommand(reconcileCmd)
}

func runReconcile(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := loadDeps(ctx, false)
	if err != nil {
		return err
	}
	defer a.logger.Sync()

	accounts, err := a.accounts()
	if err != nil {
		return err
	}

	type planned struct {
		reconciler *reconciler.Reconciler
		plan       *reconcile.Plan
		logger     *zap.Logger
	}
	var plans []planned
	total := 0
	for _, cfg := range accounts {
		info := sensor.NewAccount(cfg.AccountID(), cfg.Name)
		l := logger.ForAccount(a.logger, info.ID)

		coord := coordinator.New(coordinator.Config{
			AccountName:       cfg.Name,
			Username:          cfg.Username,
			Password:          cfg.Password,
			RequestsPerSecond: a.cfg.Library.RequestsPerSecond,
		}, a.client, l)
		if _, err := coord.Refresh(ctx); err != nil {
			return fmt.Errorf("failed to refresh %s: %w", info.ID, err)
		}

		r := reconciler.New(info, coord, a.registry, l)
		plan, err := r.Plan(ctx)
		if err != nil {
			return fmt.Errorf("failed to plan %s: %w", info.ID, err)
		}
		printReconcileReport(l, plan)
		plans = append(plans, planned{reconciler: r, plan: plan, logger: l})
		total += len(plan.Actions)
	}

	if !applyReconcile {
		a.logger.Info("No actions requested. Use --apply to execute the plan.")
		return nil
	}
	if total == 0 {
		a.logger.Info("No actions required.")
		return nil
	}
	if !confirmDestructiveAction() {
		a.logger.Warn("Operation cancelled by user. No changes were made.")
		return nil
	}

	for _, p := range plans {
		if p.plan.Empty() {
			continue
		}
		if err := p.reconciler.Start(ctx); err != nil {
			return fmt.Errorf("failed to apply plan: %w", err)
		}
		p.reconciler.Stop()
		p.logger.Info("Applied plan", zap.Int("count", len(p.plan.Actions)))
	}
	return nil
}

// printReconcileReport prints a formatted reconciliation report using logger.
func printReconcileReport(l *zap.Logger, plan *reconcile.Plan) {
	s := plan.Summary

	l.Info("Reconciliation report",
		zap.Int("total_items", s.TotalItems),
		zap.Int("create_actions", s.CreateActions),
		zap.Int("purge_actions", s.PurgeActions),
	)

	maxShow := 5
	if len(plan.Actions) < maxShow {
		maxShow = len(plan.Actions)
	}
	for _, action := range plan.Actions[:maxShow] {
		l.Info("Sample action",
			zap.String("type", string(action.Type)),
			zap.String("key", action.Key),
			zap.String("reason", action.Reason),
		)
	}
	if len(plan.Actions) > maxShow {
		l.Info("Additional actions not shown", zap.Int("count", len(plan.Actions)-maxShow))
	}
}

// confirmDestructiveAction prompts the user for confirmation or uses --yes flag.
func confirmDestructiveAction() bool {
	if yesConfirm {
		fmt.Println("\nAuto-confirmed via --yes flag")
		return true
	}

	fmt.Print("\nType 'yes' to confirm destructive actions: ")
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	return strings.TrimSpace(response) == "yes"
}
