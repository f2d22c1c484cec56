package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"loan-sync/core/loader"
	"loan-sync/core/logger"
	"loan-sync/core/middleware/auth"
	"loan-sync/core/middleware/rayid"
	"loan-sync/core/schedule"
	"loan-sync/feature/integrity"
	"loan-sync/feature/loans"
	"loan-sync/feature/loans/account"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "loan-sync/docs/swagger"
)

// setupRetryInterval is how often accounts that failed setup are retried.
const setupRetryInterval = time.Minute

// @title Loan Sync API
// @version 1.0
// @description API for library loans and renewals.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the loan sync service",
	Long:  `Sets up every configured account, refreshes them on schedule and serves the HTTP API.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// 1. Configuration, logger, registry, archive
		a, err := loadDeps(ctx, true)
		if err != nil {
			log.Fatalf("Failed to initialize: %v", err)
		}
		logg := a.logger
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// 2. Accounts
		store, failed, err := a.setupAll(ctx)
		if err != nil {
			logg.Fatal("Invalid account configuration", zap.Error(err))
		}
		logg.Info("Accounts ready", zap.Int("ready", len(store.List())), zap.Int("failed", len(failed)))

		// 3. Schedules
		sched := schedule.New(nil, logg)
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			store.RunSchedules(ctx, sched)
		}()
		go func() {
			defer wg.Done()
			retrySetup(ctx, store, sched, failed, logg)
		}()

		// 4. HTTP API
		var app *fiber.App
		if a.cfg.Server.Enabled {
			app = newServer(a, store)
			go func() {
				logg.Info("Starting server", zap.String("port", a.cfg.Server.Port))
				if err := app.Listen(a.cfg.Server.Address()); err != nil {
					logg.Fatal("Server failed to start", zap.Error(err))
				}
			}()
		}

		// 5. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down...")
		cancel()
		if app != nil {
			timeout := time.Duration(a.cfg.Server.ShutdownTimeoutSeconds) * time.Second
			if err := app.ShutdownWithTimeout(timeout); err != nil {
				logg.Warn("Server shutdown failed", zap.Error(err))
			}
		}
		wg.Wait()
		for _, acc := range store.List() {
			_ = store.Teardown(acc.Info.ID)
		}
	},
}

func newServer(a *deps, store *loans.Store) *fiber.App {
	logg := a.logger
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	mgr := loader.NewManager(logg)
	mgr.Register(loans.NewFeature(store, logg))
	mgr.Register(integrity.NewFeature(a.db, a.archive, store, logg))

	// RayID must run first so every later log line carries it.
	app.Use(rayid.New())

	app.Use(func(c *fiber.Ctx) error {
		l := logger.WithRayID(logg, c)
		l.Info("Request started",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("ip", c.IP()),
		)
		err := c.Next()
		if err != nil {
			l.Error("Request error", zap.Error(err))
		}
		return err
	})

	app.Get("/swagger/*", swagger.HandlerDefault)
	app.Use(auth.New(auth.Config{ApiKey: a.cfg.Server.ApiKey, Skip: []string{"/swagger"}}))

	if err := mgr.LoadAll(app); err != nil {
		logg.Fatal("Failed to load features", zap.Error(err))
	}
	return app
}

// retrySetup keeps retrying accounts whose first refresh failed and starts
// their schedule once they are set up.
func retrySetup(ctx context.Context, store *loans.Store, sched *schedule.Scheduler, pending []account.Config, logg *zap.Logger) {
	if len(pending) == 0 {
		return
	}
	ticker := time.NewTicker(setupRetryInterval)
	defer ticker.Stop()

	var wg sync.WaitGroup
	defer wg.Wait()
	for len(pending) > 0 {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		var still []account.Config
		for _, cfg := range pending {
			acc, err := store.Setup(ctx, cfg)
			if err != nil {
				logg.Warn("Account setup retry failed", zap.String("account", cfg.AccountID()), zap.Error(err))
				still = append(still, cfg)
				continue
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				store.RunSchedule(ctx, sched, acc)
			}()
		}
		pending = still
	}
}

func init() {
	RootCmd.AddCommand(startCmd)
}
