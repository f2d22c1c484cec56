package cmd

import (
	"context"
	"fmt"

	"loan-sync/core/config"
	"loan-sync/core/database"
	"loan-sync/core/httpclient"
	"loan-sync/core/logger"
	"loan-sync/core/registry"
	"loan-sync/core/storage"
	"loan-sync/feature/loans"
	"loan-sync/feature/loans/account"
	"loan-sync/feature/loans/api"
	"loan-sync/feature/loans/archive"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// deps bundles what every command builds from the configuration.
type deps struct {
	cfg      *config.Config
	logger   *zap.Logger
	db       *gorm.DB
	registry *registry.Store
	client   *api.Client
	archive  *archive.Archive
}

// loadDeps loads the configuration and connects the registry database.
// The archive is only connected when withArchive is set and storage is
// enabled.
func loadDeps(ctx context.Context, withArchive bool) (*deps, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	reg := registry.New(db)
	if err := reg.Migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate registry: %w", err)
	}

	httpClient := httpclient.New(httpclient.Config{TimeoutSeconds: cfg.Library.TimeoutSeconds})
	a := &deps{
		cfg:      cfg,
		logger:   logg,
		db:       db,
		registry: reg,
		client:   api.NewClient(httpClient, cfg.Library),
	}

	if withArchive && cfg.Storage.Enabled {
		sc, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("failed to create storage client: %w", err)
		}
		if err := storage.EnsureBucket(ctx, sc, cfg.Storage.Bucket, cfg.Storage.Region); err != nil {
			return nil, err
		}
		a.archive = archive.New(sc, cfg.Storage.Bucket)
		logg.Info("Loan archive enabled", zap.String("bucket", cfg.Storage.Bucket))
	}
	return a, nil
}

// accounts returns the configured accounts after validating them.
func (a *deps) accounts() ([]account.Config, error) {
	accounts := a.cfg.Accounts()
	if err := account.ValidateAll(accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

func (a *deps) newStore() *loans.Store {
	return loans.NewStore(a.client, a.registry, a.archive, a.cfg.Library.RequestsPerSecond, a.logger)
}

// setupAll sets up every account. Accounts whose first refresh fails are
// returned so the caller can retry them.
func (a *deps) setupAll(ctx context.Context) (*loans.Store, []account.Config, error) {
	accounts, err := a.accounts()
	if err != nil {
		return nil, nil, err
	}

	store := a.newStore()
	var failed []account.Config
	for _, acc := range accounts {
		if _, err := store.Setup(ctx, acc); err != nil {
			a.logger.Error("Account setup failed", zap.String("account", acc.AccountID()), zap.Error(err))
			failed = append(failed, acc)
		}
	}
	return store, failed, nil
}

// requireAll sets up every account and fails when any setup fails.
func (a *deps) requireAll(ctx context.Context) (*loans.Store, error) {
	store, failed, err := a.setupAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(failed) > 0 {
		return nil, fmt.Errorf("%d of %d accounts could not be set up", len(failed), len(failed)+len(store.List()))
	}
	return store, nil
}
