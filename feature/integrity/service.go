package integrity

import (
	"context"

	"loan-sync/feature/integrity/checks"
	"loan-sync/feature/loans"
	"loan-sync/feature/loans/archive"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service handles integrity checks.
type Service struct {
	db      *gorm.DB
	archive *archive.Archive
	store   *loans.Store
	logger  *zap.Logger
}

// NewService creates a new integrity service. archive may be nil when the
// archive is disabled.
func NewService(db *gorm.DB, arch *archive.Archive, store *loans.Store, logger *zap.Logger) *Service {
	return &Service{
		db:      db,
		archive: arch,
		store:   store,
		logger:  logger,
	}
}

// CheckRegistry checks the registry schema.
func (s *Service) CheckRegistry() (*checks.RegistryReport, error) {
	return checks.CheckRegistry(s.db)
}

// ArchiveEnabled reports whether an archive is configured.
func (s *Service) ArchiveEnabled() bool {
	return s.archive != nil
}

// CheckArchive compares the archive with the running accounts.
func (s *Service) CheckArchive(ctx context.Context) (*checks.ArchiveReport, error) {
	accounts := s.store.List()
	slugs := make([]string, 0, len(accounts))
	for _, acc := range accounts {
		slugs = append(slugs, acc.Info.Slug)
	}
	return checks.CheckArchive(ctx, s.archive, slugs)
}

// FixArchive removes orphaned exports.
func (s *Service) FixArchive(ctx context.Context, orphaned []string) error {
	return checks.RemoveOrphans(ctx, s.archive, s.logger, orphaned)
}

// CheckAccounts reports the refresh health of every account.
func (s *Service) CheckAccounts() []checks.AccountReport {
	return checks.CheckAccounts(s.store.List())
}
