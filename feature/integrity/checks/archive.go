package checks

import (
	"context"
	"fmt"

	"loan-sync/feature/loans/archive"

	"go.uber.org/zap"
)

// ArchiveReport lists exports that are missing for configured accounts and
// exports left behind by accounts that are no longer configured.
type ArchiveReport struct {
	Missing  []string `json:"missing"`
	Orphaned []string `json:"orphaned"`
}

// CheckArchive compares the exports in the bucket with the account slugs.
func CheckArchive(ctx context.Context, arch *archive.Archive, slugs []string) (*ArchiveReport, error) {
	if arch == nil {
		return nil, fmt.Errorf("archive is not enabled")
	}

	present, err := arch.Accounts(ctx)
	if err != nil {
		return nil, err
	}

	expected := make(map[string]struct{}, len(slugs))
	for _, s := range slugs {
		expected[s] = struct{}{}
	}
	found := make(map[string]struct{}, len(present))
	report := &ArchiveReport{Missing: []string{}, Orphaned: []string{}}
	for _, s := range present {
		found[s] = struct{}{}
		if _, ok := expected[s]; !ok {
			report.Orphaned = append(report.Orphaned, s)
		}
	}
	for _, s := range slugs {
		if _, ok := found[s]; !ok {
			report.Missing = append(report.Missing, s)
		}
	}
	return report, nil
}

// RemoveOrphans deletes the exports of accounts that are no longer
// configured.
func RemoveOrphans(ctx context.Context, arch *archive.Archive, logger *zap.Logger, orphaned []string) error {
	for _, s := range orphaned {
		logger.Info("Removing orphaned export", zap.String("account", s))
		if err := arch.Delete(ctx, s); err != nil {
			return err
		}
	}
	return nil
}
