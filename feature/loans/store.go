package loans

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"loan-sync/core/logger"
	"loan-sync/core/registry"
	"loan-sync/core/schedule"
	"loan-sync/feature/loans/account"
	"loan-sync/feature/loans/archive"
	"loan-sync/feature/loans/coordinator"
	"loan-sync/feature/loans/reconciler"
	"loan-sync/feature/loans/sensor"

	"go.uber.org/zap"
)

var (
	// ErrAccountNotFound is returned for an unknown account id.
	ErrAccountNotFound = errors.New("account not found")
	// ErrAccountExists is returned when setting up an account twice.
	ErrAccountExists = errors.New("account already set up")
	// ErrLoanNotFound is returned when no account lists a loan id.
	ErrLoanNotFound = errors.New("loan not found")
)

// Account is a running account: its coordinator, its reconciler and the
// schedule it refreshes on.
type Account struct {
	Info        sensor.Account
	Coordinator *coordinator.Coordinator
	Reconciler  *reconciler.Reconciler
	Times       []schedule.Time

	stopArchive func()
}

// Sensors renders every sensor of the account: the aggregates first, then
// one per loan in loan id order.
func (a *Account) Sensors() []sensor.State {
	states := []sensor.State{
		sensor.Summary(a.Info, a.Coordinator),
		sensor.RenewableCount(a.Info, a.Coordinator),
		sensor.NextDue(a.Info, a.Coordinator),
	}
	for _, s := range a.Reconciler.Sensors() {
		states = append(states, s.State())
	}
	return states
}

// Store holds the running accounts of the process.
type Store struct {
	api      coordinator.LoanAPI
	registry registry.Registry
	archive  *archive.Archive
	logger   *zap.Logger
	rps      float64

	mu       sync.RWMutex
	accounts map[string]*Account
}

// NewStore creates an empty store. archive may be nil.
func NewStore(client coordinator.LoanAPI, reg registry.Registry, arch *archive.Archive, requestsPerSecond float64, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		api:      client,
		registry: reg,
		archive:  arch,
		logger:   logger,
		rps:      requestsPerSecond,
		accounts: make(map[string]*Account),
	}
}

// Setup creates the coordinator of an account, runs its first refresh and
// starts its reconciler. A failing first refresh aborts the setup so stale
// registry entries are never pruned against an empty listing.
func (s *Store) Setup(ctx context.Context, cfg account.Config) (*Account, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	times, err := cfg.Times()
	if err != nil {
		return nil, err
	}

	info := sensor.NewAccount(cfg.AccountID(), cfg.Name)
	s.mu.RLock()
	_, exists := s.accounts[info.ID]
	s.mu.RUnlock()
	if exists {
		return nil, fmt.Errorf("%w: %s", ErrAccountExists, info.ID)
	}

	log := logger.ForAccount(s.logger, info.ID)
	coord := coordinator.New(coordinator.Config{
		AccountName:       cfg.Name,
		Username:          cfg.Username,
		Password:          cfg.Password,
		RequestsPerSecond: s.rps,
	}, s.api, log)

	if _, err := coord.Refresh(ctx); err != nil {
		return nil, fmt.Errorf("first refresh of %s: %w", info.ID, err)
	}

	acc := &Account{
		Info:        info,
		Coordinator: coord,
		Reconciler:  reconciler.New(info, coord, s.registry, log),
		Times:       times,
	}
	if s.archive != nil {
		acc.stopArchive = coord.AddListener(s.archiveListener(acc, log))
		s.archiveListener(acc, log)(ctx)
	}
	if err := acc.Reconciler.Start(ctx); err != nil {
		acc.teardown()
		return nil, fmt.Errorf("start reconciler of %s: %w", info.ID, err)
	}

	s.mu.Lock()
	s.accounts[info.ID] = acc
	s.mu.Unlock()

	log.Info("Account ready", zap.Int("loans", coord.Index().Len()))
	return acc, nil
}

func (s *Store) archiveListener(acc *Account, log *zap.Logger) coordinator.Listener {
	return func(ctx context.Context) {
		snap := acc.Coordinator.Snapshot()
		if !acc.Coordinator.LastUpdateSuccess() || snap == nil {
			return
		}
		export := archive.NewExport(acc.Info.ID, acc.Info.Name, snap.FetchedAt, snap.Loans)
		if err := s.archive.Save(ctx, acc.Info.Slug, export); err != nil {
			log.Warn("Failed to archive loans", zap.Error(err))
		}
	}
}

func (a *Account) teardown() {
	a.Reconciler.Stop()
	if a.stopArchive != nil {
		a.stopArchive()
	}
}

// Teardown stops an account and removes it from the store.
func (s *Store) Teardown(id string) error {
	s.mu.Lock()
	acc, ok := s.accounts[id]
	delete(s.accounts, id)
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrAccountNotFound, id)
	}
	acc.teardown()
	return nil
}

// Get returns the account with id.
func (s *Store) Get(id string) (*Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acc, ok := s.accounts[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, id)
	}
	return acc, nil
}

// List returns the accounts sorted by id.
func (s *Store) List() []*Account {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Account, 0, len(s.accounts))
	for _, acc := range s.accounts {
		out = append(out, acc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Info.ID < out[j].Info.ID })
	return out
}

// RefreshAll requests a refresh of every account. Errors are joined.
func (s *Store) RefreshAll(ctx context.Context) error {
	var errs []error
	for _, acc := range s.List() {
		if err := acc.Coordinator.RequestRefresh(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", acc.Info.ID, err))
		}
	}
	return errors.Join(errs...)
}

// RenewLoan renews loanID on every account that currently lists it.
func (s *Store) RenewLoan(ctx context.Context, loanID string) (map[string]map[string]any, error) {
	results := make(map[string]map[string]any)
	var errs []error
	for _, acc := range s.List() {
		if _, ok := acc.Coordinator.Index().Get(loanID); !ok {
			continue
		}
		result, err := acc.Coordinator.RenewLoan(ctx, loanID)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", acc.Info.ID, err))
			continue
		}
		results[acc.Info.ID] = result
	}
	if len(results) == 0 && len(errs) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrLoanNotFound, loanID)
	}
	return results, errors.Join(errs...)
}

// RenewAll renews every renewable loan on every account.
func (s *Store) RenewAll(ctx context.Context) (map[string][]map[string]any, error) {
	results := make(map[string][]map[string]any)
	var errs []error
	for _, acc := range s.List() {
		renewed, err := acc.Coordinator.RenewAll(ctx)
		results[acc.Info.ID] = renewed
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", acc.Info.ID, err))
		}
	}
	return results, errors.Join(errs...)
}

// RunSchedules refreshes each account at its configured times until ctx is
// cancelled.
func (s *Store) RunSchedules(ctx context.Context, sched *schedule.Scheduler) {
	var wg sync.WaitGroup
	for _, acc := range s.List() {
		wg.Add(1)
		go func(acc *Account) {
			defer wg.Done()
			s.RunSchedule(ctx, sched, acc)
		}(acc)
	}
	wg.Wait()
}

// RunSchedule refreshes one account at its configured times until ctx is
// cancelled.
func (s *Store) RunSchedule(ctx context.Context, sched *schedule.Scheduler, acc *Account) {
	log := logger.ForAccount(s.logger, acc.Info.ID)
	err := sched.Run(ctx, acc.Times, func(ctx context.Context) {
		if err := acc.Coordinator.RequestRefresh(ctx); err != nil {
			log.Warn("Scheduled refresh failed", zap.Error(err))
		}
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Error("Scheduler stopped", zap.Error(err))
	}
}

// ValidateAccount logs in and lists loans with the given credentials.
func ValidateAccount(ctx context.Context, client coordinator.LoanAPI, cfg account.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := coordinator.ValidateCredentials(ctx, client, cfg.Username, cfg.Password); err != nil {
		return &AuthFailedError{Err: err}
	}
	return nil
}

// AuthFailedError reports credentials the library rejected or could not
// check.
type AuthFailedError struct {
	Err error
}

func (e *AuthFailedError) Error() string {
	return fmt.Sprintf("auth_failed: check the username and password: %v", e.Err)
}

func (e *AuthFailedError) Unwrap() error { return e.Err }
