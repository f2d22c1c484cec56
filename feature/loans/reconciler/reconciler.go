package reconciler

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"loan-sync/core/reconcile"
	"loan-sync/core/registry"
	"loan-sync/feature/loans/coordinator"
	"loan-sync/feature/loans/loan"
	"loan-sync/feature/loans/sensor"

	"go.uber.org/zap"
)

// Source is the part of a coordinator the reconciler observes.
type Source interface {
	sensor.Source
	Index() *loan.Index
	AddListener(fn coordinator.Listener) (remove func())
}

// Reconciler tracks the loan sensors of one account.
type Reconciler struct {
	account  sensor.Account
	src      Source
	registry registry.Registry
	logger   *zap.Logger

	mu       sync.Mutex
	observed reconcile.Set
	sensors  map[string]*sensor.LoanSensor
	stop     func()
}

// New creates a reconciler. Nothing happens until Start.
func New(account sensor.Account, src Source, reg registry.Registry, logger *zap.Logger) *Reconciler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reconciler{
		account:  account,
		src:      src,
		registry: reg,
		logger:   logger,
		observed: reconcile.NewSet(),
		sensors:  make(map[string]*sensor.LoanSensor),
	}
}

func (r *Reconciler) currentIDs() reconcile.Set {
	return reconcile.Set(r.src.Index().IDSet())
}

func (r *Reconciler) registered(ctx context.Context) (map[string]string, reconcile.Set, error) {
	entries, err := r.registry.EntriesForAccount(ctx, r.account.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load registry entries: %w", err)
	}

	prefix := r.account.LoanKeyPrefix()
	persisted := make(map[string]string)
	registered := reconcile.NewSet()
	for _, entry := range entries {
		if entry.Platform != registry.Platform || !strings.HasPrefix(entry.UniqueKey, prefix) {
			continue
		}
		loanID := strings.TrimPrefix(entry.UniqueKey, prefix)
		persisted[loanID] = entry.EntityID
		registered[loanID] = struct{}{}
	}
	return persisted, registered, nil
}

// Plan returns the startup plan against the registry without applying it.
func (r *Reconciler) Plan(ctx context.Context) (*reconcile.Plan, error) {
	_, registered, err := r.registered(ctx)
	if err != nil {
		return nil, err
	}
	return reconcile.BuildPlan(nil, r.currentIDs(), registered), nil
}

// Start prunes stale registry entries, creates sensors for the current
// loans and subscribes to coordinator updates.
func (r *Reconciler) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	persisted, registered, err := r.registered(ctx)
	if err != nil {
		return err
	}

	current := r.currentIDs()
	plan := reconcile.BuildPlan(nil, current, registered)
	if plan.Summary.PurgeActions > 0 {
		stale := make([]string, 0, plan.Summary.PurgeActions)
		for _, action := range plan.Actions {
			if action.Type == reconcile.ActionPurge {
				stale = append(stale, action.Key)
			}
		}
		r.logger.Debug("Removing stale loan entities", zap.Strings("loan_ids", stale))
	}

	if _, err := reconcile.ApplyPlan(ctx, &mutator{r: r, persisted: persisted}, plan); err != nil {
		return err
	}
	r.observed = current

	if r.stop == nil {
		r.stop = r.src.AddListener(func(ctx context.Context) {
			if err := r.HandleUpdate(ctx); err != nil {
				r.logger.Error("Failed to reconcile loan sensors", zap.Error(err))
			}
		})
	}
	return nil
}

// HandleUpdate reconciles after a refresh cycle. It does nothing when the
// cycle failed. On error the observed ids are left unchanged so the next
// update retries the same work.
func (r *Reconciler) HandleUpdate(ctx context.Context) error {
	if !r.src.LastUpdateSuccess() {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	current := r.currentIDs()
	delta := reconcile.Diff(r.observed, current)
	if len(delta.Added) > 0 {
		r.logger.Debug("Detected new loan ids", zap.Strings("loan_ids", delta.Added))
	}
	if len(delta.Removed) > 0 {
		r.logger.Debug("Detected removed loan ids", zap.Strings("loan_ids", delta.Removed))
	}
	if delta.Empty() {
		return nil
	}

	plan := reconcile.BuildPlan(r.observed, current, nil)
	if _, err := reconcile.ApplyPlan(ctx, &mutator{r: r}, plan); err != nil {
		return err
	}
	r.observed = current
	return nil
}

// Stop unsubscribes from coordinator updates.
func (r *Reconciler) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stop != nil {
		r.stop()
		r.stop = nil
	}
}

// Observed returns the loan ids seen on the last pass, sorted.
func (r *Reconciler) Observed() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.observed.Sorted()
}

// Sensors returns the tracked loan sensors sorted by loan id.
func (r *Reconciler) Sensors() []*sensor.LoanSensor {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*sensor.LoanSensor, 0, len(r.sensors))
	for _, s := range r.sensors {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LoanID() < out[j].LoanID() })
	return out
}

// Sensor returns the tracked sensor for loanID.
func (r *Reconciler) Sensor(loanID string) (*sensor.LoanSensor, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sensors[loanID]
	return s, ok
}

// syncEntityID moves an existing entry onto the desired identifier when
// that identifier is free.
func (r *Reconciler) syncEntityID(ctx context.Context, loanID string) error {
	uniqueKey := r.account.LoanUniqueKey(loanID)
	desired := r.account.LoanEntityID(loanID)

	existing, err := r.registry.EntityIDForUniqueKey(ctx, uniqueKey)
	if err != nil {
		return err
	}
	holder, err := r.registry.Get(ctx, desired)
	if err != nil {
		return err
	}

	if existing != "" {
		if existing == desired {
			return nil
		}
		if holder != nil {
			r.logger.Warn("Entity id already in use; keeping existing",
				zap.String("entity_id", desired), zap.String("existing", existing))
			return nil
		}
		r.logger.Debug("Renaming loan entity", zap.String("from", existing), zap.String("to", desired))
		return r.registry.Rename(ctx, existing, desired)
	}

	if holder != nil && holder.UniqueKey != uniqueKey {
		r.logger.Warn("Entity id already in use; keeping generated id", zap.String("entity_id", desired))
	}
	return nil
}

// mutator applies plan actions to the sensor set and the registry.
type mutator struct {
	r *Reconciler
	// persisted maps loan ids to entity ids of entries found at startup.
	persisted map[string]string
}

func (m *mutator) Purge(ctx context.Context, loanID string) error {
	return ignoreNotFound(m.r.registry.Remove(ctx, m.persisted[loanID]))
}

func (m *mutator) PurgeBatch(ctx context.Context, loanIDs []string) error {
	entityIDs := make([]string, 0, len(loanIDs))
	for _, id := range loanIDs {
		entityIDs = append(entityIDs, m.persisted[id])
	}
	return m.r.registry.RemoveMany(ctx, entityIDs)
}

func (m *mutator) Create(ctx context.Context, loanID string) error {
	r := m.r
	if _, tracked := r.sensors[loanID]; tracked {
		return nil
	}
	if err := r.syncEntityID(ctx, loanID); err != nil {
		return err
	}

	entry, err := r.registry.GetOrCreate(ctx, registry.Entry{
		UniqueKey: r.account.LoanUniqueKey(loanID),
		AccountID: r.account.ID,
		Platform:  registry.Platform,
	}, r.account.LoanEntityID(loanID))
	if err != nil {
		return err
	}

	s := sensor.NewLoanSensor(r.account, r.src, loanID)
	s.EntityID = entry.EntityID
	r.sensors[loanID] = s
	return nil
}

func (m *mutator) Remove(ctx context.Context, loanID string) error {
	r := m.r
	if s, tracked := r.sensors[loanID]; tracked {
		delete(r.sensors, loanID)
		if s.EntityID == "" {
			return nil
		}
		return ignoreNotFound(r.registry.Remove(ctx, s.EntityID))
	}

	entityID, err := r.registry.EntityIDForUniqueKey(ctx, r.account.LoanUniqueKey(loanID))
	if err != nil || entityID == "" {
		return err
	}
	return ignoreNotFound(r.registry.Remove(ctx, entityID))
}

func ignoreNotFound(err error) error {
	if errors.Is(err, registry.ErrNotFound) {
		return nil
	}
	return err
}
