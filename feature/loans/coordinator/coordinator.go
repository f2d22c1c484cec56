package coordinator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"loan-sync/core/utils"
	"loan-sync/feature/loans/api"
	"loan-sync/feature/loans/loan"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

// maxAttempts bounds the refresh cycle: the first try plus one retry after
// the token was rejected.
const maxAttempts = 2

// LoanAPI is the subset of the API client the coordinator depends on.
type LoanAPI interface {
	Login(ctx context.Context, username, password string) (api.Token, error)
	ListLoans(ctx context.Context, token api.Token) (map[string]any, error)
	RenewLoan(ctx context.Context, token api.Token, loanID string) (map[string]any, error)
}

// Config holds the per-account settings of a coordinator.
type Config struct {
	// AccountName is the display name of the account.
	AccountName string
	// Username and Password are passed verbatim to Login.
	Username string
	Password string
	// RequestsPerSecond paces API calls. Zero disables pacing.
	RequestsPerSecond float64
}

// Snapshot is the result of one successful refresh cycle.
type Snapshot struct {
	// Index holds the loans that carry an id.
	Index *loan.Index
	// Loans is the flat normalized list, including loans without an id.
	Loans []loan.Record
	// FetchedAt is when the snapshot was published.
	FetchedAt time.Time
}

// Listener is notified after every completed refresh cycle.
type Listener func(ctx context.Context)

// Coordinator fetches, caches and publishes the loans of one account.
type Coordinator struct {
	cfg     Config
	api     LoanAPI
	logger  *zap.Logger
	limiter *rate.Limiter
	now     func() time.Time

	// opMu serializes refresh and renewal operations.
	opMu  sync.Mutex
	token api.Token

	stateMu     sync.RWMutex
	snapshot    *Snapshot
	lastSuccess bool
	lastErr     error
	lastUpdated time.Time

	listenersMu    sync.Mutex
	listeners      map[int]Listener
	nextListenerID int

	sf singleflight.Group
}

// New creates a coordinator for a single account.
func New(cfg Config, client LoanAPI, logger *zap.Logger) *Coordinator {
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coordinator{
		cfg:       cfg,
		api:       client,
		logger:    logger,
		limiter:   rate.NewLimiter(limit, 1),
		now:       time.Now,
		listeners: make(map[int]Listener),
	}
}

// AccountName returns the display name of the account.
func (c *Coordinator) AccountName() string {
	return c.cfg.AccountName
}

// Snapshot returns the last published snapshot, or nil before the first
// successful refresh.
func (c *Coordinator) Snapshot() *Snapshot {
	c.stateMu.RLock()
	defer c.stateMu.RUnlock()
	return c.snapshot
}

// Index returns the last published loan index.
func (c *Coordinator) Index() *loan.Index {
	if snap := c.Snapshot(); snap != nil {
		return snap.Index
	}
	return nil
}

// LastUpdateSuccess reports whether the most recent refresh cycle succeeded.
func (c *Coordinator) LastUpdateSuccess() bool {
	c.stateMu.RLock()
	defer c.stateMu.RUnlock()
	return c.lastSuccess
}

// LastError returns the error of the most recent failed cycle.
func (c *Coordinator) LastError() error {
	c.stateMu.RLock()
	defer c.stateMu.RUnlock()
	return c.lastErr
}

// LastUpdated returns when the most recent cycle completed.
func (c *Coordinator) LastUpdated() time.Time {
	c.stateMu.RLock()
	defer c.stateMu.RUnlock()
	return c.lastUpdated
}

// AddListener registers fn and returns a function that removes it.
func (c *Coordinator) AddListener(fn Listener) (remove func()) {
	c.listenersMu.Lock()
	defer c.listenersMu.Unlock()
	id := c.nextListenerID
	c.nextListenerID++
	c.listeners[id] = fn
	return func() {
		c.listenersMu.Lock()
		defer c.listenersMu.Unlock()
		delete(c.listeners, id)
	}
}

func (c *Coordinator) notify(ctx context.Context) {
	c.listenersMu.Lock()
	fns := make([]Listener, 0, len(c.listeners))
	for n := 0; n < c.nextListenerID; n++ {
		if fn, ok := c.listeners[n]; ok {
			fns = append(fns, fn)
		}
	}
	c.listenersMu.Unlock()

	for _, fn := range fns {
		fn(ctx)
	}
}

// Refresh runs one refresh cycle and returns the new index.
func (c *Coordinator) Refresh(ctx context.Context) (*loan.Index, error) {
	c.opMu.Lock()
	defer c.opMu.Unlock()
	return c.refreshLocked(ctx)
}

// RequestRefresh runs a refresh, sharing the result with concurrent callers.
// The shared refresh is detached from the caller's cancellation; a cancelled
// caller stops waiting without failing the others.
func (c *Coordinator) RequestRefresh(ctx context.Context) error {
	ch := c.sf.DoChan("refresh", func() (any, error) {
		return c.Refresh(context.WithoutCancel(ctx))
	})
	select {
	case <-ctx.Done():
		return ctx.Err()
	case res := <-ch:
		if res.Shared {
			c.logger.Debug("Joined in-flight refresh")
		}
		return res.Err
	}
}

func (c *Coordinator) refreshLocked(ctx context.Context) (*loan.Index, error) {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		snap, err := c.fetch(ctx)
		if err == nil {
			c.publish(snap)
			c.logger.Debug("Fetched loans",
				zap.Int("indexed", snap.Index.Len()),
				zap.Int("total", len(snap.Loans)),
				zap.Int("attempt", attempt))
			c.notify(ctx)
			return snap.Index, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			// Cancelled cycles publish nothing.
			return nil, &RefreshFailed{Err: ctx.Err()}
		}
		if !tokenRejected(err) {
			break
		}
		c.token = ""
		c.logger.Info("Token rejected, logging in again", zap.Int("attempt", attempt), zap.Error(err))
	}

	failure := &RefreshFailed{Err: lastErr}
	c.fail(failure)
	c.logger.Warn("Loan refresh failed", zap.Error(lastErr))
	c.notify(ctx)
	return nil, failure
}

// tokenRejected reports a listing rejected for authorization reasons.
// Login failures never count, so a bad password cannot trigger a retry.
func tokenRejected(err error) bool {
	var authErr *api.AuthenticationError
	if errors.As(err, &authErr) {
		return false
	}
	var transportErr *api.TransportError
	return errors.As(err, &transportErr) && transportErr.IsAuthExpired()
}

func (c *Coordinator) fetch(ctx context.Context) (*Snapshot, error) {
	token, err := c.ensureToken(ctx)
	if err != nil {
		return nil, err
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	body, err := c.api.ListLoans(ctx, token)
	if err != nil {
		return nil, err
	}
	if status := utils.ToString(body["status"]); status != "ok" {
		return nil, &UnexpectedStatusError{Status: status}
	}

	records := loan.LoansFrom(body)
	return &Snapshot{
		Index:     loan.BuildIndex(records),
		Loans:     records,
		FetchedAt: c.now(),
	}, nil
}

func (c *Coordinator) ensureToken(ctx context.Context) (api.Token, error) {
	if c.token != "" {
		return c.token, nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}
	token, err := c.api.Login(ctx, c.cfg.Username, c.cfg.Password)
	if err != nil {
		return "", err
	}
	c.token = token
	return token, nil
}

func (c *Coordinator) publish(snap *Snapshot) {
	c.stateMu.Lock()
	defer c.stateMu.Unlock()
	c.snapshot = snap
	c.lastSuccess = true
	c.lastErr = nil
	c.lastUpdated = snap.FetchedAt
}

func (c *Coordinator) fail(err error) {
	c.stateMu.Lock()
	defer c.stateMu.Unlock()
	c.lastSuccess = false
	c.lastErr = err
	c.lastUpdated = c.now()
}

// RenewLoan renews one loan and then refreshes. A refresh failure after a
// successful renewal is recorded on the coordinator but not returned.
func (c *Coordinator) RenewLoan(ctx context.Context, loanID string) (map[string]any, error) {
	c.opMu.Lock()
	defer c.opMu.Unlock()
	return c.renewLocked(ctx, loanID)
}

func (c *Coordinator) renewLocked(ctx context.Context, loanID string) (map[string]any, error) {
	token, err := c.ensureToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("renew loan %s: %w", loanID, err)
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("renew loan %s: %w", loanID, err)
	}
	result, err := c.api.RenewLoan(ctx, token, loanID)
	if err != nil {
		return nil, fmt.Errorf("renew loan %s: %w", loanID, err)
	}
	c.logger.Info("Renewed loan", zap.String("loan_id", loanID))

	if _, err := c.refreshLocked(ctx); err != nil {
		c.logger.Warn("Refresh after renewal failed", zap.String("loan_id", loanID), zap.Error(err))
	}
	return result, nil
}

// RenewAll renews every renewable loan of the index published when the
// call starts, in stored order. It stops at the first renewal error and
// returns the results gathered so far.
func (c *Coordinator) RenewAll(ctx context.Context) ([]map[string]any, error) {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	var records []loan.Record
	if snap := c.Snapshot(); snap != nil {
		records = snap.Index.Records()
	}

	results := make([]map[string]any, 0)
	for _, rec := range records {
		if !loan.IsRenewable(rec) {
			continue
		}
		id := loan.ID(rec)
		if id == nil {
			continue
		}
		result, err := c.renewLocked(ctx, *id)
		if err != nil {
			return results, err
		}
		results = append(results, result)
	}
	return results, nil
}

// ValidateCredentials logs in and lists loans once, as done when an account
// is first configured.
func ValidateCredentials(ctx context.Context, client LoanAPI, username, password string) error {
	token, err := client.Login(ctx, username, password)
	if err != nil {
		return err
	}
	if _, err := client.ListLoans(ctx, token); err != nil {
		return err
	}
	return nil
}
