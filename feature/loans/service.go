package loans

import (
	"context"
	"errors"
	"fmt"
	"time"

	"loan-sync/feature/loans/loan"
	"loan-sync/feature/loans/sensor"

	"go.uber.org/zap"
)

// ErrSensorNotFound is returned for a loan the account does not track.
var ErrSensorNotFound = errors.New("sensor not found")

// AccountView is the JSON view of one account.
type AccountView struct {
	ID                string         `json:"id"`
	Name              string         `json:"name"`
	LastUpdateSuccess bool           `json:"last_update_success"`
	LastUpdated       *time.Time     `json:"last_updated,omitempty"`
	LastError         string         `json:"last_error,omitempty"`
	Count             int            `json:"count"`
	Renewable         int            `json:"renewable"`
	Loans             []loan.Summary `json:"loans"`
}

// RenewAllResult holds the renewals done per account.
type RenewAllResult struct {
	Renewed map[string]int `json:"renewed"`
	Errors  []string       `json:"errors,omitempty"`
}

// Service exposes the store to the HTTP layer.
type Service struct {
	store  *Store
	logger *zap.Logger
}

// NewService creates a new service.
func NewService(store *Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger}
}

func viewOf(acc *Account) AccountView {
	c := acc.Coordinator
	view := AccountView{
		ID:                acc.Info.ID,
		Name:              acc.Info.Name,
		LastUpdateSuccess: c.LastUpdateSuccess(),
		Loans:             []loan.Summary{},
	}
	if t := c.LastUpdated(); !t.IsZero() {
		view.LastUpdated = &t
	}
	if err := c.LastError(); err != nil {
		view.LastError = err.Error()
	}
	if snap := c.Snapshot(); snap != nil {
		for _, rec := range snap.Loans {
			view.Loans = append(view.Loans, loan.Summarize(rec))
			if loan.IsRenewable(rec) {
				view.Renewable++
			}
		}
	}
	view.Count = len(view.Loans)
	return view
}

// ListAccounts returns every account.
func (s *Service) ListAccounts() []AccountView {
	accounts := s.store.List()
	views := make([]AccountView, 0, len(accounts))
	for _, acc := range accounts {
		views = append(views, viewOf(acc))
	}
	return views
}

// GetAccount returns one account.
func (s *Service) GetAccount(id string) (*AccountView, error) {
	acc, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}
	view := viewOf(acc)
	return &view, nil
}

// Sensors renders every sensor of an account.
func (s *Service) Sensors(id string) ([]sensor.State, error) {
	acc, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}
	return acc.Sensors(), nil
}

// LoanSensor renders the sensor of a single loan.
func (s *Service) LoanSensor(id, loanID string) (*sensor.State, error) {
	acc, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}
	ls, ok := acc.Reconciler.Sensor(loanID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSensorNotFound, loanID)
	}
	state := ls.State()
	return &state, nil
}

// Refresh refreshes every account.
func (s *Service) Refresh(ctx context.Context) error {
	return s.store.RefreshAll(ctx)
}

// RenewLoan renews one loan wherever it is listed.
func (s *Service) RenewLoan(ctx context.Context, loanID string) (map[string]map[string]any, error) {
	return s.store.RenewLoan(ctx, loanID)
}

// RenewAll renews every renewable loan and reports counts per account.
func (s *Service) RenewAll(ctx context.Context) RenewAllResult {
	results, err := s.store.RenewAll(ctx)
	out := RenewAllResult{Renewed: make(map[string]int, len(results))}
	for id, renewed := range results {
		out.Renewed[id] = len(renewed)
	}
	if err != nil {
		s.logger.Warn("Renew all finished with errors", zap.Error(err))
		out.Errors = splitJoined(err)
	}
	return out
}

func splitJoined(err error) []string {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var msgs []string
		for _, e := range joined.Unwrap() {
			msgs = append(msgs, e.Error())
		}
		return msgs
	}
	return []string{err.Error()}
}
