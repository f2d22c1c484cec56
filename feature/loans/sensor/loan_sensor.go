package sensor

import (
	"loan-sync/feature/loans/loan"
)

// LoanSensor observes a single loan of an account.
type LoanSensor struct {
	account Account
	src     Source
	loanID  string

	// EntityID is the identifier assigned by the registry.
	EntityID string
}

// NewLoanSensor creates the sensor for loanID.
func NewLoanSensor(account Account, src Source, loanID string) *LoanSensor {
	return &LoanSensor{
		account:  account,
		src:      src,
		loanID:   loanID,
		EntityID: account.LoanEntityID(loanID),
	}
}

// LoanID returns the observed loan id.
func (s *LoanSensor) LoanID() string {
	return s.loanID
}

// UniqueKey returns the stable registry key.
func (s *LoanSensor) UniqueKey() string {
	return s.account.LoanUniqueKey(s.loanID)
}

// Loan returns the record currently published for the loan.
func (s *LoanSensor) Loan() (loan.Record, bool) {
	snap := s.src.Snapshot()
	if snap == nil {
		return nil, false
	}
	if rec, ok := snap.Index.Get(s.loanID); ok {
		return rec, true
	}
	for _, rec := range snap.Loans {
		if id := loan.ID(rec); id != nil && *id == s.loanID {
			return rec, true
		}
	}
	return nil, false
}

// Available reports whether the last refresh succeeded and the loan exists.
func (s *LoanSensor) Available() bool {
	if !s.src.LastUpdateSuccess() {
		return false
	}
	_, ok := s.Loan()
	return ok
}

// Name is the account name followed by the loan title.
func (s *LoanSensor) Name() string {
	rec, _ := s.Loan()
	if title := displayTitle(rec); title != nil {
		return s.src.AccountName() + " " + *title
	}
	return s.src.AccountName() + " Loan " + s.loanID
}

// Value is the due date, falling back to the title.
func (s *LoanSensor) Value() any {
	rec, ok := s.Loan()
	if !ok {
		return nil
	}
	if due := loan.DueDate(rec); due != nil {
		return *due
	}
	if title := displayTitle(rec); title != nil {
		return *title
	}
	return nil
}

// Attributes returns the loan details.
func (s *LoanSensor) Attributes() map[string]any {
	rec, _ := s.Loan()
	return map[string]any{
		"title":       loan.Title(rec),
		"title_clean": loan.TitleClean(rec),
		"author":      loan.Author(rec),
		"due_date":    loan.DueDate(rec),
		"status":      loan.Status(rec),
		"renewable":   loan.Renewable(rec),
		"loan_id":     loan.ID(rec),
		"details":     loan.Raw(rec),
	}
}

// State renders the sensor.
func (s *LoanSensor) State() State {
	return State{
		UniqueKey:  s.UniqueKey(),
		EntityID:   s.EntityID,
		Name:       s.Name(),
		Available:  s.Available(),
		Value:      s.Value(),
		Attributes: s.Attributes(),
	}
}

func displayTitle(rec loan.Record) *string {
	if title := loan.TitleClean(rec); title != nil {
		return title
	}
	return loan.Title(rec)
}
