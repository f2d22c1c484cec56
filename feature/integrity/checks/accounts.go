package checks

import (
	"time"

	"loan-sync/feature/loans"
)

// AccountReport is the refresh health of one account.
type AccountReport struct {
	ID          string     `json:"id"`
	Healthy     bool       `json:"healthy"`
	Loans       int        `json:"loans"`
	Tracked     int        `json:"tracked"`
	LastUpdated *time.Time `json:"last_updated,omitempty"`
	LastError   string     `json:"last_error,omitempty"`
}

// CheckAccounts reports, per account, whether the last refresh succeeded
// and whether every listed loan has a sensor.
func CheckAccounts(accounts []*loans.Account) []AccountReport {
	reports := make([]AccountReport, 0, len(accounts))
	for _, acc := range accounts {
		c := acc.Coordinator
		r := AccountReport{
			ID:      acc.Info.ID,
			Loans:   c.Index().Len(),
			Tracked: len(acc.Reconciler.Observed()),
		}
		if t := c.LastUpdated(); !t.IsZero() {
			r.LastUpdated = &t
		}
		if err := c.LastError(); err != nil {
			r.LastError = err.Error()
		}
		r.Healthy = c.LastUpdateSuccess() && r.Loans == r.Tracked
		reports = append(reports, r)
	}
	return reports
}
