package sensor

import (
	"strings"
	"time"

	"loan-sync/feature/loans/coordinator"
	"loan-sync/feature/loans/loan"
)

// Source is the read side of a coordinator.
type Source interface {
	AccountName() string
	Snapshot() *coordinator.Snapshot
	LastUpdateSuccess() bool
}

// State is the rendered view of one sensor.
type State struct {
	UniqueKey  string         `json:"unique_key"`
	EntityID   string         `json:"entity_id"`
	Name       string         `json:"name"`
	Available  bool           `json:"available"`
	Value      any            `json:"value"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

// dateLayout is the due date format used by the library.
const dateLayout = "20060102"

func records(src Source) []loan.Record {
	if snap := src.Snapshot(); snap != nil {
		return snap.Loans
	}
	return nil
}

// Summary reports the loan count with a summary of every loan.
func Summary(account Account, src Source) State {
	recs := records(src)
	summaries := make([]loan.Summary, 0, len(recs))
	for _, rec := range recs {
		summaries = append(summaries, loan.Summarize(rec))
	}
	return State{
		UniqueKey:  account.uniqueKey("summary"),
		EntityID:   account.entityID("loans"),
		Name:       src.AccountName() + " Loans",
		Available:  src.LastUpdateSuccess(),
		Value:      len(recs),
		Attributes: map[string]any{"loans": summaries},
	}
}

// RenewableCount reports how many loans are renewable.
func RenewableCount(account Account, src Source) State {
	count := 0
	for _, rec := range records(src) {
		if loan.IsRenewable(rec) {
			count++
		}
	}
	return State{
		UniqueKey: account.uniqueKey("renewable_count"),
		EntityID:  account.entityID("renewable_count"),
		Name:      src.AccountName() + " Renewable Loans",
		Available: src.LastUpdateSuccess(),
		Value:     count,
	}
}

// NextDue reports the earliest due date as YYYY-MM-DD, or nil.
func NextDue(account Account, src Source) State {
	var value any
	if next := NextDueDate(records(src)); next != nil {
		value = next.Format(time.DateOnly)
	}
	return State{
		UniqueKey: account.uniqueKey("next_due"),
		EntityID:  account.entityID("next_due"),
		Name:      src.AccountName() + " Next Due",
		Available: src.LastUpdateSuccess(),
		Value:     value,
	}
}

// NextDueDate returns the earliest parseable due date. Only string values
// count; numbers, values that are not exactly eight digits and values that
// are not a calendar date are skipped.
func NextDueDate(recs []loan.Record) *time.Time {
	var earliest *time.Time
	for _, rec := range recs {
		raw, ok := loan.Field(rec, loan.DueDateKeys...).(string)
		if !ok {
			continue
		}
		due := ParseDueDate(&raw)
		if due == nil {
			continue
		}
		if earliest == nil || due.Before(*earliest) {
			earliest = due
		}
	}
	return earliest
}

// ParseDueDate parses a YYYYMMDD string, ignoring surrounding whitespace.
func ParseDueDate(value *string) *time.Time {
	if value == nil {
		return nil
	}
	v := strings.TrimSpace(*value)
	if len(v) != len(dateLayout) {
		return nil
	}
	for _, r := range v {
		if r < '0' || r > '9' {
			return nil
		}
	}
	t, err := time.Parse(dateLayout, v)
	if err != nil {
		return nil
	}
	return &t
}
