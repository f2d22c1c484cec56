package loan

import (
	"encoding/json"
	"strings"

	"loan-sync/core/utils"
)

// Record is a single loan as delivered by the remote API.
type Record = map[string]any

// Key aliases for each derived attribute, in lookup priority.
var (
	IDKeys        = []string{"loanid", "loanId", "loan_id"}
	TitleKeys     = []string{"title", "title_display", "titleDisplay"}
	AuthorKeys    = []string{"author", "author_display", "authorDisplay"}
	DueDateKeys   = []string{"duedate", "dueDate", "due_date"}
	StatusKeys    = []string{"loanstatus", "loanStatus", "status"}
	RenewableKeys = []string{"renew", "renewable"}
)

// wrapperKeys are the keys that may carry the scalar inside a wrapper object.
var wrapperKeys = []string{"value", "date", "duedate", "dueDate"}

// maxUnwrapDepth bounds nested wrapper objects.
const maxUnwrapDepth = 8

// titleSeparators split a title from its statement of responsibility.
var titleSeparators = []string{" / ", " /", "/ "}

func isEmpty(value any) bool {
	if value == nil {
		return true
	}
	switch v := value.(type) {
	case string:
		return v == ""
	case json.Number:
		return v == ""
	}
	return false
}

// clean unwraps value-carrying objects down to a scalar.
// Empty values and objects without a known wrapper key yield nil.
func clean(value any, depth int) any {
	if isEmpty(value) {
		return nil
	}
	nested, ok := value.(map[string]any)
	if !ok {
		return value
	}
	if depth >= maxUnwrapDepth {
		return nil
	}
	for _, key := range wrapperKeys {
		inner, exists := nested[key]
		if !exists || isEmpty(inner) {
			continue
		}
		return clean(inner, depth+1)
	}
	return nil
}

// Field returns the first alias whose cleaned value is non-empty.
func Field(rec Record, keys ...string) any {
	if rec == nil {
		return nil
	}
	for _, key := range keys {
		raw, ok := rec[key]
		if !ok {
			continue
		}
		if value := clean(raw, 0); value != nil {
			return value
		}
	}
	return nil
}

// stringField is Field rendered as a string pointer.
func stringField(rec Record, keys ...string) *string {
	value := Field(rec, keys...)
	if value == nil {
		return nil
	}
	s := utils.ToString(value)
	return &s
}

// ID returns the loan identifier as a string, or nil when no alias resolves.
func ID(rec Record) *string {
	return stringField(rec, IDKeys...)
}

// Title returns the full title.
func Title(rec Record) *string {
	return stringField(rec, TitleKeys...)
}

// TitleClean returns the title without its "/ responsibility" suffix.
func TitleClean(rec Record) *string {
	return CleanTitle(Title(rec))
}

// CleanTitle strips whitespace and cuts the title at the first known
// separator. Blank results yield nil.
func CleanTitle(title *string) *string {
	if title == nil {
		return nil
	}
	out := strings.TrimSpace(*title)
	if out == "" {
		return nil
	}
	for _, sep := range titleSeparators {
		if idx := strings.Index(out, sep); idx >= 0 {
			out = strings.TrimSpace(out[:idx])
			break
		}
	}
	if out == "" {
		return nil
	}
	return &out
}

// Author returns the author statement.
func Author(rec Record) *string {
	return stringField(rec, AuthorKeys...)
}

// DueDate returns the due date as delivered, usually YYYYMMDD.
func DueDate(rec Record) *string {
	return stringField(rec, DueDateKeys...)
}

// Status returns the loan status.
func Status(rec Record) *string {
	return stringField(rec, StatusKeys...)
}

// Renewable resolves the tri-state renewable flag.
func Renewable(rec Record) *bool {
	return RenewableValue(Field(rec, RenewableKeys...))
}

// RenewableValue coerces a raw renew flag: "Y" (any case) is true, other
// strings false, bools pass through, nil stays nil and anything else
// follows its truthiness.
func RenewableValue(raw any) *bool {
	var out bool
	switch v := raw.(type) {
	case nil:
		return nil
	case string:
		out = strings.EqualFold(v, "Y")
	case bool:
		out = v
	default:
		out = utils.IsTruthy(v)
	}
	return &out
}

// IsRenewable reports whether the renewable flag resolves to true.
func IsRenewable(rec Record) bool {
	r := Renewable(rec)
	return r != nil && *r
}

// Raw returns the record without nil or empty-string fields.
func Raw(rec Record) map[string]any {
	out := make(map[string]any, len(rec))
	for key, value := range rec {
		if isEmpty(value) {
			continue
		}
		out[key] = value
	}
	return out
}

// Summary is the compact per-loan view used by aggregate projections.
type Summary struct {
	LoanID    *string `json:"loan_id"`
	Title     *string `json:"title"`
	TitleFull *string `json:"title_full"`
	Author    *string `json:"author"`
	DueDate   *string `json:"due_date"`
	Status    *string `json:"status"`
	Renewable *bool   `json:"renewable"`
}

// Summarize builds the Summary of a record. Title prefers the clean title.
func Summarize(rec Record) Summary {
	title := TitleClean(rec)
	if title == nil {
		title = Title(rec)
	}
	return Summary{
		LoanID:    ID(rec),
		Title:     title,
		TitleFull: Title(rec),
		Author:    Author(rec),
		DueDate:   DueDate(rec),
		Status:    Status(rec),
		Renewable: Renewable(rec),
	}
}
