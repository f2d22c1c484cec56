package loan

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, body string) map[string]any {
	t.Helper()
	dec := json.NewDecoder(bytes.NewReader([]byte(body)))
	dec.UseNumber()
	var out map[string]any
	require.NoError(t, dec.Decode(&out))
	return out
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestField(t *testing.T) {
	t.Run("FirstAliasWins", func(t *testing.T) {
		rec := Record{"a": "first", "b": "second"}
		assert.Equal(t, "first", Field(rec, "a", "b"))
	})

	t.Run("FallsBackOnEmpty", func(t *testing.T) {
		assert.Equal(t, "second", Field(Record{"a": "", "b": "second"}, "a", "b"))
		assert.Equal(t, "second", Field(Record{"a": nil, "b": "second"}, "a", "b"))
		assert.Equal(t, "second", Field(Record{"b": "second"}, "a", "b"))
	})

	t.Run("UnwrapsValueObjects", func(t *testing.T) {
		rec := Record{"duedate": map[string]any{"value": "20250101"}}
		assert.Equal(t, "20250101", Field(rec, DueDateKeys...))
	})

	t.Run("UnwrapsNestedWrappers", func(t *testing.T) {
		rec := Record{"dueDate": map[string]any{"date": map[string]any{"value": "20250202"}}}
		assert.Equal(t, "20250202", Field(rec, DueDateKeys...))
	})

	t.Run("SkipsEmptyWrapperKeys", func(t *testing.T) {
		rec := Record{"x": map[string]any{"value": "", "date": "20250303"}}
		assert.Equal(t, "20250303", Field(rec, "x"))
	})

	t.Run("UnknownWrapperIsNil", func(t *testing.T) {
		rec := Record{"a": map[string]any{"other": "x"}, "b": "fallback"}
		assert.Equal(t, "fallback", Field(rec, "a", "b"))
		assert.Nil(t, Field(Record{"a": map[string]any{}}, "a"))
	})

	t.Run("DeepNestingIsBounded", func(t *testing.T) {
		var value any = "leaf"
		for i := 0; i < maxUnwrapDepth+2; i++ {
			value = map[string]any{"value": value}
		}
		assert.Nil(t, Field(Record{"a": value}, "a"))
	})

	t.Run("NilRecord", func(t *testing.T) {
		assert.Nil(t, Field(nil, "a"))
	})
}

func TestID(t *testing.T) {
	rec := decode(t, `{"loanId": 123456789012}`)
	require.NotNil(t, ID(rec))
	assert.Equal(t, "123456789012", *ID(rec))

	assert.Equal(t, strPtr("L1"), ID(Record{"loan_id": "L1"}))
	assert.Nil(t, ID(Record{"title": "no id"}))
}

func TestCleanTitle(t *testing.T) {
	tests := []struct {
		name string
		in   *string
		want *string
	}{
		{"Subtitle", strPtr("War and Peace / Unabridged"), strPtr("War and Peace")},
		{"TrailingSlash", strPtr("Dune /Frank Herbert"), strPtr("Dune")},
		{"LeadingSlash", strPtr("Dune/ Frank Herbert"), strPtr("Dune")},
		{"NoSeparator", strPtr("  Emma  "), strPtr("Emma")},
		{"PlainSlashKept", strPtr("AC/DC"), strPtr("AC/DC")},
		{"Blank", strPtr("  "), nil},
		{"Nil", nil, nil},
		{"OnlySuffix", strPtr(" / Author"), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanTitle(tt.in))
		})
	}
}

func TestRenewableValue(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want *bool
	}{
		{"UpperY", "Y", boolPtr(true)},
		{"LowerY", "y", boolPtr(true)},
		{"LowerN", "n", boolPtr(false)},
		{"Other", "yes", boolPtr(false)},
		{"True", true, boolPtr(true)},
		{"False", false, boolPtr(false)},
		{"Nil", nil, nil},
		{"One", 1, boolPtr(true)},
		{"NumberOne", json.Number("1"), boolPtr(true)},
		{"NumberZero", json.Number("0"), boolPtr(false)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RenewableValue(tt.in))
		})
	}
}

func TestRenewable(t *testing.T) {
	assert.Equal(t, boolPtr(true), Renewable(Record{"renew": "Y"}))
	assert.Equal(t, boolPtr(false), Renewable(Record{"renew": "", "renewable": false}))
	assert.Nil(t, Renewable(Record{}))
	assert.True(t, IsRenewable(Record{"renewable": true}))
	assert.False(t, IsRenewable(Record{}))
}

func TestAccessors(t *testing.T) {
	rec := decode(t, `{
		"loanid": "9",
		"titleDisplay": "Njáls saga / ritstjóri",
		"author_display": "Unknown",
		"dueDate": {"value": "20250115"},
		"loanStatus": "ACTIVE",
		"renew": "Y",
		"barcode": ""
	}`)

	assert.Equal(t, strPtr("Njáls saga / ritstjóri"), Title(rec))
	assert.Equal(t, strPtr("Njáls saga"), TitleClean(rec))
	assert.Equal(t, strPtr("Unknown"), Author(rec))
	assert.Equal(t, strPtr("20250115"), DueDate(rec))
	assert.Equal(t, strPtr("ACTIVE"), Status(rec))

	raw := Raw(rec)
	assert.NotContains(t, raw, "barcode")
	assert.Contains(t, raw, "loanid")

	summary := Summarize(rec)
	assert.Equal(t, strPtr("9"), summary.LoanID)
	assert.Equal(t, strPtr("Njáls saga"), summary.Title)
	assert.Equal(t, strPtr("Njáls saga / ritstjóri"), summary.TitleFull)
	assert.Equal(t, boolPtr(true), summary.Renewable)
}

func TestSummarize_FallsBackToFullTitle(t *testing.T) {
	summary := Summarize(Record{"title": " / only responsibility"})
	assert.Equal(t, strPtr(" / only responsibility"), summary.Title)
}
