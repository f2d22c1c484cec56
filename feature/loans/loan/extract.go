package loan

import "sort"

// Strategy extracts loan records from a raw response.
// ok is false when the strategy does not apply to the input.
type Strategy func(raw map[string]any) (records []Record, ok bool)

// loanPaths are the nested locations of the loan list, in priority order.
var loanPaths = [][]string{
	{"data", "loans", "loan"},
	{"loans", "loan"},
	{"data", "loan"},
	{"loan"},
}

// Strategies returns the extraction chain used by LoansFrom.
func Strategies() []Strategy {
	chain := []Strategy{fromIDMapping}
	for _, path := range loanPaths {
		chain = append(chain, fromPath(path))
	}
	return chain
}

// LoansFrom extracts the loan records of a decoded response.
// It never fails: unknown shapes yield an empty slice.
func LoansFrom(raw any) []Record {
	doc, ok := raw.(map[string]any)
	if !ok || len(doc) == 0 {
		return []Record{}
	}
	for _, strategy := range Strategies() {
		if records, ok := strategy(doc); ok {
			return records
		}
	}
	return []Record{}
}

// fromIDMapping handles responses that are already an id -> loan mapping.
// Values are returned in key order.
func fromIDMapping(doc map[string]any) ([]Record, bool) {
	hasID := false
	for _, value := range doc {
		rec, ok := value.(map[string]any)
		if !ok {
			return nil, false
		}
		if ID(rec) != nil {
			hasID = true
		}
	}
	if !hasID {
		return nil, false
	}

	keys := make([]string, 0, len(doc))
	for key := range doc {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	records := make([]Record, 0, len(keys))
	for _, key := range keys {
		records = append(records, doc[key].(map[string]any))
	}
	return records, true
}

// fromPath follows a fixed key path and normalizes whatever it finds there.
func fromPath(path []string) Strategy {
	return func(doc map[string]any) ([]Record, bool) {
		var cursor any = doc
		for _, key := range path {
			m, ok := cursor.(map[string]any)
			if !ok {
				return nil, false
			}
			next, exists := m[key]
			if !exists {
				return nil, false
			}
			cursor = next
		}
		if cursor == nil {
			return nil, false
		}
		return normalizeList(cursor), true
	}
}

// normalizeList turns a single mapping or a list into records.
func normalizeList(value any) []Record {
	switch v := value.(type) {
	case map[string]any:
		return []Record{v}
	case []any:
		records := make([]Record, 0, len(v))
		for _, item := range v {
			if rec, ok := item.(map[string]any); ok {
				records = append(records, rec)
			}
		}
		return records
	default:
		return []Record{}
	}
}
