package loan

import "reflect"

// Index is an id-keyed snapshot of loans that remembers insertion order.
type Index struct {
	order []string
	byID  map[string]Record
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{byID: make(map[string]Record)}
}

// BuildIndex indexes records by their string id. Records without an id are
// skipped. A duplicate id replaces the earlier record but keeps its position.
func BuildIndex(records []Record) *Index {
	idx := NewIndex()
	for _, rec := range records {
		id := ID(rec)
		if id == nil {
			continue
		}
		idx.Put(*id, rec)
	}
	return idx
}

// Put inserts or replaces the record stored under id.
func (i *Index) Put(id string, rec Record) {
	if _, exists := i.byID[id]; !exists {
		i.order = append(i.order, id)
	}
	i.byID[id] = rec
}

// Get returns the record for id.
func (i *Index) Get(id string) (Record, bool) {
	if i == nil {
		return nil, false
	}
	rec, ok := i.byID[id]
	return rec, ok
}

// Len returns the number of indexed loans.
func (i *Index) Len() int {
	if i == nil {
		return 0
	}
	return len(i.order)
}

// IDs returns the loan ids in stored order.
func (i *Index) IDs() []string {
	if i == nil {
		return nil
	}
	out := make([]string, len(i.order))
	copy(out, i.order)
	return out
}

// Records returns the loans in stored order.
func (i *Index) Records() []Record {
	if i == nil {
		return nil
	}
	out := make([]Record, 0, len(i.order))
	for _, id := range i.order {
		out = append(out, i.byID[id])
	}
	return out
}

// IDSet returns the set of indexed ids.
func (i *Index) IDSet() map[string]struct{} {
	set := make(map[string]struct{}, i.Len())
	if i == nil {
		return set
	}
	for _, id := range i.order {
		set[id] = struct{}{}
	}
	return set
}

// Equal reports whether both indices hold the same ids in the same order
// with equal records.
func (i *Index) Equal(other *Index) bool {
	if i.Len() != other.Len() {
		return false
	}
	for n, id := range i.IDs() {
		if other.order[n] != id {
			return false
		}
		if !reflect.DeepEqual(i.byID[id], other.byID[id]) {
			return false
		}
	}
	return true
}
