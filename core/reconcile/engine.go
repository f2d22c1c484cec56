package reconcile

import "sort"

// Reconcile builds the union of keys from all sources and returns one result
// per key, sorted by key.
func Reconcile(observed, current, registered Set) []Result {
	union := buildUnion(observed, current, registered)

	results := make([]Result, 0, len(union))
	for key := range union {
		results = append(results, Result{
			Key:        key,
			Observed:   observed.Has(key),
			Current:    current.Has(key),
			Registered: registered.Has(key),
		})
	}

	// Sort results by key for deterministic output
	sort.Slice(results, func(i, j int) bool {
		return results[i].Key < results[j].Key
	})

	return results
}

// Diff returns the keys added and removed between previous and current.
func Diff(previous, current Set) Delta {
	delta := Delta{Added: []string{}, Removed: []string{}}
	for key := range current {
		if !previous.Has(key) {
			delta.Added = append(delta.Added, key)
		}
	}
	for key := range previous {
		if !current.Has(key) {
			delta.Removed = append(delta.Removed, key)
		}
	}
	sort.Strings(delta.Added)
	sort.Strings(delta.Removed)
	return delta
}

// buildUnion creates a union of all keys from the given sets.
func buildUnion(sets ...Set) Set {
	union := make(Set)
	for _, s := range sets {
		for key := range s {
			union[key] = struct{}{}
		}
	}
	return union
}
