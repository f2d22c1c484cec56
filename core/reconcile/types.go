package reconcile

import "sort"

// Set is a set of entity keys.
type Set map[string]struct{}

// NewSet returns a set holding keys.
func NewSet(keys ...string) Set {
	s := make(Set, len(keys))
	for _, k := range keys {
		s[k] = struct{}{}
	}
	return s
}

// Has reports whether key is in the set. A nil set is empty.
func (s Set) Has(key string) bool {
	_, ok := s[key]
	return ok
}

// Sorted returns the keys in ascending order.
func (s Set) Sorted() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Result is the reconciliation output for a single key.
type Result struct {
	// Key is the entity key.
	Key string `json:"key"`

	// Observed indicates the key was seen on the previous pass.
	Observed bool `json:"observed"`

	// Current indicates the key is present now.
	Current bool `json:"current"`

	// Registered indicates the key has a persisted registry entry.
	Registered bool `json:"registered"`
}

// Delta holds the keys that changed between two passes.
type Delta struct {
	Added   []string `json:"added"`
	Removed []string `json:"removed"`
}

// Empty reports whether nothing changed.
func (d Delta) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0
}

// ActionType represents the type of mutation action.
type ActionType string

const (
	// ActionPurge removes a persisted registry entry nobody tracks.
	ActionPurge ActionType = "purge"
	// ActionCreate starts tracking a new key.
	ActionCreate ActionType = "create"
	// ActionRemove stops tracking a key that disappeared.
	ActionRemove ActionType = "remove"
)

// Action represents a planned mutation operation.
type Action struct {
	// Type specifies the action to perform.
	Type ActionType `json:"type"`

	// Key is the entity key.
	Key string `json:"key"`

	// Reason explains why this action is needed.
	Reason string `json:"reason"`
}

// Plan contains reconciliation results and planned actions.
type Plan struct {
	Results []Result    `json:"results"`
	Actions []Action    `json:"actions"`
	Summary PlanSummary `json:"summary"`
}

// PlanSummary provides aggregate statistics for a plan.
type PlanSummary struct {
	// TotalItems is the number of unique keys across all sources.
	TotalItems int `json:"total_items"`

	PurgeActions  int `json:"purge_actions"`
	CreateActions int `json:"create_actions"`
	RemoveActions int `json:"remove_actions"`
}

// Empty reports whether the plan has nothing to do.
func (p *Plan) Empty() bool {
	return p == nil || len(p.Actions) == 0
}
