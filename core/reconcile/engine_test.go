package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReconcile(t *testing.T) {
	results := Reconcile(NewSet("1", "2"), NewSet("2", "3"), NewSet("0", "1"))

	assert.Equal(t, []Result{
		{Key: "0", Registered: true},
		{Key: "1", Observed: true, Registered: true},
		{Key: "2", Observed: true, Current: true},
		{Key: "3", Current: true},
	}, results)
}

func TestReconcile_NilSets(t *testing.T) {
	assert.Empty(t, Reconcile(nil, nil, nil))
}

func TestDiff(t *testing.T) {
	tests := []struct {
		name     string
		previous Set
		current  Set
		expected Delta
	}{
		{
			name:     "added and removed",
			previous: NewSet("1", "2"),
			current:  NewSet("2", "3"),
			expected: Delta{Added: []string{"3"}, Removed: []string{"1"}},
		},
		{
			name:     "sorted output",
			previous: NewSet("z", "b"),
			current:  NewSet("c", "a"),
			expected: Delta{Added: []string{"a", "c"}, Removed: []string{"b", "z"}},
		},
		{
			name:     "unchanged",
			previous: NewSet("1"),
			current:  NewSet("1"),
			expected: Delta{Added: []string{}, Removed: []string{}},
		},
		{
			name:     "from nothing",
			previous: nil,
			current:  NewSet("1"),
			expected: Delta{Added: []string{"1"}, Removed: []string{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			delta := Diff(tt.previous, tt.current)
			assert.Equal(t, tt.expected, delta)
		})
	}
}

func TestDelta_Empty(t *testing.T) {
	assert.True(t, Diff(NewSet("1"), NewSet("1")).Empty())
	assert.False(t, Diff(NewSet("1"), NewSet("2")).Empty())
}

func TestSet_Sorted(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, NewSet("c", "a", "b").Sorted())
	assert.Equal(t, []string{}, Set(nil).Sorted())
}
