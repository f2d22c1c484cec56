package loan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildIndex(t *testing.T) {
	records := []Record{
		{"loanid": "b", "title": "first"},
		{"title": "no id"},
		{"loanid": "a"},
		{"loanid": "b", "title": "second"},
	}

	idx := BuildIndex(records)
	assert.Equal(t, 2, idx.Len())
	assert.Equal(t, []string{"b", "a"}, idx.IDs())

	rec, ok := idx.Get("b")
	assert.True(t, ok)
	assert.Equal(t, "second", rec["title"])

	_, ok = idx.Get("missing")
	assert.False(t, ok)

	assert.Equal(t, map[string]struct{}{"a": {}, "b": {}}, idx.IDSet())
}

func TestIndex_Equal(t *testing.T) {
	body := []Record{{"loanid": "1", "title": "x"}, {"loanid": "2"}}
	assert.True(t, BuildIndex(body).Equal(BuildIndex(body)))

	changed := []Record{{"loanid": "1", "title": "y"}, {"loanid": "2"}}
	assert.False(t, BuildIndex(body).Equal(BuildIndex(changed)))

	reordered := []Record{{"loanid": "2"}, {"loanid": "1", "title": "x"}}
	assert.False(t, BuildIndex(body).Equal(BuildIndex(reordered)))
}

func TestIndex_NilSafe(t *testing.T) {
	var idx *Index
	assert.Equal(t, 0, idx.Len())
	assert.Nil(t, idx.IDs())
	assert.Empty(t, idx.IDSet())
	_, ok := idx.Get("x")
	assert.False(t, ok)
}
