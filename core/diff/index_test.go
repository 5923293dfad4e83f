package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompositeKey(t *testing.T) {
	rec := NewRecord([]string{"a", "b", "c"}, []Value{String("x"), Null(), Int(7)})

	tests := []struct {
		name string
		keys []string
		want string
	}{
		{"Single", []string{"a"}, "x"},
		{"NullIsEmpty", []string{"b"}, ""},
		{"MissingIsEmpty", []string{"zzz"}, ""},
		{"Number", []string{"c"}, "7"},
		{"Composite", []string{"a", "b", "c"}, "x||||||7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CompositeKey(rec, tt.keys))
		})
	}
}

func TestBuildIndex(t *testing.T) {
	ds := dataset("a", idName,
		[]string{"1", "A"},
		[]string{"2", "B"},
		[]string{"1", "A2"},
		[]string{"3", "C"},
	)

	idx, err := BuildIndex(ds, []string{"id"})
	require.NoError(t, err)

	assert.Equal(t, 3, idx.Len())
	assert.Equal(t, []string{"1", "2", "3"}, idx.Order)
	assert.Equal(t, 0, idx.First["1"])
	assert.Equal(t, 2, idx.Positions["1"])
	assert.Equal(t, map[string]int{"1": 2}, idx.Duplicates)

	rec, pos, ok := idx.Lookup("1")
	require.True(t, ok)
	assert.Equal(t, 2, pos)
	assert.Equal(t, String("A2"), rec.Get("name"))

	_, _, ok = idx.Lookup("404")
	assert.False(t, ok)
}

func TestBuildIndex_Empty(t *testing.T) {
	idx, err := BuildIndex(Dataset{}, []string{"id"})
	require.NoError(t, err)
	assert.Equal(t, 0, idx.Len())
	assert.Empty(t, idx.Records)
	assert.Nil(t, idx.Duplicates)
}

func TestBuildIndex_RequiresPrimaryKey(t *testing.T) {
	_, err := BuildIndex(dataset("a", idName, []string{"1", "A"}), nil)
	assert.ErrorIs(t, err, ErrNoPrimaryKey)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
