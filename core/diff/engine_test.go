package diff

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func fixedClock() time.Time {
	return time.Date(2026, 3, 14, 15, 9, 26, 535897932, time.FixedZone("CET", 3600))
}

func TestEngine_Run(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	engine := NewEngine(zap.New(core)).WithClock(fixedClock)

	original := dataset("original.csv", idName, []string{"1", "A"}, []string{"2", "B"})
	updated := dataset("updated.csv", idName, []string{"1", "A"}, []string{"2", "C"})

	res, err := engine.Run(Request{
		Original:    original,
		Updated:     updated,
		PrimaryKeys: []string{"id"},
	})
	require.NoError(t, err)

	assert.Equal(t, time.Date(2026, 3, 14, 14, 9, 26, 535000000, time.UTC), res.Meta.ComparedAt)
	assert.Equal(t, "original.csv", res.Meta.File1Name)
	assert.Equal(t, "updated.csv", res.Meta.File2Name)
	assert.Equal(t, Summary{Unchanged: 1, Modified: 1}, res.Summary())

	entries := logs.FilterMessage("Comparison complete").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(1), entries[0].ContextMap()["modified"])
}

func TestEngine_Run_AutoDetectKey(t *testing.T) {
	engine := NewEngine(nil)

	original := dataset("a", []string{"name", "sku_code"}, []string{"A", "1"}, []string{"B", "2"})
	updated := dataset("b", []string{"name", "sku_code"}, []string{"B", "2"}, []string{"A2", "1"})

	res, err := engine.Run(Request{Original: original, Updated: updated, AutoDetectKey: true})
	require.NoError(t, err)

	assert.Equal(t, []string{"sku_code"}, res.Meta.PrimaryKeys)
	require.Len(t, res.Modified, 2)
}

func TestEngine_Run_ConfigErrors(t *testing.T) {
	engine := NewEngine(nil)
	ds := dataset("a", idName, []string{"1", "A"})

	tests := []struct {
		name string
		req  Request
		is   error
	}{
		{"NoKeys", Request{Original: ds, Updated: ds}, ErrNoPrimaryKey},
		{"UnknownKey", Request{Original: ds, Updated: ds, PrimaryKeys: []string{"missing"}}, ErrInvalidConfig},
		{"RepeatedKey", Request{Original: ds, Updated: ds, PrimaryKeys: []string{"id", "id"}}, ErrInvalidConfig},
		{
			"StrictDuplicates",
			Request{
				Original:    dataset("dup", idName, []string{"1", "A"}, []string{"1", "B"}),
				Updated:     ds,
				PrimaryKeys: []string{"id"},
				Options:     Options{StrictKeys: true},
			},
			ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := engine.Run(tt.req)
			assert.ErrorIs(t, err, tt.is)
			assert.Nil(t, res)
		})
	}
}

func TestEngine_Run_WarnsOnDuplicates(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	engine := NewEngine(zap.New(core))

	original := dataset("a", idName, []string{"1", "A"}, []string{"1", "B"})
	updated := dataset("b", idName, []string{"1", "B"})

	_, err := engine.Run(Request{Original: original, Updated: updated, PrimaryKeys: []string{"id"}})
	require.NoError(t, err)
	assert.Equal(t, 1, logs.FilterMessageSnippet("Duplicate primary keys").Len())
}
