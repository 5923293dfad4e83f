package snapshot

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"sheet-diff/core/diff"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult(t *testing.T) *diff.Result {
	t.Helper()
	cols := []string{"id", "name", "qty"}
	original := diff.Dataset{Name: "a.csv", Records: []diff.Record{
		diff.StringRecord(cols, []string{"1", "Ann", "3"}),
		diff.StringRecord(cols, []string{"2", "Bob", "4"}),
		diff.StringRecord(cols, []string{"3", "Cy", "5"}),
	}}
	updated := diff.Dataset{Name: "b.csv", Records: []diff.Record{
		diff.StringRecord(cols, []string{"2", "Bob", "4"}),
		diff.StringRecord(cols, []string{"1", "Ann", "9"}),
		diff.NewRecord(cols, []diff.Value{diff.Int(4), diff.Null(), diff.Float(1.5)}),
	}}

	result, err := diff.Classify(original, updated, []string{"id"}, cols, diff.Options{TreatReorderAsSame: true})
	require.NoError(t, err)
	result.Meta.ComparedAt = time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)
	return result
}

func TestRoundTrip(t *testing.T) {
	want := New(sampleResult(t), true)
	want.ViewerState["theme"] = json.RawMessage(`"dark"`)

	data, err := Marshal(want)
	require.NoError(t, err)

	got, err := Decode(bytes.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, Version, got.Version)
	assert.Equal(t, want.Result, got.Result)
	assert.True(t, got.ShowMovedRows())
	assert.JSONEq(t, `"dark"`, string(got.ViewerState["theme"]))
}

func TestEncode_Layout(t *testing.T) {
	data, err := Marshal(New(sampleResult(t), false))
	require.NoError(t, err)

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &doc))

	for _, key := range []string{"version", "type", "unchanged", "modified", "added", "removed", "moved", "columnChanges", "foundStatus", "statusMatch", "meta", "headers", "viewerState"} {
		assert.Contains(t, doc, key)
	}
	assert.JSONEq(t, `"wellbound-diff"`, string(doc["type"]))
	assert.JSONEq(t, `{"showMovedRows":false}`, string(doc["viewerState"]))
}

func TestEncode_NoResult(t *testing.T) {
	_, err := Marshal(&Snapshot{})
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"NotJSON", "nope", ErrInvalidFormat},
		{"WrongType", `{"version":"1.1","type":"other"}`, ErrInvalidFormat},
		{"MissingType", `{"version":"1.0"}`, ErrInvalidFormat},
		{"FutureMajor", `{"version":"2.0","type":"wellbound-diff"}`, ErrUnsupportedVersion},
		{"NonNumericVersion", `{"version":"beta","type":"wellbound-diff"}`, ErrUnsupportedVersion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.input))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestDecode_Legacy(t *testing.T) {
	input := `{"version":"1.0","type":"wellbound-diff","showMovedRows":true,"modified":[],"meta":{"primaryKeys":["id"]}}`

	got, err := Decode(strings.NewReader(input))
	require.NoError(t, err)

	assert.True(t, got.ShowMovedRows())
	assert.Equal(t, []string{"id"}, got.Result.Meta.PrimaryKeys)
	assert.NotNil(t, got.Result.Unchanged)
	assert.NotNil(t, got.Result.ColumnChanges)
}

func TestDecode_MissingVersion(t *testing.T) {
	input := `{"type":"wellbound-diff","showMovedRows":true,"modified":[{"key":"1","original":{"id":"1"},"updated":{"id":"1"},"changes":[]}]}`

	got, err := Decode(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, "1.0", got.Version)
	assert.True(t, got.ShowMovedRows())
	assert.Len(t, got.Result.Modified, 1)
}

func TestDecode_ViewerStateWins(t *testing.T) {
	input := `{"version":"1.1","type":"wellbound-diff","showMovedRows":true,"viewerState":{"showMovedRows":false}}`

	got, err := Decode(strings.NewReader(input))
	require.NoError(t, err)
	assert.False(t, got.ShowMovedRows())
}

func TestFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.json")
	want := New(sampleResult(t), false)

	require.NoError(t, WriteFile(path, want))

	got, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, want.Result, got.Result)

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
