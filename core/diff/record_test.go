package diff

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord_JSONKeepsOrderAndKinds(t *testing.T) {
	input := `{"zeta":"z","alpha":1.50,"blank":"","missing":null,"flag":true}`

	var rec Record
	require.NoError(t, json.Unmarshal([]byte(input), &rec))

	assert.Equal(t, []string{"zeta", "alpha", "blank", "missing", "flag"}, rec.Columns())
	assert.Equal(t, KindNumber, rec.Get("alpha").Kind())
	assert.Equal(t, "1.50", rec.Get("alpha").String())
	assert.Equal(t, KindString, rec.Get("blank").Kind())
	assert.True(t, rec.Get("missing").IsNull())
	assert.True(t, rec.Has("missing"))
	assert.False(t, rec.Has("nope"))
	assert.Equal(t, Bool(true), rec.Get("flag"))

	out, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.Equal(t, input, string(out))
}

func TestRecord_RejectsNestedValues(t *testing.T) {
	var rec Record
	err := json.Unmarshal([]byte(`{"a":{"b":1}}`), &rec)
	assert.Error(t, err)

	err = json.Unmarshal([]byte(`["a"]`), &rec)
	assert.Error(t, err)
}

func TestNewRecord(t *testing.T) {
	rec := NewRecord([]string{"a", "b", "a"}, []Value{String("1"), String("2"), String("3")})
	assert.Equal(t, []string{"a", "b"}, rec.Columns())
	assert.Equal(t, String("3"), rec.Get("a"))

	short := NewRecord([]string{"a", "b"}, []Value{String("1")})
	assert.True(t, short.Get("b").IsNull())
	assert.Equal(t, 2, short.Len())
}

func TestDataset_JSONRoundTrip(t *testing.T) {
	ds := dataset("people.csv", idName, []string{"1", "Ann"}, []string{"2", ""})

	data, err := json.Marshal(ds)
	require.NoError(t, err)

	var back Dataset
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, ds, back)
}

func TestValue_Constructors(t *testing.T) {
	assert.Equal(t, "3.25", Float(3.25).String())
	assert.Equal(t, "-4", Int(-4).String())
	assert.Equal(t, "false", Bool(false).String())
	assert.Equal(t, "", Null().String())
	assert.Equal(t, Null(), Value{})
}

func TestNumber(t *testing.T) {
	v, err := Number("12345678901234567.81")
	require.NoError(t, err)
	assert.Equal(t, KindNumber, v.Kind())
	assert.Equal(t, "12345678901234567.81", v.String())

	data, err := json.Marshal(v)
	require.NoError(t, err)
	assert.Equal(t, "12345678901234567.81", string(data))

	for _, bad := range []string{"", "abc", "007", "1.", "+1", "inf", "0x10", " 1"} {
		_, err := Number(bad)
		assert.Error(t, err, bad)
	}
}
