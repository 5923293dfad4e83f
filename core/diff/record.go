package diff

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Record is an ordered mapping of column name to Value.
// Column order is the order columns were first set.
type Record struct {
	columns []string
	values  map[string]Value
}

// NewRecord builds a Record from parallel column and value slices.
// Columns without a matching value are null. A repeated column keeps its first
// position and its last value.
func NewRecord(columns []string, values []Value) Record {
	r := Record{
		columns: make([]string, 0, len(columns)),
		values:  make(map[string]Value, len(columns)),
	}
	for i, col := range columns {
		v := Null()
		if i < len(values) {
			v = values[i]
		}
		r.set(col, v)
	}
	return r
}

// StringRecord builds a Record whose values are all text.
func StringRecord(columns []string, values []string) Record {
	vals := make([]Value, len(values))
	for i, s := range values {
		vals[i] = String(s)
	}
	return NewRecord(columns, vals)
}

func (r *Record) set(column string, v Value) {
	if r.values == nil {
		r.values = make(map[string]Value)
	}
	if _, ok := r.values[column]; !ok {
		r.columns = append(r.columns, column)
	}
	r.values[column] = v
}

// Get returns the value of column, or null when the column is absent.
func (r Record) Get(column string) Value {
	return r.values[column]
}

// Has reports whether column is present in r.
func (r Record) Has(column string) bool {
	_, ok := r.values[column]
	return ok
}

// Columns returns a copy of the column names in order.
func (r Record) Columns() []string {
	out := make([]string, len(r.columns))
	copy(out, r.columns)
	return out
}

// Len returns the number of columns.
func (r Record) Len() int {
	return len(r.columns)
}

// MarshalJSON encodes r as a JSON object keeping column order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, col := range r.columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(col)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := r.values[col].MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object into r keeping key order.
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("record must be a JSON object")
	}

	out := Record{columns: []string{}, values: map[string]Value{}}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		column, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected record key %v", tok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		var v Value
		if err := v.UnmarshalJSON(raw); err != nil {
			return fmt.Errorf("column %q: %w", column, err)
		}
		out.set(column, v)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*r = out
	return nil
}

// Dataset is an ordered sequence of records loaded from one source.
// A record's index is its position.
type Dataset struct {
	// Name identifies the source, usually a file name.
	Name string `json:"name"`

	// Records holds the rows in source order.
	Records []Record `json:"records"`
}

// Len returns the number of records.
func (d Dataset) Len() int {
	return len(d.Records)
}

// Headers returns the columns of the first record, or nil for an empty dataset.
func (d Dataset) Headers() []string {
	if len(d.Records) == 0 {
		return nil
	}
	return d.Records[0].Columns()
}
