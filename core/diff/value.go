package diff

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
)

// jsonNumber matches the JSON number grammar, so numeric text marshals verbatim.
var jsonNumber = regexp.MustCompile(`^-?(0|[1-9]\d*)(\.\d+)?([eE][+-]?\d+)?$`)

// Kind identifies the scalar type held by a Value.
type Kind uint8

const (
	// KindNull marks an absent or null cell.
	KindNull Kind = iota
	// KindString marks a text cell. Blank cells are empty strings, not nulls.
	KindString
	// KindNumber marks a numeric cell. The original text is kept verbatim.
	KindNumber
	// KindBool marks a boolean cell.
	KindBool
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	default:
		return "unknown"
	}
}

// Value is a single scalar cell of a Record.
// The zero Value is null.
type Value struct {
	kind Kind
	text string
}

// Null returns the null Value.
func Null() Value {
	return Value{}
}

// String returns a text Value.
func String(s string) Value {
	return Value{kind: KindString, text: s}
}

// Int returns a numeric Value.
func Int(i int64) Value {
	return Value{kind: KindNumber, text: strconv.FormatInt(i, 10)}
}

// Float returns a numeric Value formatted with the shortest exact representation.
func Float(f float64) Value {
	return Value{kind: KindNumber, text: strconv.FormatFloat(f, 'f', -1, 64)}
}

// Number returns a numeric Value holding text exactly as given, so wide
// decimals and 64-bit keys survive without float rounding.
func Number(text string) (Value, error) {
	if !jsonNumber.MatchString(text) {
		return Value{}, fmt.Errorf("invalid number %q", text)
	}
	return Value{kind: KindNumber, text: text}, nil
}

// Bool returns a boolean Value.
func Bool(b bool) Value {
	return Value{kind: KindBool, text: strconv.FormatBool(b)}
}

// Kind reports the scalar type of v.
func (v Value) Kind() Kind {
	return v.kind
}

// IsNull reports whether v is absent.
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// String returns the string form used for keys and comparisons.
// Null renders as the empty string.
func (v Value) String() string {
	return v.text
}

// GoString makes test failures readable.
func (v Value) GoString() string {
	if v.kind == KindNull {
		return "diff.Null()"
	}
	return fmt.Sprintf("diff.Value{%s:%q}", v.kind, v.text)
}

// MarshalJSON encodes v as a JSON scalar.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNull:
		return []byte("null"), nil
	case KindNumber, KindBool:
		return []byte(v.text), nil
	default:
		return json.Marshal(v.text)
	}
}

// UnmarshalJSON decodes any JSON scalar into v. Numbers keep their literal text.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("empty value")
	}

	switch data[0] {
	case 'n':
		*v = Null()
		return nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*v = Bool(b)
		return nil
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = String(s)
		return nil
	case '{', '[':
		return fmt.Errorf("value must be a scalar, got %s", data)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*v = Value{kind: KindNumber, text: n.String()}
		return nil
	}
}
