package diff

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// decimalPattern accepts plain decimal and exponent notation only.
// Hex floats and the inf and nan spellings ParseFloat knows are text.
var decimalPattern = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// operand is one side of a cell comparison after option transforms.
type operand struct {
	text string
	null bool
}

func newOperand(v Value, opts Options) operand {
	op := operand{text: v.String(), null: v.IsNull()}
	// Transforms work on the string form, so a transformed null becomes blank.
	if opts.IgnoreWhitespace {
		op = operand{text: strings.TrimSpace(op.text)}
	}
	if opts.IgnoreCase {
		op = operand{text: strings.ToLower(op.text)}
	}
	return op
}

// CompareRows returns the changes between original and updated over headers.
// Changes carry the raw values even though transformed values were compared.
func CompareRows(original, updated Record, headers []string, opts Options) []Change {
	var changes []Change
	for _, col := range headers {
		oldVal := original.Get(col)
		newVal := updated.Get(col)

		a := newOperand(oldVal, opts)
		b := newOperand(newVal, opts)

		var equal bool
		if opts.TypeAware {
			equal = typeAwareEqual(a, b)
		} else {
			equal = a.text == b.text
		}

		if !equal {
			changes = append(changes, Change{
				Column:   col,
				OldValue: oldVal,
				NewValue: newVal,
			})
		}
	}
	return changes
}

// ValuesEqual reports whether two values are equal under opts.
func ValuesEqual(a, b Value, opts Options) bool {
	x := newOperand(a, opts)
	y := newOperand(b, opts)
	if opts.TypeAware {
		return typeAwareEqual(x, y)
	}
	return x.text == y.text
}

func typeAwareEqual(a, b operand) bool {
	if a.null && b.null {
		return true
	}
	if a.null || b.null {
		return false
	}
	if a.text == b.text {
		return true
	}

	if x, ok := parseNumber(a.text); ok {
		if y, ok := parseNumber(b.text); ok {
			return x == y || math.Abs(x-y) < NumericTolerance
		}
	}

	if x, ok := parseDate(a.text); ok {
		if y, ok := parseDate(b.text); ok {
			return x.UnixMilli() == y.UnixMilli()
		}
	}

	return a.text == b.text
}

func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if !decimalPattern.MatchString(s) {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
