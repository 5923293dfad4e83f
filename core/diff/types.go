package diff

import "time"

// KeySeparator joins primary-key values into a composite key.
const KeySeparator = "|||"

// PositionColumn is the synthetic column reported when a record changed position
// and reorders are not treated as equal.
const PositionColumn = "_position"

// NumericTolerance is the absolute difference under which two numbers are equal
// in type-aware mode.
const NumericTolerance = 0.0001

// Options controls comparison semantics.
type Options struct {
	// IgnoreCase folds both sides to lowercase before comparing.
	IgnoreCase bool `json:"ignoreCase"`

	// IgnoreWhitespace trims leading and trailing whitespace before comparing.
	IgnoreWhitespace bool `json:"ignoreWhitespace"`

	// TreatReorderAsSame reports position-only differences as Moved instead of Modified.
	TreatReorderAsSame bool `json:"treatReorderAsSame"`

	// TypeAware compares numbers with a tolerance and dates by instant.
	TypeAware bool `json:"typeAware"`

	// StrictKeys rejects datasets containing duplicate composite keys.
	// When false, later duplicates silently replace earlier ones.
	StrictKeys bool `json:"strictKeys,omitempty"`
}

// Change is a single column-level difference.
type Change struct {
	Column   string `json:"column"`
	OldValue Value  `json:"oldValue"`
	NewValue Value  `json:"newValue"`
}

// IsPosition reports whether c is the synthetic position change.
func (c Change) IsPosition() bool {
	return c.Column == PositionColumn
}

// KeyedRecord is a record present in only one dataset, or unchanged in both.
type KeyedRecord struct {
	Key      string `json:"key"`
	Data     Record `json:"data"`
	Position int    `json:"position"`
}

// ModifiedRecord is a record present in both datasets with at least one change.
type ModifiedRecord struct {
	Key              string   `json:"key"`
	Original         Record   `json:"original"`
	Updated          Record   `json:"updated"`
	Changes          []Change `json:"changes"`
	OriginalPosition int      `json:"originalPosition"`
	UpdatedPosition  int      `json:"updatedPosition"`
}

// PositionOnly reports whether the only change is the synthetic position change.
func (m ModifiedRecord) PositionOnly() bool {
	return len(m.Changes) == 1 && m.Changes[0].IsPosition()
}

// MovedRecord is a record with equal values whose position changed.
type MovedRecord struct {
	Key              string `json:"key"`
	Data             Record `json:"data"`
	OriginalPosition int    `json:"originalPosition"`
	UpdatedPosition  int    `json:"updatedPosition"`
}

// FoundStatus counts original keys found or missing in the updated dataset.
type FoundStatus struct {
	Found    int `json:"found"`
	NotFound int `json:"notFound"`
}

// StatusMatch counts found records with and without column differences.
type StatusMatch struct {
	Matched int `json:"matched"`
	Changed int `json:"changed"`
}

// Meta describes how a Result was produced.
type Meta struct {
	File1Name        string    `json:"file1Name"`
	File2Name        string    `json:"file2Name"`
	ComparedAt       time.Time `json:"comparedAt"`
	PrimaryKeys      []string  `json:"primaryKeys"`
	Options          Options   `json:"options"`
	OriginalRowCount int       `json:"originalRowCount"`
	UpdatedRowCount  int       `json:"updatedRowCount"`

	// OriginalDuplicates maps composite keys seen more than once in the original dataset
	// to their occurrence count.
	OriginalDuplicates map[string]int `json:"originalDuplicates,omitempty"`

	// UpdatedDuplicates is OriginalDuplicates for the updated dataset.
	UpdatedDuplicates map[string]int `json:"updatedDuplicates,omitempty"`
}

// Result is the outcome of one comparison.
type Result struct {
	Unchanged     []KeyedRecord    `json:"unchanged"`
	Modified      []ModifiedRecord `json:"modified"`
	Added         []KeyedRecord    `json:"added"`
	Removed       []KeyedRecord    `json:"removed"`
	Moved         []MovedRecord    `json:"moved"`
	ColumnChanges map[string]int   `json:"columnChanges"`
	FoundStatus   FoundStatus      `json:"foundStatus"`
	StatusMatch   StatusMatch      `json:"statusMatch"`
	Meta          Meta             `json:"meta"`

	// Headers lists the compared columns in original order.
	Headers []string `json:"headers"`
}

// Summary is the set of counts shown in reports.
type Summary struct {
	Unchanged int `json:"unchanged"`
	Modified  int `json:"modified"`
	Added     int `json:"added"`
	Removed   int `json:"removed"`
	Moved     int `json:"moved"`
}

// Summary returns the classification counts of r.
func (r *Result) Summary() Summary {
	return Summary{
		Unchanged: len(r.Unchanged),
		Modified:  len(r.Modified),
		Added:     len(r.Added),
		Removed:   len(r.Removed),
		Moved:     len(r.Moved),
	}
}

// TotalChanges returns the number of named-column changes across modified records.
// Synthetic position changes are not counted.
func (r *Result) TotalChanges() int {
	total := 0
	for _, m := range r.Modified {
		for _, c := range m.Changes {
			if !c.IsPosition() {
				total++
			}
		}
	}
	return total
}
