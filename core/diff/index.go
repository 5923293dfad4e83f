package diff

import "strings"

// Index is the composite-key lookup built over one dataset.
type Index struct {
	// Records maps each composite key to its last record.
	Records map[string]Record

	// First maps each composite key to the position of its first occurrence.
	First map[string]int

	// Positions maps each composite key to the position of its last occurrence.
	// Classification reads positions from here so they agree with Records.
	Positions map[string]int

	// Order lists keys in first-insertion order.
	Order []string

	// Duplicates maps keys seen more than once to their occurrence count.
	// It is nil when every key is unique.
	Duplicates map[string]int
}

// CompositeKey joins the string forms of the primary-key values of r.
// Missing and null values contribute an empty string.
func CompositeKey(r Record, primaryKeys []string) string {
	parts := make([]string, len(primaryKeys))
	for i, k := range primaryKeys {
		parts[i] = r.Get(k).String()
	}
	return strings.Join(parts, KeySeparator)
}

// BuildIndex indexes ds by composite key. Duplicate keys keep the last record.
func BuildIndex(ds Dataset, primaryKeys []string) (*Index, error) {
	if len(primaryKeys) == 0 {
		return nil, ErrNoPrimaryKey
	}

	idx := &Index{
		Records:   make(map[string]Record, len(ds.Records)),
		First:     make(map[string]int, len(ds.Records)),
		Positions: make(map[string]int, len(ds.Records)),
		Order:     make([]string, 0, len(ds.Records)),
	}

	for pos, rec := range ds.Records {
		key := CompositeKey(rec, primaryKeys)
		if _, seen := idx.Records[key]; seen {
			if idx.Duplicates == nil {
				idx.Duplicates = make(map[string]int)
			}
			if idx.Duplicates[key] == 0 {
				idx.Duplicates[key] = 1
			}
			idx.Duplicates[key]++
		} else {
			idx.First[key] = pos
			idx.Order = append(idx.Order, key)
		}
		idx.Records[key] = rec
		idx.Positions[key] = pos
	}

	return idx, nil
}

// Len returns the number of distinct keys.
func (idx *Index) Len() int {
	return len(idx.Order)
}

// Lookup returns the record and classification position of key.
func (idx *Index) Lookup(key string) (Record, int, bool) {
	rec, ok := idx.Records[key]
	if !ok {
		return Record{}, 0, false
	}
	return rec, idx.Positions[key], true
}
