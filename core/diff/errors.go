package diff

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrInvalidConfig is wrapped by every configuration error returned before classification.
	ErrInvalidConfig = errors.New("invalid comparison configuration")

	// ErrNoPrimaryKey is returned when no primary-key column was selected.
	ErrNoPrimaryKey = fmt.Errorf("%w: at least one primary key column is required", ErrInvalidConfig)
)

// DuplicateKeyError reports composite keys that occur more than once in a dataset.
// It is only returned when Options.StrictKeys is set.
type DuplicateKeyError struct {
	// Dataset is the name of the offending dataset.
	Dataset string

	// Keys maps each duplicated composite key to its number of occurrences.
	Keys map[string]int
}

func (e *DuplicateKeyError) Error() string {
	keys := make([]string, 0, len(e.Keys))
	for k := range e.Keys {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	const maxShown = 5
	shown := keys
	if len(shown) > maxShown {
		shown = shown[:maxShown]
	}
	msg := fmt.Sprintf("dataset %q has %d duplicate primary key(s): %s", e.Dataset, len(keys), strings.Join(shown, ", "))
	if len(keys) > maxShown {
		msg += ", ..."
	}
	return msg
}

// Unwrap makes duplicate keys a configuration error.
func (e *DuplicateKeyError) Unwrap() error {
	return ErrInvalidConfig
}
