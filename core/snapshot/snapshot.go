package snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"sheet-diff/core/diff"
)

const (
	// Version is written into every encoded snapshot.
	Version = "1.1"

	legacyVersion = "1.0"

	// Type identifies a snapshot document.
	Type = "wellbound-diff"

	// showMovedKey is the only viewer preference interpreted by the service.
	showMovedKey = "showMovedRows"
)

// Preferences is the opaque viewer state carried by a snapshot.
// Unknown keys are preserved verbatim.
type Preferences map[string]json.RawMessage

// ShowMovedRows reports whether moved records are displayed separately.
func (p Preferences) ShowMovedRows() bool {
	raw, ok := p[showMovedKey]
	if !ok {
		return false
	}
	var v bool
	if err := json.Unmarshal(raw, &v); err != nil {
		return false
	}
	return v
}

// SetShowMovedRows stores the show-moved preference.
func (p Preferences) SetShowMovedRows(v bool) {
	p[showMovedKey] = json.RawMessage(fmt.Sprintf("%t", v))
}

// Snapshot is a saved comparison together with its viewer state.
type Snapshot struct {
	Version     string
	Result      *diff.Result
	ViewerState Preferences
}

// New wraps result in a snapshot with the current format version.
func New(result *diff.Result, showMoved bool) *Snapshot {
	s := &Snapshot{Version: Version, Result: result, ViewerState: Preferences{}}
	s.ViewerState.SetShowMovedRows(showMoved)
	return s
}

// ShowMovedRows reports the show-moved preference of s.
func (s *Snapshot) ShowMovedRows() bool {
	return s.ViewerState.ShowMovedRows()
}

// document is the wire layout: result fields are inlined next to the envelope.
type document struct {
	Version string `json:"version"`
	Type    string `json:"type"`
	*diff.Result
	ViewerState Preferences `json:"viewerState,omitempty"`

	// ShowMovedRows is read from bundles written before viewerState existed.
	ShowMovedRows *bool `json:"showMovedRows,omitempty"`
}

// Encode writes s as an indented JSON document.
func Encode(w io.Writer, s *Snapshot) error {
	if s == nil || s.Result == nil {
		return fmt.Errorf("%w: snapshot has no result", ErrInvalidFormat)
	}

	version := s.Version
	if version == "" {
		version = Version
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(document{
		Version:     version,
		Type:        Type,
		Result:      s.Result,
		ViewerState: s.ViewerState,
	}); err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return nil
}

// Marshal returns the encoded form of s.
func Marshal(s *Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode reads a snapshot document.
func Decode(r io.Reader) (*Snapshot, error) {
	doc := document{Result: &diff.Result{}}
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	if doc.Type != Type {
		return nil, fmt.Errorf("%w: unexpected type %q", ErrInvalidFormat, doc.Type)
	}
	// Bundles written before versioning carry only the type.
	if doc.Version == "" {
		doc.Version = legacyVersion
	}
	if major, _, _ := strings.Cut(doc.Version, "."); major != "1" {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedVersion, doc.Version)
	}

	normalize(doc.Result)

	prefs := doc.ViewerState
	if prefs == nil {
		prefs = Preferences{}
		if doc.ShowMovedRows != nil {
			prefs.SetShowMovedRows(*doc.ShowMovedRows)
		}
	}

	return &Snapshot{Version: doc.Version, Result: doc.Result, ViewerState: prefs}, nil
}

// normalize replaces absent collections with empty ones so decoded results
// behave like freshly classified ones.
func normalize(r *diff.Result) {
	if r.Unchanged == nil {
		r.Unchanged = []diff.KeyedRecord{}
	}
	if r.Modified == nil {
		r.Modified = []diff.ModifiedRecord{}
	}
	if r.Added == nil {
		r.Added = []diff.KeyedRecord{}
	}
	if r.Removed == nil {
		r.Removed = []diff.KeyedRecord{}
	}
	if r.Moved == nil {
		r.Moved = []diff.MovedRecord{}
	}
	if r.ColumnChanges == nil {
		r.ColumnChanges = map[string]int{}
	}
	if r.Headers == nil {
		r.Headers = []string{}
	}
}

// WriteFile encodes s to path.
func WriteFile(path string, s *Snapshot) error {
	data, err := Marshal(s)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot %s: %w", path, err)
	}
	return nil
}

// ReadFile decodes the snapshot stored at path.
func ReadFile(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot %s: %w", path, err)
	}
	defer f.Close()
	return Decode(f)
}
