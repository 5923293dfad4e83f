package export

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"sheet-diff/core/diff"
)

// Format is an export file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat parses a format name.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("unknown export format %q (want csv or xlsx)", s)
}

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
}

// ContentType is the MIME type of f.
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv"
}

// Report describes one export.
type Report struct {
	Result    *diff.Result
	Rows      RowSet
	ShowMoved bool
	Generated time.Time
}

// Title is the report title.
func (r Report) Title() string {
	return r.Rows.Title()
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9]`)

// FileName returns a download name for the report in format f.
func (r Report) FileName(f Format) string {
	name := unsafeFileChars.ReplaceAllString(r.Title(), "_")
	if len(name) > 50 {
		name = name[:50]
	}
	return name + "." + string(f)
}

// Table builds the exported rows.
func (r Report) Table() *Table {
	return Build(r.Result, r.Rows, r.ShowMoved)
}

// Lines returns the report header, one line per entry. Blank entries separate sections.
// When moved rows are hidden they are counted as unchanged.
func (r Report) Lines() []string {
	res := r.Result
	unchanged := len(res.Unchanged)
	if !r.ShowMoved {
		unchanged += len(res.Moved)
	}

	lines := []string{
		"WELLBOUND DIFFERENCE REPORT",
		r.Title(),
		"Generated: " + r.Generated.Format("2006-01-02 15:04:05 MST"),
		"Original File: " + res.Meta.File1Name,
		"Updated File: " + res.Meta.File2Name,
		"Primary Key(s): " + strings.Join(res.Meta.PrimaryKeys, ", "),
		"",
		"Summary:",
		fmt.Sprintf("- Unchanged Rows: %d", unchanged),
		fmt.Sprintf("- Modified Rows: %d", len(res.Modified)),
		fmt.Sprintf("- Added Rows: %d", len(res.Added)),
		fmt.Sprintf("- Removed Rows: %d", len(res.Removed)),
	}
	if r.ShowMoved {
		lines = append(lines, fmt.Sprintf("- Moved Rows: %d", len(res.Moved)))
	}
	return lines
}
