package export

import (
	"fmt"
	"strings"

	"sheet-diff/core/diff"
)

// RowSet selects which classified records are exported.
type RowSet string

const (
	// RowsChanged exports modified, added, removed and (optionally) moved records.
	RowsChanged RowSet = "changed"
	// RowsAll exports every record.
	RowsAll RowSet = "all"
	// RowsUnchanged exports unchanged records without status columns.
	RowsUnchanged RowSet = "unchanged"
)

// Column names added to exported rows.
const (
	StatusColumn       = "_status"
	FromPositionColumn = "_from_position"
	ToPositionColumn   = "_to_position"
	OldValuePrefix     = "_old_"
)

// Status values written to StatusColumn.
const (
	StatusModified  = "MODIFIED"
	StatusAdded     = "ADDED"
	StatusRemoved   = "REMOVED"
	StatusMoved     = "MOVED"
	StatusUnchanged = "UNCHANGED"
)

var statusColumns = []string{StatusColumn, FromPositionColumn, ToPositionColumn}

// ParseRowSet parses a row set name. An empty name selects RowsChanged.
func ParseRowSet(s string) (RowSet, error) {
	switch RowSet(strings.ToLower(strings.TrimSpace(s))) {
	case "", RowsChanged:
		return RowsChanged, nil
	case RowsAll:
		return RowsAll, nil
	case RowsUnchanged:
		return RowsUnchanged, nil
	}
	return "", fmt.Errorf("unknown row set %q (want changed, all or unchanged)", s)
}

// Title is the report title for the row set.
func (s RowSet) Title() string {
	switch s {
	case RowsAll:
		return "Full Comparison Report"
	case RowsUnchanged:
		return "Unchanged Rows Report"
	default:
		return "Changed Rows Report"
	}
}

// Table is a flat list of export rows.
type Table struct {
	// Columns is the union of row columns: status columns first, then first-seen order.
	Columns []string
	Rows    []diff.Record
}

// row accumulates one export row. Later writes to an existing column replace
// the value but keep the column's first position.
type row struct {
	columns []string
	values  []diff.Value
}

func (r *row) set(column string, v diff.Value) {
	r.columns = append(r.columns, column)
	r.values = append(r.values, v)
}

func (r *row) merge(rec diff.Record) {
	for _, c := range rec.Columns() {
		r.set(c, rec.Get(c))
	}
}

func (r *row) record() diff.Record {
	return diff.NewRecord(r.columns, r.values)
}

func statusRow(status string, data diff.Record) diff.Record {
	var r row
	r.set(StatusColumn, diff.String(status))
	r.merge(data)
	return r.record()
}

func modifiedRow(m diff.ModifiedRecord) diff.Record {
	var r row
	r.set(StatusColumn, diff.String(StatusModified))
	r.merge(m.Updated)
	for _, c := range m.Changes {
		r.set(OldValuePrefix+c.Column, c.OldValue)
	}
	return r.record()
}

func movedRow(m diff.MovedRecord, withPositions bool) diff.Record {
	var r row
	r.set(StatusColumn, diff.String(StatusMoved))
	if withPositions {
		r.set(FromPositionColumn, diff.Int(int64(m.OriginalPosition+1)))
		r.set(ToPositionColumn, diff.Int(int64(m.UpdatedPosition+1)))
	}
	r.merge(m.Data)
	return r.record()
}

// Build prepares the rows of set from result. When showMoved is false, moved
// records are exported as unchanged.
func Build(result *diff.Result, set RowSet, showMoved bool) *Table {
	var rows []diff.Record

	switch set {
	case RowsUnchanged:
		for _, u := range result.Unchanged {
			rows = append(rows, u.Data)
		}
		if !showMoved {
			for _, m := range result.Moved {
				rows = append(rows, m.Data)
			}
		}

	case RowsAll:
		for _, u := range result.Unchanged {
			rows = append(rows, statusRow(StatusUnchanged, u.Data))
		}
		if !showMoved {
			for _, m := range result.Moved {
				rows = append(rows, statusRow(StatusUnchanged, m.Data))
			}
		}
		rows = appendChanged(rows, result)
		if showMoved {
			for _, m := range result.Moved {
				rows = append(rows, movedRow(m, false))
			}
		}

	default:
		rows = appendChanged(rows, result)
		if showMoved {
			for _, m := range result.Moved {
				rows = append(rows, movedRow(m, true))
			}
		}
	}

	return &Table{Columns: columnsOf(rows), Rows: rows}
}

func appendChanged(rows []diff.Record, result *diff.Result) []diff.Record {
	for _, m := range result.Modified {
		rows = append(rows, modifiedRow(m))
	}
	for _, a := range result.Added {
		rows = append(rows, statusRow(StatusAdded, a.Data))
	}
	for _, r := range result.Removed {
		rows = append(rows, statusRow(StatusRemoved, r.Data))
	}
	return rows
}

func columnsOf(rows []diff.Record) []string {
	seen := make(map[string]bool)
	var columns []string

	for _, c := range statusColumns {
		for _, r := range rows {
			if r.Has(c) {
				columns = append(columns, c)
				seen[c] = true
				break
			}
		}
	}

	for _, r := range rows {
		for _, c := range r.Columns() {
			if !seen[c] {
				seen[c] = true
				columns = append(columns, c)
			}
		}
	}
	return columns
}
