package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"sheet-diff/core/diff"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// maxCellWidth bounds cell text in the details table.
const maxCellWidth = 40

// Options controls what Render prints.
type Options struct {
	// ShowMoved lists moved records separately. When false they count as unchanged.
	ShowMoved bool

	// Details is the maximum number of changed cells listed. Zero hides the list.
	Details int
}

var (
	addedColor    = color.New(color.FgHiGreen).SprintFunc()
	removedColor  = color.New(color.FgHiRed).SprintFunc()
	modifiedColor = color.New(color.FgHiYellow).SprintFunc()
	movedColor    = color.New(color.FgHiBlue).SprintFunc()
	titleColor    = color.New(color.Bold).SprintFunc()
)

// Render writes a human readable report of result to w.
func Render(w io.Writer, result *diff.Result, opts Options) error {
	meta := result.Meta

	fmt.Fprintln(w, titleColor("COMPARISON REPORT"))
	fmt.Fprintf(w, "Original: %s (%d rows)\n", meta.File1Name, meta.OriginalRowCount)
	fmt.Fprintf(w, "Updated:  %s (%d rows)\n", meta.File2Name, meta.UpdatedRowCount)
	fmt.Fprintf(w, "Keys:     %s\n", strings.Join(meta.PrimaryKeys, ", "))
	if !meta.ComparedAt.IsZero() {
		fmt.Fprintf(w, "Compared: %s\n", meta.ComparedAt.Format("2006-01-02 15:04:05 MST"))
	}
	for _, dup := range []struct {
		label  string
		counts map[string]int
	}{{"original", meta.OriginalDuplicates}, {"updated", meta.UpdatedDuplicates}} {
		if len(dup.counts) > 0 {
			fmt.Fprintf(w, "%s %d duplicate key(s) in %s, last occurrence kept\n",
				modifiedColor("warning:"), len(dup.counts), dup.label)
		}
	}
	fmt.Fprintln(w)

	if err := renderSummary(w, result, opts.ShowMoved); err != nil {
		return err
	}

	if len(result.ColumnChanges) > 0 && result.TotalChanges() > 0 {
		fmt.Fprintln(w)
		if err := renderColumns(w, result); err != nil {
			return err
		}
	}

	if opts.Details > 0 && len(result.Modified) > 0 {
		fmt.Fprintln(w)
		return renderDetails(w, result, opts.Details)
	}
	return nil
}

// NewTable returns a table writing to w with headers kept as given and
// cells never wrapped.
func NewTable(w io.Writer, headers ...any) *tablewriter.Table {
	table := tablewriter.NewTable(w,
		tablewriter.WithHeaderAutoFormat(tw.Off),
		tablewriter.WithRowAutoWrap(tw.WrapNone),
	)
	table.Header(headers...)
	return table
}

// appendRows adds rows to table and renders it.
func appendRows(table *tablewriter.Table, rows [][]string) error {
	for _, row := range rows {
		if err := table.Append(row); err != nil {
			return fmt.Errorf("failed to render report: %w", err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	return nil
}

func renderSummary(w io.Writer, result *diff.Result, showMoved bool) error {
	s := result.Summary()
	unchanged := s.Unchanged
	if !showMoved {
		unchanged += s.Moved
	}

	rows := [][]string{
		{"Unchanged", strconv.Itoa(unchanged)},
		{modifiedColor("Modified"), strconv.Itoa(s.Modified)},
		{addedColor("Added"), strconv.Itoa(s.Added)},
		{removedColor("Removed"), strconv.Itoa(s.Removed)},
	}
	if showMoved {
		rows = append(rows, []string{movedColor("Moved"), strconv.Itoa(s.Moved)})
	}
	return appendRows(NewTable(w, "Status", "Rows"), rows)
}

// columnCount is one row of the per-column table.
type columnCount struct {
	column string
	count  int
}

// sortedColumnChanges orders columns by change count, then by header order.
func sortedColumnChanges(result *diff.Result) []columnCount {
	order := make(map[string]int, len(result.Headers))
	for i, h := range result.Headers {
		order[h] = i
	}

	var counts []columnCount
	for column, n := range result.ColumnChanges {
		if n > 0 {
			counts = append(counts, columnCount{column: column, count: n})
		}
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].count != counts[j].count {
			return counts[i].count > counts[j].count
		}
		return order[counts[i].column] < order[counts[j].column]
	})
	return counts
}

func renderColumns(w io.Writer, result *diff.Result) error {
	found := result.FoundStatus.Found

	var rows [][]string
	for _, c := range sortedColumnChanges(result) {
		pct := 0.0
		if found > 0 {
			pct = float64(c.count) / float64(found) * 100
		}
		rows = append(rows, []string{c.column, strconv.Itoa(c.count), fmt.Sprintf("%.1f%%", pct)})
	}
	return appendRows(NewTable(w, "Column", "Changes", "Of Matched"), rows)
}

func renderDetails(w io.Writer, result *diff.Result, limit int) error {
	var rows [][]string
	shown, total := 0, 0
	for _, m := range result.Modified {
		for _, c := range m.Changes {
			total++
			if shown >= limit {
				continue
			}
			shown++

			oldValue, newValue := c.OldValue.String(), c.NewValue.String()
			if c.IsPosition() {
				oldValue, newValue = position(c.OldValue), position(c.NewValue)
			}
			rows = append(rows, []string{
				displayKey(m.Key),
				c.Column,
				removedColor(truncate(oldValue)),
				addedColor(truncate(newValue)),
			})
		}
	}
	if err := appendRows(NewTable(w, "Key", "Column", "Original", "Updated"), rows); err != nil {
		return err
	}

	if total > shown {
		fmt.Fprintf(w, "... %d more change(s) not shown\n", total-shown)
	}
	return nil
}

// position renders a 0-based position as the 1-based row number users see.
func position(v diff.Value) string {
	n, err := strconv.Atoi(v.String())
	if err != nil {
		return v.String()
	}
	return "row " + strconv.Itoa(n+1)
}

func displayKey(key string) string {
	return strings.ReplaceAll(key, diff.KeySeparator, " | ")
}

func truncate(s string) string {
	r := []rune(s)
	if len(r) <= maxCellWidth {
		return s
	}
	return string(r[:maxCellWidth-3]) + "..."
}
