package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"sheet-diff/core/diff"

	"github.com/xuri/excelize/v2"
)

const (
	summarySheet = "Summary"
	dataSheet    = "Data"
)

// WriteXLSX writes a workbook with a Summary sheet holding the report header and
// a Data sheet holding the rows.
func WriteXLSX(w io.Writer, rep Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}

	lines := rep.Lines()
	for i, line := range lines {
		if line == "Summary:" {
			line = "SUMMARY"
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetCellStr(summarySheet, cell, line); err != nil {
			return fmt.Errorf("failed to write summary: %w", err)
		}
	}

	if _, err := f.NewSheet(dataSheet); err != nil {
		return fmt.Errorf("failed to create data sheet: %w", err)
	}

	table := rep.Table()
	header := make([]interface{}, len(table.Columns))
	for i, c := range table.Columns {
		header[i] = c
	}
	if len(header) > 0 {
		if err := f.SetSheetRow(dataSheet, "A1", &header); err != nil {
			return fmt.Errorf("failed to write data header: %w", err)
		}
	}

	for r, row := range table.Rows {
		cells := make([]interface{}, len(table.Columns))
		for i, c := range table.Columns {
			cells[i] = cellOf(row.Get(c))
		}
		cell, _ := excelize.CoordinatesToCellName(1, r+2)
		if err := f.SetSheetRow(dataSheet, cell, &cells); err != nil {
			return fmt.Errorf("failed to write data row %d: %w", r+1, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// maxExactDigits is the widest mantissa a float64 cell holds without rounding.
const maxExactDigits = 15

// cellOf keeps numbers and booleans typed in the workbook. Numbers wider than
// a float64 stay text so keys and decimals export exactly.
func cellOf(v diff.Value) interface{} {
	switch v.Kind() {
	case diff.KindNull:
		return nil
	case diff.KindNumber:
		if significantDigits(v.String()) > maxExactDigits {
			return v.String()
		}
		if f, err := strconv.ParseFloat(v.String(), 64); err == nil {
			return f
		}
	case diff.KindBool:
		return v.String() == "true"
	}
	return v.String()
}

// significantDigits counts mantissa digits without leading or trailing zeros.
func significantDigits(s string) int {
	if i := strings.IndexAny(s, "eE"); i >= 0 {
		s = s[:i]
	}
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
	return len(strings.Trim(digits, "0"))
}

// Write renders rep in format f.
func Write(w io.Writer, f Format, rep Report) error {
	switch f {
	case FormatXLSX:
		return WriteXLSX(w, rep)
	case FormatCSV:
		return WriteCSV(w, rep)
	}
	return fmt.Errorf("unknown export format %q", f)
}
