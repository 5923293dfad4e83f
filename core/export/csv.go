package export

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
)

// WriteCSV writes the report header as "#" comment lines, a blank line, then the rows.
func WriteCSV(w io.Writer, rep Report) error {
	bw := bufio.NewWriter(w)

	for _, line := range rep.Lines() {
		if line == "" {
			bw.WriteString("#\n")
			continue
		}
		bw.WriteString("# " + line + "\n")
	}
	bw.WriteString("\n")

	table := rep.Table()
	cw := csv.NewWriter(bw)
	if len(table.Columns) > 0 {
		if err := cw.Write(table.Columns); err != nil {
			return fmt.Errorf("failed to write csv header: %w", err)
		}
	}

	record := make([]string, len(table.Columns))
	for _, row := range table.Rows {
		for i, c := range table.Columns {
			record[i] = row.Get(c).String()
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return bw.Flush()
}
