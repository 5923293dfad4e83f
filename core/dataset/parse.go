package dataset

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"sheet-diff/core/diff"

	"github.com/xuri/excelize/v2"
)

// csvDelimiters are the separators tried for .csv files, in tie-break order.
var csvDelimiters = []rune{',', '\t', '|', ';'}

const (
	tsvDelimiter = '\t'
	utf8BOM      = "\ufeff"

	// emptyHeader names header cells that are blank.
	emptyHeader = "__EMPTY"
)

// Parse reads a dataset in the given format from r.
// sheet selects a workbook sheet and is ignored for delimited text; empty means
// the first sheet.
func Parse(r io.Reader, name string, format Format, sheet string) (diff.Dataset, error) {
	var (
		rows [][]string
		err  error
	)

	switch format {
	case FormatCSV:
		rows, err = readCSV(r)
	case FormatTSV:
		rows, err = readDelimited(r, tsvDelimiter)
	case FormatXLSX:
		rows, err = readWorkbook(r, sheet)
	default:
		return diff.Dataset{}, fmt.Errorf("%w: %s", ErrUnsupportedFile, name)
	}
	if err != nil {
		return diff.Dataset{}, fmt.Errorf("failed to parse %s: %w", name, err)
	}

	ds, err := toDataset(name, rows)
	if err != nil {
		return diff.Dataset{}, fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return ds, nil
}

// readCSV picks the delimiter from the header line, since files saved as
// .csv are often separated by semicolons or pipes.
func readCSV(r io.Reader) ([][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return readDelimited(bytes.NewReader(data), sniffDelimiter(data))
}

// sniffDelimiter counts each candidate outside quotes on the first line and
// returns the most frequent one, or a comma when none occur.
func sniffDelimiter(data []byte) rune {
	counts := make(map[rune]int, len(csvDelimiters))
	quoted := false
	for _, ch := range string(bytes.TrimPrefix(data, []byte(utf8BOM))) {
		if ch == '"' {
			quoted = !quoted
			continue
		}
		if quoted {
			continue
		}
		if ch == '\n' || ch == '\r' {
			break
		}
		counts[ch]++
	}

	best, bestCount := csvDelimiters[0], 0
	for _, d := range csvDelimiters {
		if counts[d] > bestCount {
			best, bestCount = d, counts[d]
		}
	}
	return best
}

func readDelimited(r io.Reader, delimiter rune) ([][]string, error) {
	csvReader := csv.NewReader(r)
	csvReader.Comma = delimiter
	csvReader.FieldsPerRecord = -1
	if delimiter == tsvDelimiter {
		csvReader.LazyQuotes = true
	}
	return csvReader.ReadAll()
}

func readWorkbook(r io.Reader, sheet string) ([][]string, error) {
	// excelize needs random access to the zip container.
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	xlsxFile, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = xlsxFile.Close()
	}()

	sheets := xlsxFile.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyFile
	}
	if sheet == "" {
		sheet = sheets[0]
	} else if idx, _ := xlsxFile.GetSheetIndex(sheet); idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrSheetNotFound, sheet)
	}

	rows, err := xlsxFile.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	return rows, nil
}

// toDataset turns raw rows into records. The first non-empty row is the header.
// Short rows are padded with nulls and cells beyond the header are dropped.
func toDataset(name string, rows [][]string) (diff.Dataset, error) {
	for len(rows) > 0 && blankRow(rows[0]) {
		rows = rows[1:]
	}
	if len(rows) == 0 {
		return diff.Dataset{}, ErrEmptyFile
	}

	headers, err := normalizeHeaders(rows[0])
	if err != nil {
		return diff.Dataset{}, err
	}

	records := make([]diff.Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if blankRow(row) {
			continue
		}
		values := make([]diff.Value, len(headers))
		for i := range headers {
			if i < len(row) {
				values[i] = diff.String(row[i])
			}
		}
		records = append(records, diff.NewRecord(headers, values))
	}

	return diff.Dataset{Name: name, Records: records}, nil
}

func normalizeHeaders(raw []string) ([]string, error) {
	headers := make([]string, len(raw))
	seen := make(map[string]bool, len(raw))
	empties := 0

	for i, h := range raw {
		if i == 0 {
			h = strings.TrimPrefix(h, utf8BOM)
		}
		h = strings.TrimSpace(h)
		if h == "" {
			h = emptyHeader
			if empties > 0 {
				h = fmt.Sprintf("%s_%d", emptyHeader, empties)
			}
			empties++
		}
		if seen[h] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateColumn, h)
		}
		seen[h] = true
		headers[i] = h
	}
	return headers, nil
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if cell != "" {
			return false
		}
	}
	return true
}
