package dataset

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"sheet-diff/core/diff"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"
	"github.com/xuri/excelize/v2"
)

const peopleCSV = "id,name,city\n1,Ann,Oslo\n2,Bob,\n3,Cy\n"

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name        string
		format      Format
		compression Compression
		wantErr     bool
	}{
		{"data.csv", FormatCSV, CompressionNone, false},
		{"DATA.TSV", FormatTSV, CompressionNone, false},
		{"book.xlsx", FormatXLSX, CompressionNone, false},
		{"data.csv.gz", FormatCSV, CompressionGZ, false},
		{"data.tsv.bz2", FormatTSV, CompressionBZ2, false},
		{"dir/book.xlsx.xz", FormatXLSX, CompressionXZ, false},
		{"data.csv.zst", FormatCSV, CompressionZSTD, false},
		{"notes.txt", 0, 0, true},
		{"archive.gz", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			format, compression, err := DetectFormat(tt.name)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedFile)
				assert.False(t, IsSupported(tt.name))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.format, format)
			assert.Equal(t, tt.compression, compression)
		})
	}
}

func TestParse_CSV(t *testing.T) {
	ds, err := Parse(strings.NewReader(peopleCSV), "people.csv", FormatCSV, "")
	require.NoError(t, err)

	assert.Equal(t, "people.csv", ds.Name)
	require.Equal(t, 3, ds.Len())
	assert.Equal(t, []string{"id", "name", "city"}, ds.Headers())
	assert.Equal(t, diff.String("Oslo"), ds.Records[0].Get("city"))

	// Blank cell is an empty string, a missing cell is null.
	assert.Equal(t, diff.String(""), ds.Records[1].Get("city"))
	assert.True(t, ds.Records[2].Get("city").IsNull())
	assert.Equal(t, []string{"id", "name", "city"}, ds.Records[2].Columns())
}

func TestParse_CSVDelimiterDetection(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"Comma", "id,name,city\n1,Ann,Oslo\n"},
		{"Semicolon", "id;name;city\n1;Ann;Oslo\n"},
		{"Pipe", "id|name|city\n1|Ann|Oslo\n"},
		{"Tab", "id\tname\tcity\n1\tAnn\tOslo\n"},
		{"QuotedCommasIgnored", "\"id,x\";name;city\n1;Ann;Oslo\n"},
		{"BOM", "\ufeffid;name;city\n1;Ann;Oslo\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds, err := Parse(strings.NewReader(tt.input), "people.csv", FormatCSV, "")
			require.NoError(t, err)
			require.Equal(t, 1, ds.Len())
			assert.Len(t, ds.Headers(), 3)
			assert.Equal(t, "Ann", ds.Records[0].Get("name").String())
			assert.Equal(t, "Oslo", ds.Records[0].Get("city").String())
		})
	}

	t.Run("SingleColumn", func(t *testing.T) {
		ds, err := Parse(strings.NewReader("id\n1\n2\n"), "ids.csv", FormatCSV, "")
		require.NoError(t, err)
		assert.Equal(t, []string{"id"}, ds.Headers())
		assert.Equal(t, 2, ds.Len())
	})
}

func TestFileSource_SemicolonCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eu.csv")
	require.NoError(t, os.WriteFile(path, []byte("sku;price\nA;1,50\nB;2,00\n"), 0o644))

	ds, err := NewFileSource(path, "").Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"sku", "price"}, ds.Headers())
	assert.Equal(t, "1,50", ds.Records[0].Get("price").String())
}

func TestParse_TSVWithBOMAndBlankHeaders(t *testing.T) {
	input := "\ufeffid\t\t\n1\ta\tb\n\n2\tc\td\te\n"
	ds, err := Parse(strings.NewReader(input), "x.tsv", FormatTSV, "")
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "__EMPTY", "__EMPTY_1"}, ds.Headers())
	require.Equal(t, 2, ds.Len())
	// Cells beyond the header are dropped.
	assert.Equal(t, 3, ds.Records[1].Len())
}

func TestParse_Errors(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		_, err := Parse(strings.NewReader(""), "e.csv", FormatCSV, "")
		assert.ErrorIs(t, err, ErrEmptyFile)
	})

	t.Run("DuplicateColumn", func(t *testing.T) {
		_, err := Parse(strings.NewReader("id,name,id\n1,a,1\n"), "d.csv", FormatCSV, "")
		assert.ErrorIs(t, err, ErrDuplicateColumn)
	})

	t.Run("Malformed", func(t *testing.T) {
		_, err := Parse(strings.NewReader("id,name\n1,\"unterminated\n"), "m.csv", FormatCSV, "")
		assert.Error(t, err)
	})
}

func workbook(t *testing.T, sheet string, rows [][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	if sheet != "Sheet1" {
		_, err := f.NewSheet(sheet)
		require.NoError(t, err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestParse_XLSX(t *testing.T) {
	data := workbook(t, "Sheet1", [][]any{
		{"sku", "qty", "note"},
		{"A-1", 5, "first"},
		{"A-2", 7.5},
	})

	ds, err := Parse(bytes.NewReader(data), "stock.xlsx", FormatXLSX, "")
	require.NoError(t, err)

	require.Equal(t, 2, ds.Len())
	assert.Equal(t, []string{"sku", "qty", "note"}, ds.Headers())
	assert.Equal(t, diff.String("5"), ds.Records[0].Get("qty"))
	assert.Equal(t, diff.String("7.5"), ds.Records[1].Get("qty"))
	assert.True(t, ds.Records[1].Get("note").IsNull())
}

func TestParse_XLSXSheetSelection(t *testing.T) {
	data := workbook(t, "Prices", [][]any{{"id", "price"}, {1, 10}})

	ds, err := Parse(bytes.NewReader(data), "book.xlsx", FormatXLSX, "Prices")
	require.NoError(t, err)
	assert.Equal(t, 1, ds.Len())

	_, err = Parse(bytes.NewReader(data), "book.xlsx", FormatXLSX, "Missing")
	assert.ErrorIs(t, err, ErrSheetNotFound)
}

func compressed(t *testing.T, c Compression, content string) []byte {
	t.Helper()
	var buf bytes.Buffer
	switch c {
	case CompressionGZ:
		w := gzip.NewWriter(&buf)
		_, err := w.Write([]byte(content))
		require.NoError(t, err)
		require.NoError(t, w.Close())
	case CompressionXZ:
		w, err := xz.NewWriter(&buf)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
		require.NoError(t, w.Close())
	case CompressionZSTD:
		w, err := zstd.NewWriter(&buf)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
		require.NoError(t, w.Close())
	default:
		buf.WriteString(content)
	}
	return buf.Bytes()
}

func TestFileSource_Compressed(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		file        string
		compression Compression
	}{
		{"people.csv", CompressionNone},
		{"people.csv.gz", CompressionGZ},
		{"people.csv.xz", CompressionXZ},
		{"people.csv.zst", CompressionZSTD},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			path := filepath.Join(dir, tt.file)
			require.NoError(t, os.WriteFile(path, compressed(t, tt.compression, peopleCSV), 0o600))

			src := NewFileSource(path, "")
			assert.Equal(t, tt.file, src.Name())

			ds, err := src.Load(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.file, ds.Name)
			assert.Equal(t, 3, ds.Len())
		})
	}
}

func TestFileSource_Missing(t *testing.T) {
	_, err := NewFileSource(filepath.Join(t.TempDir(), "nope.csv"), "").Load(context.Background())
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestReaderSource_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := &ReaderSource{FileName: "a.csv", Reader: strings.NewReader(peopleCSV)}
	_, err := src.Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoadPair(t *testing.T) {
	ctx := context.Background()
	a := &ReaderSource{FileName: "a.csv", Reader: strings.NewReader(peopleCSV)}
	b := &ReaderSource{FileName: "b.csv", Reader: strings.NewReader("id,name\n1,Ann\n")}

	original, updated, err := LoadPair(ctx, a, b)
	require.NoError(t, err)
	assert.Equal(t, 3, original.Len())
	assert.Equal(t, 1, updated.Len())

	bad := &ReaderSource{FileName: "b.doc", Reader: strings.NewReader("")}
	_, _, err = LoadPair(ctx, &ReaderSource{FileName: "a.csv", Reader: strings.NewReader(peopleCSV)}, bad)
	assert.ErrorIs(t, err, ErrUnsupportedFile)
	assert.Contains(t, err.Error(), "updated")
}
