package dataset

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format is the tabular layout of a source file.
type Format int

const (
	// FormatCSV is comma-separated text.
	FormatCSV Format = iota
	// FormatTSV is tab-separated text.
	FormatTSV
	// FormatXLSX is an Excel workbook.
	FormatXLSX
)

// String returns the lowercase format name.
func (f Format) String() string {
	switch f {
	case FormatCSV:
		return "csv"
	case FormatTSV:
		return "tsv"
	case FormatXLSX:
		return "xlsx"
	default:
		return "unknown"
	}
}

// Compression is the compression wrapping a source file.
type Compression int

const (
	// CompressionNone means the file is stored as-is.
	CompressionNone Compression = iota
	// CompressionGZ is gzip.
	CompressionGZ
	// CompressionBZ2 is bzip2.
	CompressionBZ2
	// CompressionXZ is xz.
	CompressionXZ
	// CompressionZSTD is zstandard.
	CompressionZSTD
)

// File extensions
const (
	extCSV  = ".csv"
	extTSV  = ".tsv"
	extXLSX = ".xlsx"
	extGZ   = ".gz"
	extBZ2  = ".bz2"
	extXZ   = ".xz"
	extZSTD = ".zst"
)

// DetectFormat derives format and compression from a file name,
// e.g. "orders.csv.zst" is (FormatCSV, CompressionZSTD).
func DetectFormat(name string) (Format, Compression, error) {
	base := strings.ToLower(filepath.Base(name))

	compression := CompressionNone
	switch {
	case strings.HasSuffix(base, extGZ):
		compression = CompressionGZ
		base = strings.TrimSuffix(base, extGZ)
	case strings.HasSuffix(base, extBZ2):
		compression = CompressionBZ2
		base = strings.TrimSuffix(base, extBZ2)
	case strings.HasSuffix(base, extXZ):
		compression = CompressionXZ
		base = strings.TrimSuffix(base, extXZ)
	case strings.HasSuffix(base, extZSTD):
		compression = CompressionZSTD
		base = strings.TrimSuffix(base, extZSTD)
	}

	switch filepath.Ext(base) {
	case extCSV:
		return FormatCSV, compression, nil
	case extTSV:
		return FormatTSV, compression, nil
	case extXLSX:
		return FormatXLSX, compression, nil
	default:
		return 0, 0, fmt.Errorf("%w: %s", ErrUnsupportedFile, name)
	}
}

// IsSupported reports whether name has a loadable extension.
func IsSupported(name string) bool {
	_, _, err := DetectFormat(name)
	return err == nil
}
