package dataset

import "errors"

var (
	// ErrEmptyFile is returned when a source has no header row.
	ErrEmptyFile = errors.New("dataset: empty file")

	// ErrUnsupportedFile is returned for file names without a known extension.
	ErrUnsupportedFile = errors.New("dataset: unsupported file format")

	// ErrDuplicateColumn is returned when a header row repeats a column name.
	ErrDuplicateColumn = errors.New("dataset: duplicate column name")

	// ErrSheetNotFound is returned when a requested workbook sheet does not exist.
	ErrSheetNotFound = errors.New("dataset: sheet not found")

	// ErrTableNotFound is returned when a database table has no columns.
	ErrTableNotFound = errors.New("dataset: table not found")
)
