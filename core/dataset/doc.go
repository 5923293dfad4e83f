// Package dataset loads the two tabular inputs of a comparison.
//
// Every loader produces a fully materialized diff.Dataset: an ordered slice of
// records whose first record defines the headers seen by the engine.
//
// # Sources
//
//   - FileSource: CSV, TSV or XLSX files on disk, optionally compressed with gzip,
//     bzip2, xz or zstd (e.g. "orders.csv.zst").
//   - ReaderSource: the same formats read from a stream, used for HTTP uploads.
//   - TableSource: a database table read through GORM, ordered by its primary key.
//
// File cells are always text; blank cells are empty strings and cells missing from
// short rows are null. Table cells keep their numeric, boolean and null types.
//
// # Usage
//
//	original, updated, err := dataset.LoadPair(ctx,
//	    dataset.NewFileSource("before.xlsx", ""),
//	    dataset.NewFileSource("after.csv.gz", ""),
//	)
package dataset
