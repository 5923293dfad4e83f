// Package diff implements the comparison engine for two tabular datasets.
//
// Records of both datasets are matched by a composite key built from one or more
// primary-key columns, then classified as unchanged, modified, added, removed or moved.
// Per-column change counts and found/match aggregates are collected in the same pass.
//
// # Architecture
//
// The engine consists of two sequential components:
//
// 1. Key Indexer (BuildIndex): maps composite keys to records and positions. Duplicate
// keys collapse to the last record (last-write-wins) unless Options.StrictKeys is set.
//
// 2. Diff Classifier (Classify): walks the original index in key order, compares rows
// over the common headers and classifies them, then collects keys only present in the
// updated dataset.
//
// Engine wraps both with request validation, primary-key auto-detection, a clock for
// the result timestamp and structured logging.
//
// # Comparison semantics
//
//   - IgnoreWhitespace trims and IgnoreCase lowercases the string forms before comparing.
//   - TypeAware compares numbers with an absolute tolerance of NumericTolerance and dates
//     by instant, falling back to string equality.
//   - TreatReorderAsSame reports position-only differences as Moved; otherwise they are
//     Modified with a synthetic PositionColumn change.
//
// Changes always record the raw, untransformed values.
//
// # Usage Example
//
//	engine := diff.NewEngine(logger)
//	result, err := engine.Run(diff.Request{
//	    Original:    original,
//	    Updated:     updated,
//	    PrimaryKeys: []string{"id"},
//	    Options:     diff.Options{TypeAware: true},
//	})
package diff
