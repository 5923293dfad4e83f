// Package report renders comparison results for terminals.
//
// Output is a short header, a status summary table, a per-column change table and,
// when requested, a bounded list of changed cells. Status labels are colored when
// the output is a terminal.
package report
