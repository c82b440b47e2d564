// Package store defines the contracts for the external record store
// holding feedback rows.
package store

import "context"

// RecordStore appends flat rows to an external tabular store and reads
// headers and rows back. Row 0 of the table is the header row.
type RecordStore interface {
	// Append adds one row after the last non-empty row of the table.
	Append(ctx context.Context, row []string) error

	// Rows returns every row of the table, header row included.
	// Trailing empty cells may be absent from shorter rows.
	Rows(ctx context.Context) ([][]string, error)

	// Headers returns the header row, or an empty slice when the table
	// has no headers yet.
	Headers(ctx context.Context) ([]string, error)

	// WriteHeaders replaces the header row.
	WriteHeaders(ctx context.Context, headers []string) error

	// Ping verifies the store is reachable.
	Ping(ctx context.Context) error
}
