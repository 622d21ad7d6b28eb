package sheetdb

import "context"

// Row is one record keyed by header column name. Cells that are empty or
// missing read as "".
type Row map[string]string

// Store is the tabular record-store contract consumed by the repositories.
// The backing product offers no transactions, no row locks and no atomicity
// across calls; every safety guarantee is built on top of these four
// operations by the callers.
type Store interface {
	ReadAll(ctx context.Context, table string) ([]Row, error)
	Append(ctx context.Context, table string, rows []Row) error
	// Update sets the named fields on the first row whose cells equal all
	// pairs in where. It is an error when no row matches.
	Update(ctx context.Context, table string, where Row, fields Row) error
	// Delete removes the first row matching where. Deleting a row that does
	// not exist is not an error.
	Delete(ctx context.Context, table string, where Row) error
}

func rowMatches(row Row, where Row) bool {
	for k, v := range where {
		if row[k] != v {
			return false
		}
	}
	return true
}
