package sheetdb

import (
	"context"
	"fmt"
	"sync"
)

// MemStore is an in-memory Store used by tests and local development. It
// mirrors the spreadsheet semantics: no cross-call atomicity guarantees are
// promised to callers beyond what single appends/updates give.
type MemStore struct {
	mu     sync.Mutex
	tables map[string][]Row
}

// NewMemStore builds an empty in-memory store with the given tables.
func NewMemStore(tables ...string) *MemStore {
	m := &MemStore{tables: make(map[string][]Row)}
	for _, table := range tables {
		m.tables[table] = nil
	}
	return m
}

func (m *MemStore) ReadAll(ctx context.Context, table string) ([]Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows, ok := m.tables[table]
	if !ok {
		return nil, fmt.Errorf("reading %s: unknown table", table)
	}
	out := make([]Row, len(rows))
	for i, row := range rows {
		out[i] = cloneRow(row)
	}
	return out, nil
}

func (m *MemStore) Append(ctx context.Context, table string, rows []Row) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tables[table]; !ok {
		return fmt.Errorf("appending to %s: unknown table", table)
	}
	for _, row := range rows {
		m.tables[table] = append(m.tables[table], cloneRow(row))
	}
	return nil
}

func (m *MemStore) Update(ctx context.Context, table string, where Row, fields Row) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows, ok := m.tables[table]
	if !ok {
		return fmt.Errorf("updating %s: unknown table", table)
	}
	for _, row := range rows {
		if rowMatches(row, where) {
			for k, v := range fields {
				row[k] = v
			}
			return nil
		}
	}
	return fmt.Errorf("updating %s: %w", table, errRowNotFound)
}

func (m *MemStore) Delete(ctx context.Context, table string, where Row) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows, ok := m.tables[table]
	if !ok {
		return fmt.Errorf("deleting from %s: unknown table", table)
	}
	for i, row := range rows {
		if rowMatches(row, where) {
			m.tables[table] = append(rows[:i:i], rows[i+1:]...)
			return nil
		}
	}
	return nil
}

func cloneRow(row Row) Row {
	out := make(Row, len(row))
	for k, v := range row {
		out[k] = v
	}
	return out
}
