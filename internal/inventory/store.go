package inventory

import "context"

// Store loads and saves the whole inventory table.
//
// Load must treat a missing or empty backend as "no data yet" and return an
// empty table rather than an error. Save replaces everything the backend
// holds; from the caller's side it either succeeds or fails as a whole.
type Store interface {
	Load(ctx context.Context) (*Table, error)
	Save(ctx context.Context, t *Table) error
}

// MemoryStore keeps the saved table in memory. Used by tests and dry runs.
type MemoryStore struct {
	Saved   *Table
	Saves   int
	SaveErr error
}

func (m *MemoryStore) Load(ctx context.Context) (*Table, error) {
	if m.Saved == nil {
		return NewTable(), nil
	}
	return m.Saved.Clone(), nil
}

func (m *MemoryStore) Save(ctx context.Context, t *Table) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Saved = t.Clone()
	m.Saves++
	return nil
}
