package store

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-memdb"
)

const entriesTable = "entries"

type entry struct {
	Key   string
	Value string
}

// MemStore keeps entries in an in-process go-memdb database
type MemStore struct {
	db *memdb.MemDB
	notifier
}

var _ Store = (*MemStore)(nil)

// NewMemStore creates an empty in-memory store
func NewMemStore() (*MemStore, error) {
	schema := &memdb.DBSchema{
		Tables: map[string]*memdb.TableSchema{
			entriesTable: {
				Name: entriesTable,
				Indexes: map[string]*memdb.IndexSchema{
					"id": {
						Name:    "id",
						Unique:  true,
						Indexer: &memdb.StringFieldIndex{Field: "Key"},
					},
				},
			},
		},
	}

	db, err := memdb.NewMemDB(schema)
	if err != nil {
		return nil, fmt.Errorf("failed to create memdb: %w", err)
	}
	return &MemStore{db: db}, nil
}

func (m *MemStore) Get(ctx context.Context, key string) (string, bool, error) {
	txn := m.db.Txn(false)
	defer txn.Abort()

	raw, err := txn.First(entriesTable, "id", key)
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	if raw == nil {
		return "", false, nil
	}
	return raw.(*entry).Value, true, nil
}

func (m *MemStore) Set(ctx context.Context, key, value string) error {
	return m.Batch(ctx, func(w Writer) error {
		w.Set(key, value)
		return nil
	})
}

func (m *MemStore) Remove(ctx context.Context, key string) error {
	return m.Batch(ctx, func(w Writer) error {
		w.Remove(key)
		return nil
	})
}

// Keys lists keys under prefix in lexical order
func (m *MemStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	txn := m.db.Txn(false)
	defer txn.Abort()

	it, err := txn.Get(entriesTable, "id_prefix", prefix)
	if err != nil {
		return nil, fmt.Errorf("keys %s: %w", prefix, err)
	}

	var keys []string
	for raw := it.Next(); raw != nil; raw = it.Next() {
		keys = append(keys, raw.(*entry).Key)
	}
	return keys, nil
}

func (m *MemStore) Batch(ctx context.Context, fn func(w Writer) error) error {
	b := &batch{}
	if err := fn(b); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	txn := m.db.Txn(true)
	for _, c := range b.changes {
		var err error
		if c.Removed {
			_, err = txn.DeleteAll(entriesTable, "id", c.Key)
		} else {
			err = txn.Insert(entriesTable, &entry{Key: c.Key, Value: c.Value})
		}
		if err != nil {
			txn.Abort()
			return fmt.Errorf("write %s: %w", c.Key, err)
		}
	}
	txn.Commit()

	m.notify(b.changes...)
	return nil
}

func (m *MemStore) Subscribe(prefix string) (<-chan Change, func()) {
	return m.subscribe(prefix)
}

func (m *MemStore) Close() error {
	m.closeAll()
	return nil
}
