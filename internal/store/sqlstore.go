package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
)

// dialect holds the statements that differ between MySQL and PostgreSQL
type dialect struct {
	name   string
	schema string
	get    string
	upsert string
	delete string
	keys   string
}

var mysqlDialect = dialect{
	name: DriverMySQL,
	schema: `CREATE TABLE IF NOT EXISTS kv_entries (
		entry_key   VARCHAR(191) NOT NULL PRIMARY KEY,
		entry_value MEDIUMTEXT NOT NULL,
		updated_at  TIMESTAMP(6) NOT NULL
	)`,
	get: `SELECT entry_value FROM kv_entries WHERE entry_key = ?`,
	upsert: `INSERT INTO kv_entries (entry_key, entry_value, updated_at) VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE entry_value = VALUES(entry_value), updated_at = VALUES(updated_at)`,
	delete: `DELETE FROM kv_entries WHERE entry_key = ?`,
	keys:   `SELECT entry_key FROM kv_entries WHERE entry_key LIKE ? ORDER BY entry_key`,
}

var postgresDialect = dialect{
	name: DriverPostgres,
	schema: `CREATE TABLE IF NOT EXISTS kv_entries (
		entry_key   TEXT PRIMARY KEY,
		entry_value TEXT NOT NULL,
		updated_at  TIMESTAMPTZ NOT NULL
	)`,
	get: `SELECT entry_value FROM kv_entries WHERE entry_key = $1`,
	upsert: `INSERT INTO kv_entries (entry_key, entry_value, updated_at) VALUES ($1, $2, $3)
		ON CONFLICT (entry_key) DO UPDATE SET entry_value = EXCLUDED.entry_value, updated_at = EXCLUDED.updated_at`,
	delete: `DELETE FROM kv_entries WHERE entry_key = $1`,
	keys:   `SELECT entry_key FROM kv_entries WHERE entry_key LIKE $1 ORDER BY entry_key`,
}

func dialectFor(driver string) (dialect, error) {
	switch driver {
	case DriverMySQL:
		return mysqlDialect, nil
	case DriverPostgres:
		return postgresDialect, nil
	}
	return dialect{}, fmt.Errorf("unsupported sql driver %q", driver)
}

// SQLStore keeps entries in the kv_entries table of a MySQL or PostgreSQL database
type SQLStore struct {
	db      *sql.DB
	dialect dialect
	now     func() time.Time
	notifier
}

var _ Store = (*SQLStore)(nil)

// OpenSQL connects to the database, checks it is reachable and creates the table if needed
func OpenSQL(ctx context.Context, driver, dsn string, maxOpenConns int) (*SQLStore, error) {
	if dsn == "" {
		return nil, errors.New("store dsn is required for sql drivers")
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	if maxOpenConns > 0 {
		db.SetMaxOpenConns(maxOpenConns)
	}

	// Test connection
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s, err := NewSQLStore(db, driver)
	if err != nil {
		db.Close()
		return nil, err
	}
	if err := s.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewSQLStore wraps an open database handle
func NewSQLStore(db *sql.DB, driver string) (*SQLStore, error) {
	d, err := dialectFor(driver)
	if err != nil {
		return nil, err
	}
	return &SQLStore{db: db, dialect: d, now: time.Now}, nil
}

// EnsureSchema creates kv_entries when it does not exist
func (s *SQLStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, s.dialect.schema); err != nil {
		return fmt.Errorf("failed to create kv_entries: %w", err)
	}
	return nil
}

func (s *SQLStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, s.dialect.get, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return value, true, nil
}

func (s *SQLStore) Set(ctx context.Context, key, value string) error {
	return s.Batch(ctx, func(w Writer) error {
		w.Set(key, value)
		return nil
	})
}

func (s *SQLStore) Remove(ctx context.Context, key string) error {
	return s.Batch(ctx, func(w Writer) error {
		w.Remove(key)
		return nil
	})
}

func (s *SQLStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, s.dialect.keys, likePrefix(prefix))
	if err != nil {
		return nil, fmt.Errorf("keys %s: %w", prefix, err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("keys %s: %w", prefix, err)
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

// Batch runs every write of fn in one transaction
func (s *SQLStore) Batch(ctx context.Context, fn func(w Writer) error) error {
	b := &batch{}
	if err := fn(b); err != nil {
		return err
	}
	if len(b.changes) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin batch: %w", err)
	}

	now := s.now()
	for _, c := range b.changes {
		if c.Removed {
			_, err = tx.ExecContext(ctx, s.dialect.delete, c.Key)
		} else {
			_, err = tx.ExecContext(ctx, s.dialect.upsert, c.Key, c.Value, now)
		}
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("write %s: %w", c.Key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}

	s.notify(b.changes...)
	return nil
}

// Subscribe only sees writes made through this process
func (s *SQLStore) Subscribe(prefix string) (<-chan Change, func()) {
	return s.subscribe(prefix)
}

func (s *SQLStore) Close() error {
	s.closeAll()
	return s.db.Close()
}

func likePrefix(prefix string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(prefix)
	return escaped + "%"
}
