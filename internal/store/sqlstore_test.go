package store

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T, driver string) (*SQLStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	s, err := NewSQLStore(db, driver)
	require.NoError(t, err)
	s.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }

	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return s, mock
}

func TestSQLStore_Get(t *testing.T) {
	s, mock := newMockStore(t, DriverPostgres)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta(postgresDialect.get)).
		WithArgs("selectedColor").
		WillReturnRows(sqlmock.NewRows([]string{"entry_value"}).AddRow("AUBURN"))
	mock.ExpectQuery(regexp.QuoteMeta(postgresDialect.get)).
		WithArgs("selectedLength").
		WillReturnError(sql.ErrNoRows)

	v, ok, err := s.Get(ctx, "selectedColor")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "AUBURN", v)

	v, ok, err = s.Get(ctx, "selectedLength")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, v)
}

func TestSQLStore_BatchCommitsOneTransaction(t *testing.T) {
	s, mock := newMockStore(t, DriverMySQL)
	ctx := context.Background()
	now := s.now()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(mysqlDialect.upsert)).
		WithArgs("selectedLength", `30"`, now).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(mysqlDialect.upsert)).
		WithArgs("selectedLengthPrice", "150", now).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(mysqlDialect.delete)).
		WithArgs("editSelectedLength").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	changes, cancel := s.Subscribe("selected")
	defer cancel()

	err := s.Batch(ctx, func(w Writer) error {
		w.Set("selectedLength", `30"`)
		w.Set("selectedLengthPrice", "150")
		w.Remove("editSelectedLength")
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, Change{Key: "selectedLength", Value: `30"`}, <-changes)
	assert.Equal(t, Change{Key: "selectedLengthPrice", Value: "150"}, <-changes)
	assert.Len(t, changes, 0)
}

func TestSQLStore_BatchRollsBackOnFailure(t *testing.T) {
	s, mock := newMockStore(t, DriverPostgres)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(postgresDialect.upsert)).
		WithArgs("cart", "[]", s.now()).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	changes, cancel := s.Subscribe("")
	defer cancel()

	err := s.Set(context.Background(), "cart", "[]")
	assert.ErrorContains(t, err, "write cart")
	assert.Len(t, changes, 0)
}

func TestSQLStore_EmptyBatchSkipsTransaction(t *testing.T) {
	s, _ := newMockStore(t, DriverMySQL)

	err := s.Batch(context.Background(), func(w Writer) error { return nil })
	assert.NoError(t, err)
}

func TestSQLStore_KeysEscapesPrefix(t *testing.T) {
	s, mock := newMockStore(t, DriverMySQL)

	mock.ExpectQuery(regexp.QuoteMeta(mysqlDialect.keys)).
		WithArgs(`order\_%`).
		WillReturnRows(sqlmock.NewRows([]string{"entry_key"}).AddRow("order_1").AddRow("order_2"))

	keys, err := s.Keys(context.Background(), "order_")
	require.NoError(t, err)
	assert.Equal(t, []string{"order_1", "order_2"}, keys)
}

func TestSQLStore_EnsureSchema(t *testing.T) {
	s, mock := newMockStore(t, DriverPostgres)

	mock.ExpectExec(regexp.QuoteMeta(postgresDialect.schema)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, s.EnsureSchema(context.Background()))
}

func TestNewSQLStore_UnknownDriver(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	_, err = NewSQLStore(db, "sqlite")
	assert.Error(t, err)
}
