package kv

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func TestPostgresStoreGet(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewPostgresStore(db)

	rows := sqlmock.NewRows([]string{"value"}).AddRow([]byte(`[{"input":"Hello"}]`))
	mock.ExpectQuery("SELECT value FROM kv_blobs").
		WithArgs("translation_history").
		WillReturnRows(rows)

	value, err := store.Get(context.Background(), "translation_history")
	require.NoError(t, err)
	require.Equal(t, []byte(`[{"input":"Hello"}]`), value)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreGetMissingKey(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewPostgresStore(db)

	mock.ExpectQuery("SELECT value FROM kv_blobs").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"value"}))

	_, err = store.Get(context.Background(), "missing")
	require.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreSet(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewPostgresStore(db)

	mock.ExpectExec("INSERT INTO kv_blobs").
		WithArgs("translation_history", []byte(`[]`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = store.Set(context.Background(), "translation_history", []byte(`[]`))
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreDelete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewPostgresStore(db)

	mock.ExpectExec("DELETE FROM kv_blobs").
		WithArgs("translation_history").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = store.Delete(context.Background(), "translation_history")
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
