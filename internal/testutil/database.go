// Package testutil provides helpers shared by package tests.
//
// Repository tests run against go-sqlmock instead of a live database:
//
//	db, mock := testutil.NewMockDB(t)
//	mock.ExpectExec(`DELETE FROM settings`).WillReturnResult(sqlmock.NewResult(0, 1))
//
// Expectations are verified automatically when the test finishes.
package testutil

import (
	"database/sql"
	"io"
	"log/slog"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

// NewMockDB returns a *sql.DB backed by sqlmock. Queries are matched with regular expressions.
// The connection is closed and all expectations are asserted on test cleanup.
func NewMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err, "failed to create sqlmock")

	t.Cleanup(func() {
		mock.ExpectClose()
		require.NoError(t, db.Close())
		require.NoError(t, mock.ExpectationsWereMet(), "unmet sqlmock expectations")
	})

	return db, mock
}

// NewDiscardLogger returns a logger that drops every record.
func NewDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
