// Copyright (c) 2025 Metroline
// Licensed under the MIT License. See LICENSE file in the project root for details.

package dbconn

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*Handle, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	return NewWithDB(db, "test_", nil), mock
}

func TestHandle_ExecOpensImplicitTransaction(t *testing.T) {
	ctx := context.Background()
	h, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "x" WHERE "id" = $1`).WithArgs(1).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM "x" WHERE "id" = $1`).WithArgs(2).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	_, err := h.Exec(ctx, `DELETE FROM "x" WHERE "id" = $1`, 1)
	require.NoError(t, err)
	assert.True(t, h.InTx())

	// The second statement joins the transaction already open.
	_, err = h.Exec(ctx, `DELETE FROM "x" WHERE "id" = $1`, 2)
	require.NoError(t, err)

	require.NoError(t, h.Commit())
	assert.False(t, h.InTx())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandle_RollbackAfterFailure(t *testing.T) {
	ctx := context.Background()
	h, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "x" ("a") VALUES ($1)`).WithArgs("a").WillReturnError(assert.AnError)
	mock.ExpectRollback()

	_, err := h.Exec(ctx, `INSERT INTO "x" ("a") VALUES ($1)`, "a")
	require.ErrorIs(t, err, assert.AnError)

	require.NoError(t, h.Rollback())
	assert.False(t, h.InTx())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandle_CommitAndRollbackWithoutTransaction(t *testing.T) {
	h, mock := newMock(t)

	assert.NoError(t, h.Commit())
	assert.NoError(t, h.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandle_QueryOutsideTransaction(t *testing.T) {
	ctx := context.Background()
	h, mock := newMock(t)

	mock.ExpectQuery(`SELECT COUNT(*) FROM "x"`).WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(3)))

	row, err := h.QueryRow(ctx, `SELECT COUNT(*) FROM "x"`)
	require.NoError(t, err)
	var n int64
	require.NoError(t, row.Scan(&n))
	assert.Equal(t, int64(3), n)
	assert.False(t, h.InTx())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandle_NotConfigured(t *testing.T) {
	h := New("", "", nil)

	_, err := h.Exec(context.Background(), "SELECT 1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
	assert.NoError(t, h.Close())
}

func TestHandle_Close(t *testing.T) {
	ctx := context.Background()
	h, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DROP TABLE IF EXISTS "x"`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()
	mock.ExpectClose()

	_, err := h.Exec(ctx, `DROP TABLE IF EXISTS "x"`)
	require.NoError(t, err)
	require.NoError(t, h.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandle_SelfTest(t *testing.T) {
	ctx := context.Background()
	h, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DROP TABLE IF EXISTS "test_metroline_selftest"`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`CREATE TABLE "test_metroline_selftest" (probe INTEGER)`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO "test_metroline_selftest" (probe) VALUES (1)`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery(`SELECT probe FROM "test_metroline_selftest"`).WillReturnRows(sqlmock.NewRows([]string{"probe"}).AddRow(int64(1)))
	mock.ExpectBegin()
	mock.ExpectExec(`DROP TABLE "test_metroline_selftest"`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	ok, err := h.SelfTest(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandle_SelfTestWithoutPrefix(t *testing.T) {
	ctx := context.Background()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	h := NewWithDB(db, "", nil)

	mock.ExpectBegin()
	mock.ExpectExec(`DROP TABLE IF EXISTS "metroline_selftest"`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`CREATE TABLE "metroline_selftest" (probe INTEGER)`).
		WillReturnError(errors.New("permission denied for schema public"))
	mock.ExpectRollback()

	ok, err := h.SelfTest(ctx)
	assert.False(t, ok)
	assert.ErrorContains(t, err, "permission denied")
	assert.False(t, h.InTx())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandle_Prefix(t *testing.T) {
	h, _ := newMock(t)
	assert.Equal(t, "test_", h.Prefix())
}
