package repository

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/transit-ticket-market/internal/model"
	"github.com/iliyamo/transit-ticket-market/internal/status"
)

func newUserRepoMock(t *testing.T) (*UserRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewUserRepo(db), mock
}

func userRow(id uint64, email string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(strings.Split(userCols, ",")).
		AddRow(id, "Alice", email, "", model.RoleUser, false, now, now)
}

func TestSetFraudCascadesToVendorTickets(t *testing.T) {
	repo, mock := newUserRepoMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE users SET is_fraud=\?, updated_at=NOW\(\) WHERE id=\?`).
		WithArgs(true, uint64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	// The cascade must be scoped to the vendor's own tickets and skip
	// rows already in the target state.
	mock.ExpectExec(`UPDATE tickets SET is_hidden=\?, updated_at=NOW\(\) WHERE vendor_email=\? AND is_hidden<>\?`).
		WithArgs(true, "vendor@example.com", true).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	hidden, err := repo.SetFraud(context.Background(), 42, "vendor@example.com", true)
	require.NoError(t, err)
	assert.Equal(t, int64(3), hidden)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetFraudMissingUser(t *testing.T) {
	repo, mock := newUserRepoMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE users SET is_fraud=\?, updated_at=NOW\(\) WHERE id=\?`).
		WithArgs(true, uint64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT 1 FROM users WHERE id=\?`).
		WithArgs(uint64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}))
	mock.ExpectRollback()

	_, err := repo.SetFraud(context.Background(), 99, "gone@example.com", true)
	assert.ErrorIs(t, err, status.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertByEmailLosingInsertRaceRereadsWinner(t *testing.T) {
	repo, mock := newUserRepoMock(t)

	mock.ExpectQuery(`SELECT .+ FROM users WHERE email=\? LIMIT 1`).
		WithArgs("alice@example.com").
		WillReturnRows(sqlmock.NewRows(strings.Split(userCols, ",")))
	mock.ExpectExec(`INSERT INTO users`).
		WithArgs("Alice", "alice@example.com", "", model.RoleUser).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})
	mock.ExpectQuery(`SELECT .+ FROM users WHERE email=\? LIMIT 1`).
		WithArgs("alice@example.com").
		WillReturnRows(userRow(5, "alice@example.com"))

	u, err := repo.UpsertByEmail(context.Background(), "alice@example.com", "Alice", "")
	require.NoError(t, err)
	assert.Equal(t, uint64(5), u.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
