package repository

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/transit-ticket-market/internal/model"
	"github.com/iliyamo/transit-ticket-market/internal/status"
)

func newTicketRepoMock(t *testing.T) (*TicketRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewTicketRepo(db), mock
}

func ticketRow(id uint64, verification string, advertised bool) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(strings.Split(ticketCols, ",")).
		AddRow(id, "BKK-CNX Express", "Bangkok", "Chiang Mai", "bus",
			decimal.NewFromInt(20), 10, now.AddDate(0, 1, 0), "08:30",
			[]byte(`["wifi"]`), "", "Vendor", "vendor@example.com",
			verification, advertised, false, now, now)
}

func TestSetVerificationRejectVacatesAdSlot(t *testing.T) {
	repo, mock := newTicketRepoMock(t)

	mock.ExpectExec(`UPDATE tickets SET verification_status=\?, is_advertised=0, updated_at=NOW\(\) WHERE id=\?`).
		WithArgs(model.VerificationRejected, uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.SetVerification(context.Background(), 7, model.VerificationRejected)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetVerificationApproveLeavesAdSlot(t *testing.T) {
	repo, mock := newTicketRepoMock(t)

	// Anchored: an approve that also touched is_advertised would not match.
	mock.ExpectExec(`^UPDATE tickets SET verification_status=\?, updated_at=NOW\(\) WHERE id=\?$`).
		WithArgs(model.VerificationApproved, uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.SetVerification(context.Background(), 7, model.VerificationApproved)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetVerificationMissingTicket(t *testing.T) {
	repo, mock := newTicketRepoMock(t)

	mock.ExpectExec(`UPDATE tickets SET verification_status=\?, updated_at=NOW\(\) WHERE id=\?`).
		WithArgs(model.VerificationApproved, uint64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT 1 FROM tickets WHERE id=\?`).
		WithArgs(uint64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}))

	err := repo.SetVerification(context.Background(), 99, model.VerificationApproved)
	assert.ErrorIs(t, err, status.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetAdvertisedOnCountsSlotsInStatement(t *testing.T) {
	repo, mock := newTicketRepoMock(t)

	// The turn-on UPDATE must carry the slot re-count in its own WHERE
	// clause and compare it against the cap.
	mock.ExpectExec(`UPDATE tickets SET is_advertised=1.+AND \? > \(SELECT cnt FROM \(\s*SELECT COUNT\(\*\) AS cnt FROM tickets WHERE is_advertised=1\) AS adv\)`).
		WithArgs(uint64(7), model.VerificationApproved, model.MaxAdvertised).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.SetAdvertised(context.Background(), 7, true)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetAdvertisedOnCapReached(t *testing.T) {
	repo, mock := newTicketRepoMock(t)

	mock.ExpectExec(`UPDATE tickets SET is_advertised=1`).
		WithArgs(uint64(7), model.VerificationApproved, model.MaxAdvertised).
		WillReturnResult(sqlmock.NewResult(0, 0))
	// Read-back: approved but still unadvertised, so only the cap can
	// have blocked the update.
	mock.ExpectQuery(`SELECT .+ FROM tickets WHERE id=\? LIMIT 1`).
		WithArgs(uint64(7)).
		WillReturnRows(ticketRow(7, model.VerificationApproved, false))

	err := repo.SetAdvertised(context.Background(), 7, true)
	assert.ErrorIs(t, err, status.ErrCapacityExceeded)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetAdvertisedOnUnapprovedTicket(t *testing.T) {
	repo, mock := newTicketRepoMock(t)

	mock.ExpectExec(`UPDATE tickets SET is_advertised=1`).
		WithArgs(uint64(7), model.VerificationApproved, model.MaxAdvertised).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT .+ FROM tickets WHERE id=\? LIMIT 1`).
		WithArgs(uint64(7)).
		WillReturnRows(ticketRow(7, model.VerificationPending, false))

	err := repo.SetAdvertised(context.Background(), 7, true)
	assert.ErrorIs(t, err, status.ErrInvalidState)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetAdvertisedAlreadyOnIsIdempotent(t *testing.T) {
	repo, mock := newTicketRepoMock(t)

	mock.ExpectExec(`UPDATE tickets SET is_advertised=1`).
		WithArgs(uint64(7), model.VerificationApproved, model.MaxAdvertised).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT .+ FROM tickets WHERE id=\? LIMIT 1`).
		WithArgs(uint64(7)).
		WillReturnRows(ticketRow(7, model.VerificationApproved, true))

	err := repo.SetAdvertised(context.Background(), 7, true)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
