package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/iliyamo/talent-booking/internal/model"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func beginTx(t *testing.T, db *sql.DB) *sql.Tx {
	t.Helper()
	tx, err := db.BeginTx(context.Background(), nil)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	return tx
}

// Creating a booking writes the offer_sent row and its opening history
// entry in one transaction, both carrying the same status.
func TestCreateWritesOpeningHistoryRow(t *testing.T) {
	db, mock := newMock(t)
	repo := NewBookingRepo(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO bookings").
		WithArgs(uint64(11), uint64(12), uint64(3), 250.0, model.StatusOfferSent, []byte("null")).
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectExec("INSERT INTO booking_history").
		WithArgs(uint64(7), model.StatusOfferSent, uint64(11)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	id, err := repo.Create(context.Background(), 11, 12, 3, 250.0, nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if id != 7 {
		t.Fatalf("id = %d, want 7", id)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

// AcceptTx flips offer_sent to offer_accepted, attaches the chat id
// and appends a history row whose status matches the new booking
// status within the same transaction.
func TestAcceptTxTransitionAppendsMatchingHistory(t *testing.T) {
	db, mock := newMock(t)
	repo := NewBookingRepo(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE bookings SET status").
		WithArgs(model.StatusOfferAccepted, uint64(5), uint64(7), model.StatusOfferSent).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO booking_history").
		WithArgs(uint64(7), model.StatusOfferAccepted, uint64(12)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	tx := beginTx(t, db)
	if err := repo.AcceptTx(context.Background(), tx, 7, 5, 12); err != nil {
		t.Fatalf("AcceptTx: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

// When the booking is no longer offer_sent (or already has a chat),
// the conditional UPDATE matches nothing; AcceptTx reports
// ErrInvalidState and writes no history row, so a rollback leaves the
// booking untouched.
func TestAcceptTxWrongStatusIsNoOp(t *testing.T) {
	db, mock := newMock(t)
	repo := NewBookingRepo(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE bookings SET status").
		WithArgs(model.StatusOfferAccepted, uint64(5), uint64(7), model.StatusOfferSent).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	tx := beginTx(t, db)
	if err := repo.AcceptTx(context.Background(), tx, 7, 5, 12); err != ErrInvalidState {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
	if err := tx.Rollback(); err != nil {
		t.Fatalf("rollback: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("history must not be written on a failed precondition: %v", err)
	}
}

func TestMarkFullySignedTx(t *testing.T) {
	db, mock := newMock(t)
	repo := NewBookingRepo(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE bookings SET status").
		WithArgs(model.StatusFullySigned, uint64(7), model.StatusOfferAccepted).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO booking_history").
		WithArgs(uint64(7), model.StatusFullySigned).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	tx := beginTx(t, db)
	if err := repo.MarkFullySignedTx(context.Background(), tx, 7); err != nil {
		t.Fatalf("MarkFullySignedTx: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestMarkFullySignedTxWrongStatus(t *testing.T) {
	db, mock := newMock(t)
	repo := NewBookingRepo(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE bookings SET status").
		WithArgs(model.StatusFullySigned, uint64(7), model.StatusOfferAccepted).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	tx := beginTx(t, db)
	if err := repo.MarkFullySignedTx(context.Background(), tx, 7); err != ErrInvalidState {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
	_ = tx.Rollback()
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

// The claim flips payment_status from NULL exactly once; a second
// attempt for the same booking loses.
func TestClaimEscrowSingleWinner(t *testing.T) {
	db, mock := newMock(t)
	repo := NewBookingRepo(db)

	mock.ExpectExec("UPDATE bookings SET payment_status").
		WithArgs(model.PaymentEscrowInitiated, uint64(7), model.StatusFullySigned).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE bookings SET payment_status").
		WithArgs(model.PaymentEscrowInitiated, uint64(7), model.StatusFullySigned).
		WillReturnResult(sqlmock.NewResult(0, 0))

	claimed, err := repo.ClaimEscrow(context.Background(), 7)
	if err != nil || !claimed {
		t.Fatalf("first claim should win: claimed=%v err=%v", claimed, err)
	}
	claimed, err = repo.ClaimEscrow(context.Background(), 7)
	if err != nil || claimed {
		t.Fatalf("second claim should lose: claimed=%v err=%v", claimed, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestReleaseEscrowClaim(t *testing.T) {
	db, mock := newMock(t)
	repo := NewBookingRepo(db)

	mock.ExpectExec("UPDATE bookings SET payment_status = NULL").
		WithArgs(uint64(7), model.PaymentEscrowInitiated).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.ReleaseEscrowClaim(context.Background(), 7); err != nil {
		t.Fatalf("ReleaseEscrowClaim: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

// The result write applies only on top of the claim marker, which
// keeps the payment fields write-once per claim.
func TestSetPaymentResult(t *testing.T) {
	db, mock := newMock(t)
	repo := NewBookingRepo(db)

	mock.ExpectExec("UPDATE bookings SET payment_status").
		WithArgs(model.PaymentPendingEscrow, "pi_secret", "cus_1", uint64(7), model.PaymentEscrowInitiated).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.SetPaymentResult(context.Background(), 7, "pi_secret", "cus_1"); err != nil {
		t.Fatalf("SetPaymentResult: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewBookingRepo(db)

	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id").
		WithArgs(uint64(99)).
		WillReturnError(sql.ErrNoRows)

	if _, err := repo.GetByID(context.Background(), 99); err != ErrBookingNotFound {
		t.Fatalf("expected ErrBookingNotFound, got %v", err)
	}
}
