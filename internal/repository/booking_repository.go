package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/iliyamo/talent-booking/internal/model"
)

// ErrBookingNotFound is returned when a referenced booking does not
// exist. Handlers translate it into an HTTP 404 response.
var ErrBookingNotFound = errors.New("booking not found")

// BookingRepo provides data access to the bookings and booking_history
// tables. The booking row is the single serialization point for all
// lifecycle transitions: every transition is a conditional UPDATE
// keyed on the current status, and the affected-row count decides
// whether the precondition held at write time. History rows are
// inserted in the same transaction as the status change they record,
// which keeps the invariant that the newest history entry always
// matches the booking's current status.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions
// that span bookings and chats.
func (r *BookingRepo) DB() *sql.DB { return r.db }

const bookingColumns = `id, brand_id, model_id, job_id, rate, status, chat_id, details,
	   payment_status, payment_client_secret, payment_customer_id, created_at, updated_at`

// scanBooking reads one booking row from any row scanner (sql.Row or
// sql.Rows) and converts nullable columns and the details JSON blob.
func scanBooking(scan func(dest ...any) error) (model.Booking, error) {
	var (
		b            model.Booking
		chatID       sql.NullInt64
		detailsRaw   []byte
		payStatus    sql.NullString
		clientSecret sql.NullString
		customerID   sql.NullString
	)
	err := scan(&b.ID, &b.BrandID, &b.ModelID, &b.JobID, &b.Rate, &b.Status, &chatID, &detailsRaw,
		&payStatus, &clientSecret, &customerID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return model.Booking{}, err
	}
	if chatID.Valid {
		id := uint64(chatID.Int64)
		b.ChatID = &id
	}
	if len(detailsRaw) > 0 {
		if err := json.Unmarshal(detailsRaw, &b.Details); err != nil {
			return model.Booking{}, err
		}
	}
	if payStatus.Valid {
		s := payStatus.String
		b.PaymentStatus = &s
	}
	if clientSecret.Valid {
		s := clientSecret.String
		b.PaymentClientSecret = &s
	}
	if customerID.Valid {
		s := customerID.String
		b.PaymentCustomerID = &s
	}
	return b, nil
}

// Create inserts a new booking in the offer_sent state together with
// its first history entry. Both writes happen in one transaction so a
// booking can never exist without its opening history row. It returns
// the generated booking id.
func (r *BookingRepo) Create(ctx context.Context, brandID, modelID, jobID uint64, rate float64, details map[string]string) (uint64, error) {
	detailsJSON, err := json.Marshal(details)
	if err != nil {
		return 0, err
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	res, err := tx.ExecContext(ctx,
		`INSERT INTO bookings (brand_id, model_id, job_id, rate, status, details)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		brandID, modelID, jobID, rate, model.StatusOfferSent, detailsJSON)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO booking_history (booking_id, status, actor_id) VALUES (?, ?, ?)`,
		uint64(id), model.StatusOfferSent, brandID); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	committed = true
	return uint64(id), nil
}

// GetByID returns a booking by id. ErrBookingNotFound is returned when
// no row exists.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (model.Booking, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = ? LIMIT 1`, id)
	b, err := scanBooking(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Booking{}, ErrBookingNotFound
	}
	return b, err
}

// GetByIDForUpdateTx loads a booking inside an open transaction with a
// row lock (SELECT ... FOR UPDATE). Transition handlers use it to
// re-validate preconditions against the fresh row in the same
// transaction that performs the conditional write, so two concurrent
// transitions on the same booking serialize on the row lock.
func (r *BookingRepo) GetByIDForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Booking, error) {
	row := tx.QueryRowContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = ? LIMIT 1 FOR UPDATE`, id)
	b, err := scanBooking(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Booking{}, ErrBookingNotFound
	}
	return b, err
}

// AcceptTx performs the offer_sent -> offer_accepted transition inside
// the provided transaction: it sets the status and the freshly created
// chat id, and appends the matching history row. The UPDATE is
// conditional on the current status and on chat_id still being unset;
// zero affected rows means the precondition no longer holds and the
// caller must roll back, reported as ErrInvalidState.
func (r *BookingRepo) AcceptTx(ctx context.Context, tx *sql.Tx, bookingID, chatID, actorID uint64) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE bookings SET status = ?, chat_id = ?, updated_at = NOW()
		 WHERE id = ? AND status = ? AND chat_id IS NULL`,
		model.StatusOfferAccepted, chatID, bookingID, model.StatusOfferSent)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrInvalidState
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO booking_history (booking_id, status, actor_id) VALUES (?, ?, ?)`,
		bookingID, model.StatusOfferAccepted, actorID)
	return err
}

// MarkFullySignedTx performs the offer_accepted -> fully_signed
// transition. The actor is the signing collaborator, recorded as 0 in
// the history log. Zero affected rows is reported as ErrInvalidState.
func (r *BookingRepo) MarkFullySignedTx(ctx context.Context, tx *sql.Tx, bookingID uint64) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE bookings SET status = ?, updated_at = NOW()
		 WHERE id = ? AND status = ?`,
		model.StatusFullySigned, bookingID, model.StatusOfferAccepted)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrInvalidState
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO booking_history (booking_id, status, actor_id) VALUES (?, ?, 0)`,
		bookingID, model.StatusFullySigned)
	return err
}

// ClaimEscrow atomically marks a fully signed booking as claimed for
// escrow initiation. It returns true only for the caller that flips
// payment_status from NULL to escrow_initiated; duplicate deliveries
// of the same transition observe a non-NULL payment_status and get
// false. This check-and-set is the watcher's de-duplication guard
// against at-least-once event delivery.
func (r *BookingRepo) ClaimEscrow(ctx context.Context, bookingID uint64) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE bookings SET payment_status = ?, updated_at = NOW()
		 WHERE id = ? AND status = ? AND payment_status IS NULL`,
		model.PaymentEscrowInitiated, bookingID, model.StatusFullySigned)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ReleaseEscrowClaim clears a claim after a failed provider call so the
// booking is left in its pre-transition state. A later reconciliation
// sweep can pick the booking up again.
func (r *BookingRepo) ReleaseEscrowClaim(ctx context.Context, bookingID uint64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE bookings SET payment_status = NULL, updated_at = NOW()
		 WHERE id = ? AND payment_status = ?`,
		bookingID, model.PaymentEscrowInitiated)
	return err
}

// SetPaymentResult writes the payment intent outcome onto the booking.
// It only applies on top of an existing escrow claim, which keeps the
// payment fields write-once with respect to the claim lifecycle.
func (r *BookingRepo) SetPaymentResult(ctx context.Context, bookingID uint64, clientSecret, customerID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE bookings SET payment_status = ?, payment_client_secret = ?, payment_customer_id = ?, updated_at = NOW()
		 WHERE id = ? AND payment_status = ?`,
		model.PaymentPendingEscrow, clientSecret, customerID, bookingID, model.PaymentEscrowInitiated)
	return err
}

// ListByUser returns all bookings where the user participates on
// either side, newest first.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Booking, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings
		 WHERE brand_id = ? OR model_id = ?
		 ORDER BY created_at DESC`,
		userID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	bookings := make([]model.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows.Scan)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return bookings, nil
}

// History returns the append-only transition log for a booking in
// insertion order.
func (r *BookingRepo) History(ctx context.Context, bookingID uint64) ([]model.BookingHistoryEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, booking_id, status, actor_id, created_at
		 FROM booking_history WHERE booking_id = ? ORDER BY id ASC`,
		bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	entries := make([]model.BookingHistoryEntry, 0)
	for rows.Next() {
		var e model.BookingHistoryEntry
		if err := rows.Scan(&e.ID, &e.BookingID, &e.Status, &e.ActorID, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
