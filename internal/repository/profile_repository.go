package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/talent-booking/internal/model"
)

// ProfileRepo provides data access to the `profiles` table. A profile
// is the marketplace-facing document for a user: role, onboarding
// state and the lazily provisioned payment-provider customer
// reference. Every account gets exactly one profile, created by
// EnsureProfile when the account is registered.
type ProfileRepo struct {
	db *sql.DB
}

// NewProfileRepo returns a new ProfileRepo bound to the given database.
func NewProfileRepo(db *sql.DB) *ProfileRepo { return &ProfileRepo{db: db} }

// EnsureProfile creates the profile row for a user if it does not
// already exist and reports whether a row was created. The operation
// is idempotent: INSERT IGNORE leaves an existing row untouched, and
// the affected-row count distinguishes the two outcomes. New profiles
// start with role UNKNOWN and profile_completed false; onboarding
// moves them forward.
func (r *ProfileRepo) EnsureProfile(ctx context.Context, userID uint64, email string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	res, err := r.db.ExecContext(ctx,
		`INSERT IGNORE INTO profiles (user_id, email, role, profile_completed) VALUES (?, ?, ?, FALSE)`,
		userID, email, model.RoleUnknown)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// GetByUserID returns the profile for a user. sql.ErrNoRows is
// returned when no profile exists, which callers treat as NotFound.
func (r *ProfileRepo) GetByUserID(ctx context.Context, userID uint64) (model.Profile, error) {
	var p model.Profile
	var customer sql.NullString
	err := r.db.QueryRowContext(ctx,
		`SELECT user_id, email, role, profile_completed, stripe_customer_id, created_at
		 FROM profiles WHERE user_id = ? LIMIT 1`,
		userID).Scan(&p.UserID, &p.Email, &p.Role, &p.ProfileCompleted, &customer, &p.CreatedAt)
	if err != nil {
		return model.Profile{}, err
	}
	if customer.Valid {
		c := customer.String
		p.StripeCustomerID = &c
	}
	return p, nil
}

// SetRole records the role chosen during onboarding and marks the
// profile completed. The role must be BRAND or MODEL; the caller
// validates before reaching the repository. Selecting a role is a
// one-way gate: a profile that already completed onboarding keeps its
// role, and the method reports ErrInvalidState in that case.
func (r *ProfileRepo) SetRole(ctx context.Context, userID uint64, role string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE profiles SET role = ?, profile_completed = TRUE
		 WHERE user_id = ? AND profile_completed = FALSE`,
		role, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Either the profile is missing or onboarding already ran.
		var exists int
		if err := r.db.QueryRowContext(ctx,
			`SELECT 1 FROM profiles WHERE user_id = ? LIMIT 1`, userID).Scan(&exists); err != nil {
			return err
		}
		return ErrInvalidState
	}
	return nil
}

// SetStripeCustomerID persists the payment-provider customer reference
// exactly once. The conditional WHERE clause guards against a second
// provisioning racing a first: only the writer that finds the column
// still NULL wins, and losers simply keep the stored value. Callers
// must re-read the profile when the update reports zero rows.
func (r *ProfileRepo) SetStripeCustomerID(ctx context.Context, userID uint64, customerID string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE profiles SET stripe_customer_id = ?
		 WHERE user_id = ? AND stripe_customer_id IS NULL`,
		customerID, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
