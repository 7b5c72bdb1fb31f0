package model

import "time"

// User represents an application account record as stored in the
// `users` table. Each field corresponds to a column in the
// database. The json tags are omitted here because these structs
// are primarily used internally by the repository layer; handlers
// define separate response types with appropriate JSON tags.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Email        – unique email address.
//  PasswordHash – bcrypt hashed password.
//  IsActive     – whether the account is active.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    // users.id
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	IsActive     bool      // users.is_active
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// Profile is the marketplace-facing record that accompanies a user
// account. It is created exactly once when the account is registered
// and carries the onboarding state plus the lazily provisioned
// payment-provider customer reference. Roles are UNKNOWN until the
// user picks a side of the marketplace during onboarding.
//
// Fields:
//  UserID           – owning user (primary key, references users.id).
//  Email            – denormalized email used for payment provisioning.
//  Role             – UNKNOWN, BRAND or MODEL.
//  ProfileCompleted – whether onboarding has finished.
//  StripeCustomerID – payment-provider customer reference (nullable, set once).
//  CreatedAt        – timestamp of creation.
type Profile struct {
	UserID           uint64    // profiles.user_id
	Email            string    // profiles.email
	Role             string    // profiles.role
	ProfileCompleted bool      // profiles.profile_completed
	StripeCustomerID *string   // profiles.stripe_customer_id (nullable)
	CreatedAt        time.Time // profiles.created_at
}

// Roles stored in profiles.role. RoleUnknown is the initial value for
// every new profile; onboarding moves it to RoleBrand or RoleModel.
const (
	RoleUnknown = "UNKNOWN"
	RoleBrand   = "BRAND"
	RoleModel   = "MODEL"
)

// RefreshToken models an entry in the `refresh_tokens` table. Each
// refresh token belongs to a user and contains metadata for expiry
// and revocation. The plain token is not stored; only its
// SHA-256 hash.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the token.
//  TokenHash – SHA-256 hex digest of the token value.
//  ExpiresAt – expiration timestamp of the token.
//  RevokedAt – when the token was revoked (null if still active).
//  CreatedAt – timestamp of creation.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
