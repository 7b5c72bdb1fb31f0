package model

import "time"

// Booking statuses form the lifecycle state machine. A booking starts
// as an offer from a brand (StatusOfferSent), becomes
// StatusOfferAccepted when the model accepts it, and reaches
// StatusFullySigned once both parties have signed the contract
// through the signing collaborator. Completed and cancelled exist for
// later stages of the lifecycle and have no transition into them yet.
const (
	StatusOfferSent     = "offer_sent"
	StatusOfferAccepted = "offer_accepted"
	StatusFullySigned   = "fully_signed"
	StatusCompleted     = "completed"
	StatusCancelled     = "cancelled"
)

// Payment statuses written onto a booking by the escrow initiator.
// PaymentEscrowInitiated is the transient claim marker persisted
// before the payment provider is called; PaymentPendingEscrow means
// an intent was created and the client secret is stored.
const (
	PaymentEscrowInitiated = "escrow_initiated"
	PaymentPendingEscrow   = "pending_escrow"
)

// Booking records an engagement offer between a brand and a model for
// a specific job. It is the single serialization point for all state
// transitions; the chat channel and payment fields are written at
// most once by their owning components.
//
// Fields:
//  ID                – primary key identifier.
//  BrandID           – user who sent the offer.
//  ModelID           – user the offer is addressed to.
//  JobID             – job listing this offer is for.
//  Rate              – agreed rate in major currency units (positive decimal).
//  Status            – lifecycle state (see constants above).
//  ChatID            – chat channel created on acceptance (nullable, immutable once set).
//  Details           – free-form attributes supplied by the brand.
//  PaymentStatus     – escrow progress marker (nullable).
//  PaymentClientSecret – payment intent client secret (nullable).
//  PaymentCustomerID – payment-provider customer used for the intent (nullable).
//  CreatedAt         – creation timestamp.
//  UpdatedAt         – last update timestamp.
type Booking struct {
	ID                  uint64            // bookings.id
	BrandID             uint64            // bookings.brand_id
	ModelID             uint64            // bookings.model_id
	JobID               uint64            // bookings.job_id
	Rate                float64           // bookings.rate
	Status              string            // bookings.status
	ChatID              *uint64           // bookings.chat_id (nullable)
	Details             map[string]string // bookings.details (JSON)
	PaymentStatus       *string           // bookings.payment_status (nullable)
	PaymentClientSecret *string           // bookings.payment_client_secret (nullable)
	PaymentCustomerID   *string           // bookings.payment_customer_id (nullable)
	CreatedAt           time.Time         // bookings.created_at
	UpdatedAt           time.Time         // bookings.updated_at
}

// BookingHistoryEntry is one row of the append-only transition log in
// the `booking_history` table. Rows are inserted in the same
// transaction as the status change they record, so the newest row
// always matches the booking's current status.
//
// Fields:
//  ID        – primary key identifier.
//  BookingID – booking this entry belongs to.
//  Status    – status the booking transitioned to.
//  ActorID   – user who performed the transition (0 for system actors).
//  CreatedAt – when the transition happened.
type BookingHistoryEntry struct {
	ID        uint64    // booking_history.id
	BookingID uint64    // booking_history.booking_id
	Status    string    // booking_history.status
	ActorID   uint64    // booking_history.actor_id
	CreatedAt time.Time // booking_history.created_at
}
