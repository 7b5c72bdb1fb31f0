// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingUpdatedQueue is the durable queue carrying booking state
// transitions. Every successful transition publishes one event.
const BookingUpdatedQueue = "booking.updated"

// BookingUpdatedEvent is published whenever a booking changes status.
// It carries the before/after pair so consumers can react to specific
// transition edges without querying the primary database. Delivery is
// at-least-once; consumers must de-duplicate.
type BookingUpdatedEvent struct {
	BookingID  uint64 `json:"booking_id"`
	BrandID    uint64 `json:"brand_id"`
	ModelID    uint64 `json:"model_id"`
	PrevStatus string `json:"prev_status"`
	NewStatus  string `json:"new_status"`
	UpdatedAt  string `json:"updated_at"`
}
