package model

import "time"

// Job is a listing posted by a brand that bookings reference through
// their JobID. Listings are browsable by anyone; only the owning
// brand may modify or delete them.
//
// Fields:
//  ID          – primary key identifier.
//  BrandID     – brand that owns the listing.
//  Title       – short human-readable title.
//  Description – free-form description of the engagement.
//  Rate        – suggested rate in major currency units.
//  IsOpen      – whether the listing still accepts offers.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Job struct {
	ID          uint64    // jobs.id
	BrandID     uint64    // jobs.brand_id
	Title       string    // jobs.title
	Description string    // jobs.description
	Rate        float64   // jobs.rate
	IsOpen      bool      // jobs.is_open
	CreatedAt   time.Time // jobs.created_at
	UpdatedAt   time.Time // jobs.updated_at
}
