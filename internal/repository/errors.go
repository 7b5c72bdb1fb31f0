// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrForbidden indicates that the current user is not
// authorized to perform a transition on a booking or to post into a
// channel they do not participate in, while ErrInvalidState signals
// that the entity exists but is in the wrong lifecycle state for the
// requested operation (an already-accepted offer, a disabled chat).
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation
// reserved for a different party, such as accepting an offer that is
// addressed to another model. Handlers should translate this into an
// HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrInvalidState is returned when a state transition's precondition
// fails: the entity exists but its current status does not permit the
// requested operation. The operation must have no side effects in
// this case. Handlers should translate this into an HTTP 409 response.
var ErrInvalidState = errors.New("invalid state")
