package payment

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/iliyamo/talent-booking/internal/repository"
)

// feeMultiplier is the platform's fixed 10% escrow surcharge applied
// on top of the booking rate. It is a pinned business rule, not
// configuration.
const feeMultiplier = 1.10

// ComputeAmountCents converts a booking rate in major currency units
// into the payable amount in minor units with the platform fee
// applied: round(rate * 1.10 * 100). Rounding is half away from zero,
// which for the positive rates in scope behaves as half-up.
func ComputeAmountCents(rate float64) int64 {
	return int64(math.Round(rate * feeMultiplier * 100))
}

// IntentResult is what the escrow initiator hands back to callers:
// everything a payment client needs to confirm the intent.
type IntentResult struct {
	ClientSecret   string
	CustomerID     string
	PublishableKey string
}

// EscrowInitiator creates payment intents for bookings. It owns the
// lazy customer provisioning on the payer's profile and the amount
// formula; it never mutates booking state itself (the caller decides
// what a successful intent means for the booking).
type EscrowInitiator struct {
	Bookings       *repository.BookingRepo
	Profiles       *repository.ProfileRepo
	Stripe         *StripeClient
	Currency       string
	PublishableKey string
}

// NewEscrowInitiator constructs an EscrowInitiator and panics if any
// dependency is nil, mirroring handler constructors.
func NewEscrowInitiator(bookings *repository.BookingRepo, profiles *repository.ProfileRepo, stripe *StripeClient, currency, publishableKey string) *EscrowInitiator {
	if bookings == nil || profiles == nil || stripe == nil {
		panic("nil dependency passed to NewEscrowInitiator")
	}
	return &EscrowInitiator{
		Bookings:       bookings,
		Profiles:       profiles,
		Stripe:         stripe,
		Currency:       currency,
		PublishableKey: publishableKey,
	}
}

// CreateIntent validates that payerID is the brand on the booking,
// resolves or provisions the payer's customer record and requests a
// payment intent for the computed amount.
//
// Customer provisioning is idempotent: the stored reference is checked
// first, and when two calls race, the conditional set-once write on
// the profile picks a single winner and the loser re-reads the stored
// value. Repeated calls therefore always reuse one customer.
//
// No status precondition applies: the brand may set up the intent as
// soon as the booking exists (typically right after acceptance), and
// the idempotency key pins repeat calls to one provider-side intent.
//
// Errors: repository.ErrBookingNotFound when the booking is missing,
// repository.ErrForbidden when the payer is not the brand; provider
// failures come back wrapping ErrProvider.
func (e *EscrowInitiator) CreateIntent(ctx context.Context, payerID, bookingID uint64, emailHint string) (IntentResult, error) {
	booking, err := e.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return IntentResult{}, err
	}
	if booking.BrandID != payerID {
		return IntentResult{}, repository.ErrForbidden
	}

	customerID, err := e.ensureCustomer(ctx, payerID, emailHint)
	if err != nil {
		return IntentResult{}, err
	}

	amount := ComputeAmountCents(booking.Rate)
	intent, err := e.Stripe.CreatePaymentIntent(ctx, amount, e.Currency, customerID, booking.ID)
	if err != nil {
		return IntentResult{}, err
	}

	return IntentResult{
		ClientSecret:   intent.ClientSecret,
		CustomerID:     customerID,
		PublishableKey: e.PublishableKey,
	}, nil
}

// ensureCustomer returns the payer's provider customer id, creating
// one on first use. The email used for a new customer is the hint if
// given, else the profile email, else a deterministic synthetic
// address so provisioning never fails on missing data.
func (e *EscrowInitiator) ensureCustomer(ctx context.Context, userID uint64, emailHint string) (string, error) {
	profile, err := e.Profiles.GetByUserID(ctx, userID)
	if err != nil {
		return "", err
	}
	if profile.StripeCustomerID != nil && *profile.StripeCustomerID != "" {
		return *profile.StripeCustomerID, nil
	}

	email := strings.TrimSpace(emailHint)
	if email == "" {
		email = profile.Email
	}
	if email == "" {
		email = fmt.Sprintf("user_%d@caztiq.com", userID)
	}

	customerID, err := e.Stripe.CreateCustomer(ctx, email)
	if err != nil {
		return "", err
	}
	stored, err := e.Profiles.SetStripeCustomerID(ctx, userID, customerID)
	if err != nil {
		return "", err
	}
	if !stored {
		// A concurrent call won the set-once write; use its customer.
		fresh, err := e.Profiles.GetByUserID(ctx, userID)
		if err != nil {
			return "", err
		}
		if fresh.StripeCustomerID != nil && *fresh.StripeCustomerID != "" {
			return *fresh.StripeCustomerID, nil
		}
	}
	return customerID, nil
}
