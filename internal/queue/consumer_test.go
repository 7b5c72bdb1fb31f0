package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/iliyamo/talent-booking/internal/model"
	"github.com/iliyamo/talent-booking/internal/payment"
)

type fakeStore struct {
	claimResult  bool
	claimErr     error
	claims       []uint64
	releases     []uint64
	results      []string // "bookingID:clientSecret:customerID" records
	setResultErr error
}

func (f *fakeStore) ClaimEscrow(_ context.Context, id uint64) (bool, error) {
	f.claims = append(f.claims, id)
	return f.claimResult, f.claimErr
}

func (f *fakeStore) ReleaseEscrowClaim(_ context.Context, id uint64) error {
	f.releases = append(f.releases, id)
	return nil
}

func (f *fakeStore) SetPaymentResult(_ context.Context, id uint64, secret, customer string) error {
	f.results = append(f.results, secret+"|"+customer)
	return f.setResultErr
}

type fakeEscrow struct {
	result payment.IntentResult
	err    error
	calls  int
	payer  uint64
}

func (f *fakeEscrow) CreateIntent(_ context.Context, payerID, _ uint64, _ string) (payment.IntentResult, error) {
	f.calls++
	f.payer = payerID
	return f.result, f.err
}

func signedEvent() []byte {
	b, _ := json.Marshal(BookingUpdatedEvent{
		BookingID:  7,
		BrandID:    11,
		ModelID:    12,
		PrevStatus: model.StatusOfferAccepted,
		NewStatus:  model.StatusFullySigned,
	})
	return b
}

func TestIsSignedEdge(t *testing.T) {
	cases := []struct {
		prev, next string
		want       bool
	}{
		{model.StatusOfferAccepted, model.StatusFullySigned, true},
		{model.StatusOfferSent, model.StatusFullySigned, true},
		{model.StatusFullySigned, model.StatusFullySigned, false},
		{model.StatusOfferSent, model.StatusOfferAccepted, false},
		{model.StatusFullySigned, model.StatusCompleted, false},
	}
	for _, tc := range cases {
		if got := isSignedEdge(tc.prev, tc.next); got != tc.want {
			t.Fatalf("isSignedEdge(%q, %q) = %v, want %v", tc.prev, tc.next, got, tc.want)
		}
	}
}

func TestHandleMessageInitiatesEscrowOnSignedEdge(t *testing.T) {
	store := &fakeStore{claimResult: true}
	escrow := &fakeEscrow{result: payment.IntentResult{ClientSecret: "pi_secret", CustomerID: "cus_1"}}
	w := NewBookingWatcher(store, escrow)

	if err := w.handleMessage(signedEvent()); err != nil {
		t.Fatalf("handleMessage: %v", err)
	}
	if len(store.claims) != 1 || store.claims[0] != 7 {
		t.Fatalf("expected one claim for booking 7, got %v", store.claims)
	}
	if escrow.calls != 1 {
		t.Fatalf("expected one intent, got %d", escrow.calls)
	}
	if escrow.payer != 11 {
		t.Fatalf("intent should be created for the brand (11), got %d", escrow.payer)
	}
	if len(store.results) != 1 || store.results[0] != "pi_secret|cus_1" {
		t.Fatalf("payment result not recorded: %v", store.results)
	}
}

func TestHandleMessageIgnoresOtherTransitions(t *testing.T) {
	store := &fakeStore{claimResult: true}
	escrow := &fakeEscrow{}
	w := NewBookingWatcher(store, escrow)

	b, _ := json.Marshal(BookingUpdatedEvent{
		BookingID:  7,
		PrevStatus: model.StatusOfferSent,
		NewStatus:  model.StatusOfferAccepted,
	})
	if err := w.handleMessage(b); err != nil {
		t.Fatalf("handleMessage: %v", err)
	}
	if len(store.claims) != 0 || escrow.calls != 0 {
		t.Fatalf("non-signed transition must be a no-op, claims=%v intents=%d", store.claims, escrow.calls)
	}
}

func TestHandleMessageDuplicateLosesClaim(t *testing.T) {
	store := &fakeStore{claimResult: false}
	escrow := &fakeEscrow{}
	w := NewBookingWatcher(store, escrow)

	if err := w.handleMessage(signedEvent()); err != nil {
		t.Fatalf("handleMessage: %v", err)
	}
	if escrow.calls != 0 {
		t.Fatalf("duplicate delivery must not create a second intent")
	}
	if len(store.results) != 0 {
		t.Fatalf("duplicate delivery must not record a result")
	}
}

func TestHandleMessageProviderFailureReleasesClaim(t *testing.T) {
	store := &fakeStore{claimResult: true}
	escrow := &fakeEscrow{err: errors.New("provider down")}
	w := NewBookingWatcher(store, escrow)

	// Fire-and-log: the message is consumed even though escrow failed.
	if err := w.handleMessage(signedEvent()); err != nil {
		t.Fatalf("provider failure should not surface: %v", err)
	}
	if len(store.releases) != 1 || store.releases[0] != 7 {
		t.Fatalf("claim must be released on failure, got %v", store.releases)
	}
	if len(store.results) != 0 {
		t.Fatalf("no result should be recorded on failure")
	}
}

func TestHandleMessageBadPayload(t *testing.T) {
	store := &fakeStore{}
	escrow := &fakeEscrow{}
	w := NewBookingWatcher(store, escrow)

	if err := w.handleMessage([]byte("{not json")); err == nil {
		t.Fatalf("expected error for malformed payload")
	}
	if len(store.claims) != 0 {
		t.Fatalf("malformed payload must not touch the store")
	}
}
