package payment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/iliyamo/talent-booking/internal/model"
	"github.com/iliyamo/talent-booking/internal/repository"
)

// The payable amount is the rate plus the platform's 10% fee, in minor
// currency units, rounded half-up.
func TestComputeAmountCents(t *testing.T) {
	cases := []struct {
		rate float64
		want int64
	}{
		{100, 11000},
		{33.33, 3666},
		{500, 55000},
		{0.50, 55},
		{0.05, 6},
		{1, 110},
		{999.99, 109999},
	}
	for _, tc := range cases {
		if got := ComputeAmountCents(tc.rate); got != tc.want {
			t.Fatalf("ComputeAmountCents(%v) = %d, want %d", tc.rate, got, tc.want)
		}
	}
}

var bookingCols = []string{
	"id", "brand_id", "model_id", "job_id", "rate", "status", "chat_id", "details",
	"payment_status", "payment_client_secret", "payment_customer_id", "created_at", "updated_at",
}

// The brand may request an intent as soon as the offer is accepted;
// there is no status precondition on the synchronous path.
func TestCreateIntentForAcceptedBooking(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id").
		WithArgs(uint64(9)).
		WillReturnRows(sqlmock.NewRows(bookingCols).
			AddRow(9, 11, 12, 3, 100.0, model.StatusOfferAccepted, 1, nil, nil, nil, nil, now, now))
	mock.ExpectQuery("SELECT (.+) FROM profiles WHERE user_id").
		WithArgs(uint64(11)).
		WillReturnRows(sqlmock.NewRows(
			[]string{"user_id", "email", "role", "profile_completed", "stripe_customer_id", "created_at"}).
			AddRow(11, "brand@example.com", model.RoleBrand, true, "cus_9", now))

	intents := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/payment_intents" {
			t.Fatalf("unexpected provider call %s", r.URL.Path)
		}
		intents++
		w.Write([]byte(`{"id":"pi_9","client_secret":"pi_9_secret"}`))
	}))
	defer srv.Close()

	e := NewEscrowInitiator(
		repository.NewBookingRepo(db),
		repository.NewProfileRepo(db),
		NewStripeClient("sk_test_abc", srv.URL),
		"usd", "pk_test_abc")

	res, err := e.CreateIntent(context.Background(), 11, 9, "")
	if err != nil {
		t.Fatalf("CreateIntent on an accepted booking: %v", err)
	}
	if intents != 1 {
		t.Fatalf("expected exactly one provider call, got %d", intents)
	}
	if res.ClientSecret != "pi_9_secret" || res.CustomerID != "cus_9" {
		t.Fatalf("unexpected result %+v", res)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateIntentRejectsNonBrandCaller(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id").
		WithArgs(uint64(9)).
		WillReturnRows(sqlmock.NewRows(bookingCols).
			AddRow(9, 11, 12, 3, 100.0, model.StatusOfferAccepted, 1, nil, nil, nil, nil, now, now))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("provider must not be called")
	}))
	defer srv.Close()

	e := NewEscrowInitiator(
		repository.NewBookingRepo(db),
		repository.NewProfileRepo(db),
		NewStripeClient("sk_test_abc", srv.URL),
		"usd", "pk_test_abc")

	// Caller 12 is the model side, not the paying brand.
	if _, err := e.CreateIntent(context.Background(), 12, 9, ""); err != repository.ErrForbidden {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}
