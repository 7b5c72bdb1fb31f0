package payment

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCreateCustomer(t *testing.T) {
	var gotAuth, gotEmail string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/customers" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		gotAuth = r.Header.Get("Authorization")
		gotEmail = r.PostForm.Get("email")
		w.Write([]byte(`{"id":"cus_123"}`))
	}))
	defer srv.Close()

	c := NewStripeClient("sk_test_abc", srv.URL)
	id, err := c.CreateCustomer(context.Background(), "brand@example.com")
	if err != nil {
		t.Fatalf("CreateCustomer: %v", err)
	}
	if id != "cus_123" {
		t.Fatalf("got customer id %q", id)
	}
	if gotAuth != "Bearer sk_test_abc" {
		t.Fatalf("got auth header %q", gotAuth)
	}
	if gotEmail != "brand@example.com" {
		t.Fatalf("got email %q", gotEmail)
	}
}

func TestCreatePaymentIntent(t *testing.T) {
	var form map[string]string
	var idemKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/payment_intents" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		form = map[string]string{
			"amount":               r.PostForm.Get("amount"),
			"currency":             r.PostForm.Get("currency"),
			"customer":             r.PostForm.Get("customer"),
			"metadata[booking_id]": r.PostForm.Get("metadata[booking_id]"),
		}
		idemKey = r.Header.Get("Idempotency-Key")
		w.Write([]byte(`{"id":"pi_1","client_secret":"pi_1_secret"}`))
	}))
	defer srv.Close()

	c := NewStripeClient("sk_test_abc", srv.URL)
	intent, err := c.CreatePaymentIntent(context.Background(), 11000, "USD", "cus_123", 42)
	if err != nil {
		t.Fatalf("CreatePaymentIntent: %v", err)
	}
	if intent.ClientSecret != "pi_1_secret" {
		t.Fatalf("got client secret %q", intent.ClientSecret)
	}
	if form["amount"] != "11000" {
		t.Fatalf("got amount %q", form["amount"])
	}
	if form["currency"] != "usd" {
		t.Fatalf("currency must be lowercased, got %q", form["currency"])
	}
	if form["customer"] != "cus_123" {
		t.Fatalf("got customer %q", form["customer"])
	}
	if form["metadata[booking_id]"] != "42" {
		t.Fatalf("got booking metadata %q", form["metadata[booking_id]"])
	}
	if idemKey != "booking:42" {
		t.Fatalf("got idempotency key %q", idemKey)
	}
}

func TestProviderErrorIsWrapped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		w.Write([]byte(`{"error":{"message":"card declined"}}`))
	}))
	defer srv.Close()

	c := NewStripeClient("sk_test_abc", srv.URL)
	_, err := c.CreatePaymentIntent(context.Background(), 500, "usd", "cus_123", 1)
	if !errors.Is(err, ErrProvider) {
		t.Fatalf("expected ErrProvider, got %v", err)
	}
}

func TestMissingAPIKey(t *testing.T) {
	c := NewStripeClient("", "http://localhost:0")
	if _, err := c.CreateCustomer(context.Background(), "x@example.com"); !errors.Is(err, ErrProvider) {
		t.Fatalf("expected ErrProvider for missing key, got %v", err)
	}
}
