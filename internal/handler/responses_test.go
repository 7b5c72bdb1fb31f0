package handler

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/iliyamo/talent-booking/internal/model"
)

func sampleBooking() model.Booking {
	secret := "pi_1_secret"
	customer := "cus_1"
	status := model.PaymentPendingEscrow
	chatID := uint64(3)
	return model.Booking{
		ID:                  7,
		BrandID:             11,
		ModelID:             12,
		JobID:               5,
		Rate:                100,
		Status:              model.StatusFullySigned,
		ChatID:              &chatID,
		PaymentStatus:       &status,
		PaymentClientSecret: &secret,
		PaymentCustomerID:   &customer,
		CreatedAt:           time.Now(),
		UpdatedAt:           time.Now(),
	}
}

// The client secret is the credential that confirms the charge; only
// the paying brand may see the payment fields.
func TestBookingJSONHidesPaymentFromModel(t *testing.T) {
	b := sampleBooking()

	asModel := bookingJSON(b, b.ModelID)
	for _, k := range []string{"payment_status", "payment_client_secret", "payment_customer_id"} {
		if _, ok := asModel[k]; ok {
			t.Fatalf("%s must not be serialized for the model participant", k)
		}
	}
	raw, err := json.Marshal(asModel)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(raw), "pi_1_secret") {
		t.Fatalf("client secret leaked into the model's view: %s", raw)
	}

	asBrand := bookingJSON(b, b.BrandID)
	if got, _ := asBrand["payment_client_secret"].(*string); got == nil || *got != "pi_1_secret" {
		t.Fatalf("brand view must include the client secret, got %v", asBrand["payment_client_secret"])
	}
}

// Response keys are the API's snake_case names, not Go field names.
func TestBookingJSONUsesWireNames(t *testing.T) {
	out := bookingJSON(sampleBooking(), 11)
	for _, k := range []string{"id", "brand_id", "model_id", "job_id", "rate", "status", "chat_id", "created_at", "updated_at"} {
		if _, ok := out[k]; !ok {
			t.Fatalf("missing key %q", k)
		}
	}
	for _, k := range []string{"ID", "BrandID", "PaymentClientSecret"} {
		if _, ok := out[k]; ok {
			t.Fatalf("Go field name %q leaked into the response", k)
		}
	}
}
