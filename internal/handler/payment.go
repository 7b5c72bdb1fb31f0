package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/talent-booking/internal/payment"
	"github.com/iliyamo/talent-booking/internal/repository"
)

// PaymentHandler exposes the on-demand escrow path: the brand asks for
// a payment intent directly instead of waiting for the queue watcher.
// Both paths converge on the same claim in the bookings table, so the
// provider is charged at most once per booking.
type PaymentHandler struct {
	Escrow *payment.EscrowInitiator
}

func NewPaymentHandler(e *payment.EscrowInitiator) *PaymentHandler {
	return &PaymentHandler{Escrow: e}
}

type createIntentReq struct {
	Email string `json:"email"`
}

// CreateIntent sets up the escrow charge for a fully signed booking
// and returns the client secret the frontend confirms with.
func (h *PaymentHandler) CreateIntent(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || bookingID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var req createIntentReq
	_ = c.Bind(&req) // email hint is optional

	// Provider round trips are slower than DB calls, allow more time.
	ctx, cancel := context.WithTimeout(c.Request().Context(), 25*time.Second)
	defer cancel()

	res, err := h.Escrow.CreateIntent(ctx, uid, bookingID, req.Email)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrBookingNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "only the paying brand can set up escrow"})
		case errors.Is(err, payment.ErrProvider):
			return c.JSON(http.StatusBadGateway, echo.Map{"error": "payment provider unavailable"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create intent failed"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"client_secret":   res.ClientSecret,
		"customer_id":     res.CustomerID,
		"publishable_key": res.PublishableKey,
	})
}
