package handler

import (
	"context"
	"crypto/subtle"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/talent-booking/internal/config"
	"github.com/iliyamo/talent-booking/internal/model"
	"github.com/iliyamo/talent-booking/internal/queue"
	"github.com/iliyamo/talent-booking/internal/repository"
	queue_publisher "github.com/iliyamo/talent-booking/internal/service"
)

// BookingHandler drives the offer lifecycle. Accepting an offer and
// recording the signed contract are the two transitions that own a
// database transaction here: the row is locked, the guard re-checked
// and the status flipped in one unit so concurrent requests cannot
// both win.
type BookingHandler struct {
	Cfg      config.Config
	Bookings *repository.BookingRepo
	Chats    *repository.ChatRepo
	Jobs     *repository.JobRepo
}

func NewBookingHandler(cfg config.Config, b *repository.BookingRepo, c *repository.ChatRepo, j *repository.JobRepo) *BookingHandler {
	return &BookingHandler{Cfg: cfg, Bookings: b, Chats: c, Jobs: j}
}

type createBookingReq struct {
	ModelID uint64            `json:"model_id"`
	JobID   uint64            `json:"job_id"`
	Rate    float64           `json:"rate"`
	Details map[string]string `json:"details"`
}

// publishTransition emits the booking.updated event after a commit.
// Delivery is best effort from the request's point of view: the state
// change is already durable, so a broker hiccup must not fail the
// response. The watcher reconciles from the queue when it comes back.
func publishTransition(b model.Booking, prev, next string) {
	ev := queue.BookingUpdatedEvent{
		BookingID:  b.ID,
		BrandID:    b.BrandID,
		ModelID:    b.ModelID,
		PrevStatus: prev,
		NewStatus:  next,
		UpdatedAt:  time.Now().UTC().Format(time.RFC3339),
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := queue_publisher.PublishBookingUpdated(ctx, ev); err != nil {
		log.Printf("booking %d: publish %s->%s failed: %v", b.ID, prev, next, err)
	}
}

// Create sends an offer from the calling brand to a model. The
// referenced job must belong to the caller; the rate defaults to the
// job's listed rate when the body omits it.
func (h *BookingHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.ModelID == 0 || req.JobID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "model_id and job_id required"})
	}
	if req.ModelID == uid {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot book yourself"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	job, err := h.Jobs.GetByID(ctx, req.JobID)
	if err != nil {
		if err == repository.ErrJobNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "job not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load job failed"})
	}
	if job.BrandID != uid {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not your job"})
	}
	rate := req.Rate
	if rate == 0 {
		rate = job.Rate
	}
	if rate <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "rate must be positive"})
	}

	id, err := h.Bookings.Create(ctx, uid, req.ModelID, req.JobID, rate, req.Details)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create booking failed"})
	}
	b, err := h.Bookings.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load booking failed"})
	}
	return c.JSON(http.StatusCreated, bookingJSON(b, uid))
}

// Accept is the model's side of the offer. Within one transaction the
// booking row is locked, the caller and current status are verified,
// the chat (with its disclaimer notice) is provisioned and the status
// moves to offer_accepted with the chat reference attached. The
// UNIQUE key on chats.booking_id backs up the in-transaction check.
func (h *BookingHandler) Accept(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || bookingID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	tx, err := h.Bookings.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "accept failed"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	b, err := h.Bookings.GetByIDForUpdateTx(ctx, tx, bookingID)
	if err != nil {
		if err == repository.ErrBookingNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "accept failed"})
	}
	if b.ModelID != uid {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "only the offered model can accept"})
	}
	if b.Status != model.StatusOfferSent || b.ChatID != nil {
		return c.JSON(http.StatusConflict, echo.Map{"error": "offer is not pending"})
	}

	chatID, err := h.Chats.CreateTx(ctx, tx, b.ID, b.BrandID, b.ModelID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "accept failed"})
	}
	if err := h.Bookings.AcceptTx(ctx, tx, b.ID, chatID, uid); err != nil {
		if err == repository.ErrInvalidState {
			return c.JSON(http.StatusConflict, echo.Map{"error": "offer is not pending"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "accept failed"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "accept failed"})
	}
	committed = true

	publishTransition(b, model.StatusOfferSent, model.StatusOfferAccepted)

	updated, err := h.Bookings.GetByID(ctx, b.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load booking failed"})
	}
	return c.JSON(http.StatusOK, bookingJSON(updated, uid))
}

// Signed is the callback from the contract-signing collaborator. It is
// authenticated by a shared secret header rather than a user token,
// since the caller is a machine. Moves offer_accepted to fully_signed
// and emits the event the escrow watcher listens for.
func (h *BookingHandler) Signed(c echo.Context) error {
	secret := c.Request().Header.Get("X-Signing-Secret")
	if h.Cfg.SigningSecret == "" ||
		subtle.ConstantTimeCompare([]byte(secret), []byte(h.Cfg.SigningSecret)) != 1 {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || bookingID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	tx, err := h.Bookings.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	b, err := h.Bookings.GetByIDForUpdateTx(ctx, tx, bookingID)
	if err != nil {
		if err == repository.ErrBookingNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	if b.Status != model.StatusOfferAccepted {
		return c.JSON(http.StatusConflict, echo.Map{"error": "booking is not awaiting signatures"})
	}
	if err := h.Bookings.MarkFullySignedTx(ctx, tx, b.ID); err != nil {
		if err == repository.ErrInvalidState {
			return c.JSON(http.StatusConflict, echo.Map{"error": "booking is not awaiting signatures"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	committed = true

	publishTransition(b, model.StatusOfferAccepted, model.StatusFullySigned)
	return c.JSON(http.StatusOK, echo.Map{"status": model.StatusFullySigned})
}

// Get returns one booking, participants only.
func (h *BookingHandler) Get(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || bookingID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	b, err := h.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		if err == repository.ErrBookingNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load booking failed"})
	}
	if b.BrandID != uid && b.ModelID != uid {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not a participant"})
	}
	return c.JSON(http.StatusOK, bookingJSON(b, uid))
}

// List returns every booking the caller participates in, newest first.
func (h *BookingHandler) List(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Bookings.ListByUser(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list bookings failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": bookingsJSON(items, uid)})
}

// History returns the append-only transition log of one booking.
func (h *BookingHandler) History(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || bookingID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	b, err := h.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		if err == repository.ErrBookingNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load booking failed"})
	}
	if b.BrandID != uid && b.ModelID != uid {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not a participant"})
	}
	entries, err := h.Bookings.History(ctx, bookingID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load history failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"history": historyJSON(entries)})
}
