package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/talent-booking/internal/model"
)

// Response shaping lives here so the storage structs never leak their
// Go field names into the JSON API. bookingJSON is also the read-side
// authorization point for payment data: the client secret is the
// credential used to confirm the charge, so the payment fields are
// only serialized for the paying brand, never for the model.

func bookingJSON(b model.Booking, viewerID uint64) echo.Map {
	out := echo.Map{
		"id":         b.ID,
		"brand_id":   b.BrandID,
		"model_id":   b.ModelID,
		"job_id":     b.JobID,
		"rate":       b.Rate,
		"status":     b.Status,
		"chat_id":    b.ChatID,
		"details":    b.Details,
		"created_at": b.CreatedAt,
		"updated_at": b.UpdatedAt,
	}
	if viewerID == b.BrandID {
		out["payment_status"] = b.PaymentStatus
		out["payment_client_secret"] = b.PaymentClientSecret
		out["payment_customer_id"] = b.PaymentCustomerID
	}
	return out
}

func bookingsJSON(items []model.Booking, viewerID uint64) []echo.Map {
	out := make([]echo.Map, 0, len(items))
	for _, b := range items {
		out = append(out, bookingJSON(b, viewerID))
	}
	return out
}

func historyJSON(entries []model.BookingHistoryEntry) []echo.Map {
	out := make([]echo.Map, 0, len(entries))
	for _, e := range entries {
		out = append(out, echo.Map{
			"id":         e.ID,
			"booking_id": e.BookingID,
			"status":     e.Status,
			"actor_id":   e.ActorID,
			"created_at": e.CreatedAt,
		})
	}
	return out
}

func chatJSON(ch model.Chat) echo.Map {
	return echo.Map{
		"id":                     ch.ID,
		"booking_id":             ch.BookingID,
		"brand_id":               ch.BrandID,
		"model_id":               ch.ModelID,
		"chat_enabled":           ch.ChatEnabled,
		"last_message":           ch.LastMessage,
		"last_message_time":      ch.LastMessageTime,
		"last_message_sender_id": ch.LastMessageSenderID,
		"unread_count":           ch.UnreadCount,
		"created_at":             ch.CreatedAt,
	}
}

func messagesJSON(msgs []model.ChatMessage) []echo.Map {
	out := make([]echo.Map, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, echo.Map{
			"id":         m.ID,
			"chat_id":    m.ChatID,
			"sender_id":  m.SenderID,
			"text":       m.Text,
			"type":       m.Type,
			"created_at": m.CreatedAt,
		})
	}
	return out
}

func jobJSON(j model.Job) echo.Map {
	return echo.Map{
		"id":          j.ID,
		"brand_id":    j.BrandID,
		"title":       j.Title,
		"description": j.Description,
		"rate":        j.Rate,
		"is_open":     j.IsOpen,
		"created_at":  j.CreatedAt,
		"updated_at":  j.UpdatedAt,
	}
}

func jobsJSON(items []model.Job) []echo.Map {
	out := make([]echo.Map, 0, len(items))
	for _, j := range items {
		out = append(out, jobJSON(j))
	}
	return out
}

func profileJSON(p model.Profile) echo.Map {
	return echo.Map{
		"user_id":            p.UserID,
		"email":              p.Email,
		"role":               p.Role,
		"profile_completed":  p.ProfileCompleted,
		"stripe_customer_id": p.StripeCustomerID,
		"created_at":         p.CreatedAt,
	}
}
