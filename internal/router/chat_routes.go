package router // chat routes

import (
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/talent-booking/internal/handler"    // chat handlers
	"github.com/iliyamo/talent-booking/internal/middleware" // JWT middleware
)

// RegisterChat wires the gated chat endpoints.  Chats only come into
// existence when an offer is accepted, so there is no create route here;
// no role middleware either, because both sides of a booking use the
// same endpoints and the repository checks participation per chat.
func RegisterChat(e *echo.Echo, ch *handler.ChatHandler, jwtSecret string) {
	g := e.Group("/v1/chats")
	g.Use(middleware.JWTAuth(jwtSecret))

	// Chat metadata: summary of the last message and the unread counter.
	g.GET("/:id", ch.Get)
	// Full message log in send order, starting with the system notice.
	g.GET("/:id/messages", ch.Messages)
	// Append a text or attachment message.
	g.POST("/:id/messages", ch.Send)
}
