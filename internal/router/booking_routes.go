package router // booking, signing and payment routes

import (
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/talent-booking/internal/handler"    // booking and payment handlers
	"github.com/iliyamo/talent-booking/internal/middleware" // JWT and role middleware
	"github.com/iliyamo/talent-booking/internal/model"      // role constants
)

// RegisterBooking wires the offer lifecycle endpoints.  Sending an offer
// and setting up escrow are brand actions; accepting is a model action;
// reading is open to both participants (the handlers verify membership).
// The signing webhook is registered OUTSIDE the JWT group because its
// caller is the contract-signing collaborator, authenticated by the
// X-Signing-Secret header instead of a user token.
func RegisterBooking(e *echo.Echo, b *handler.BookingHandler, pay *handler.PaymentHandler, jwtSecret string) {
	// Machine-to-machine callback: moves offer_accepted to fully_signed.
	e.POST("/v1/bookings/:id/signed", b.Signed)

	g := e.Group("/v1/bookings")
	// All booking endpoints below require a valid access token.
	g.Use(middleware.JWTAuth(jwtSecret))

	// Brands send offers and pay for them.
	g.POST("", b.Create, middleware.RequireRole(model.RoleBrand))
	g.POST("/:id/payment-intent", pay.CreateIntent, middleware.RequireRole(model.RoleBrand))
	// Models accept offers; accepting provisions the booking's chat.
	g.POST("/:id/accept", b.Accept, middleware.RequireRole(model.RoleModel))
	// Both participants can read their bookings and the transition log.
	g.GET("", b.List)
	g.GET("/:id", b.Get)
	g.GET("/:id/history", b.History)
}
