package router // job listing routes

import (
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/talent-booking/internal/handler"    // job handlers
	"github.com/iliyamo/talent-booking/internal/middleware" // JWT and role middleware
	"github.com/iliyamo/talent-booking/internal/model"      // role constants
)

// RegisterJob wires the job listing endpoints.  Browsing is open to any
// authenticated user so models can find work before committing to a
// role-gated action; creating and deleting listings is brand-only.
// The optional cache middleware (Redis response cache) is applied to the
// read endpoints only, since listings change far less often than they
// are browsed.
func RegisterJob(e *echo.Echo, j *handler.JobHandler, jwtSecret string, cache echo.MiddlewareFunc) {
	g := e.Group("/v1/jobs")
	g.Use(middleware.JWTAuth(jwtSecret))

	readMW := []echo.MiddlewareFunc{}
	if cache != nil {
		readMW = append(readMW, cache)
	}

	// Browse open listings (cached when a cache middleware is provided).
	g.GET("", j.List, readMW...)
	g.GET("/:id", j.Get, readMW...)
	// A brand's own listings; not cached, owners expect fresh data.
	g.GET("/mine", j.ListMine, middleware.RequireRole(model.RoleBrand))
	// Manage listings.
	g.POST("", j.Create, middleware.RequireRole(model.RoleBrand))
	g.DELETE("/:id", j.Delete, middleware.RequireRole(model.RoleBrand))
}
