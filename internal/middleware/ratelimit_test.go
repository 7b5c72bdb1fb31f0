package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/talent-booking/internal/config"
)

func newTestCtx(t *testing.T) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/bookings", nil)
	req.Header.Set("X-Real-Ip", "203.0.113.9")
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/v1/bookings")
	return c
}

func TestBuildRateKeyStrategies(t *testing.T) {
	c := newTestCtx(t)
	c.Set("user_id", uint64(42))

	cases := []struct {
		strategy string
		want     string
	}{
		{"ip", "rl:ip:203.0.113.9"},
		{"user", "rl:user:42"},
		{"route", "rl:route:GET /v1/bookings"},
		{"ip_user_route", "rl:ip:203.0.113.9:user:42:route:GET /v1/bookings"},
	}
	for _, tc := range cases {
		cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: tc.strategy}
		if got := buildRateKey(cfg, c); got != tc.want {
			t.Fatalf("strategy %q: got %q, want %q", tc.strategy, got, tc.want)
		}
	}
}

func TestCurrentUserIDTypes(t *testing.T) {
	cases := []struct {
		val  interface{}
		want string
	}{
		{uint64(7), "7"},
		{float64(7), "7"},
		{"7", "7"},
	}
	for _, tc := range cases {
		c := newTestCtx(t)
		c.Set("user_id", tc.val)
		if got := currentUserID(c); got != tc.want {
			t.Fatalf("user_id %T(%v): got %q, want %q", tc.val, tc.val, got, tc.want)
		}
	}

	// No identity at all falls back to the anonymous bucket.
	c := newTestCtx(t)
	if got := currentUserID(c); got != "anon" {
		t.Fatalf("anonymous request: got %q, want anon", got)
	}
}
