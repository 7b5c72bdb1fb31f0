package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestGetUserID(t *testing.T) {
	e := echo.New()
	newCtx := func() echo.Context {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		return e.NewContext(req, httptest.NewRecorder())
	}

	cases := []struct {
		val  interface{}
		want uint64
	}{
		{uint64(42), 42},
		{int(42), 42},
		{int64(42), 42},
		{float64(42), 42}, // JWT claims decode numbers as float64
		{"42", 42},
	}
	for _, tc := range cases {
		c := newCtx()
		c.Set("user_id", tc.val)
		got, err := getUserID(c)
		if err != nil {
			t.Fatalf("user_id %T(%v): %v", tc.val, tc.val, err)
		}
		if got != tc.want {
			t.Fatalf("user_id %T(%v): got %d", tc.val, tc.val, got)
		}
	}

	for _, bad := range []interface{}{nil, "not-a-number", 3.5 + 0i} {
		c := newCtx()
		if bad != nil {
			c.Set("user_id", bad)
		}
		if _, err := getUserID(c); err == nil {
			t.Fatalf("user_id %T(%v): expected error", bad, bad)
		}
	}
}
