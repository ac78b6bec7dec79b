package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func serve(t *testing.T, token, header string) int {
	t.Helper()
	e := echo.New()
	auth := NewAuthMiddleware(token)
	e.GET("/", func(c echo.Context) error { return c.String(http.StatusOK, "ok") }, auth.RequireToken)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec.Code
}

func TestRequireToken(t *testing.T) {
	cases := []struct {
		token, header string
		status        int
	}{
		{"", "", http.StatusOK},
		{"secret", "", http.StatusUnauthorized},
		{"secret", "Basic secret", http.StatusUnauthorized},
		{"secret", "Bearer wrong", http.StatusUnauthorized},
		{"secret", "Bearer secret", http.StatusOK},
	}
	for _, c := range cases {
		if got := serve(t, c.token, c.header); got != c.status {
			t.Fatalf("token=%q header=%q: expected %d got %d", c.token, c.header, c.status, got)
		}
	}
}
