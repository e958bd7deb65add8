package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tep-hq/playbook/http/middleware"
)

func TestCORS(t *testing.T) {
	// Arrange
	h := middleware.CORS("https://playbook.example.com")(noopHandler())
	r := httptest.NewRequest(http.MethodOptions, "/auth/sign-in", nil)
	r.Header.Set("Origin", "https://playbook.example.com")
	r.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()

	// Act
	h.ServeHTTP(w, r)

	// Assert
	require.Equal(t, "https://playbook.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	require.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}
