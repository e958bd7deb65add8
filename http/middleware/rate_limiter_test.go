package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tep-hq/playbook"
	"github.com/tep-hq/playbook/http/middleware"
)

func TestVisitorFetch(t *testing.T) {
	t.Run("Serial", func(t *testing.T) {
		// Arrange
		vs := middleware.NewVisitors(0, 0)

		// Act
		v1 := vs.Fetch("127.0.0.1")
		time.Sleep(1 * time.Millisecond)
		v2 := vs.Fetch("127.0.0.1")

		// Assert
		require.Same(t, v1.Limiter, v2.Limiter)
		require.True(t, v1.LastSeen.Before(v2.LastSeen))
		require.Equal(t, 1, vs.Len())
	})

	t.Run("Concurrent", func(t *testing.T) {
		// Arrange
		var wg sync.WaitGroup
		vs := middleware.NewVisitors(0, 0)
		for i := 0; i < 100; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()

				// Act
				vs.Fetch("127.0.0.1")
			}()
		}

		wg.Wait()

		// Assert
		require.Equal(t, 1, vs.Len())
	})
}

func TestRateLimit(t *testing.T) {
	// Arrange
	h := middleware.RateLimit(middleware.NewVisitors(0.001, 2))(noopHandler())
	send := func(ip string) int {
		r := httptest.NewRequest(http.MethodPost, "/auth/sign-in", nil)
		r = r.WithContext(context.WithValue(r.Context(), playbook.IpAddrKey, ip))
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		return w.Code
	}

	// Act + Assert
	require.Equal(t, http.StatusOK, send("203.0.113.7"))
	require.Equal(t, http.StatusOK, send("203.0.113.7"))
	require.Equal(t, http.StatusTooManyRequests, send("203.0.113.7"))
	require.Equal(t, http.StatusOK, send("203.0.113.8"), "visitors are limited separately")
}

func TestRateLimitNil(t *testing.T) {
	w := httptest.NewRecorder()
	middleware.RateLimit(nil)(noopHandler()).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, w.Code)
}
