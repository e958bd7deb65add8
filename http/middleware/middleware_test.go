package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tep-hq/playbook/http/middleware"
	"github.com/tep-hq/playbook/logger"
)

func noopHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
}

// capture records what is logged.
type capture struct {
	logger.NoopLogger
	mu   sync.Mutex
	msgs []string
	ctxs []*logger.LogContext
}

func (c *capture) Info(msg string, ctx *logger.LogContext) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.msgs = append(c.msgs, msg)
	c.ctxs = append(c.ctxs, ctx)
}

func TestChain(t *testing.T) {
	// Arrange
	var order []string
	mark := func(name string) middleware.Adapter {
		return func(h http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				h.ServeHTTP(w, r)
			})
		}
	}

	h := middleware.Chain(noopHandler(), mark("first"), middleware.NoopAdapter, mark("second"))

	// Act
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	// Assert
	require.Equal(t, []string{"first", "second"}, order)
}

func TestAcceptsJSON(t *testing.T) {
	tcs := []struct {
		accept   []string
		expected bool
	}{
		{nil, false},
		{[]string{"application/json"}, true},
		{[]string{"application/json; charset=utf-8"}, true},
		{[]string{"text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"}, false},
		{[]string{"*/*"}, false},
		{[]string{"text/plain", "application/json"}, true},
		{[]string{"text/html, application/json"}, false},
	}

	for _, tc := range tcs {
		t.Run(strings.Join(tc.accept, "|"), func(t *testing.T) {
			h := http.Header{}
			for _, v := range tc.accept {
				h.Add("Accept", v)
			}

			require.Equal(t, tc.expected, middleware.AcceptsJSON(h))
		})
	}
}
