package middleware

import (
	"net/http"
	"strings"

	"github.com/tep-hq/playbook"
	"github.com/tep-hq/playbook/logger"
)

// LogRequest logs the request's method, requested URL, and originating IP address
// using the enclosed implementation of logger.Logger.
//
// LogRequest masks the values of query params ending in "password".
//
// if logger.Logger is nil, NoopAdapter returns and this middleware does nothing.
func LogRequest(ls logger.Logger) Adapter {
	if ls == nil {
		return NoopAdapter
	}

	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			uri := r.URL.Path
			q := r.URL.Query()
			playbook.MaskPasswords(q)
			if query := q.Encode(); query != "" {
				uri += "?" + query
			}

			strs := []string{r.Method, uri}
			if ip, ok := r.Context().Value(playbook.IpAddrKey).(string); ok {
				strs = append([]string{ip}, strs...)
			}

			var lc *logger.LogContext
			if id, ok := r.Context().Value(playbook.RequestIDKey).(string); ok {
				lc = &logger.LogContext{Data: map[string]any{"requestID": id}}
			}

			ls.Info(strings.Join(strs, " "), lc)
			h.ServeHTTP(w, r)
		})
	}
}
