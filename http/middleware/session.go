package middleware

import (
	"context"
	"net/http"

	"github.com/tep-hq/playbook"
	"github.com/tep-hq/playbook/http/session"
	"github.com/tep-hq/playbook/logger"
)

// InjectSession stores the session associated with the *http.Request in *http.Request.Context
// under playbook.SessionKey.
//
// A cookie that no longer decodes is replaced by a new session.
//
// If store is nil, NoopAdapter returns and this middleware does nothing.
func InjectSession(store session.SessionStorer, l logger.Logger) Adapter {
	if store == nil {
		return NoopAdapter
	}

	if l == nil {
		l = logger.NoopLogger{}
	}

	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, err := store.GetSession(r)
			if err != nil {
				l.Debug("replacing undecodable session", &logger.LogContext{Error: err, Request: r})
			}

			ctx := context.WithValue(r.Context(), playbook.SessionKey, s)
			h.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
