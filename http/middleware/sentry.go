package middleware

import (
	"net/http"

	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/tep-hq/playbook"
)

// ReportPanic recovers panics and reports them to Sentry.
// In development, panics are left alone.
func ReportPanic(env playbook.Environment) Adapter {
	if env.IsDevelopment() {
		return NoopAdapter
	}

	sh := sentryhttp.New(sentryhttp.Options{
		Repanic:         false,
		WaitForDelivery: true,
	})

	return func(h http.Handler) http.Handler { return sh.Handle(h) }
}
