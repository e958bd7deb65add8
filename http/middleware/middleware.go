package middleware

import (
	"mime"
	"net/http"
	"strings"
)

// An Adapter allows chaining middlewares together.
type Adapter func(http.Handler) http.Handler

// Chain glues the set of adapters to the handler.
func Chain(handler http.Handler, adapters ...Adapter) http.Handler {
	// NOTE: loop in reverse to preserve middleware order
	for i := len(adapters) - 1; i >= 0; i-- {
		handler = adapters[i](handler)
	}

	return handler
}

// NoopAdapter passes the request on untouched.
func NoopAdapter(h http.Handler) http.Handler { return h }

// AcceptsJSON asserts whether the request prefers a JSON response to an HTML one.
func AcceptsJSON(header http.Header) bool {
	for _, v := range header.Values("Accept") {
		for _, part := range strings.Split(v, ",") {
			mt, _, err := mime.ParseMediaType(strings.TrimSpace(part))
			if err != nil {
				continue
			}

			switch mt {
			case "application/json":
				return true
			case "text/html":
				return false
			}
		}
	}

	return false
}
