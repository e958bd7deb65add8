package middleware

import (
	"net/http"

	"github.com/gorilla/handlers"
)

// CORS sets "Access-Control-Allow" style headers on a response,
// letting pages served from origins call the auth endpoints with fetch.
// The route including this middleware must also handle the http.MethodOptions method
// and not just the HTTP method it's designed for.
//
// Without origins, NoopAdapter returns and this middleware does nothing.
func CORS(origins ...string) Adapter {
	if len(origins) == 0 {
		return NoopAdapter
	}

	return handlers.CORS(
		handlers.AllowedHeaders([]string{
			"Accept",
			"Content-Type",
		}),
		handlers.AllowedOrigins(origins),
		handlers.AllowedMethods([]string{
			http.MethodOptions,
			http.MethodPost,
		}),
		handlers.AllowCredentials(),
	)
}
