package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tep-hq/playbook"
	"github.com/tep-hq/playbook/http/middleware"
	"github.com/tep-hq/playbook/http/session"
)

func TestInjectSession(t *testing.T) {
	// Arrange
	svc, err := session.NewStoreService(session.Config{
		Env:         playbook.Testing,
		SessionName: "pb",
		AuthKey:     "6f2c6b1a9e0d4c7f8a3b5e1d2c4f6a8b",
	})
	require.Nil(t, err)

	var ok bool
	h := middleware.InjectSession(svc, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok = r.Context().Value(playbook.SessionKey).(session.Session)
	}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: "pb", Value: "tampered"})

	// Act
	h.ServeHTTP(httptest.NewRecorder(), r)

	// Assert
	require.True(t, ok)
}

func TestInjectSessionNil(t *testing.T) {
	var called bool
	h := middleware.InjectSession(nil, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		require.Nil(t, r.Context().Value(playbook.SessionKey))
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.True(t, called)
}
