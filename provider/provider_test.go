package provider

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

)

const (
	testUserID   = "4a7bd4e3-5c2b-4bd0-9b62-4f8a1d0c3e11"
	testEmail    = "new.hire@example.com"
	testPassword = "correct horse"
	testAnonKey  = "anon-key"
)

// fakeGoTrue answers the subset of the GoTrue API the Client uses.
type fakeGoTrue struct {
	*httptest.Server

	mu       sync.Mutex
	calls    []string
	appNames []string

	confirmEmail bool
	down         bool
	revoked      map[string]bool
}

func newFakeGoTrue(t *testing.T) *fakeGoTrue {
	f := &fakeGoTrue{revoked: make(map[string]bool)}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.Close)
	return f
}

func (f *fakeGoTrue) config() Config {
	return Config{URL: f.URL, AnonKey: testAnonKey}
}

func (f *fakeGoTrue) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeGoTrue) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	call := strings.TrimPrefix(r.URL.Path, "/auth/v1")
	if gt := r.URL.Query().Get("grant_type"); gt != "" {
		call += "?" + gt
	}
	f.calls = append(f.calls, call)
	f.appNames = append(f.appNames, r.Header.Get("X-Application-Name"))
	down := f.down
	f.mu.Unlock()

	if down {
		http.Error(w, `{"message":"upstream timeout"}`, http.StatusBadGateway)
		return
	}

	var body map[string]string
	if r.Method == http.MethodPost && r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&body)
	}

	switch call {
	case "/token?password":
		if body["email"] != testEmail || body["password"] != testPassword {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"error":             "invalid_grant",
				"error_description": "Invalid login credentials",
			})
			return
		}
		writeJSON(w, http.StatusOK, testSession("access-1", "refresh-1"))

	case "/token?refresh_token":
		if body["refresh_token"] != "refresh-1" {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"error":             "invalid_grant",
				"error_description": "Invalid Refresh Token",
			})
			return
		}
		writeJSON(w, http.StatusOK, testSession("access-2", "refresh-2"))

	case "/signup":
		if body["email"] == "taken@example.com" {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"msg": "User already registered"})
			return
		}
		if f.confirmEmail {
			writeJSON(w, http.StatusOK, testUser())
			return
		}
		writeJSON(w, http.StatusOK, testSession("access-1", "refresh-1"))

	case "/user":
		tok := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !strings.HasPrefix(tok, "access-") || f.isRevoked(tok) {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"msg": "invalid JWT"})
			return
		}
		writeJSON(w, http.StatusOK, testUser())

	case "/logout":
		tok := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		f.mu.Lock()
		f.revoked[tok] = true
		f.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)

	default:
		http.NotFound(w, r)
	}
}

func (f *fakeGoTrue) isRevoked(tok string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.revoked[tok]
}

func testUser() map[string]any {
	return map[string]any{"id": testUserID, "email": testEmail, "aud": "authenticated"}
}

func testSession(access, refresh string) map[string]any {
	return map[string]any{
		"access_token":  access,
		"refresh_token": refresh,
		"token_type":    "bearer",
		"expires_in":    3600,
		"expires_at":    time.Now().Add(time.Hour).Unix(),
		"user":          testUser(),
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// failTransport fails the test if any request is attempted.
type failTransport struct{ t *testing.T }

func (ft failTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	ft.t.Errorf("unexpected request to %s", r.URL)
	return nil, fmt.Errorf("unexpected request")
}
