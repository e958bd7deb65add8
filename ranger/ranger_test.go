package ranger_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tep-hq/playbook"
	"github.com/tep-hq/playbook/http/router"
	"github.com/tep-hq/playbook/logger"
	"github.com/tep-hq/playbook/postgres"
	"github.com/tep-hq/playbook/provider"
	"github.com/tep-hq/playbook/ranger"
)

func testConfig() ranger.Config {
	return ranger.Config{
		Env:            playbook.Testing,
		BaseURL:        &url.URL{Scheme: "http", Host: "localhost:3000", Path: "/"},
		Host:           ranger.DefaultHost,
		Port:           ranger.DefaultPort,
		SessionName:    "ranger-test",
		SessionAuthKey: "6f2c6b1a9e0d4c7f8a3b5e1d2c4f6a8b",
		Database:       &postgres.CxnConfig{},
		ProtectedPages: []string{"dashboard.html", "handbook.html"},
		SignInPage:     "/sign-in.html",
		LandingPage:    "/dashboard.html",
		AuthRateLimit:  ranger.DefaultAuthRateLimit,
	}
}

func providerSource() provider.Source {
	return provider.MapSource(map[string]string{
		"VITE_SUPABASE_URL":      "http://127.0.0.1:1",
		"VITE_SUPABASE_ANON_KEY": "anon",
	})
}

func TestNewConfig(t *testing.T) {
	// Arrange
	t.Setenv("ENVIRONMENT", "staging")
	t.Setenv("HOST", "")
	t.Setenv("PORT", "8080")
	t.Setenv("BASE_URL", "")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SERVER_READ_TIMEOUT", "1s")
	t.Setenv("SERVER_WRITE_TIMEOUT", "")
	t.Setenv("PROTECTED_PAGES", "dashboard.html, handbook/*.html")
	t.Setenv("AUTH_RATE_LIMIT", "3")
	t.Setenv("LANDING_PAGE", "")

	// Act
	cfg := ranger.NewConfig()

	// Assert
	require.Equal(t, playbook.Staging, cfg.Env)
	require.Equal(t, ":8080", cfg.Port)
	require.Equal(t, ":8080", cfg.Addr())
	require.Equal(t, "http://localhost:8080", cfg.BaseURL.String())
	require.Equal(t, logger.LogLevelDebug, cfg.LogLevel)
	require.Equal(t, time.Second, cfg.ReadTimeout)
	require.Equal(t, ranger.DefaultServerWriteTimeout, cfg.WriteTimeout)
	require.Equal(t, []string{"dashboard.html", "handbook/*.html"}, cfg.ProtectedPages)
	require.Equal(t, 3, cfg.AuthRateLimit)
	require.Equal(t, "/dashboard.html", cfg.LandingPage)
	require.Equal(t, ranger.DefaultSessionName, cfg.SessionName)
}

func TestNewBadConfig(t *testing.T) {
	tcs := []struct {
		name   string
		mutate func(*ranger.Config)
		source provider.Source
	}{
		{"no-provider", func(*ranger.Config) {}, provider.MapSource(nil)},
		{"bad-provider-url", func(*ranger.Config) {}, provider.MapSource(map[string]string{
			"SUPABASE_URL":      "localhost",
			"SUPABASE_ANON_KEY": "anon",
		})},
		{"bad-session-key", func(c *ranger.Config) { c.SessionAuthKey = "not-hex" }, providerSource()},
		{"no-session-name", func(c *ranger.Config) { c.SessionName = "" }, providerSource()},
		{"bad-redis-url", func(c *ranger.Config) { c.RedisURL = "tcp://nowhere" }, providerSource()},
		{"bad-pattern", func(c *ranger.Config) { c.ProtectedPages = []string{"[a-"} }, providerSource()},
		{"missing-site-dir", func(c *ranger.Config) { c.SiteDir = "/does/not/exist" }, providerSource()},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			cfg := testConfig()
			tc.mutate(&cfg)

			// Act
			rng, err := ranger.New(cfg, ranger.WithLogger(logger.NoopLogger{}), ranger.WithProviderSources(tc.source))

			// Assert
			require.Nil(t, rng)
			require.ErrorIs(t, err, playbook.ErrBadConfig)
		})
	}
}

func TestRangerRoutes(t *testing.T) {
	// Arrange
	extra := router.Route{
		Path:    "/healthz",
		Method:  http.MethodGet,
		Handler: func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) },
	}

	rng, err := ranger.New(
		testConfig(),
		ranger.WithLogger(logger.NoopLogger{}),
		ranger.WithProviderSources(providerSource()),
		ranger.WithRoutes(extra),
	)
	require.Nil(t, err)
	require.NotNil(t, rng.EmitProvider())
	require.NotNil(t, rng.EmitSessionStore())
	require.Nil(t, rng.EmitDB())

	tcs := []struct {
		name     string
		method   string
		target   string
		body     string
		code     int
		location string
	}{
		{"root", http.MethodGet, "/", "", http.StatusFound, "/dashboard.html"},
		{"protected", http.MethodGet, "/handbook.html?tab=2", "", http.StatusFound, "/sign-in.html?returnTo=%2Fhandbook.html%3Ftab%3D2"},
		{"public", http.MethodGet, "/sign-in.html", "", http.StatusOK, ""},
		{"assets", http.MethodGet, "/assets/site.css", "", http.StatusOK, ""},
		{"missing", http.MethodGet, "/missing.html", "", http.StatusNotFound, ""},
		{"empty-sign-in", http.MethodPost, "/auth/sign-in", "signin-email=&signin-password=", http.StatusSeeOther, "/sign-in.html"},
		{"extra", http.MethodGet, "/healthz", "", http.StatusNoContent, ""},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			req := httptest.NewRequest(tc.method, tc.target, strings.NewReader(tc.body))
			if tc.body != "" {
				req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			}

			w := httptest.NewRecorder()

			// Act
			rng.Handler().ServeHTTP(w, req)

			// Assert
			require.Equal(t, tc.code, w.Code)
			if tc.location != "" {
				require.Equal(t, tc.location, w.Header().Get("Location"))
			}
		})
	}
}

func TestShutdownWithoutGuide(t *testing.T) {
	// Arrange
	rng, err := ranger.New(testConfig(), ranger.WithLogger(logger.NoopLogger{}), ranger.WithProviderSources(providerSource()))
	require.Nil(t, err)

	// Act + Assert
	require.Nil(t, rng.Shutdown())
}
