package provider

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tep-hq/playbook"
)

func TestResolverResolve(t *testing.T) {
	tcs := []struct {
		name    string
		env     map[string]string
		url     string
		anonKey string
	}{
		{
			"next-wins",
			map[string]string{
				"NEXT_PUBLIC_SUPABASE_URL":      "https://next.supabase.co",
				"NEXT_PUBLIC_SUPABASE_ANON_KEY": "next-key",
				"VITE_SUPABASE_URL":             "https://vite.supabase.co",
				"VITE_SUPABASE_ANON_KEY":        "vite-key",
				"SUPABASE_URL":                  "https://plain.supabase.co",
				"SUPABASE_ANON_KEY":             "plain-key",
			},
			"https://next.supabase.co",
			"next-key",
		},
		{
			"vite-over-plain",
			map[string]string{
				"VITE_SUPABASE_URL":      "https://vite.supabase.co",
				"VITE_SUPABASE_ANON_KEY": "vite-key",
				"SUPABASE_URL":           "https://plain.supabase.co",
				"SUPABASE_ANON_KEY":      "plain-key",
			},
			"https://vite.supabase.co",
			"vite-key",
		},
		{
			"plain",
			map[string]string{
				"SUPABASE_URL":      "https://plain.supabase.co",
				"SUPABASE_ANON_KEY": "plain-key",
			},
			"https://plain.supabase.co",
			"plain-key",
		},
		{
			"per-value",
			map[string]string{
				"NEXT_PUBLIC_SUPABASE_URL": "https://next.supabase.co",
				"SUPABASE_ANON_KEY":        "plain-key",
			},
			"https://next.supabase.co",
			"plain-key",
		},
		{
			"blank-skipped",
			map[string]string{
				"NEXT_PUBLIC_SUPABASE_URL": "  ",
				"SUPABASE_URL":             "https://plain.supabase.co",
				"SUPABASE_ANON_KEY":        "plain-key",
			},
			"https://plain.supabase.co",
			"plain-key",
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			r := NewResolver(MapSource(tc.env))

			// Act
			cfg, err := r.Resolve()

			// Assert
			require.Nil(t, err)
			require.Equal(t, tc.url, cfg.URL)
			require.Equal(t, tc.anonKey, cfg.AnonKey)
			require.Equal(t, DefaultAppName, cfg.AppName)
			require.Equal(t, DefaultTimeout, cfg.Timeout)
		})
	}
}

func TestResolverResolveMissing(t *testing.T) {
	tcs := []struct {
		name string
		env  map[string]string
	}{
		{"nothing", map[string]string{}},
		{"no-key", map[string]string{"SUPABASE_URL": "https://plain.supabase.co"}},
		{"no-url", map[string]string{"VITE_SUPABASE_ANON_KEY": "vite-key"}},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			// Act
			_, err := NewResolver(MapSource(tc.env)).Resolve()

			// Assert
			require.True(t, errors.Is(err, playbook.ErrBadConfig))
			for _, name := range []string{
				"NEXT_PUBLIC_SUPABASE_URL",
				"VITE_SUPABASE_URL",
				"SUPABASE_URL",
				"NEXT_PUBLIC_SUPABASE_ANON_KEY",
				"VITE_SUPABASE_ANON_KEY",
				"SUPABASE_ANON_KEY",
			} {
				require.Contains(t, err.Error(), name)
			}
		})
	}
}

func TestResolverResolveMalformedURL(t *testing.T) {
	for _, u := range []string{"supabase.co", "ftp://x.supabase.co", "https://"} {
		_, err := NewResolver(MapSource(map[string]string{
			"SUPABASE_URL":      u,
			"SUPABASE_ANON_KEY": "key",
		})).Resolve()
		require.True(t, errors.Is(err, playbook.ErrBadConfig), u)
	}
}

func TestResolverSourceOrder(t *testing.T) {
	// Arrange
	first := MapSource(map[string]string{"SUPABASE_URL": "https://first.supabase.co"})
	second := MapSource(map[string]string{
		"VITE_SUPABASE_URL": "https://second.supabase.co",
		"SUPABASE_ANON_KEY": "key",
	})

	// Act
	cfg, err := NewResolver(first, nil, second).Resolve()

	// Assert
	require.Nil(t, err)
	require.Equal(t, "https://second.supabase.co", cfg.URL, "a higher priority name in any source wins")
}

func TestResolverJWTSecret(t *testing.T) {
	cfg, err := NewResolver(MapSource(map[string]string{
		"SUPABASE_URL":        "https://plain.supabase.co",
		"SUPABASE_ANON_KEY":   "key",
		"SUPABASE_JWT_SECRET": "shh",
	})).Resolve()
	require.Nil(t, err)
	require.Equal(t, "shh", cfg.JWTSecret)
}

func TestFileSource(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	fp := filepath.Join(dir, ".env.local")
	err := os.WriteFile(fp, []byte("VITE_SUPABASE_URL=https://file.supabase.co\nVITE_SUPABASE_ANON_KEY=file-key\n"), 0o600)
	require.Nil(t, err)

	// Act
	src, err := FileSource(fp)

	// Assert
	require.Nil(t, err)
	cfg, err := NewResolver(MapSource(nil), src).Resolve()
	require.Nil(t, err)
	require.Equal(t, "https://file.supabase.co", cfg.URL)
	require.Equal(t, "file-key", cfg.AnonKey)

	_, err = FileSource(filepath.Join(dir, "missing"))
	require.True(t, errors.Is(err, playbook.ErrBadConfig))
}

func TestConfigAuthURL(t *testing.T) {
	require.Equal(t, "https://x.supabase.co/auth/v1", Config{URL: "https://x.supabase.co/"}.AuthURL())
	require.Equal(t, "http://localhost:9999/auth/v1", Config{URL: "http://localhost:9999"}.AuthURL())
}
