package provider

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/tep-hq/playbook"
)

const (
	JWTSecretEnvVar = "SUPABASE_JWT_SECRET"

	DefaultAppName = "the-employee-playbook"
	DefaultTimeout = 10 * time.Second
)

// A Convention is one naming scheme for the provider's environment variables.
type Convention struct {
	Prefix string
}

// URLKey is the name of the variable holding the project URL under the Convention.
func (c Convention) URLKey() string { return c.Prefix + "SUPABASE_URL" }

// AnonKeyKey is the name of the variable holding the public key under the Convention.
func (c Convention) AnonKeyKey() string { return c.Prefix + "SUPABASE_ANON_KEY" }

// DefaultConventions lists the naming schemes in priority order:
// Next.js, then Vite, then plain.
var DefaultConventions = []Convention{
	{Prefix: "NEXT_PUBLIC_"},
	{Prefix: "VITE_"},
	{Prefix: ""},
}

// A Source looks up a configuration value by name.
type Source func(key string) (string, bool)

// EnvSource looks up values in the process environment.
func EnvSource() Source { return os.LookupEnv }

// MapSource looks up values in m.
func MapSource(m map[string]string) Source {
	return func(key string) (string, bool) {
		val, ok := m[key]
		return val, ok
	}
}

// FileSource reads the dotenv files at paths once and looks up values in them.
func FileSource(paths ...string) (Source, error) {
	m, err := godotenv.Read(paths...)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %v: %s", playbook.ErrBadConfig, paths, err)
	}

	return MapSource(m), nil
}

// A Config holds everything needed to construct a *Client.
type Config struct {
	URL       string
	AnonKey   string
	JWTSecret string
	AppName   string
	Timeout   time.Duration
}

// Valid asserts the Config can construct a *Client.
func (c Config) Valid() error {
	if c.URL == "" || c.AnonKey == "" {
		return fmt.Errorf("%w: provider URL and anon key are required", playbook.ErrBadConfig)
	}

	u, err := url.ParseRequestURI(c.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: provider URL %q is not an absolute http(s) URL", playbook.ErrBadConfig, c.URL)
	}

	return nil
}

// AuthURL is the base URL of the provider's auth API.
func (c Config) AuthURL() string { return strings.TrimRight(c.URL, "/") + "/auth/v1" }

// A Resolver resolves a Config from its Sources.
type Resolver struct {
	Conventions []Convention
	Sources     []Source

	// AppName is sent as the x-application-name header.
	AppName string

	// Timeout bounds every round trip to the provider.
	Timeout time.Duration
}

// NewResolver constructs a Resolver using DefaultConventions over the sources.
// Without sources, the process environment is used.
func NewResolver(sources ...Source) Resolver {
	if len(sources) == 0 {
		sources = []Source{EnvSource()}
	}

	return Resolver{
		Conventions: DefaultConventions,
		Sources:     sources,
		AppName:     DefaultAppName,
		Timeout:     DefaultTimeout,
	}
}

// Lookup returns the first non-empty value for keys,
// checking every Source for a key before moving to the next key.
func (r Resolver) Lookup(keys ...string) string {
	for _, key := range keys {
		for _, src := range r.Sources {
			if src == nil {
				continue
			}

			if val, ok := src(key); ok && strings.TrimSpace(val) != "" {
				return strings.TrimSpace(val)
			}
		}
	}

	return ""
}

// Resolve builds a Config.
// If either the URL or the anon key cannot be found under any Convention,
// Resolve returns an error wrapping playbook.ErrBadConfig listing the names tried.
func (r Resolver) Resolve() (Config, error) {
	urlKeys := make([]string, len(r.Conventions))
	anonKeys := make([]string, len(r.Conventions))
	for i, c := range r.Conventions {
		urlKeys[i] = c.URLKey()
		anonKeys[i] = c.AnonKeyKey()
	}

	cfg := Config{
		URL:       r.Lookup(urlKeys...),
		AnonKey:   r.Lookup(anonKeys...),
		JWTSecret: r.Lookup(JWTSecretEnvVar),
		AppName:   r.AppName,
		Timeout:   r.Timeout,
	}

	if cfg.URL == "" || cfg.AnonKey == "" {
		return Config{}, fmt.Errorf(
			"%w: provider config missing, set one of %s and one of %s",
			playbook.ErrBadConfig,
			strings.Join(urlKeys, ", "),
			strings.Join(anonKeys, ", "),
		)
	}

	if err := cfg.Valid(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
