package ranger

import (
	"net/url"
	"strings"
	"time"

	"github.com/tep-hq/playbook"
	"github.com/tep-hq/playbook/guard"
	"github.com/tep-hq/playbook/logger"
	"github.com/tep-hq/playbook/postgres"
	"github.com/tep-hq/playbook/provider"
	"github.com/tep-hq/playbook/site"
)

const (
	// Base URL defaults
	BaseURLEnvVar = "BASE_URL"

	// Environment defaults
	environmentEnvVar = "ENVIRONMENT"
	defaultEnv        = playbook.Development

	// Log defaults
	logLevelEnvVar  = "LOG_LEVEL"
	defaultLogLvl   = "INFO"
	sentryDsnEnvVar = "SENTRY_DSN"

	// Web server defaults
	DefaultHost               = "localhost"
	hostEnvVar                = "HOST"
	DefaultPort               = ":3000"
	portEnvVar                = "PORT"
	serverReadTimeoutEnvVar   = "SERVER_READ_TIMEOUT"
	DefaultServerReadTimeout  = 5 * time.Second
	serverIdleTimeoutEnvVar   = "SERVER_IDLE_TIMEOUT"
	DefaultServerIdleTimeout  = 120 * time.Second
	serverWriteTimeoutEnvVar  = "SERVER_WRITE_TIMEOUT"
	DefaultServerWriteTimeout = 5 * time.Second

	// Session defaults
	sessionNameEnvVar       = "SESSION_NAME"
	DefaultSessionName      = "playbook"
	SessionAuthKeyEnvVar    = "SESSION_AUTH_KEY"
	SessionEncryptKeyEnvVar = "SESSION_ENCRYPTION_KEY"
	sessionMaxAgeEnvVar     = "SESSION_MAX_AGE"

	// Redis defaults
	redisURLEnvVar  = "REDIS_URL"
	redisPassEnvVar = "REDIS_PASSWORD"

	// Site defaults
	siteDirEnvVar        = "SITE_DIR"
	protectedPagesEnvVar = "PROTECTED_PAGES"
	signInPageEnvVar     = "SIGN_IN_PAGE"
	landingPageEnvVar    = "LANDING_PAGE"
	corsOriginsEnvVar    = "CORS_ORIGINS"

	// Provider defaults
	providerTimeoutEnvVar  = "PROVIDER_TIMEOUT"
	providerEnvFilesEnvVar = "PROVIDER_ENV_FILES"

	// Rate limiting defaults
	authRateLimitEnvVar  = "AUTH_RATE_LIMIT"
	DefaultAuthRateLimit = 5
)

// A Config holds everything New reads from the environment.
type Config struct {
	Env     playbook.Environment
	BaseURL *url.URL

	Host string
	Port string

	LogLevel  logger.LogLevel
	SentryDSN string

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	SessionName       string
	SessionAuthKey    string
	SessionEncryptKey string
	SessionMaxAge     int

	RedisURL      string
	RedisPassword string

	Database *postgres.CxnConfig

	SiteDir        string
	ProtectedPages []string
	SignInPage     string
	LandingPage    string
	CORSOrigins    []string

	ProviderTimeout  time.Duration
	ProviderEnvFiles []string

	// AuthRateLimit is the number of form submissions per second allowed from one IP address.
	// Bursts of five times as many are tolerated.
	AuthRateLimit int
}

// NewConfig reads a Config from the environment.
// Confer the package documentation for the variables and their defaults.
func NewConfig() Config {
	env := playbook.EnvVarOrEnv(environmentEnvVar, defaultEnv)
	host := playbook.EnvVarOrString(hostEnvVar, DefaultHost)
	port := ":" + strings.TrimPrefix(playbook.EnvVarOrString(portEnvVar, DefaultPort), ":")

	return Config{
		Env:     env,
		BaseURL: playbook.EnvVarOrURL(BaseURLEnvVar, "http://"+host+port),

		Host: host,
		Port: port,

		LogLevel:  logger.NewLogLevel(strings.ToUpper(playbook.EnvVarOrString(logLevelEnvVar, defaultLogLvl))),
		SentryDSN: playbook.EnvVarOrString(sentryDsnEnvVar, ""),

		ReadTimeout:  playbook.EnvVarOrDuration(serverReadTimeoutEnvVar, DefaultServerReadTimeout),
		WriteTimeout: playbook.EnvVarOrDuration(serverWriteTimeoutEnvVar, DefaultServerWriteTimeout),
		IdleTimeout:  playbook.EnvVarOrDuration(serverIdleTimeoutEnvVar, DefaultServerIdleTimeout),

		SessionName:       playbook.EnvVarOrString(sessionNameEnvVar, DefaultSessionName),
		SessionAuthKey:    playbook.EnvVarOrString(SessionAuthKeyEnvVar, ""),
		SessionEncryptKey: playbook.EnvVarOrString(SessionEncryptKeyEnvVar, ""),
		SessionMaxAge:     playbook.EnvVarOrInt(sessionMaxAgeEnvVar, 0),

		RedisURL:      playbook.EnvVarOrString(redisURLEnvVar, ""),
		RedisPassword: playbook.EnvVarOrString(redisPassEnvVar, ""),

		Database: postgres.NewCxnConfig(env),

		SiteDir:        playbook.EnvVarOrString(siteDirEnvVar, ""),
		ProtectedPages: playbook.EnvVarOrStrings(protectedPagesEnvVar, site.DefaultProtected),
		SignInPage:     playbook.EnvVarOrString(signInPageEnvVar, guard.DefaultSignInPage),
		LandingPage:    playbook.EnvVarOrString(landingPageEnvVar, site.DefaultLandingPage),
		CORSOrigins:    playbook.EnvVarOrStrings(corsOriginsEnvVar, nil),

		ProviderTimeout:  playbook.EnvVarOrDuration(providerTimeoutEnvVar, provider.DefaultTimeout),
		ProviderEnvFiles: playbook.EnvVarOrStrings(providerEnvFilesEnvVar, nil),

		AuthRateLimit: playbook.EnvVarOrInt(authRateLimitEnvVar, DefaultAuthRateLimit),
	}
}

// Addr is the address the web server listens on.
func (c Config) Addr() string {
	if c.Host == DefaultHost {
		return c.Port
	}

	return c.Host + c.Port
}
