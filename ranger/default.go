package ranger

import (
	"context"
	"fmt"
	"net"
	"net/http"

	"github.com/go-redis/redis/v8"
	"github.com/tep-hq/playbook"
	"github.com/tep-hq/playbook/authform"
	"github.com/tep-hq/playbook/denylist"
	"github.com/tep-hq/playbook/guard"
	"github.com/tep-hq/playbook/http/middleware"
	"github.com/tep-hq/playbook/http/resp"
	"github.com/tep-hq/playbook/http/router"
	"github.com/tep-hq/playbook/http/session"
	"github.com/tep-hq/playbook/http/template"
	"github.com/tep-hq/playbook/logger"
	"github.com/tep-hq/playbook/postgres"
	"github.com/tep-hq/playbook/profile"
	"github.com/tep-hq/playbook/provider"
	"github.com/tep-hq/playbook/site"
	"gorm.io/gorm"
)

// contactErrMsg is shown alongside unexpected errors.
const contactErrMsg = "Something went wrong. Please try again or contact your administrator."

// defaultLogger constructs a colorized logger.Logger,
// reporting to Sentry when a DSN is configured.
func defaultLogger(cfg Config) logger.Logger {
	pl := logger.NewPlaybookLogger(logger.WithEnv(cfg.Env.String()), logger.WithLevel(cfg.LogLevel))
	if cfg.SentryDSN == "" {
		return pl
	}

	l := logger.NewSentryLogger(pl, cfg.SentryDSN)
	l.Debug("using SentryLogger", nil)

	return l
}

// defaultSessionStore stores web sessions in Redis when REDIS_URL is set and in cookies otherwise.
func defaultSessionStore(cfg Config) (session.SessionStorer, error) {
	scfg := session.Config{
		Env:         cfg.Env,
		SessionName: cfg.SessionName,
		AuthKey:     cfg.SessionAuthKey,
		EncryptKey:  cfg.SessionEncryptKey,
	}

	opts := []session.ServiceOpt{session.WithMaxAge(cfg.SessionMaxAge)}
	if cfg.RedisURL != "" {
		ropts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %s", playbook.ErrBadConfig, redisURLEnvVar, err)
		}

		pass := cfg.RedisPassword
		if pass == "" {
			pass = ropts.Password
		}

		opts = append(opts, session.WithRedis(ropts.Addr, pass))
	}

	return session.NewStoreService(scfg, opts...)
}

// defaultDenylist revokes tokens in Redis when REDIS_URL is set and in memory otherwise.
// The *redis.Client, if any, is closed on shutdown.
func defaultDenylist(cfg Config) (denylist.Store, *redis.Client, error) {
	if cfg.RedisURL == "" {
		return denylist.NewMemory(), nil, nil
	}

	d, client, err := denylist.NewRedisFromURL(cfg.RedisURL, cfg.RedisPassword)
	if err != nil {
		return nil, nil, err
	}

	return d, client, nil
}

// defaultProvider constructs the application's *provider.Handle
// and resolves its configuration right away.
// Missing configuration is fatal.
func defaultProvider(cfg Config, sources []provider.Source, d denylist.Store, l logger.Logger) (*provider.Handle, error) {
	if len(sources) == 0 {
		sources = []provider.Source{provider.EnvSource()}
		if len(cfg.ProviderEnvFiles) > 0 {
			fileSrc, err := provider.FileSource(cfg.ProviderEnvFiles...)
			if err != nil {
				return nil, err
			}

			sources = append(sources, fileSrc)
		}
	}

	res := provider.NewResolver(sources...)
	if cfg.ProviderTimeout > 0 {
		res.Timeout = cfg.ProviderTimeout
	}

	h := provider.NewHandle(res, provider.WithDenylist(d), provider.WithLogger(l))
	c, err := h.Client()
	if err != nil {
		return nil, err
	}

	l.Debug("using provider", &logger.LogContext{Data: map[string]any{"url": c.Config().URL}})

	return h, nil
}

// defaultProfiles connects to Postgres, if configured, and keeps profile rows there.
// Without a database, profile rows are skipped.
func defaultProfiles(cfg Config, l logger.Logger) (*gorm.DB, profile.Store, error) {
	if !cfg.Database.Configured() {
		l.Info("no database configured, skipping profile rows", nil)
		return nil, profile.NoopStore{}, nil
	}

	db, err := postgres.Connect(cfg.Database, profile.Migrations, cfg.Env)
	if err != nil {
		return nil, nil, err
	}

	return db, profile.NewGormStore(db), nil
}

// defaultResponder renders pages alongside the status and error templates.
func defaultResponder(cfg Config, rng *Ranger) *resp.Responder {
	p := template.NewParser(
		template.WithFS(rng.pages),
		template.WithFn(template.Env(cfg.Env)),
	)

	opts := []resp.ResponderOptFn{
		resp.WithLogger(rng.l),
		resp.WithParser(p),
		resp.WithErrTemplate(template.ErrTmpl),
		resp.WithContactErrMsg(contactErrMsg),
	}

	if cfg.BaseURL != nil {
		opts = append(opts, resp.WithRootUrl(cfg.BaseURL.String()))
	}

	return resp.NewResponder(opts...)
}

// defaultRouter routes the pages and the auth forms.
func defaultRouter(cfg Config, rng *Ranger) (*router.Router, error) {
	logReq := middleware.LogRequest(rng.l)
	r := router.New(cfg.Env, logReq)
	r.OnEveryRequest(
		middleware.ForceHTTPS(cfg.Env),
		middleware.ReportPanic(cfg.Env),
		middleware.RequestID(),
		middleware.InjectIPAddress(),
		logReq,
		middleware.InjectSession(rng.sessions, rng.l),
	)

	g := guard.New(rng.provider, rng.l, guard.WithSignInPage(cfg.SignInPage))

	s, err := site.New(
		rng.Responder,
		rng.pages,
		rng.l,
		site.WithLandingPage(cfg.LandingPage),
		site.WithProtected(cfg.ProtectedPages...),
	)
	if err != nil {
		return nil, err
	}

	if err := s.Register(r, g.Protect()); err != nil {
		return nil, err
	}

	formOpts := []authform.Opt{
		authform.WithLandingPage(cfg.LandingPage),
		authform.WithSignInPage(cfg.SignInPage),
		authform.WithCORS(cfg.CORSOrigins...),
	}

	if cfg.AuthRateLimit > 0 {
		visitors := middleware.NewVisitors(float64(cfg.AuthRateLimit), cfg.AuthRateLimit*5)
		formOpts = append(formOpts, authform.WithMiddlewares(middleware.RateLimit(visitors)))
	}

	authform.New(rng.provider, rng.profiles, rng.Responder, rng.l, formOpts...).Register(r, rng.pages)

	return r, nil
}

// defaultServer constructs the *http.Server Guide runs.
func defaultServer(ctx context.Context, cfg Config) *http.Server {
	return &http.Server{
		Addr:         cfg.Addr(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}
}
