package ranger

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/tep-hq/playbook"
	"github.com/tep-hq/playbook/denylist"
	"github.com/tep-hq/playbook/http/resp"
	"github.com/tep-hq/playbook/http/router"
	"github.com/tep-hq/playbook/http/session"
	"github.com/tep-hq/playbook/logger"
	"github.com/tep-hq/playbook/profile"
	"github.com/tep-hq/playbook/provider"
	"github.com/tep-hq/playbook/site"
	"gorm.io/gorm"
)

// A Ranger manages and exposes all components of a playbook app to one another.
type Ranger struct {
	*resp.Responder

	cfg             Config
	closers         []func() error
	ctx             context.Context
	db              *gorm.DB
	deny            denylist.Store
	l               logger.Logger
	pages           fs.FS
	profiles        profile.Store
	provider        provider.Provider
	providerSources []provider.Source
	router          *router.Router
	sessions        session.SessionStorer
	srv             *http.Server
}

// New constructs a Ranger from cfg and the provided options.
// Options are applied first; New builds every component they leave unset from cfg.
//
// Configuration New cannot use, including a provider without a URL or anon key,
// returns an error wrapping playbook.ErrBadConfig.
func New(cfg Config, opts ...RangerOption) (*Ranger, error) {
	rng := &Ranger{cfg: cfg, ctx: context.Background()}
	followups := make([]OptFollowup, 0)

	// NOTE: some options need components built from defaults.
	// They return an OptFollowup called once every component exists.
	for _, opt := range opts {
		fn, err := opt(rng)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", playbook.ErrBadConfig, err)
		}

		if fn != nil {
			followups = append(followups, fn)
		}
	}

	if err := rng.setup(); err != nil {
		rng.close()
		return nil, wrapBadConfig(err)
	}

	for _, fn := range followups {
		if err := fn(); err != nil {
			rng.close()
			return nil, wrapBadConfig(err)
		}
	}

	return rng, nil
}

// setup builds the components options left unset, in dependency order.
func (rng *Ranger) setup() error {
	var err error

	if rng.l == nil {
		rng.l = defaultLogger(rng.cfg)
	}

	if rng.pages == nil {
		if rng.pages, err = site.DirOr(rng.cfg.SiteDir); err != nil {
			return err
		}
	}

	if rng.sessions == nil {
		if rng.sessions, err = defaultSessionStore(rng.cfg); err != nil {
			return err
		}
	}

	if rng.deny == nil {
		d, client, err := defaultDenylist(rng.cfg)
		if err != nil {
			return err
		}

		rng.deny = d
		if client != nil {
			rng.closers = append(rng.closers, client.Close)
		}
	}

	if rng.provider == nil {
		h, err := defaultProvider(rng.cfg, rng.providerSources, rng.deny, rng.l)
		if err != nil {
			return err
		}

		rng.provider = h
	}

	switch {
	case rng.profiles != nil:
	case rng.db != nil:
		rng.profiles = profile.NewGormStore(rng.db)
	default:
		db, s, err := defaultProfiles(rng.cfg, rng.l)
		if err != nil {
			return err
		}

		rng.profiles = s
		if db != nil {
			rng.db = db
			rng.closers = append(rng.closers, func() error {
				sqlDB, err := db.DB()
				if err != nil {
					return err
				}

				return sqlDB.Close()
			})
		}
	}

	rng.Responder = defaultResponder(rng.cfg, rng)

	if rng.router, err = defaultRouter(rng.cfg, rng); err != nil {
		return err
	}

	if rng.srv == nil {
		rng.srv = defaultServer(rng.ctx, rng.cfg)
	}

	rng.srv.Handler = rng.router.Handler()

	return nil
}

func (rng *Ranger) EmitDB() *gorm.DB                        { return rng.db }
func (rng *Ranger) EmitLogger() logger.Logger               { return rng.l }
func (rng *Ranger) EmitProvider() provider.Provider         { return rng.provider }
func (rng *Ranger) EmitSessionStore() session.SessionStorer { return rng.sessions }

// Handler is what the web server serves.
func (rng *Ranger) Handler() http.Handler { return rng.srv.Handler }

// Guide begins the web server.
//
// These, and (*Ranger).Shutdown, stop Guide:
//
// - os.Interrupt
// - syscall.SIGHUP
// - syscall.SIGINT
// - syscall.SIGQUIT
// - syscall.SIGTERM
func (rng *Ranger) Guide() error {
	ctx, cancel := context.WithCancel(rng.ctx)
	defer cancel()

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGHUP, syscall.SIGINT, syscall.SIGQUIT, syscall.SIGTERM)
	defer signal.Stop(ch)

	go func() {
		select {
		case s := <-ch:
			rng.l.Info(fmt.Sprint("received shutdown signal: ", s), nil)
			cancel()
		case <-ctx.Done():
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		rng.l.Info(fmt.Sprintf("running web server at %s", rng.srv.Addr), nil)
		if err := rng.srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("could not listen: %w", err)
			return
		}

		errCh <- nil
	}()

	select {
	case err := <-errCh:
		rng.close()
		return err
	case <-ctx.Done():
		return rng.Shutdown()
	}
}

// Shutdown shutdowns the web server and closes the connections New opened to Redis and Postgres.
func (rng *Ranger) Shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	rng.l.Info("shutting down web server", nil)
	err := rng.srv.Shutdown(shutdownCtx)
	rng.close()

	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("could not shutdown: %w", err)
	}

	rng.l.Info("web server shutdown successfully", nil)
	return nil
}

// close releases the connections New opened.
func (rng *Ranger) close() {
	for _, fn := range rng.closers {
		if err := fn(); err != nil && rng.l != nil {
			rng.l.Warn("failed closing connection", &logger.LogContext{Error: err})
		}
	}

	rng.closers = nil
}

func wrapBadConfig(err error) error {
	if errors.Is(err, playbook.ErrBadConfig) {
		return err
	}

	return fmt.Errorf("%w: %s", playbook.ErrBadConfig, err)
}
