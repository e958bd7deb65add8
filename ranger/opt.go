package ranger

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"

	"github.com/tep-hq/playbook/denylist"
	"github.com/tep-hq/playbook/http/router"
	"github.com/tep-hq/playbook/http/session"
	"github.com/tep-hq/playbook/logger"
	"github.com/tep-hq/playbook/profile"
	"github.com/tep-hq/playbook/provider"
	"gorm.io/gorm"
)

// A RangerOption configures a *Ranger either (1) directly, immediately upon being called
// or (2) in the OptFollowup it returns.
// Some RangerOptions require components New builds from defaults,
// and so return an OptFollowup called once those are available.
//
// WithLogger is an example of the first.
// An unexported field on the passed in *Ranger is updated with the enclosed value.
//
// WithRoutes is an example of the second.
// The routes are registered only when the closure it returns is called,
// after the router exists.
type RangerOption func(rng *Ranger) (OptFollowup, error)
type OptFollowup func() error

// WithContext sets the context.Context requests handled by the web server derive from.
func WithContext(ctx context.Context) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		if ctx == nil {
			return nil, fmt.Errorf("nil context")
		}

		rng.ctx = ctx
		return nil, nil
	}
}

// WithDB uses db for profile rows instead of connecting with the DATABASE env vars.
//
// WithDB assumes a connection has already been established and migrated.
func WithDB(db *gorm.DB) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		rng.db = db
		return nil, nil
	}
}

// WithDenylist uses d for revoked access tokens instead of memory or Redis.
func WithDenylist(d denylist.Store) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		rng.deny = d
		return nil, nil
	}
}

// WithLogger exposes the provided logger.Logger to the playbook app.
func WithLogger(l logger.Logger) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		rng.l = l
		l.Debug(fmt.Sprintf("using logger %T", l), nil)
		return nil, nil
	}
}

// WithPages serves pages instead of those read from SITE_DIR or built in.
func WithPages(pages fs.FS) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		rng.pages = pages
		return nil, nil
	}
}

// WithProfiles uses s for profile rows.
func WithProfiles(s profile.Store) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		rng.profiles = s
		return nil, nil
	}
}

// WithProvider uses p for authentication instead of a *provider.Handle reading the environment.
func WithProvider(p provider.Provider) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		rng.provider = p
		return nil, nil
	}
}

// WithProviderSources resolves the provider's configuration from sources
// instead of the process environment and PROVIDER_ENV_FILES.
func WithProviderSources(sources ...provider.Source) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		rng.providerSources = sources
		return nil, nil
	}
}

// WithRoutes constructs a followup option that, when called,
// registers routes alongside the pages and forms.
func WithRoutes(routes ...router.Route) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		return func() error {
			rng.router.HandleRoutes(routes)
			rng.l.Debug(fmt.Sprintf("registered %d additional routes", len(routes)), nil)
			return nil
		}, nil
	}
}

// WithSessionStore exposes the session.SessionStorer to the playbook app.
func WithSessionStore(store session.SessionStorer) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		rng.sessions = store
		return nil, nil
	}
}

// WithServer exposes the *http.Server to the playbook app.
// Its Handler is replaced by the router.
func WithServer(s *http.Server) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		rng.srv = s
		return nil, nil
	}
}
