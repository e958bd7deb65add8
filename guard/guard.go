// Package guard keeps pages behind an active provider session.
//
// A Guard is advisory: it decides whether to render a page,
// not whether the visitor may read any data the page goes on to fetch.
package guard

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/tep-hq/playbook"
	"github.com/tep-hq/playbook/http/middleware"
	"github.com/tep-hq/playbook/http/session"
	"github.com/tep-hq/playbook/logger"
	"github.com/tep-hq/playbook/provider"
	"golang.org/x/oauth2"
)

// DefaultSignInPage is where visitors without a session are sent.
const DefaultSignInPage = "/sign-in.html"

// A Guard checks for an active session before letting a request through.
type Guard struct {
	l      logger.Logger
	p      provider.Provider
	signIn string
	warn   bool
}

// An Opt configures a *Guard.
type Opt func(*Guard)

// WithSignInPage sets the page visitors without a session are redirected to.
func WithSignInPage(page string) Opt {
	return func(g *Guard) {
		if page != "" {
			g.signIn = "/" + strings.TrimPrefix(page, "/")
		}
	}
}

// WithNoAccessFlash sets a warning flash asking the visitor to sign in
// alongside the redirect.
func WithNoAccessFlash() Opt {
	return func(g *Guard) { g.warn = true }
}

// New constructs a *Guard asking p for sessions.
func New(p provider.Provider, l logger.Logger, opts ...Opt) *Guard {
	if l == nil {
		l = logger.NoopLogger{}
	}

	g := &Guard{l: l, p: p, signIn: DefaultSignInPage}
	for _, opt := range opts {
		opt(g)
	}

	return g
}

// Protect returns the middleware.Adapter keeping a handler behind an active session.
//
// With a session, the request continues with the *provider.Session
// stored in its context under playbook.CurrentUserKey.
// A refreshed token is saved to the web session first.
//
// Without one, for any reason, the request stops.
// JSON requests get 401.
// Otherwise, the location requested is remembered as the return-to value
// and the visitor is redirected to the sign-in page carrying it in the returnTo query param.
func (g *Guard) Protect() middleware.Adapter {
	return func(handler http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, hasSession := r.Context().Value(playbook.SessionKey).(session.Session)

			var tok *oauth2.Token
			if hasSession {
				var err error
				tok, err = s.Tokens()
				if err != nil && !errors.Is(err, session.ErrNoToken) {
					g.l.Error("unreadable token in session", &logger.LogContext{Error: err, Request: r})
				}
			}

			active, err := g.p.GetSession(r.Context(), tok)
			if err != nil {
				g.deny(w, r, s, hasSession, tok != nil, err)
				return
			}

			if active.Refreshed && hasSession {
				if err := s.RegisterTokens(w, r, active.Token); err != nil {
					g.l.Warn("failed saving refreshed token", &logger.LogContext{Error: err, Request: r, User: active})
				}
			}

			w.Header().Set("Cache-Control", "no-store")
			ctx := context.WithValue(r.Context(), playbook.CurrentUserKey, active)
			handler.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// deny stops a request lacking an active session.
func (g *Guard) deny(w http.ResponseWriter, r *http.Request, s session.Session, hasSession, hadToken bool, err error) {
	lc := &logger.LogContext{Error: err, Request: r}
	if errors.Is(err, provider.ErrUnavailable) {
		g.l.Warn("could not check session, denying access", lc)
	} else {
		g.l.Debug("no active session", lc)
	}

	loc := Location(r.URL)
	if hasSession {
		if hadToken && errors.Is(err, provider.ErrNoSession) {
			if err := s.DeregisterTokens(w, r); err != nil {
				g.l.Warn("failed dropping stale token", &logger.LogContext{Error: err, Request: r})
			}
		}

		if err := s.SetReturnTo(w, r, loc); err != nil {
			g.l.Warn("failed storing returnTo", &logger.LogContext{Error: err, Request: r})
		}

		if g.warn {
			f := session.Flash{Class: session.FlashWarning, Msg: session.NoAccessMsg}
			if err := s.SetFlash(w, r, f); err != nil {
				g.l.Warn("failed setting flash", &logger.LogContext{Error: err, Request: r})
			}
		}
	}

	if middleware.AcceptsJSON(r.Header) {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	http.Redirect(w, r, SignInURL(g.signIn, loc), http.StatusFound)
}

// Location is the path, query and fragment of u,
// the location a visitor comes back to after signing in.
// Browsers never send the fragment; the sign in page appends it to its returnTo field.
func Location(u *url.URL) string {
	loc := u.EscapedPath()
	if loc == "" {
		loc = "/"
	}

	if u.RawQuery != "" {
		loc += "?" + u.RawQuery
	}

	if u.Fragment != "" {
		loc += "#" + u.EscapedFragment()
	}

	return loc
}

// SignInURL is page carrying loc in the returnTo query param.
// Without loc, page returns as is.
func SignInURL(page, loc string) string {
	if loc == "" {
		return page
	}

	return page + "?" + session.ReturnToKey + "=" + EscapeComponent(loc)
}

var componentUnescaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// EscapeComponent escapes s for use as a single query value
// the way browsers' encodeURIComponent does.
func EscapeComponent(s string) string {
	return componentUnescaper.Replace(url.QueryEscape(s))
}
