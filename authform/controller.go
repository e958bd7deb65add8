// Package authform handles the sign-in, create-account and sign-out forms.
//
// Each form posts to its own endpoint:
//
//	POST /auth/sign-in    signin-email, signin-password, returnTo
//	POST /auth/sign-up    signup-email, signup-password
//	POST /auth/sign-out
//
// Browsers are answered with a flash and a 303 redirect.
// Clients sending "Accept: application/json" receive a Result instead.
package authform

import (
	"bytes"
	"io/fs"
	"net/http"
	"strings"

	"github.com/tep-hq/playbook/guard"
	"github.com/tep-hq/playbook/http/middleware"
	"github.com/tep-hq/playbook/http/req"
	"github.com/tep-hq/playbook/http/resp"
	"github.com/tep-hq/playbook/http/router"
	"github.com/tep-hq/playbook/logger"
	"github.com/tep-hq/playbook/profile"
	"github.com/tep-hq/playbook/provider"
)

const (
	SignInPath  = "/auth/sign-in"
	SignUpPath  = "/auth/sign-up"
	SignOutPath = "/auth/sign-out"

	// SignOutMarker is the element ID of a sign out button.
	SignOutMarker = "signout-button"
)

const (
	DefaultLandingPage = "/dashboard.html"
	DefaultSignUpPage  = "/create-account.html"
)

const (
	MsgMissingFields  = "Please enter your email and password."
	MsgSignedIn       = "Signed in. Redirecting…"
	MsgSignInFailed   = "Sign-in failed."
	MsgAccountCreated = "Account created. You can sign in now."
	MsgSignUpFailed   = "Sign-up failed."
	MsgSignOutFailed  = "Sign-out failed."

	// MsgAccountCreatedAlert is raised as a blocking alert alongside MsgAccountCreated.
	MsgAccountCreatedAlert = "Account created. You can now sign in."
)

// A Controller handles the auth forms.
type Controller struct {
	d        *resp.Responder
	l        logger.Logger
	p        provider.Provider
	parser   *req.Parser
	profiles profile.Store

	cors    []string
	landing string
	mws     []middleware.Adapter
	signIn  string
	signOut bool
	signUp  string
}

// An Opt configures a *Controller.
type Opt func(*Controller)

// WithCORS lets pages served from origins submit the forms with fetch.
func WithCORS(origins ...string) Opt {
	return func(c *Controller) { c.cors = append(c.cors, origins...) }
}

// WithLandingPage sets where a sign in goes without a return-to value.
func WithLandingPage(page string) Opt {
	return func(c *Controller) { c.landing = rooted(page, c.landing) }
}

// WithMiddlewares applies mws to every form endpoint, e.g., middleware.RateLimit.
func WithMiddlewares(mws ...middleware.Adapter) Opt {
	return func(c *Controller) { c.mws = append(c.mws, mws...) }
}

// WithSignInPage sets the page holding the sign in form.
func WithSignInPage(page string) Opt {
	return func(c *Controller) { c.signIn = rooted(page, c.signIn) }
}

// WithSignOut binds sign out even when no page carries SignOutMarker.
func WithSignOut(always bool) Opt {
	return func(c *Controller) { c.signOut = always }
}

// WithSignUpPage sets the page holding the create account form.
func WithSignUpPage(page string) Opt {
	return func(c *Controller) { c.signUp = rooted(page, c.signUp) }
}

// New constructs a *Controller calling p for authentication and profiles for profile rows.
// A nil profiles skips profile rows altogether.
func New(p provider.Provider, profiles profile.Store, d *resp.Responder, l logger.Logger, opts ...Opt) *Controller {
	if profiles == nil {
		profiles = profile.NoopStore{}
	}

	if l == nil {
		l = logger.NoopLogger{}
	}

	c := &Controller{
		d:        d,
		l:        l,
		p:        p,
		parser:   req.NewParser(),
		profiles: profiles,
		landing:  DefaultLandingPage,
		signIn:   guard.DefaultSignInPage,
		signUp:   DefaultSignUpPage,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Register binds the form endpoints whose pages exist in pages.
//
// Sign in binds when the sign in page exists, sign up when the create account page does.
// Sign out binds when any page carries SignOutMarker, or always with WithSignOut.
// Endpoints without their page are skipped.
func (c *Controller) Register(r *router.Router, pages fs.FS) {
	var routes []router.Route

	if c.hasPage(pages, c.signIn) {
		routes = append(routes, router.Route{Path: SignInPath, Method: http.MethodPost, Handler: c.SignIn})
	} else {
		c.l.Debug("no sign in page, skipping sign in form", &logger.LogContext{Data: map[string]any{"page": c.signIn}})
	}

	if c.hasPage(pages, c.signUp) {
		routes = append(routes, router.Route{Path: SignUpPath, Method: http.MethodPost, Handler: c.SignUp})
	} else {
		c.l.Debug("no create account page, skipping sign up form", &logger.LogContext{Data: map[string]any{"page": c.signUp}})
	}

	if c.signOut || hasMarker(pages, SignOutMarker) {
		routes = append(routes, router.Route{Path: SignOutPath, Method: http.MethodPost, Handler: c.SignOut})
	} else {
		c.l.Debug("no sign out button, skipping sign out", nil)
	}

	mws := append([]middleware.Adapter{middleware.CORS(c.cors...)}, c.mws...)
	if len(c.cors) > 0 {
		preflights := make([]router.Route, 0, len(routes))
		for _, route := range routes {
			preflights = append(preflights, router.Route{Path: route.Path, Method: http.MethodOptions, Handler: noContent})
		}

		routes = append(routes, preflights...)
	}

	r.HandleRoutes(routes, mws...)
}

func (c *Controller) hasPage(pages fs.FS, page string) bool {
	if pages == nil {
		return false
	}

	info, err := fs.Stat(pages, strings.TrimPrefix(page, "/"))
	return err == nil && !info.IsDir()
}

// hasMarker asserts whether any HTML page in pages carries the element ID marker.
func hasMarker(pages fs.FS, marker string) bool {
	if pages == nil {
		return false
	}

	needle := []byte(`id="` + marker + `"`)
	found := false
	_ = fs.WalkDir(pages, ".", func(p string, de fs.DirEntry, err error) error {
		if err != nil || found || de.IsDir() || !strings.HasSuffix(p, ".html") {
			return nil
		}

		b, err := fs.ReadFile(pages, p)
		if err == nil && bytes.Contains(b, needle) {
			found = true
			return fs.SkipAll
		}

		return nil
	})

	return found
}

func noContent(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) }

func rooted(page, def string) string {
	if page == "" {
		return def
	}

	return "/" + strings.TrimPrefix(page, "/")
}
