// Package site serves the playbook's HTML pages.
//
// Every *.html file in the pages fs.FS is a route of the same name,
// rendered as an html/template with the visitor's flashes, query and current user.
// Pages matching a protected pattern are served behind a guard.Guard.
package site

import (
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path"
	"strings"

	"github.com/gobwas/glob"
	"github.com/tep-hq/playbook"
	"github.com/tep-hq/playbook/http/middleware"
	"github.com/tep-hq/playbook/http/resp"
	"github.com/tep-hq/playbook/http/router"
	"github.com/tep-hq/playbook/http/template"
	"github.com/tep-hq/playbook/logger"
)

// DefaultLandingPage is where "/" redirects to unless configured otherwise.
const DefaultLandingPage = "/dashboard.html"

// DefaultProtected are the pages requiring a session unless configured otherwise.
var DefaultProtected = []string{"dashboard.html", "handbook.html"}

//go:embed pages
var embedded embed.FS

// Pages are the pages built into the binary.
func Pages() fs.FS {
	sub, err := fs.Sub(embedded, "pages")
	if err != nil {
		panic(err)
	}

	return sub
}

// DirOr reads pages from dir, falling back to the built in Pages when dir is empty.
func DirOr(dir string) (fs.FS, error) {
	if dir == "" {
		return Pages(), nil
	}

	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: site dir: %s", playbook.ErrBadConfig, err)
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("%w: site dir %s is not a directory", playbook.ErrBadConfig, dir)
	}

	return os.DirFS(dir), nil
}

// A Server renders pages.
type Server struct {
	d         *resp.Responder
	l         logger.Logger
	landing   string
	pages     fs.FS
	protected []glob.Glob
}

// An Opt configures a *Server.
type Opt func(*Server) error

// WithLandingPage sets where "/" redirects to.
func WithLandingPage(page string) Opt {
	return func(s *Server) error {
		if page != "" {
			s.landing = "/" + strings.TrimPrefix(page, "/")
		}

		return nil
	}
}

// WithProtected sets the glob patterns of pages requiring a session, e.g., "handbook/*.html".
// Patterns match page paths relative to the pages fs.FS, with "/" as the separator.
func WithProtected(patterns ...string) Opt {
	return func(s *Server) error {
		s.protected = s.protected[:0]
		for _, p := range patterns {
			g, err := glob.Compile(strings.TrimPrefix(p, "/"), '/')
			if err != nil {
				return fmt.Errorf("%w: protected page pattern %q: %s", playbook.ErrBadConfig, p, err)
			}

			s.protected = append(s.protected, g)
		}

		return nil
	}
}

// New constructs a *Server rendering pages with d.
// d's template.Parser must read from pages.
func New(d *resp.Responder, pages fs.FS, l logger.Logger, opts ...Opt) (*Server, error) {
	if l == nil {
		l = logger.NoopLogger{}
	}

	s := &Server{d: d, l: l, landing: DefaultLandingPage, pages: pages}
	if err := WithProtected(DefaultProtected...)(s); err != nil {
		return nil, err
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Protected asserts whether page requires a session.
func (s *Server) Protected(page string) bool {
	page = strings.TrimPrefix(page, "/")
	for _, g := range s.protected {
		if g.Match(page) {
			return true
		}
	}

	return false
}

// Register routes every page in the pages fs.FS, "/" and the assets directory, if any.
// Protected pages are wrapped by guard.
// Anything else is not found.
func (s *Server) Register(r *router.Router, guard middleware.Adapter) error {
	var public, protected []router.Route

	err := fs.WalkDir(s.pages, ".", func(p string, de fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if de.IsDir() {
			if p == "assets" {
				return fs.SkipDir
			}

			return nil
		}

		if path.Ext(p) != ".html" {
			return nil
		}

		route := router.Route{Path: "/" + p, Method: http.MethodGet, Handler: s.page(p)}
		if s.Protected(p) {
			protected = append(protected, route)
		} else {
			public = append(public, route)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: walking pages: %s", playbook.ErrBadConfig, err)
	}

	if info, err := fs.Stat(s.pages, "assets"); err == nil && info.IsDir() {
		assets, err := fs.Sub(s.pages, "assets")
		if err != nil {
			return fmt.Errorf("%w: assets: %s", playbook.ErrBadConfig, err)
		}

		r.Assets(assets)
	}

	public = append(public, router.Route{Path: "/", Method: http.MethodGet, Handler: s.root})

	if guard == nil && len(protected) > 0 {
		return fmt.Errorf("%w: %d protected pages without a guard", playbook.ErrBadConfig, len(protected))
	}

	r.HandleRoutes(public)
	if len(protected) > 0 {
		r.ProtectedRoutes(guard, protected)
	}

	r.HandleNotFound(s.notFound)

	s.l.Debug("registered pages", &logger.LogContext{Data: map[string]any{
		"public":    len(public) - 1,
		"protected": len(protected),
	}})

	return nil
}

// page renders the page at p alongside the status template.
// Html logs and answers its own failures.
func (s *Server) page(p string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_ = s.d.Html(w, r, resp.Tmpls(p, template.StatusTmpl))
	}
}

func (s *Server) root(w http.ResponseWriter, r *http.Request) {
	if err := s.d.Redirect(w, r, resp.Url(s.landing)); err != nil {
		s.d.Err(w, r, err)
	}
}

func (s *Server) notFound(w http.ResponseWriter, _ *http.Request) {
	http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
}
