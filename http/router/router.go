package router

import (
	"io/fs"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/tep-hq/playbook"
	"github.com/tep-hq/playbook/http/middleware"
)

// AssetsPath is where static assets are served from.
const AssetsPath = "/assets/"

// A Route maps a path and HTTP method to an [http.HandlerFunc].
// Additional [middleware.Adapter] can be called when a server handles
// a request matching the Route.
type Route struct {
	Path        string
	Method      string
	Handler     http.HandlerFunc
	Middlewares []middleware.Adapter
}

// Router routes requests for pages, assets and form endpoints.
type Router struct {
	Env           playbook.Environment
	everyReqStack []middleware.Adapter
	logReq        middleware.Adapter
	r             *mux.Router
}

// New constructs a [*Router] for the given environment.
// logReq is applied to asset and not found requests, which skip the every request stack.
func New(env playbook.Environment, logReq middleware.Adapter) *Router {
	if logReq == nil {
		logReq = middleware.NoopAdapter
	}

	return &Router{Env: env, logReq: logReq, r: mux.NewRouter()}
}

// Assets serves the files in assets under AssetsPath.
func (r *Router) Assets(assets fs.FS) {
	r.r.PathPrefix(AssetsPath).Handler(middleware.Chain(
		http.StripPrefix(AssetsPath, http.FileServer(http.FS(assets))),
		cacheControlMiddleware(),
		r.logReq,
	))
}

// ProtectedRoutes registers the set of Routes as those requiring an active session.
// ProtectedRoutes applies the given middlewares before guard performs that check.
func (r *Router) ProtectedRoutes(guard middleware.Adapter, routes []Route, middlewares ...middleware.Adapter) {
	mws := append(append([]middleware.Adapter{}, middlewares...), guard)
	r.HandleRoutes(routes, mws...)
}

// Handle applies the [Route] to the [*Router].
func (r *Router) Handle(route Route) {
	r.HandleRoutes([]Route{route})
}

// HandleNotFound sets the provided [http.HandlerFunc] as the default function
// for when no other registered Route is matched.
func (r *Router) HandleNotFound(handler http.HandlerFunc) {
	r.r.NotFoundHandler = middleware.Chain(
		handler,
		middleware.ReportPanic(r.Env),
		r.logReq,
	)
}

// HandleRoutes registers the set of Routes on the Router
// and includes all the [middleware.Adapter] on each Route.
// Any [middleware.Adapter] already assigned to a Route is appended to middlewares,
// so are called after the default set.
func (r *Router) HandleRoutes(routes []Route, middlewares ...middleware.Adapter) {
	for _, route := range routes {
		mws := append([]middleware.Adapter{middleware.ReportPanic(r.Env)}, r.everyReqStack...)
		mws = append(mws, middlewares...)
		mws = append(mws, route.Middlewares...)
		handler := middleware.Chain(route.Handler, mws...)
		r.r.Handle(route.Path, handler).Methods(route.Method)
	}
}

// Handler wraps the [*Router] with proxy header handling and response compression.
func (r *Router) Handler() http.Handler {
	return handlers.ProxyHeaders(handlers.CompressHandler(r))
}

// OnEveryRequest appends the middlewares to the existing stack
// that the [*Router] will apply to every request.
//
// Call OnEveryRequest before registering routes.
func (r *Router) OnEveryRequest(middlewares ...middleware.Adapter) {
	r.everyReqStack = append(r.everyReqStack, middlewares...)
}

// ServeHTTP responds to an HTTP request.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.r.ServeHTTP(w, req)
}

// Subrouter constructs a [Router] that handles requests to endpoints matching the prefix.
//
// e.g., r.Subrouter("/auth") handles requests to endpoints like /auth/sign-in
func (r *Router) Subrouter(prefix string) *Router {
	return &Router{
		Env:           r.Env,
		r:             r.r.PathPrefix(prefix).Subrouter(),
		logReq:        r.logReq,
		everyReqStack: append([]middleware.Adapter{}, r.everyReqStack...),
	}
}

// cacheControlMiddleware helps by adding a "Cache-Control" header to the response.
func cacheControlMiddleware() middleware.Adapter {
	return func(handler http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "max-age=86400") // 1 day
			handler.ServeHTTP(w, r)
		})
	}
}
