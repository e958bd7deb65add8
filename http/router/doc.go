/*
Package router wraps [mux.Router] with a standardized data model - a [Route] -
for registering how requests should be routed.

A path and an HTTP method comprise a [Route].
Before a request gets to a handler,
the middlewares set by [Router.OnEveryRequest] are called,
then those passed when registering, then those on the Route,
in the order they appear.

Pages requiring a signed in user are registered with [Router.ProtectedRoutes],
so the access guard cannot be forgotten on any one of them.
*/
package router
