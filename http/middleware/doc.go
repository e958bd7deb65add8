/*
Package middleware provides Adapters wrapping an http.Handler with behavior shared across routes.

Adapters compose with Chain; the first Adapter passed runs first.
*/
package middleware
