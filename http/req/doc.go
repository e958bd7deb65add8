/*
Package req provides ergonomics for handling an HTTP request.

Package req parses payloads in an HTTP request into a pointer to a struct.
It supports JSON-encoded bodies, URL-encoded and multipart form posts,
and query parameters.
The struct ought to carry the struct tags for two tasks:
matching keys in the payload to fields on the struct ("json" or "schema"),
and validating the payload's data meets requirements ("validate").

A struct implementing Normalizer gets a chance to tidy itself,
such as trimming whitespace, before validation runs.

The parade of errors that may propagate from decoding
is translated to playbook sentinel errors,
providing a consistent interface across encoding types.
*/
package req
