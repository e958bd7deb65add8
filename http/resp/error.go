package resp

import "errors"

var (
	ErrBadConfig   = errors.New("bad config")
	ErrDone        = errors.New("request ctx done")
	ErrInvalid     = errors.New("invalid")
	ErrMissingData = errors.New("missing data")

	// ErrNotFound means the request context lacks a session or current user.
	ErrNotFound = errors.New("not found")
)
