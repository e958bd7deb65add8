package session

import "errors"

var (
	// ErrNotValid means a token or value cannot be stored in a Session.
	ErrNotValid = errors.New("not valid")

	// ErrNoToken means the Session holds no provider token.
	ErrNoToken = errors.New("no token")
)
