package playbook

import "errors"

var (
	// ErrBadConfig means the application cannot start as configured.
	ErrBadConfig = errors.New("bad config")

	// ErrMissingData means a value required to continue was not provided.
	ErrMissingData = errors.New("missing data")

	// ErrNotExist means the thing looked up is not there.
	ErrNotExist = errors.New("not exist")

	// ErrNotValid means submitted data failed validation.
	ErrNotValid = errors.New("invalid")

	// ErrUnexpected means a programming error, not a user's.
	ErrUnexpected = errors.New("unexpected")
)
