package provider

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

var (
	// ErrNoSession means there is no usable session: no token, an expired one, a revoked one or one the provider rejects.
	ErrNoSession = errors.New("no session")

	// ErrRejected means the provider refused the request, e.g., bad credentials.
	ErrRejected = errors.New("rejected by provider")

	// ErrUnavailable means the provider could not be reached or failed.
	ErrUnavailable = errors.New("provider unavailable")
)

var (
	statusRegexp  = regexp.MustCompile(`status code (\d{3})`)
	messageRegexp = regexp.MustCompile(`"(?:error_description|msg|message)"\s*:\s*("(?:[^"\\]|\\.)*")`)
)

// UnavailableMsg is the message Message returns for ErrUnavailable errors
// that carry no message from the provider.
const UnavailableMsg = "We couldn't reach the sign-in service. Please try again."

// classify translates an error returned by the GoTrue client.
// 4xx responses wrap rejected, everything else wraps ErrUnavailable.
func classify(err error, rejected error) error {
	if m := statusRegexp.FindStringSubmatch(err.Error()); m != nil && m[1][0] == '4' {
		return fmt.Errorf("%w: %w", rejected, err)
	}

	return fmt.Errorf("%w: %w", ErrUnavailable, err)
}

// Message extracts the human readable message the provider sent along with err.
// Message returns UnavailableMsg for ErrUnavailable errors without one
// and an empty string otherwise.
func Message(err error) string {
	if err == nil {
		return ""
	}

	if m := messageRegexp.FindStringSubmatch(err.Error()); m != nil {
		if msg, uerr := strconv.Unquote(m[1]); uerr == nil && msg != "" {
			return msg
		}
	}

	if errors.Is(err, ErrUnavailable) {
		return UnavailableMsg
	}

	return ""
}
