package logger

import (
	"encoding"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"runtime"

	"github.com/tep-hq/playbook"
)

var _ encoding.TextMarshaler = LogContext{}

// LogUser is the interface exposing attributes of a user to a LogContext.
type LogUser interface {
	// GetID retrieves the provider's identifier for a user.
	GetID() string

	// GetEmail retrieves the email address of the user.
	GetEmail() string
}

// A LogContext provides additional information
// for a Logger method that cannot be tersely captured in the message itself.
type LogContext struct {
	// Caller overrides the caller file and line number with the provided value.
	//
	// Caller is not logged in the text of a LogContext.
	Caller string

	// Data is any information pertinent at the time of the logging event.
	Data map[string]any

	// Error is the error that may or may not have instigated a logging event.
	Error error

	// Request is the *http.Request that may or may not have been open during the logging event.
	Request *http.Request

	// User is the user whose session was active during the logging event.
	User LogUser
}

// MarshalText converts LogContext into a JSON representation,
// eliminating zero-value fields or fields not requiring logging.
//
// Form values ending in "password" are masked.
//
// MarshalText implements [encoding.TextMarshaler].
func (lc LogContext) MarshalText() ([]byte, error) {
	m := make(map[string]any)
	if lc.Data != nil {
		m["data"] = lc.Data
	}

	if lc.Error != nil {
		m["error"] = lc.Error.Error()
	}

	if lc.Request != nil {
		r := make(map[string]any)
		r["method"] = lc.Request.Method
		if lc.Request.URL != nil {
			r["url"] = lc.Request.URL.String()
		}

		if lc.Request.PostForm != nil {
			form := make(url.Values, len(lc.Request.PostForm))
			for k, v := range lc.Request.PostForm {
				form[k] = append([]string(nil), v...)
			}

			playbook.MaskPasswords(form)
			r["form"] = form
		}

		m["request"] = r
	}

	if lc.User != nil {
		u := make(map[string]any)
		if id := lc.User.GetID(); id != "" {
			u["id"] = id
		}
		if email := lc.User.GetEmail(); email != "" {
			u["email"] = email
		}
		if len(u) > 0 {
			m["user"] = u
		}
	}

	return json.Marshal(m)
}

// String stringifies LogContext as a JSON representation of it.
func (lc LogContext) String() string {
	b, err := lc.MarshalText()
	if err != nil {
		return fmt.Sprintf(`{"error":%q}`, err.Error())
	}

	return string(b)
}

// CurrentCaller retrieves the caller of the function calling CurrentCaller,
// formatted for using as a value in LogContext.Caller.
func CurrentCaller() string {
	_, file, line, _ := runtime.Caller(2)
	return fmtCaller(file, line)
}
