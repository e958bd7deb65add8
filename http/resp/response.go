package resp

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/tep-hq/playbook/http/session"
	"github.com/tep-hq/playbook/logger"
)

// A Fn is a functional option that mutates the state of the Response.
type Fn func(Responder, *Response) error

// A Response is the internal object a Responder response method builds while applying all
// functional options.
type Response struct {
	w     http.ResponseWriter
	r     *http.Request
	code  int
	data  any
	tmpls []string
	url   *url.URL
	user  any
}

// Code sets the response status code.
func Code(c int) Fn {
	return func(_ Responder, r *Response) error {
		r.code = c
		return nil
	}
}

// Data stores the provided value for writing to the client.
//
// Used with Responder.Html and Responder.Json.
func Data(d any) Fn {
	return func(_ Responder, r *Response) error {
		r.data = d
		return nil
	}
}

// Err sets the status code http.StatusInternalServerError and logs the error.
func Err(e error) Fn {
	return func(d Responder, r *Response) error {
		if e != nil {
			lc := &logger.LogContext{Error: e, Request: r.r}
			if u, ok := r.user.(logger.LogUser); ok {
				lc.User = u
			}

			d.logger.Error(e.Error(), lc)
		}

		return Code(http.StatusInternalServerError)(d, r)
	}
}

// Flash sets a flash message in the session.
func Flash(flash session.Flash) Fn {
	return func(d Responder, r *Response) error {
		s, err := d.Session(r.r.Context())
		if err != nil {
			return err
		}

		return s.SetFlash(r.w, r.r, flash)
	}
}

// GenericErr combines Err() and Flash() to log the passed in error
// and set a generic error flash in the session
// using either the string set by WithContactErrMsg or session.DefaultErrMsg.
func GenericErr(e error) Fn {
	return func(d Responder, r *Response) error {
		if err := Err(e)(d, r); err != nil {
			return err
		}

		msg := session.DefaultErrMsg
		if d.contactErrMsg != "" {
			msg = d.contactErrMsg
		}

		return Flash(session.Flash{Class: session.FlashError, Msg: msg})(d, r)
	}
}

// Param adds the query parameter to the response's URL.
//
// Used with Responder.Redirect after Url.
func Param(key, val string) Fn {
	return func(_ Responder, r *Response) error {
		if r.url == nil {
			return fmt.Errorf("%w: Url() has not been called", ErrMissingData)
		}

		q := r.url.Query()
		q.Add(key, val)
		r.url.RawQuery = q.Encode()
		return nil
	}
}

// Success sets a session.FlashSuccess flash in the session with the passed in msg.
func Success(msg string) Fn {
	return Flash(session.Flash{Class: session.FlashSuccess, Msg: msg})
}

// Tmpls appends to the templates to be rendered.
//
// Used with Responder.Html.
func Tmpls(fps ...string) Fn {
	return func(_ Responder, r *Response) error {
		r.tmpls = append(r.tmpls, fps...)
		return nil
	}
}

// ToRoot sets the Responder's root URL as the redirect destination.
func ToRoot() Fn {
	return func(d Responder, r *Response) error {
		u := *d.rootUrl
		r.url = &u
		return nil
	}
}

// User stores the user in the *Response.
//
// Used with Responder.Html and Responder.Json.
// When used with Json, the user is assigned to the "currentUser" key.
func User(u any) Fn {
	return func(_ Responder, r *Response) error {
		r.user = u
		return nil
	}
}

// Url parses the raw URL string and sets it in the *Response if successful.
// Relative references resolve against the request's URL when redirecting.
//
// Used with Responder.Redirect.
func Url(u string) Fn {
	return func(_ Responder, r *Response) error {
		parsed, err := url.Parse(u)
		if err != nil {
			return fmt.Errorf("%w: u is not a valid URL: %v", ErrInvalid, err)
		}

		r.url = parsed
		return nil
	}
}

// Warn sets a session.FlashWarning flash in the session with the passed in msg.
func Warn(msg string) Fn {
	return Flash(session.Flash{Class: session.FlashWarning, Msg: msg})
}
