package authform

import (
	"errors"
	"net/http"

	"github.com/tep-hq/playbook/guard"
	"github.com/tep-hq/playbook/http/middleware"
	"github.com/tep-hq/playbook/http/req"
	"github.com/tep-hq/playbook/http/resp"
	"github.com/tep-hq/playbook/http/session"
	"github.com/tep-hq/playbook/logger"
	"github.com/tep-hq/playbook/profile"
	"github.com/tep-hq/playbook/provider"
)

// A Result is what JSON clients receive after submitting a form.
type Result struct {
	Status   string          `json:"status"`
	IsError  bool            `json:"isError"`
	Redirect string          `json:"redirect,omitempty"`
	Profile  profile.Outcome `json:"profile,omitempty"`

	// alert is raised as a blocking alert alongside Status.
	alert string
	// alertOnly raises Status as a blocking alert without showing it inline.
	alertOnly bool
}

// SignIn exchanges the submitted credentials for a session
// and sends the visitor back to where they were headed.
//
// The destination is the first same-site location of:
// the returnTo query param, the returnTo form field, the stored return-to value, the landing page.
// The stored return-to value is cleared afterwards.
func (c *Controller) SignIn(w http.ResponseWriter, r *http.Request) {
	var form SignInForm
	parseErr := c.parser.ParseForm(r, &form)

	returnTo, _ := firstSafe(r.URL.Query().Get(session.ReturnToKey), form.ReturnTo)
	back := guard.SignInURL(c.signIn, returnTo)

	if parseErr != nil {
		c.l.Debug("incomplete sign in form", invalidForm(r, parseErr))
		c.respond(w, r, http.StatusBadRequest, Result{Status: MsgMissingFields, IsError: true, Redirect: back})
		return
	}

	s, err := c.d.Session(r.Context())
	if err != nil {
		c.d.Err(w, r, err)
		return
	}

	active, err := c.p.SignInWithPassword(r.Context(), form.Email, form.Password)
	if err != nil {
		c.logProviderErr("sign in failed", r, err)
		res := Result{Status: message(err, MsgSignInFailed), IsError: true, Redirect: back}
		c.respond(w, r, statusFor(err, http.StatusUnauthorized), res)
		return
	}

	if err := s.RegisterTokens(w, r, active.Token); err != nil {
		c.d.Err(w, r, err)
		return
	}

	to, ok := firstSafe(returnTo, s.ReturnTo())
	if !ok {
		to = c.landing
	}

	if err := s.ClearReturnTo(w, r); err != nil {
		c.l.Warn("failed clearing returnTo", &logger.LogContext{Error: err, Request: r, User: active})
	}

	c.l.Info("signed in", &logger.LogContext{Request: r, User: active})
	c.respond(w, r, http.StatusOK, Result{Status: MsgSignedIn, Redirect: to})
}

// SignUp creates an account with the submitted credentials.
//
// When the provider signs the new user in right away, SignUp keeps the session
// and makes sure the user has a profile row.
// The row's outcome is logged and reported to JSON clients;
// it never changes what the visitor is told.
func (c *Controller) SignUp(w http.ResponseWriter, r *http.Request) {
	var form SignUpForm
	if err := c.parser.ParseForm(r, &form); err != nil {
		c.l.Debug("incomplete sign up form", invalidForm(r, err))
		c.respond(w, r, http.StatusBadRequest, Result{Status: MsgMissingFields, IsError: true, Redirect: c.signUp})
		return
	}

	res, err := c.p.SignUp(r.Context(), form.Email, form.Password)
	if err != nil {
		c.logProviderErr("sign up failed", r, err)
		result := Result{Status: message(err, MsgSignUpFailed), IsError: true, Redirect: c.signUp}
		c.respond(w, r, statusFor(err, http.StatusBadRequest), result)
		return
	}

	outcome := profile.OutcomeSkipped
	if res.Authenticated() {
		if s, err := c.d.Session(r.Context()); err == nil {
			if err := s.RegisterTokens(w, r, res.Session.Token); err != nil {
				c.l.Warn("failed keeping new session", &logger.LogContext{Error: err, Request: r, User: res.User})
			}
		}

		outcome = c.ensureProfile(r, res.User)
	}

	c.l.Info("signed up", &logger.LogContext{Request: r, User: res.User, Data: map[string]any{"profile": outcome}})
	created := Result{Status: MsgAccountCreated, Redirect: c.signIn, Profile: outcome, alert: MsgAccountCreatedAlert}
	c.respond(w, r, http.StatusCreated, created)
}

// SignOut ends the session at the provider and forgets it and any return-to value.
//
// A provider that no longer knows the session counts as signed out.
// When the provider cannot be reached, the visitor is sent back to the page they came from.
func (c *Controller) SignOut(w http.ResponseWriter, r *http.Request) {
	s, err := c.d.Session(r.Context())
	if err != nil {
		c.d.Err(w, r, err)
		return
	}

	tok, err := s.Tokens()
	if err != nil && !errors.Is(err, session.ErrNoToken) {
		c.l.Error("unreadable token in session", &logger.LogContext{Error: err, Request: r})
	}

	if err := c.p.SignOut(r.Context(), tok); err != nil {
		if errors.Is(err, provider.ErrUnavailable) {
			c.logProviderErr("sign out failed", r, err)

			back, ok := referrer(r)
			if !ok {
				back = c.landing
			}

			res := Result{Status: message(err, MsgSignOutFailed), IsError: true, Redirect: back, alertOnly: true}
			c.respond(w, r, http.StatusServiceUnavailable, res)
			return
		}

		c.l.Debug("provider already ended session", &logger.LogContext{Error: err, Request: r})
	}

	if err := s.DeregisterTokens(w, r); err != nil {
		c.d.Err(w, r, err)
		return
	}

	if err := s.ClearReturnTo(w, r); err != nil {
		c.l.Warn("failed clearing returnTo", &logger.LogContext{Error: err, Request: r})
	}

	c.respond(w, r, http.StatusOK, Result{Redirect: c.signIn})
}

// ensureProfile reports what became of the user's profile row.
func (c *Controller) ensureProfile(r *http.Request, u provider.User) profile.Outcome {
	outcome, err := c.profiles.Ensure(r.Context(), u.ID)
	lc := &logger.LogContext{Request: r, User: u, Data: map[string]any{"outcome": outcome}}
	if err != nil {
		lc.Error = err
		c.l.Error("failed ensuring profile", lc)
		return profile.OutcomeFailed
	}

	c.l.Debug("ensured profile", lc)
	return outcome
}

// invalidForm describes a form that failed parsing, naming the failed fields if known.
func invalidForm(r *http.Request, err error) *logger.LogContext {
	lc := &logger.LogContext{Error: err, Request: r}

	var ve req.ValidationErrors
	if errors.As(err, &ve) {
		lc.Data = map[string]any{"fields": ve.Fields()}
	}

	return lc
}

// logProviderErr logs provider outages louder than refusals.
func (c *Controller) logProviderErr(msg string, r *http.Request, err error) {
	lc := &logger.LogContext{Error: err, Request: r}
	if errors.Is(err, provider.ErrUnavailable) {
		c.l.Warn(msg, lc)
		return
	}

	c.l.Info(msg, lc)
}

// respond answers JSON clients with res and everyone else with a flash and a 303 to res.Redirect.
func (c *Controller) respond(w http.ResponseWriter, r *http.Request, code int, res Result) {
	if middleware.AcceptsJSON(r.Header) {
		if err := c.d.Json(w, r, resp.Code(code), resp.Data(res)); err != nil {
			c.l.Error("failed writing JSON", &logger.LogContext{Error: err, Request: r})
		}

		return
	}

	opts := []resp.Fn{resp.Url(res.Redirect), resp.Code(http.StatusSeeOther)}
	if res.Status != "" {
		f := session.Flash{Class: session.FlashSuccess, Msg: res.Status, Alert: res.alert}
		switch {
		case res.alertOnly:
			f.Class = session.FlashAlert
		case res.IsError:
			f.Class = session.FlashError
		}

		opts = append([]resp.Fn{resp.Flash(f)}, opts...)
	}

	if err := c.d.Redirect(w, r, opts...); err != nil {
		c.d.Err(w, r, err)
	}
}

// message is the provider's message for err or fallback.
func message(err error, fallback string) string {
	if msg := provider.Message(err); msg != "" {
		return msg
	}

	return fallback
}

// statusFor is the status code JSON clients get for a provider error.
func statusFor(err error, rejected int) int {
	if errors.Is(err, provider.ErrUnavailable) {
		return http.StatusServiceUnavailable
	}

	return rejected
}
