package provider

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v4"
	gotrue "github.com/supabase-community/gotrue-go"
	"github.com/supabase-community/gotrue-go/types"
	"golang.org/x/oauth2"

	"github.com/tep-hq/playbook/denylist"
	"github.com/tep-hq/playbook/logger"
)

// A Provider is the set of authentication operations the application delegates.
type Provider interface {
	GetSession(ctx context.Context, tok *oauth2.Token) (*Session, error)
	GetUser(ctx context.Context, accessToken string) (User, error)
	SignInWithPassword(ctx context.Context, email, password string) (*Session, error)
	SignUp(ctx context.Context, email, password string) (SignUpResult, error)
	SignOut(ctx context.Context, tok *oauth2.Token) error
}

// DefaultRevocationTTL is how long a signed out token without an expiry stays denied.
const DefaultRevocationTTL = time.Hour

// A Client performs Provider operations against a GoTrue server.
//
// GoTrue clients carry the bearer token as state,
// so a Client builds a fresh one per call and is safe for concurrent use.
type Client struct {
	cfg    Config
	deny   denylist.Store
	hc     http.Client
	l      logger.Logger
	now    func() time.Time
	parser *jwt.Parser
}

// A ClientOpt configures a *Client.
type ClientOpt func(*Client)

// WithDenylist checks and records signed out access tokens in s.
func WithDenylist(s denylist.Store) ClientOpt {
	return func(c *Client) { c.deny = s }
}

// WithLogger sets the logger.Logger the Client logs with.
func WithLogger(l logger.Logger) ClientOpt {
	return func(c *Client) { c.l = l }
}

// WithTransport sets the http.RoundTripper requests are made through.
func WithTransport(rt http.RoundTripper) ClientOpt {
	return func(c *Client) { c.hc.Transport = rt }
}

// withNow is for tests.
func withNow(fn func() time.Time) ClientOpt {
	return func(c *Client) { c.now = fn }
}

// NewClient constructs a *Client from cfg.
// NewClient does not contact the provider.
func NewClient(cfg Config, opts ...ClientOpt) (*Client, error) {
	if err := cfg.Valid(); err != nil {
		return nil, err
	}

	if cfg.AppName == "" {
		cfg.AppName = DefaultAppName
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	c := &Client{
		cfg:    cfg,
		l:      logger.NoopLogger{},
		now:    time.Now,
		parser: &jwt.Parser{ValidMethods: []string{jwt.SigningMethodHS256.Alg()}},
	}

	for _, opt := range opts {
		opt(c)
	}

	base := c.hc.Transport
	if base == nil {
		base = http.DefaultTransport
	}

	c.hc.Transport = headerTransport{
		base:   base,
		header: http.Header{"X-Application-Name": []string{cfg.AppName}},
	}
	c.hc.Timeout = cfg.Timeout

	return c, nil
}

// Config returns the Config the Client was constructed with.
func (c *Client) Config() Config { return c.cfg }

func (c *Client) auth(accessToken string) gotrue.Client {
	a := gotrue.New("", c.cfg.AnonKey).
		WithCustomGoTrueURL(c.cfg.AuthURL()).
		WithClient(c.hc)
	if accessToken != "" {
		a = a.WithToken(accessToken)
	}

	return a
}

// GetSession verifies tok and returns the Session it represents.
//
// An expired access token is exchanged using the refresh token, if there is one;
// the returned Session is then marked Refreshed.
// A missing, expired, revoked or rejected token returns an error wrapping ErrNoSession.
func (c *Client) GetSession(ctx context.Context, tok *oauth2.Token) (*Session, error) {
	if tok == nil || tok.AccessToken == "" {
		return nil, ErrNoSession
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	if c.deny != nil {
		revoked, err := c.deny.Revoked(ctx, tok.AccessToken)
		if err != nil {
			return nil, fmt.Errorf("%w: checking denylist: %w", ErrUnavailable, err)
		}

		if revoked {
			return nil, fmt.Errorf("%w: token signed out", ErrNoSession)
		}
	}

	if !tok.Expiry.IsZero() && !tok.Expiry.After(c.now()) {
		return c.refresh(ctx, tok)
	}

	user, err := c.GetUser(ctx, tok.AccessToken)
	if err != nil {
		return nil, err
	}

	return &Session{Token: tok, User: user}, nil
}

func (c *Client) refresh(ctx context.Context, tok *oauth2.Token) (*Session, error) {
	if tok.RefreshToken == "" {
		return nil, fmt.Errorf("%w: access token expired", ErrNoSession)
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	res, err := c.auth("").RefreshToken(tok.RefreshToken)
	if err != nil {
		return nil, classify(err, ErrNoSession)
	}

	s := sessionFrom(res.Session, c.now())
	s.Refreshed = true
	c.l.Debug("refreshed session", &logger.LogContext{User: s.User})

	return s, nil
}

// GetUser returns the User accessToken belongs to.
// With a JWT secret configured, the token is verified locally;
// otherwise, the provider is asked.
func (c *Client) GetUser(ctx context.Context, accessToken string) (User, error) {
	if accessToken == "" {
		return User{}, ErrNoSession
	}

	if c.cfg.JWTSecret != "" {
		return parseClaims(c.parser, []byte(c.cfg.JWTSecret), accessToken)
	}

	if err := ctx.Err(); err != nil {
		return User{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	res, err := c.auth(accessToken).GetUser()
	if err != nil {
		return User{}, classify(err, ErrNoSession)
	}

	return userFrom(res.User), nil
}

// SignInWithPassword exchanges the credentials for a Session.
// Credentials the provider refuses return an error wrapping ErrRejected.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	res, err := c.auth("").SignInWithEmailPassword(email, password)
	if err != nil {
		return nil, classify(err, ErrRejected)
	}

	return sessionFrom(res.Session, c.now()), nil
}

// SignUp creates an account.
// Unless the provider requires email confirmation, the new user is also signed in.
func (c *Client) SignUp(ctx context.Context, email, password string) (SignUpResult, error) {
	if err := ctx.Err(); err != nil {
		return SignUpResult{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	res, err := c.auth("").Signup(types.SignupRequest{Email: email, Password: password})
	if err != nil {
		return SignUpResult{}, classify(err, ErrRejected)
	}

	result := SignUpResult{User: userFrom(res.User)}
	if res.Session.AccessToken != "" {
		result.Session = sessionFrom(res.Session, c.now())
		result.User = result.Session.User
	}

	return result, nil
}

// SignOut ends the session tok represents at the provider
// and denies tok's access token until it would have expired.
// A nil or empty tok is a no-op.
func (c *Client) SignOut(ctx context.Context, tok *oauth2.Token) error {
	if tok == nil || tok.AccessToken == "" {
		return nil
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	if err := c.auth(tok.AccessToken).Logout(); err != nil {
		return classify(err, ErrRejected)
	}

	if c.deny == nil {
		return nil
	}

	until := tok.Expiry
	if until.IsZero() {
		until = c.now().Add(DefaultRevocationTTL)
	}

	if err := c.deny.Revoke(ctx, tok.AccessToken, until); err != nil {
		c.l.Error("failed denying signed out token", &logger.LogContext{Error: err})
	}

	return nil
}

type headerTransport struct {
	base   http.RoundTripper
	header http.Header
}

// RoundTrip sets the headers on a clone of r.
func (t headerTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	r = r.Clone(r.Context())
	for k, v := range t.header {
		r.Header[k] = v
	}

	return t.base.RoundTrip(r)
}
