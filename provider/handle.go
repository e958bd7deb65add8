package provider

import (
	"context"
	"sync"

	"golang.org/x/oauth2"
)

// A Handle lazily constructs the application's single *Client.
type Handle struct {
	mu       sync.Mutex
	resolver Resolver
	opts     []ClientOpt
	client   *Client
}

// NewHandle constructs a *Handle resolving its Config with r.
func NewHandle(r Resolver, opts ...ClientOpt) *Handle {
	return &Handle{resolver: r, opts: opts}
}

// Client returns the *Client, constructing it on first success.
// Every later call returns the same *Client.
// Missing or malformed configuration returns an error wrapping playbook.ErrBadConfig.
func (h *Handle) Client() (*Client, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.client != nil {
		return h.client, nil
	}

	cfg, err := h.resolver.Resolve()
	if err != nil {
		return nil, err
	}

	c, err := NewClient(cfg, h.opts...)
	if err != nil {
		return nil, err
	}

	h.client = c
	return h.client, nil
}

// GetSession implements Provider.
func (h *Handle) GetSession(ctx context.Context, tok *oauth2.Token) (*Session, error) {
	c, err := h.Client()
	if err != nil {
		return nil, err
	}

	return c.GetSession(ctx, tok)
}

// GetUser implements Provider.
func (h *Handle) GetUser(ctx context.Context, accessToken string) (User, error) {
	c, err := h.Client()
	if err != nil {
		return User{}, err
	}

	return c.GetUser(ctx, accessToken)
}

// SignInWithPassword implements Provider.
func (h *Handle) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	c, err := h.Client()
	if err != nil {
		return nil, err
	}

	return c.SignInWithPassword(ctx, email, password)
}

// SignUp implements Provider.
func (h *Handle) SignUp(ctx context.Context, email, password string) (SignUpResult, error) {
	c, err := h.Client()
	if err != nil {
		return SignUpResult{}, err
	}

	return c.SignUp(ctx, email, password)
}

// SignOut implements Provider.
func (h *Handle) SignOut(ctx context.Context, tok *oauth2.Token) error {
	c, err := h.Client()
	if err != nil {
		return err
	}

	return c.SignOut(ctx, tok)
}
