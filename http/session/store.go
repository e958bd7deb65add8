package session

import (
	"encoding/gob"
	"encoding/hex"
	"fmt"
	"net/http"

	"github.com/boj/redistore"
	gorilla "github.com/gorilla/sessions"
	"github.com/tep-hq/playbook"
	"golang.org/x/oauth2"
)

const defaultMaxAge = 86400 // 1 day

// The SessionStorer defines methods for interacting with a Session for the given *http.Request.
type SessionStorer interface {
	GetSession(r *http.Request) (Session, error)
}

// A Service wraps a gorilla.Store to manage constructing a new one
// and accessing the sessions contained in it.
//
// Service implements SessionStorer.
type Service struct {
	// The authentication key.
	ak []byte

	// The encryption key.
	ek []byte

	// The name this Service's sessions are stored under.
	// Also used as the name of the cookie when WithCookie is used.
	sn string

	// The environment the Service is operating within.
	env playbook.Environment

	// The number of seconds a session is valid.
	maxAge int

	// how the Service actually implements storing sessions.
	store gorilla.Store
}

// A Config provides the required values
type Config struct {
	Env playbook.Environment

	// The name sessions are stored under.
	// Also used as the name of the cookie when WithCookie is used.
	SessionName string

	// Hex-encoded key
	AuthKey string

	// Hex-encoded key
	EncryptKey string
}

func validateConfig(c Config) error {
	if err := c.Env.Valid(); err != nil {
		return fmt.Errorf("%w: Env %q: %w", playbook.ErrBadConfig, c.Env, err)
	}

	if c.SessionName == "" {
		return fmt.Errorf("%w: SessionName cannot be %q", playbook.ErrBadConfig, c.SessionName)
	}

	return nil
}

// NewStoreService initiates a data store for user web sessions
// with the provided config.
// If no backing storage is provided through a functional option -
// like WithRedis - NewStoreService stores sessions in cookies.
func NewStoreService(cfg Config, opts ...ServiceOpt) (Service, error) {
	if err := validateConfig(cfg); err != nil {
		return Service{}, err
	}

	gob.Register(Flash{})
	gob.Register(oauth2.Token{})

	s := Service{
		env:    cfg.Env,
		maxAge: defaultMaxAge,
		sn:     cfg.SessionName,
	}

	var err error
	s.ak, err = hex.DecodeString(cfg.AuthKey)
	if err != nil || len(s.ak) == 0 {
		return Service{}, fmt.Errorf("%w: authentication key is not valid: %v", playbook.ErrBadConfig, err)
	}

	s.ek, err = hex.DecodeString(cfg.EncryptKey)
	if err != nil {
		return Service{}, fmt.Errorf("%w: encryption key is not valid: %s", playbook.ErrBadConfig, err)
	}

	switch len(s.ek) {
	case 0, 16, 24, 32:
	default:
		return Service{}, fmt.Errorf("%w: encryption key must be 16, 24 or 32 bytes", playbook.ErrBadConfig)
	}

	for _, opt := range opts {
		if err := opt(&s); err != nil {
			return Service{}, fmt.Errorf("%w: %s", playbook.ErrBadConfig, err)
		}
	}

	if s.store == nil {
		if err := WithCookie()(&s); err != nil {
			return Service{}, fmt.Errorf("%w: %s", playbook.ErrBadConfig, err)
		}
	}

	return s, nil
}

// GetSession retrieves the Session for the *http.Request,
// or creates a brand new one.
//
// A cookie that cannot be decoded, e.g., after rotating keys, yields a new Session alongside the error.
func (s Service) GetSession(r *http.Request) (Session, error) {
	session, err := s.store.Get(r, s.sn)
	return Session{s: session}, err
}

// A ServiceOpt configures the provided *Service,
// returning an error if unable to.
type ServiceOpt func(*Service) error

// keyPairs omits an empty encryption key so the cookie is signed but not encrypted.
func (s *Service) keyPairs() [][]byte {
	if len(s.ek) == 0 {
		return [][]byte{s.ak}
	}

	return [][]byte{s.ak, s.ek}
}

// WithCookie configures the Service to back session storage with cookies.
func WithCookie() ServiceOpt {
	return func(s *Service) error {
		c := gorilla.NewCookieStore(s.keyPairs()...)
		c.Options.Secure = s.env.SecureCookies()
		c.Options.HttpOnly = true
		c.Options.SameSite = http.SameSiteLaxMode
		c.MaxAge(s.maxAge)
		s.store = c
		return nil
	}
}

// WithMaxAge sets the time-to-live of a session.
//
// Call before other options so this value is available.
//
// Otherwise, the Service uses defaultMaxAge.
func WithMaxAge(secs int) ServiceOpt {
	return func(s *Service) error {
		if secs > 0 {
			s.maxAge = secs
		}

		return nil
	}
}

// WithRedis configures the Service to back session storage with Redis.
//
// To authenticate to the Redis server, provide pass, otherwise its zero-value is acceptable.
func WithRedis(addr, pass string) ServiceOpt {
	return func(s *Service) error {
		r, err := redistore.NewRediStore(10, "tcp", addr, pass, s.keyPairs()...)
		if err != nil {
			return fmt.Errorf("failed initializing Redis: %s", err)
		}

		r.Options.Secure = s.env.SecureCookies()
		r.Options.HttpOnly = true
		r.Options.SameSite = http.SameSiteLaxMode
		r.SetMaxAge(s.maxAge)
		s.store = r
		return nil
	}
}
