package session

import (
	"net/http"

	gorilla "github.com/gorilla/sessions"
	"golang.org/x/oauth2"
)

const (
	// ReturnToKey is where the page to come back to after signing in is kept.
	ReturnToKey = "returnTo"

	tokenKey = "playbook-token"
)

// The Sessionable wraps methods for basic adding values to, deleting, and getting values from a session
// associated with an *http.Request and saving those to the session store.
type Sessionable interface {
	Delete(w http.ResponseWriter, r *http.Request) error
	Get(key string) any
	Save(w http.ResponseWriter, r *http.Request) error
	Set(w http.ResponseWriter, r *http.Request, key string, val any) error
}

// The TokenSessionable wraps methods for keeping the provider's tokens in a session.
type TokenSessionable interface {
	DeregisterTokens(w http.ResponseWriter, r *http.Request) error
	RegisterTokens(w http.ResponseWriter, r *http.Request, tok *oauth2.Token) error
	Tokens() (*oauth2.Token, error)
}

// The ReturnToSessionable wraps methods for remembering where to go after signing in.
type ReturnToSessionable interface {
	ClearReturnTo(w http.ResponseWriter, r *http.Request) error
	ReturnTo() string
	SetReturnTo(w http.ResponseWriter, r *http.Request, loc string) error
}

// The PlaybookSessionable composes session's major interfaces.
type PlaybookSessionable interface {
	FlashSessionable
	ReturnToSessionable
	Sessionable
	TokenSessionable
}

// A Session lightly wraps a gorilla.Session.
type Session struct {
	s *gorilla.Session
}

var _ PlaybookSessionable = Session{}

// NewSession constructs a Session from g.
func NewSession(g *gorilla.Session) Session { return Session{s: g} }

// ClearFlashes drops any unread flashes.
func (s Session) ClearFlashes(w http.ResponseWriter, r *http.Request) { _ = s.Flashes(w, r) }

// ClearReturnTo forgets the stored return location.
func (s Session) ClearReturnTo(w http.ResponseWriter, r *http.Request) error {
	if _, ok := s.s.Values[ReturnToKey]; !ok {
		return nil
	}

	delete(s.s.Values, ReturnToKey)
	return s.Save(w, r)
}

// Delete removes a session by making the MaxAge negative.
func (s Session) Delete(w http.ResponseWriter, r *http.Request) error {
	s.s.Options.MaxAge = -1
	return s.Save(w, r)
}

// DeregisterTokens removes the provider's tokens from the session.
func (s Session) DeregisterTokens(w http.ResponseWriter, r *http.Request) error {
	delete(s.s.Values, tokenKey)
	return s.Save(w, r)
}

// Flashes retrieves []Flash stored in the session.
func (s Session) Flashes(w http.ResponseWriter, r *http.Request) []Flash {
	raw := s.s.Flashes()
	fs := make([]Flash, 0, len(raw))
	for _, r := range raw {
		f, ok := r.(Flash)
		if !ok {
			continue
		}

		fs = append(fs, f)
	}

	if len(raw) > 0 {
		// NOTE: flashes are removed once read but only dropped from the store on save
		if err := s.Save(w, r); err != nil {
			return nil
		}
	}

	return fs
}

// Get retrieves a value from the session according to the key passed in.
func (s Session) Get(key string) any { return s.s.Values[key] }

// RegisterTokens stores the provider's tokens in the session.
func (s Session) RegisterTokens(w http.ResponseWriter, r *http.Request, tok *oauth2.Token) error {
	if tok == nil || tok.AccessToken == "" {
		return ErrNotValid
	}

	s.s.Values[tokenKey] = oauth2.Token{
		AccessToken:  tok.AccessToken,
		TokenType:    tok.TokenType,
		RefreshToken: tok.RefreshToken,
		Expiry:       tok.Expiry,
	}

	return s.Save(w, r)
}

// ReturnTo is the stored return location or an empty string.
func (s Session) ReturnTo() string {
	loc, _ := s.s.Values[ReturnToKey].(string)
	return loc
}

// Save wraps gorilla.Session.Save, saving the session in the request.
func (s Session) Save(w http.ResponseWriter, r *http.Request) error { return s.s.Save(r, w) }

// Set stores a value according to the key passed in on the session.
func (s Session) Set(w http.ResponseWriter, r *http.Request, key string, val any) error {
	s.s.Values[key] = val
	return s.Save(w, r)
}

// SetFlash stores the passed in Flash in the session.
func (s Session) SetFlash(w http.ResponseWriter, r *http.Request, flash Flash) error {
	s.s.AddFlash(flash)
	return s.Save(w, r)
}

// SetReturnTo stores loc as the place to return to after signing in.
// The last write wins.
func (s Session) SetReturnTo(w http.ResponseWriter, r *http.Request, loc string) error {
	return s.Set(w, r, ReturnToKey, loc)
}

// Tokens gets the provider's tokens out of the session.
// Without any, ErrNoToken returns.
//
// If the stored value is not a token, ErrNotValid is returned and represents a programming error.
func (s Session) Tokens() (*oauth2.Token, error) {
	val, ok := s.s.Values[tokenKey]
	if !ok {
		return nil, ErrNoToken
	}

	tok, ok := val.(oauth2.Token)
	if !ok {
		return nil, ErrNotValid
	}

	return &tok, nil
}
