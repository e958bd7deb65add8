package provider

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/supabase-community/gotrue-go/types"
	"golang.org/x/oauth2"
)

// A User is who the provider says a Session belongs to.
type User struct {
	ID    uuid.UUID
	Email string
}

// GetID implements logger.LogUser.
func (u User) GetID() string {
	if u.ID == uuid.Nil {
		return ""
	}

	return u.ID.String()
}

// GetEmail implements logger.LogUser.
func (u User) GetEmail() string { return u.Email }

// A Session is the provider's token bundle.
type Session struct {
	Token *oauth2.Token
	User  User

	// Refreshed is set when GetSession exchanged an expired access token;
	// the caller ought to persist the new Token.
	Refreshed bool
}

// GetID implements logger.LogUser.
func (s *Session) GetID() string { return s.User.GetID() }

// GetEmail implements logger.LogUser.
func (s *Session) GetEmail() string { return s.User.GetEmail() }

// A SignUpResult is what the provider returns when creating an account.
type SignUpResult struct {
	User User

	// Session is nil unless the provider authenticated the new user immediately,
	// i.e., email confirmation is disabled.
	Session *Session
}

// Authenticated asserts whether the provider signed the new user in right away.
func (r SignUpResult) Authenticated() bool { return r.Session != nil }

// Claims are the claims the provider puts in an access token.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Role  string `json:"role"`
}

func userFrom(u types.User) User {
	return User{ID: u.ID, Email: u.Email}
}

func sessionFrom(s types.Session, now time.Time) *Session {
	tok := &oauth2.Token{
		AccessToken:  s.AccessToken,
		TokenType:    s.TokenType,
		RefreshToken: s.RefreshToken,
	}

	switch {
	case s.ExpiresAt > 0:
		tok.Expiry = time.Unix(s.ExpiresAt, 0)
	case s.ExpiresIn > 0:
		tok.Expiry = now.Add(time.Duration(s.ExpiresIn) * time.Second)
	}

	return &Session{Token: tok, User: userFrom(s.User)}
}

// parseClaims verifies the access token with secret and returns the User it names.
func parseClaims(parser *jwt.Parser, secret []byte, accessToken string) (User, error) {
	claims := new(Claims)
	_, err := parser.ParseWithClaims(accessToken, claims, func(*jwt.Token) (any, error) {
		return secret, nil
	})
	if err != nil {
		return User{}, fmt.Errorf("%w: %s", ErrNoSession, err)
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return User{}, fmt.Errorf("%w: subject %q is not a user ID", ErrNoSession, claims.Subject)
	}

	return User{ID: id, Email: claims.Email}, nil
}
