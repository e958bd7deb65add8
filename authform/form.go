package authform

import "strings"

// A SignInForm is what sign-in.html posts.
// JSON clients send email and password instead.
type SignInForm struct {
	Email    string `json:"email" schema:"signin-email" validate:"required"`
	Password string `json:"password" schema:"signin-password" validate:"required"`
	ReturnTo string `json:"returnTo" schema:"returnTo"`
}

// Normalize implements req.Normalizer.
// Passwords are kept as typed.
func (f *SignInForm) Normalize() { f.Email = strings.TrimSpace(f.Email) }

// A SignUpForm is what create-account.html posts.
type SignUpForm struct {
	Email    string `json:"email" schema:"signup-email" validate:"required"`
	Password string `json:"password" schema:"signup-password" validate:"required"`
}

// Normalize implements req.Normalizer.
func (f *SignUpForm) Normalize() { f.Email = strings.TrimSpace(f.Email) }
