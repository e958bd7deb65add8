package authform

import (
	"net/http"
	"net/url"
	"strings"
)

// Sanitize reports whether raw is a same-site location safe to redirect to,
// returning it rooted at "/".
// Absolute URLs, scheme-relative URLs and anything carrying backslashes or control characters are refused.
func Sanitize(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.HasPrefix(raw, "//") || strings.ContainsAny(raw, "\\\r\n\t") {
		return "", false
	}

	u, err := url.Parse(raw)
	if err != nil || u.Scheme != "" || u.Host != "" || u.Opaque != "" || u.User != nil {
		return "", false
	}

	if !strings.HasPrefix(raw, "/") {
		raw = "/" + raw
	}

	return raw, true
}

// firstSafe returns the first candidate Sanitize accepts.
func firstSafe(candidates ...string) (string, bool) {
	for _, c := range candidates {
		if loc, ok := Sanitize(c); ok {
			return loc, true
		}
	}

	return "", false
}

// referrer is the same-site page r was submitted from.
func referrer(r *http.Request) (string, bool) {
	u, err := url.Parse(r.Referer())
	if err != nil || u.Host != r.Host {
		return "", false
	}

	loc := u.EscapedPath()
	if u.RawQuery != "" {
		loc += "?" + u.RawQuery
	}

	return Sanitize(loc)
}
