package playbook

type Key string

const (
	// CurrentUserKey stashes the active provider session for a request.
	CurrentUserKey Key = "CurrentUserKey"

	// IpAddrKey stashes the IP address of an HTTP request.
	IpAddrKey Key = "IpAddrKey"

	// RequestIDKey stashes a unique UUID for each HTTP request.
	RequestIDKey Key = "RequestIDKey"

	// SessionKey stashes the web session associated with an HTTP request.
	SessionKey Key = "SessionKey"
)

// Key returns the key so it can be used in a map[string].
func (k Key) Key() string { return string(k) }

// String formats the stringified key with additional contextual information
func (k Key) String() string {
	return "playbook context key: " + string(k)
}
