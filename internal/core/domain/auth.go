package domain

// AuthMethod identifies how API requests are authenticated.
type AuthMethod string

// Supported authentication methods.
const (
	// AuthMethodPAT uses a personal access token.
	AuthMethodPAT AuthMethod = "pat"

	// AuthMethodNone sends unauthenticated requests.
	AuthMethodNone AuthMethod = "none"
)

// String returns the string representation.
func (m AuthMethod) String() string {
	return string(m)
}
