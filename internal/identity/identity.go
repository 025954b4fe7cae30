// Package identity wraps the external identity providers. It verifies bearer
// tokens and fetches the caller's profile; it never touches the local store.
package identity

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	// ErrInvalidToken is returned for tokens that fail verification.
	ErrInvalidToken = errors.New("invalid or expired token")
	// ErrUnknownUser is returned when the provider has no record of the uid.
	ErrUnknownUser = errors.New("user unknown to identity provider")
)

// Identity is the verified caller of a request.
type Identity struct {
	UID   string
	Email string
	Name  string
	// Claims holds the raw token claims for providers that carry the profile
	// inside the token.
	Claims map[string]any
}

// Profile is the caller's profile as known to the identity provider.
type Profile struct {
	UID         string
	Email       string
	DisplayName string
	FirstName   string
	LastName    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Verifier checks a bearer token and returns the identity it proves.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

// ProfileSource fetches the external profile of a verified identity.
type ProfileSource interface {
	Profile(ctx context.Context, id *Identity) (*Profile, error)
}

// Provider is an identity provider that can do both.
type Provider interface {
	Verifier
	ProfileSource
}

// splitName splits a display name into first and last name on the first run
// of whitespace.
func splitName(displayName string) (first, last string) {
	fields := strings.Fields(displayName)
	switch len(fields) {
	case 0:
		return "", ""
	case 1:
		return fields[0], ""
	default:
		return fields[0], strings.Join(fields[1:], " ")
	}
}
