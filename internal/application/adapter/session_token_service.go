// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

// SessionTokenService generates opaque session tokens.
type SessionTokenService interface {
	// GenerateSessionToken returns a new unguessable token.
	GenerateSessionToken() (string, error)
}
