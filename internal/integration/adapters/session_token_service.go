package adapters

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/dispatch-hub/backend/internal/application/adapter"
)

const sessionTokenBytes = 32

type sessionTokenService struct{}

// NewSessionTokenService creates a generator of random hex session tokens.
func NewSessionTokenService() adapter.SessionTokenService {
	return &sessionTokenService{}
}

// GenerateSessionToken returns 32 random bytes, hex encoded.
func (s *sessionTokenService) GenerateSessionToken() (string, error) {
	tokenBytes := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", fmt.Errorf("failed to generate random token: %w", err)
	}
	return hex.EncodeToString(tokenBytes), nil
}
