// Package auth contains authentication-related use cases.
package auth

import (
	"context"
	"errors"

	"github.com/dispatch-hub/backend/internal/application/adapter"
	domainerror "github.com/dispatch-hub/backend/internal/domain/error"
)

// ValidateSessionInput represents the input for session validation.
type ValidateSessionInput struct {
	SessionToken string
}

// ValidateSessionOutput reports the stored validity flag of a session.
type ValidateSessionOutput struct {
	Valid  bool
	UserID int
}

// ValidateSessionUseCase handles session validation logic.
type ValidateSessionUseCase struct {
	sessions adapter.SessionRepository
}

// NewValidateSessionUseCase creates a new ValidateSessionUseCase instance.
func NewValidateSessionUseCase(sessions adapter.SessionRepository) *ValidateSessionUseCase {
	return &ValidateSessionUseCase{
		sessions: sessions,
	}
}

// Execute looks up the session. An unknown token is a failure, distinct from
// a session whose validity flag is false.
func (uc *ValidateSessionUseCase) Execute(ctx context.Context, input ValidateSessionInput) (*ValidateSessionOutput, error) {
	if input.SessionToken == "" {
		return nil, domainerror.NewAuthError(
			domainerror.KindBadRequest,
			domainerror.ErrCodeMissingToken,
			"session token is required",
			nil,
		)
	}

	session, err := uc.sessions.FindSessionByToken(ctx, input.SessionToken)
	if err != nil {
		if errors.Is(err, domainerror.ErrSessionNotFound) {
			return nil, sessionNotFound()
		}
		return nil, domainerror.NewInternalError("failed to find session", err)
	}

	return &ValidateSessionOutput{
		Valid:  session.IsValid,
		UserID: session.UserID,
	}, nil
}

func sessionNotFound() error {
	return domainerror.NewAuthError(
		domainerror.KindUnauthorized,
		domainerror.ErrCodeSessionNotFound,
		"session not found",
		domainerror.ErrSessionNotFound,
	)
}
