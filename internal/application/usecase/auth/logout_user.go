// Package auth contains authentication-related use cases.
package auth

import (
	"context"
	"errors"

	"github.com/dispatch-hub/backend/internal/application/adapter"
	domainerror "github.com/dispatch-hub/backend/internal/domain/error"
)

// LogoutUserInput represents the input for user logout.
type LogoutUserInput struct {
	SessionToken string
}

// LogoutUserOutput represents the output of user logout.
type LogoutUserOutput struct {
	Message string
}

// LogoutUserUseCase handles user logout logic.
type LogoutUserUseCase struct {
	sessions adapter.SessionRepository
}

// NewLogoutUserUseCase creates a new LogoutUserUseCase instance.
func NewLogoutUserUseCase(sessions adapter.SessionRepository) *LogoutUserUseCase {
	return &LogoutUserUseCase{
		sessions: sessions,
	}
}

// Execute performs the user logout by deleting the session. Whether deleting
// an unknown token is an error is decided by the repository.
func (uc *LogoutUserUseCase) Execute(ctx context.Context, input LogoutUserInput) (*LogoutUserOutput, error) {
	if input.SessionToken == "" {
		return nil, domainerror.NewAuthError(
			domainerror.KindBadRequest,
			domainerror.ErrCodeMissingToken,
			"session token is required",
			nil,
		)
	}

	if err := uc.sessions.DeleteSession(ctx, input.SessionToken); err != nil {
		if errors.Is(err, domainerror.ErrSessionNotFound) {
			return nil, sessionNotFound()
		}
		return nil, domainerror.NewInternalError("failed to delete session", err)
	}

	return &LogoutUserOutput{
		Message: "Successfully logged out",
	}, nil
}
