// Package auth contains authentication-related use cases.
package auth

import (
	"context"
	"errors"

	"github.com/dispatch-hub/backend/internal/application/adapter"
	"github.com/dispatch-hub/backend/internal/domain/entity"
	domainerror "github.com/dispatch-hub/backend/internal/domain/error"
)

// GetCurrentUserInput identifies the authenticated user.
type GetCurrentUserInput struct {
	UserID int
}

// GetCurrentUserOutput describes the authenticated user.
type GetCurrentUserOutput struct {
	UserID       int
	Username     string
	Role         entity.Role
	DispatcherID *int
	AreaID       *int
}

// GetCurrentUserUseCase loads the profile of the session owner.
type GetCurrentUserUseCase struct {
	repo adapter.AuthRepository
}

// NewGetCurrentUserUseCase creates a new GetCurrentUserUseCase instance.
func NewGetCurrentUserUseCase(repo adapter.AuthRepository) *GetCurrentUserUseCase {
	return &GetCurrentUserUseCase{
		repo: repo,
	}
}

// Execute performs the lookup.
func (uc *GetCurrentUserUseCase) Execute(ctx context.Context, input GetCurrentUserInput) (*GetCurrentUserOutput, error) {
	user, err := uc.repo.FindUserByID(ctx, input.UserID)
	if err != nil {
		if errors.Is(err, domainerror.ErrUserNotFound) {
			return nil, domainerror.NewAuthError(
				domainerror.KindNotFound,
				domainerror.ErrCodeUserNotFound,
				"user not found",
				err,
			)
		}
		return nil, domainerror.NewInternalError("failed to find user", err)
	}

	output := &GetCurrentUserOutput{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
	}
	if !user.Role.IsDispatcher() {
		return output, nil
	}

	dispatcher, err := findDispatcher(ctx, uc.repo, user)
	if err != nil {
		return nil, err
	}
	dispatcherID, areaID := dispatcher.ID, dispatcher.AreaID
	output.DispatcherID = &dispatcherID
	output.AreaID = &areaID
	return output, nil
}
