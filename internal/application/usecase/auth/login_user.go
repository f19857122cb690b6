// Package auth contains authentication-related use cases.
package auth

import (
	"context"
	"errors"

	"github.com/dispatch-hub/backend/internal/application/adapter"
	"github.com/dispatch-hub/backend/internal/domain/entity"
	domainerror "github.com/dispatch-hub/backend/internal/domain/error"
)

// LoginUserInput represents the input for user login.
type LoginUserInput struct {
	Username string
	Password string
}

// LoginUserUseCase handles user login logic.
type LoginUserUseCase struct {
	repo            adapter.AuthRepository
	passwordService adapter.PasswordService
	tokenService    adapter.SessionTokenService
	runner          adapter.TaskRunner
}

// NewLoginUserUseCase creates a new LoginUserUseCase instance.
func NewLoginUserUseCase(
	repo adapter.AuthRepository,
	passwordService adapter.PasswordService,
	tokenService adapter.SessionTokenService,
	runner adapter.TaskRunner,
) *LoginUserUseCase {
	return &LoginUserUseCase{
		repo:            repo,
		passwordService: passwordService,
		tokenService:    tokenService,
		runner:          runner,
	}
}

// Execute performs the user login. Every successful call opens a new session;
// earlier sessions of the same user stay valid.
func (uc *LoginUserUseCase) Execute(ctx context.Context, input LoginUserInput) (*LoginResponse, error) {
	user, err := uc.repo.FindUserByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, domainerror.ErrUserNotFound) {
			return nil, invalidCredentials()
		}
		return nil, domainerror.NewInternalError("failed to find user", err)
	}

	// Verify password on the worker pool
	var valid bool
	err = uc.runner.Run(ctx, func() error {
		ok, err := uc.passwordService.VerifyPassword(user.PasswordHash, input.Password)
		valid = ok
		return err
	})
	if err != nil {
		return nil, domainerror.NewInternalError("failed to verify password", err)
	}
	if !valid {
		return nil, invalidCredentials()
	}

	sessionToken, err := uc.tokenService.GenerateSessionToken()
	if err != nil {
		return nil, domainerror.NewInternalError("failed to generate session token", err)
	}

	if err := uc.repo.CreateSession(ctx, user.ID, sessionToken); err != nil {
		return nil, domainerror.NewInternalError("failed to create session", err)
	}

	if !user.Role.IsDispatcher() {
		return newLoginResponse(user, sessionToken, nil), nil
	}

	dispatcher, err := findDispatcher(ctx, uc.repo, user)
	if err != nil {
		return nil, err
	}
	return newLoginResponse(user, sessionToken, dispatcher), nil
}

// findDispatcher loads the dispatcher record of a dispatcher-role user.
// Its absence is an invariant violation, not a caller error.
func findDispatcher(ctx context.Context, repo adapter.DispatcherRepository, user *entity.User) (*entity.Dispatcher, error) {
	dispatcher, err := repo.FindDispatcherByUserID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, domainerror.ErrDispatcherNotFound) {
			return nil, missingDispatcher(user.ID)
		}
		return nil, domainerror.NewInternalError("failed to find dispatcher", err)
	}
	return dispatcher, nil
}
