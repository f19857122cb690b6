// Package auth contains authentication-related use cases.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/dispatch-hub/backend/internal/application/adapter"
	"github.com/dispatch-hub/backend/internal/domain/entity"
	domainerror "github.com/dispatch-hub/backend/internal/domain/error"
)

// RegisterUserInput represents the input for user registration.
type RegisterUserInput struct {
	Username string
	Password string
	Role     string
	AreaID   *int
}

// RegisterUserUseCase handles user registration logic.
type RegisterUserUseCase struct {
	repo            adapter.AuthRepository
	passwordService adapter.PasswordService
	tokenService    adapter.SessionTokenService
	runner          adapter.TaskRunner
}

// NewRegisterUserUseCase creates a new RegisterUserUseCase instance.
func NewRegisterUserUseCase(
	repo adapter.AuthRepository,
	passwordService adapter.PasswordService,
	tokenService adapter.SessionTokenService,
	runner adapter.TaskRunner,
) *RegisterUserUseCase {
	return &RegisterUserUseCase{
		repo:            repo,
		passwordService: passwordService,
		tokenService:    tokenService,
		runner:          runner,
	}
}

// Execute performs the user registration.
func (uc *RegisterUserUseCase) Execute(ctx context.Context, input RegisterUserInput) (*LoginResponse, error) {
	if strings.TrimSpace(input.Username) == "" || input.Password == "" {
		return nil, domainerror.NewAuthError(
			domainerror.KindBadRequest,
			domainerror.ErrCodeMissingFields,
			"username and password are required",
			nil,
		)
	}

	role, err := entity.ParseRole(input.Role)
	if err != nil {
		return nil, domainerror.NewAuthError(
			domainerror.KindBadRequest,
			domainerror.ErrCodeInvalidRole,
			"role must be either user or dispatcher",
			fmt.Errorf("%w: %s", domainerror.ErrInvalidRole, err.Error()),
		)
	}

	// Validate dispatcher area before touching the repository
	if role.IsDispatcher() && input.AreaID == nil {
		return nil, domainerror.NewAuthError(
			domainerror.KindBadRequest,
			domainerror.ErrCodeMissingArea,
			"area_id is required for dispatchers",
			domainerror.ErrMissingArea,
		)
	}

	passwordHash, err := uc.checkAvailabilityAndHash(ctx, input.Username, input.Password)
	if err != nil {
		return nil, err
	}

	// The unique index on username is the final arbiter
	user, dispatcher, err := uc.createAccount(ctx, input.Username, passwordHash, role, input.AreaID)
	if err != nil {
		if errors.Is(err, domainerror.ErrUsernameAlreadyExists) {
			return nil, usernameTaken()
		}
		return nil, domainerror.NewInternalError("failed to create user", err)
	}
	if role.IsDispatcher() && dispatcher == nil {
		return nil, missingDispatcher(user.ID)
	}

	// The session is created last so a failed registration never leaves one behind
	sessionToken, err := uc.tokenService.GenerateSessionToken()
	if err != nil {
		return nil, domainerror.NewInternalError("failed to generate session token", err)
	}

	if err := uc.repo.CreateSession(ctx, user.ID, sessionToken); err != nil {
		return nil, domainerror.NewInternalError("failed to create session", err)
	}

	return newLoginResponse(user, sessionToken, dispatcher), nil
}

// createAccount stores the user, and for dispatchers the dispatcher record in the same write.
func (uc *RegisterUserUseCase) createAccount(ctx context.Context, username, passwordHash string, role entity.Role, areaID *int) (*entity.User, *entity.Dispatcher, error) {
	if role.IsDispatcher() {
		return uc.repo.CreateDispatcherUser(ctx, username, passwordHash, *areaID)
	}
	user, err := uc.repo.CreateUser(ctx, username, passwordHash, role)
	return user, nil, err
}

// checkAvailabilityAndHash looks up the username while the password is hashed
// on the worker pool. A taken username cancels the pending hash.
func (uc *RegisterUserUseCase) checkAvailabilityAndHash(ctx context.Context, username, password string) (string, error) {
	var passwordHash string

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := uc.repo.FindUserByUsername(gctx, username)
		switch {
		case err == nil:
			return domainerror.ErrUsernameAlreadyExists
		case errors.Is(err, domainerror.ErrUserNotFound):
			return nil
		default:
			return fmt.Errorf("failed to check username availability: %w", err)
		}
	})
	g.Go(func() error {
		return uc.runner.Run(gctx, func() error {
			hash, err := uc.passwordService.HashPassword(password)
			if err != nil {
				return fmt.Errorf("failed to hash password: %w", err)
			}
			passwordHash = hash
			return nil
		})
	})

	if err := g.Wait(); err != nil {
		if errors.Is(err, domainerror.ErrUsernameAlreadyExists) {
			return "", usernameTaken()
		}
		return "", domainerror.NewInternalError("failed to prepare registration", err)
	}
	return passwordHash, nil
}

func usernameTaken() error {
	return domainerror.NewAuthError(
		domainerror.KindConflict,
		domainerror.ErrCodeUsernameExists,
		"username already exists",
		domainerror.ErrUsernameAlreadyExists,
	)
}
