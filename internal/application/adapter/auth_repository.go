// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/dispatch-hub/backend/internal/domain/entity"
)

// UserRepository defines the interface for user persistence operations.
type UserRepository interface {
	// CreateUser stores a new user and returns it with its generated ID.
	// A taken username yields domainerror.ErrUsernameAlreadyExists.
	CreateUser(ctx context.Context, username, passwordHash string, role entity.Role) (*entity.User, error)

	// FindUserByID retrieves a user by their ID.
	FindUserByID(ctx context.Context, id int) (*entity.User, error)

	// FindUserByUsername retrieves a user by their username.
	FindUserByUsername(ctx context.Context, username string) (*entity.User, error)
}

// DispatcherRepository defines the interface for dispatcher persistence operations.
type DispatcherRepository interface {
	// CreateDispatcher stores a dispatcher record for a user and returns it with its ID.
	CreateDispatcher(ctx context.Context, userID, areaID int) (*entity.Dispatcher, error)

	// CreateDispatcherUser stores a dispatcher-role user and its dispatcher record
	// atomically. Either both rows are stored or neither is.
	// A taken username yields domainerror.ErrUsernameAlreadyExists.
	CreateDispatcherUser(ctx context.Context, username, passwordHash string, areaID int) (*entity.User, *entity.Dispatcher, error)

	// FindDispatcherByID retrieves a dispatcher by its ID.
	FindDispatcherByID(ctx context.Context, id int) (*entity.Dispatcher, error)

	// FindDispatcherByUserID retrieves the dispatcher owned by a user.
	FindDispatcherByUserID(ctx context.Context, userID int) (*entity.Dispatcher, error)
}

// ProfileImageRepository resolves stored profile image references.
type ProfileImageRepository interface {
	// FindProfileImageNameByUserID returns the stored file name for a user's image.
	// Names that are not a single path element must be rejected here.
	FindProfileImageNameByUserID(ctx context.Context, userID int) (string, error)
}

// SessionRepository defines the interface for session persistence operations.
type SessionRepository interface {
	// CreateSession stores a valid session for the user.
	CreateSession(ctx context.Context, userID int, token string) error

	// DeleteSession removes the session matching the token.
	DeleteSession(ctx context.Context, token string) error

	// FindSessionByToken retrieves a session by its token.
	FindSessionByToken(ctx context.Context, token string) (*entity.Session, error)
}

// AuthRepository is the full persistence capability the auth use cases depend on.
type AuthRepository interface {
	UserRepository
	DispatcherRepository
	ProfileImageRepository
	SessionRepository
}
