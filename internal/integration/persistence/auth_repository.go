// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"gorm.io/gorm"

	"github.com/dispatch-hub/backend/internal/application/adapter"
	"github.com/dispatch-hub/backend/internal/domain/entity"
	domainerror "github.com/dispatch-hub/backend/internal/domain/error"
	"github.com/dispatch-hub/backend/internal/integration/persistence/model"
)

// authRepository implements the adapter.AuthRepository interface.
type authRepository struct {
	db *gorm.DB
}

// NewAuthRepository creates a new auth repository instance.
func NewAuthRepository(db *gorm.DB) adapter.AuthRepository {
	return &authRepository{
		db: db,
	}
}

// CreateUser inserts a user and returns it with its generated ID.
func (r *authRepository) CreateUser(ctx context.Context, username, passwordHash string, role entity.Role) (*entity.User, error) {
	userModel := &model.UserModel{
		Username:     username,
		PasswordHash: passwordHash,
		Role:         string(role),
	}
	result := r.db.WithContext(ctx).Create(userModel)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return nil, domainerror.ErrUsernameAlreadyExists
		}
		return nil, result.Error
	}
	return userModel.ToEntity(), nil
}

// FindUserByID retrieves a user by their ID.
func (r *authRepository) FindUserByID(ctx context.Context, id int) (*entity.User, error) {
	var userModel model.UserModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&userModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrUserNotFound
		}
		return nil, result.Error
	}
	return userModel.ToEntity(), nil
}

// FindUserByUsername retrieves a user by their username.
func (r *authRepository) FindUserByUsername(ctx context.Context, username string) (*entity.User, error) {
	var userModel model.UserModel
	result := r.db.WithContext(ctx).Where("username = ?", username).First(&userModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrUserNotFound
		}
		return nil, result.Error
	}
	return userModel.ToEntity(), nil
}

// CreateDispatcher inserts the dispatcher record of a user.
func (r *authRepository) CreateDispatcher(ctx context.Context, userID, areaID int) (*entity.Dispatcher, error) {
	dispatcherModel := &model.DispatcherModel{
		UserID: userID,
		AreaID: areaID,
	}
	if err := r.db.WithContext(ctx).Create(dispatcherModel).Error; err != nil {
		return nil, err
	}
	return dispatcherModel.ToEntity(), nil
}

// CreateDispatcherUser inserts a dispatcher user and its dispatcher record in one transaction.
func (r *authRepository) CreateDispatcherUser(ctx context.Context, username, passwordHash string, areaID int) (*entity.User, *entity.Dispatcher, error) {
	userModel := &model.UserModel{
		Username:     username,
		PasswordHash: passwordHash,
		Role:         string(entity.RoleDispatcher),
	}
	dispatcherModel := &model.DispatcherModel{AreaID: areaID}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(userModel).Error; err != nil {
			if isUniqueViolation(err) {
				return domainerror.ErrUsernameAlreadyExists
			}
			return err
		}
		dispatcherModel.UserID = userModel.ID
		return tx.Create(dispatcherModel).Error
	})
	if err != nil {
		return nil, nil, err
	}
	return userModel.ToEntity(), dispatcherModel.ToEntity(), nil
}

// FindDispatcherByID retrieves a dispatcher by its ID.
func (r *authRepository) FindDispatcherByID(ctx context.Context, id int) (*entity.Dispatcher, error) {
	return r.findDispatcher(ctx, "id = ?", id)
}

// FindDispatcherByUserID retrieves the dispatcher owned by a user.
func (r *authRepository) FindDispatcherByUserID(ctx context.Context, userID int) (*entity.Dispatcher, error) {
	return r.findDispatcher(ctx, "user_id = ?", userID)
}

func (r *authRepository) findDispatcher(ctx context.Context, query string, arg int) (*entity.Dispatcher, error) {
	var dispatcherModel model.DispatcherModel
	result := r.db.WithContext(ctx).Where(query, arg).First(&dispatcherModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrDispatcherNotFound
		}
		return nil, result.Error
	}
	return dispatcherModel.ToEntity(), nil
}

// FindProfileImageNameByUserID returns the stored image file name of a user.
// Only bare file names are accepted so the result can be joined onto the image root.
func (r *authRepository) FindProfileImageNameByUserID(ctx context.Context, userID int) (string, error) {
	var userModel model.UserModel
	result := r.db.WithContext(ctx).Select("id", "profile_image").Where("id = ?", userID).First(&userModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return "", domainerror.ErrUserNotFound
		}
		return "", result.Error
	}

	if userModel.ProfileImage == nil || strings.TrimSpace(*userModel.ProfileImage) == "" {
		return "", domainerror.ErrProfileImageNotFound
	}

	name := *userModel.ProfileImage
	if !isPlainFileName(name) {
		return "", domainerror.ErrInvalidProfileImageName
	}
	return name, nil
}

// CreateSession stores a new valid session for the user.
func (r *authRepository) CreateSession(ctx context.Context, userID int, token string) error {
	sessionModel := &model.SessionModel{
		SessionToken: token,
		UserID:       userID,
		IsValid:      true,
	}
	return r.db.WithContext(ctx).Create(sessionModel).Error
}

// DeleteSession removes the session with the given token. Unknown tokens are a no-op.
func (r *authRepository) DeleteSession(ctx context.Context, token string) error {
	return r.db.WithContext(ctx).
		Where("session_token = ?", token).
		Delete(&model.SessionModel{}).Error
}

// FindSessionByToken retrieves a session by its token.
func (r *authRepository) FindSessionByToken(ctx context.Context, token string) (*entity.Session, error) {
	var sessionModel model.SessionModel
	result := r.db.WithContext(ctx).Where("session_token = ?", token).First(&sessionModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrSessionNotFound
		}
		return nil, result.Error
	}
	return sessionModel.ToEntity(), nil
}

func isPlainFileName(name string) bool {
	if name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return false
	}
	return filepath.Base(name) == name && !filepath.IsAbs(name)
}

// isUniqueViolation reports duplicate key errors. Both drivers translate them
// to gorm.ErrDuplicatedKey when the connection is opened with TranslateError.
func isUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
