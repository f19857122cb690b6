// Package auth contains authentication-related use cases.
package auth

import (
	"fmt"

	"github.com/dispatch-hub/backend/internal/domain/entity"
	domainerror "github.com/dispatch-hub/backend/internal/domain/error"
)

// LoginResponse is returned by registration and login.
// DispatcherID and AreaID are set only for dispatcher-role users.
type LoginResponse struct {
	UserID       int
	Username     string
	SessionToken string
	Role         entity.Role
	DispatcherID *int
	AreaID       *int
}

func newLoginResponse(user *entity.User, sessionToken string, dispatcher *entity.Dispatcher) *LoginResponse {
	resp := &LoginResponse{
		UserID:       user.ID,
		Username:     user.Username,
		SessionToken: sessionToken,
		Role:         user.Role,
	}
	if dispatcher != nil {
		dispatcherID, areaID := dispatcher.ID, dispatcher.AreaID
		resp.DispatcherID = &dispatcherID
		resp.AreaID = &areaID
	}
	return resp
}

// invalidCredentials is shared by every login failure caused by caller input,
// so unknown usernames and wrong passwords are indistinguishable.
func invalidCredentials() error {
	return domainerror.NewAuthError(
		domainerror.KindUnauthorized,
		domainerror.ErrCodeInvalidCredentials,
		"invalid username or password",
		domainerror.ErrInvalidCredentials,
	)
}

func missingDispatcher(userID int) error {
	return domainerror.NewInternalError(
		fmt.Sprintf("dispatcher record missing for user %d", userID),
		domainerror.ErrMissingDispatcher,
	)
}
