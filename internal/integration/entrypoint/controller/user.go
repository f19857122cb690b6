package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dispatch-hub/backend/internal/application/usecase/auth"
	domainerror "github.com/dispatch-hub/backend/internal/domain/error"
	"github.com/dispatch-hub/backend/internal/integration/entrypoint/dto"
	"github.com/dispatch-hub/backend/internal/integration/entrypoint/middleware"
)

// UserController handles user endpoints.
type UserController struct {
	currentUserUseCase  *auth.GetCurrentUserUseCase
	profileImageUseCase *auth.GetProfileImageUseCase
}

// NewUserController creates a new user controller instance.
func NewUserController(
	currentUserUseCase *auth.GetCurrentUserUseCase,
	profileImageUseCase *auth.GetProfileImageUseCase,
) *UserController {
	return &UserController{
		currentUserUseCase:  currentUserUseCase,
		profileImageUseCase: profileImageUseCase,
	}
}

// Me handles GET /users/me requests.
func (c *UserController) Me(ctx *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		middleware.AbortMissingToken(ctx)
		return
	}

	output, err := c.currentUserUseCase.Execute(ctx.Request.Context(), auth.GetCurrentUserInput{
		UserID: userID,
	})
	if err != nil {
		handleAuthError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToCurrentUserResponse(output))
}

// ProfileImage handles GET /users/:id/profile-image requests.
func (c *UserController) ProfileImage(ctx *gin.Context) {
	userID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid user id",
			Code:  string(domainerror.ErrCodeMissingFields),
		})
		return
	}

	var query dto.ProfileImageQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "width and height are required integers",
			Code:    string(domainerror.ErrCodeInvalidDimensions),
			Details: err.Error(),
		})
		return
	}

	output, err := c.profileImageUseCase.Execute(ctx.Request.Context(), auth.GetProfileImageInput{
		UserID: userID,
		Width:  query.Width,
		Height: query.Height,
	})
	if err != nil {
		handleAuthError(ctx, err)
		return
	}

	ctx.Data(http.StatusOK, output.ContentType, output.Data)
}
