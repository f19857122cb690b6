package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dispatch-hub/backend/internal/application/usecase/auth"
	"github.com/dispatch-hub/backend/internal/integration/entrypoint/dto"
	"github.com/dispatch-hub/backend/internal/integration/entrypoint/middleware"
)

// AuthController handles authentication endpoints.
type AuthController struct {
	registerUseCase        *auth.RegisterUserUseCase
	loginUseCase           *auth.LoginUserUseCase
	logoutUseCase          *auth.LogoutUserUseCase
	validateSessionUseCase *auth.ValidateSessionUseCase
}

// NewAuthController creates a new auth controller instance.
func NewAuthController(
	registerUseCase *auth.RegisterUserUseCase,
	loginUseCase *auth.LoginUserUseCase,
	logoutUseCase *auth.LogoutUserUseCase,
	validateSessionUseCase *auth.ValidateSessionUseCase,
) *AuthController {
	return &AuthController{
		registerUseCase:        registerUseCase,
		loginUseCase:           loginUseCase,
		logoutUseCase:          logoutUseCase,
		validateSessionUseCase: validateSessionUseCase,
	}
}

// Register handles POST /auth/register requests.
func (c *AuthController) Register(ctx *gin.Context) {
	var req dto.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		invalidRequestBody(ctx, err)
		return
	}

	output, err := c.registerUseCase.Execute(ctx.Request.Context(), auth.RegisterUserInput{
		Username: req.Username,
		Password: req.Password,
		Role:     req.Role,
		AreaID:   req.AreaID,
	})
	if err != nil {
		handleAuthError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToLoginResponse(output))
}

// Login handles POST /auth/login requests.
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		invalidRequestBody(ctx, err)
		return
	}

	output, err := c.loginUseCase.Execute(ctx.Request.Context(), auth.LoginUserInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		handleAuthError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToLoginResponse(output))
}

// Logout handles POST /auth/logout requests.
func (c *AuthController) Logout(ctx *gin.Context) {
	token, ok := middleware.BearerToken(ctx)
	if !ok {
		middleware.AbortMissingToken(ctx)
		return
	}

	output, err := c.logoutUseCase.Execute(ctx.Request.Context(), auth.LogoutUserInput{
		SessionToken: token,
	})
	if err != nil {
		handleAuthError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.MessageResponse{
		Message: output.Message,
	})
}

// ValidateSession handles GET /auth/session requests.
// A stored session with a false validity flag is reported as {"valid": false}.
func (c *AuthController) ValidateSession(ctx *gin.Context) {
	token, ok := middleware.BearerToken(ctx)
	if !ok {
		middleware.AbortMissingToken(ctx)
		return
	}

	output, err := c.validateSessionUseCase.Execute(ctx.Request.Context(), auth.ValidateSessionInput{
		SessionToken: token,
	})
	if err != nil {
		handleAuthError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ValidateSessionResponse{
		Valid: output.Valid,
	})
}
