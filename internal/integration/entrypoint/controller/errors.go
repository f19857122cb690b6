// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	domainerror "github.com/dispatch-hub/backend/internal/domain/error"
	"github.com/dispatch-hub/backend/internal/integration/entrypoint/dto"
)

// handleAuthError writes the HTTP response for a failed use case call.
// Internal errors are logged with their cause and reported without it.
func handleAuthError(ctx *gin.Context, err error) {
	var authErr *domainerror.AuthError
	if !errors.As(err, &authErr) {
		slog.ErrorContext(ctx.Request.Context(), "Unhandled error",
			"path", ctx.FullPath(),
			"error", err,
		)
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error: "An internal error occurred",
			Code:  string(domainerror.ErrCodeInternal),
		})
		return
	}

	statusCode := statusCodeForKind(authErr.Kind)
	if statusCode == http.StatusInternalServerError {
		slog.ErrorContext(ctx.Request.Context(), "Request failed",
			"path", ctx.FullPath(),
			"code", authErr.Code,
			"error", err,
		)
		ctx.JSON(statusCode, dto.ErrorResponse{
			Error: "An internal error occurred",
			Code:  string(authErr.Code),
		})
		return
	}

	ctx.JSON(statusCode, dto.ErrorResponse{
		Error: authErr.Message,
		Code:  string(authErr.Code),
	})
}

// statusCodeForKind maps error kinds to HTTP status codes.
func statusCodeForKind(kind domainerror.ErrorKind) int {
	switch kind {
	case domainerror.KindBadRequest:
		return http.StatusBadRequest
	case domainerror.KindConflict:
		return http.StatusConflict
	case domainerror.KindUnauthorized:
		return http.StatusUnauthorized
	case domainerror.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func invalidRequestBody(ctx *gin.Context, err error) {
	ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
		Error:   "Invalid request body",
		Code:    string(domainerror.ErrCodeMissingFields),
		Details: err.Error(),
	})
}
