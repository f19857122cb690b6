// Package auth contains authentication-related use cases.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/dispatch-hub/backend/internal/application/adapter"
	domainerror "github.com/dispatch-hub/backend/internal/domain/error"
)

// ProfileImageContentType is the media type of resized profile images.
const ProfileImageContentType = "image/png"

// GetProfileImageInput represents the input for profile image retrieval.
type GetProfileImageInput struct {
	UserID int
	Width  int
	Height int
}

// GetProfileImageOutput holds the encoded, resized image.
type GetProfileImageOutput struct {
	Data        []byte
	ContentType string
}

// GetProfileImageUseCase resizes a user's stored profile image on demand.
type GetProfileImageUseCase struct {
	images       adapter.ProfileImageRepository
	processor    adapter.ImageProcessor
	runner       adapter.TaskRunner
	imageRoot    string
	maxDimension int
}

// NewGetProfileImageUseCase creates a new GetProfileImageUseCase instance.
// A non-positive maxDimension disables the upper bound on requested sizes.
func NewGetProfileImageUseCase(
	images adapter.ProfileImageRepository,
	processor adapter.ImageProcessor,
	runner adapter.TaskRunner,
	imageRoot string,
	maxDimension int,
) *GetProfileImageUseCase {
	return &GetProfileImageUseCase{
		images:       images,
		processor:    processor,
		runner:       runner,
		imageRoot:    imageRoot,
		maxDimension: maxDimension,
	}
}

// Execute loads, resizes and re-encodes the user's profile image.
func (uc *GetProfileImageUseCase) Execute(ctx context.Context, input GetProfileImageInput) (*GetProfileImageOutput, error) {
	if err := uc.validateDimensions(input.Width, input.Height); err != nil {
		return nil, err
	}

	// A missing user and a user without an image are reported the same way
	name, err := uc.images.FindProfileImageNameByUserID(ctx, input.UserID)
	if err != nil {
		if !errors.Is(err, domainerror.ErrUserNotFound) && !errors.Is(err, domainerror.ErrProfileImageNotFound) {
			slog.WarnContext(ctx, "Profile image lookup failed",
				"user_id", input.UserID,
				"error", err,
			)
		}
		return nil, domainerror.NewAuthError(
			domainerror.KindNotFound,
			domainerror.ErrCodeProfileImageNotFound,
			"profile image not found",
			err,
		)
	}

	path := filepath.Join(uc.imageRoot, name)

	var data []byte
	err = uc.runner.Run(ctx, func() error {
		img, err := uc.processor.Open(path)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to open profile image",
				"user_id", input.UserID,
				"path", path,
				"error", err,
			)
			return fmt.Errorf("failed to open image: %w", err)
		}

		resized := uc.processor.ResizeExact(img, input.Width, input.Height)

		encoded, err := uc.processor.Encode(resized)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to encode resized profile image",
				"user_id", input.UserID,
				"path", path,
				"error", err,
			)
			return fmt.Errorf("failed to encode image: %w", err)
		}
		data = encoded
		return nil
	})
	if err != nil {
		return nil, domainerror.NewAuthError(
			domainerror.KindInternal,
			domainerror.ErrCodeImageProcessing,
			"failed to process profile image",
			err,
		)
	}

	return &GetProfileImageOutput{
		Data:        data,
		ContentType: ProfileImageContentType,
	}, nil
}

func (uc *GetProfileImageUseCase) validateDimensions(width, height int) error {
	tooLarge := uc.maxDimension > 0 && (width > uc.maxDimension || height > uc.maxDimension)
	if width > 0 && height > 0 && !tooLarge {
		return nil
	}

	message := "width and height must be positive"
	if uc.maxDimension > 0 {
		message = fmt.Sprintf("width and height must be between 1 and %d", uc.maxDimension)
	}
	return domainerror.NewAuthError(
		domainerror.KindBadRequest,
		domainerror.ErrCodeInvalidDimensions,
		message,
		domainerror.ErrInvalidDimensions,
	)
}
