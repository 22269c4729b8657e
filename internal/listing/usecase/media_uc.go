package usecase

import (
	"context"
	"fmt"
	"mime"
	"strings"

	"github.com/google/uuid"
	"github.com/webcarros/listing-service/internal/listing/domain"
	"github.com/webcarros/listing-service/internal/platform/logger"
)

// allowedImageTypes are the only accepted upload formats.
var allowedImageTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/webp": {},
}

type MediaUsecase struct {
	storage domain.Storage
	logger  *logger.Logger
}

func NewMediaUsecase(storage domain.Storage, log *logger.Logger) *MediaUsecase {
	return &MediaUsecase{
		storage: storage,
		logger:  log,
	}
}

// ValidateFormat checks the declared content type before any network call.
// Parameters such as "; charset=" are tolerated.
func (uc *MediaUsecase) ValidateFormat(contentType string) error {
	mediaType, _, err := mime.ParseMediaType(strings.TrimSpace(contentType))
	if err != nil {
		return domain.ErrUnsupportedImageFormat
	}
	if _, ok := allowedImageTypes[strings.ToLower(mediaType)]; !ok {
		return domain.ErrUnsupportedImageFormat
	}
	return nil
}

// Upload writes the image bytes to blob storage under a fresh id scoped to
// the owner and returns the resulting reference. Listings and profiles are
// never touched here.
func (uc *MediaUsecase) Upload(ctx context.Context, ownerID string, data []byte, contentType string) (*domain.Image, error) {
	if err := uc.ValidateFormat(contentType); err != nil {
		uc.logger.Warn("MediaUsecase.Upload: rejected unsupported format", "owner_id", ownerID, "content_type", contentType)
		return nil, err
	}

	imageID := uuid.New().String()
	url, err := uc.storage.Upload(ctx, ownerID, imageID, data, contentType)
	if err != nil {
		uc.logger.Error("MediaUsecase.Upload: storage upload failed", "owner_id", ownerID, "image_id", imageID, "error", err.Error())
		return nil, fmt.Errorf("upload image %s: %w", imageID, err)
	}

	uc.logger.Info("MediaUsecase.Upload: image uploaded", "owner_id", ownerID, "image_id", imageID, "size_bytes", len(data))
	return &domain.Image{
		ID:      imageID,
		OwnerID: ownerID,
		URL:     url,
	}, nil
}

// Remove deletes the blob at the reference's derived path. Used for
// user-initiated removal of a provisional image and as a step of the
// cascading delete.
func (uc *MediaUsecase) Remove(ctx context.Context, image domain.Image) error {
	if err := uc.storage.Remove(ctx, image.OwnerID, image.ID); err != nil {
		uc.logger.Error("MediaUsecase.Remove: storage remove failed", "owner_id", image.OwnerID, "image_id", image.ID, "error", err.Error())
		return fmt.Errorf("remove image %s: %w", image.ID, err)
	}
	return nil
}
