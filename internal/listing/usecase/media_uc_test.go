package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webcarros/listing-service/internal/listing/domain"
	"github.com/webcarros/listing-service/internal/platform/logger"
)

type stubStorage struct {
	uploads   []string // "ownerID/imageID"
	removed   []string
	uploadErr error
	removeErr map[string]error
}

func (s *stubStorage) Upload(ctx context.Context, ownerID, imageID string, data []byte, contentType string) (string, error) {
	if s.uploadErr != nil {
		return "", s.uploadErr
	}
	key := ownerID + "/" + imageID
	s.uploads = append(s.uploads, key)
	return fmt.Sprintf("http://blobs/images/%s", key), nil
}

func (s *stubStorage) Remove(ctx context.Context, ownerID, imageID string) error {
	key := ownerID + "/" + imageID
	if err, ok := s.removeErr[imageID]; ok {
		return err
	}
	s.removed = append(s.removed, key)
	return nil
}

func TestValidateFormat(t *testing.T) {
	uc := NewMediaUsecase(&stubStorage{}, logger.NewLogger())

	accepted := []string{
		"image/jpeg",
		"image/png",
		"image/webp",
		"image/png; charset=utf-8",
		"IMAGE/JPEG",
	}
	for _, ct := range accepted {
		assert.NoError(t, uc.ValidateFormat(ct), "content type %q should be accepted", ct)
	}

	rejected := []string{
		"image/gif",
		"application/pdf",
		"text/html",
		"",
		"not a mime type at all;;",
	}
	for _, ct := range rejected {
		assert.ErrorIs(t, uc.ValidateFormat(ct), domain.ErrUnsupportedImageFormat, "content type %q should be rejected", ct)
	}
}

func TestUploadReturnsOwnedReference(t *testing.T) {
	storage := &stubStorage{}
	uc := NewMediaUsecase(storage, logger.NewLogger())

	image, err := uc.Upload(context.Background(), "owner-1", []byte("fake-jpeg"), "image/jpeg")
	require.NoError(t, err)

	assert.NotEmpty(t, image.ID)
	assert.Equal(t, "owner-1", image.OwnerID)
	assert.Equal(t, fmt.Sprintf("http://blobs/images/owner-1/%s", image.ID), image.URL)
	require.Len(t, storage.uploads, 1)
	assert.Equal(t, "owner-1/"+image.ID, storage.uploads[0])
}

func TestUploadGeneratesFreshIDs(t *testing.T) {
	storage := &stubStorage{}
	uc := NewMediaUsecase(storage, logger.NewLogger())

	first, err := uc.Upload(context.Background(), "owner-1", []byte("a"), "image/png")
	require.NoError(t, err)
	second, err := uc.Upload(context.Background(), "owner-1", []byte("b"), "image/png")
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
}

func TestUploadRejectsUnsupportedFormatBeforeStorage(t *testing.T) {
	storage := &stubStorage{}
	uc := NewMediaUsecase(storage, logger.NewLogger())

	_, err := uc.Upload(context.Background(), "owner-1", []byte("gif-bytes"), "image/gif")

	assert.ErrorIs(t, err, domain.ErrUnsupportedImageFormat)
	assert.Empty(t, storage.uploads, "storage must not be contacted for a rejected format")
}

func TestUploadWrapsStorageError(t *testing.T) {
	storage := &stubStorage{uploadErr: errors.New("quota exceeded")}
	uc := NewMediaUsecase(storage, logger.NewLogger())

	_, err := uc.Upload(context.Background(), "owner-1", []byte("a"), "image/jpeg")
	require.Error(t, err)
	assert.ErrorContains(t, err, "quota exceeded")
}

func TestRemoveUsesDerivedPath(t *testing.T) {
	storage := &stubStorage{}
	uc := NewMediaUsecase(storage, logger.NewLogger())

	err := uc.Remove(context.Background(), domain.Image{ID: "img-1", OwnerID: "owner-1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"owner-1/img-1"}, storage.removed)
}
