package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webcarros/listing-service/internal/listing/domain"
	"github.com/webcarros/listing-service/internal/platform/logger"
)

func cascadeFixture() *domain.Listing {
	return &domain.Listing{
		ID:        "listing-1",
		OwnerID:   "owner-1",
		Name:      "Golf GTI",
		CreatedAt: time.Now().UTC(),
		Images: []domain.Image{
			{ID: "img-1", OwnerID: "owner-1", URL: "http://blobs/images/owner-1/img-1"},
			{ID: "img-2", OwnerID: "owner-1", URL: "http://blobs/images/owner-1/img-2"},
			{ID: "img-3", OwnerID: "owner-1", URL: "http://blobs/images/owner-1/img-3"},
		},
	}
}

func TestCascadeDeleteRemovesRecordAndBlobs(t *testing.T) {
	repo := &stubListingRepo{listings: []*domain.Listing{cascadeFixture()}}
	storage := &stubStorage{}
	uc := NewCascadeDeleteUsecase(repo, storage, logger.NewLogger())

	result, err := uc.Delete(context.Background(), "owner-1", "listing-1")
	require.NoError(t, err)

	assert.Equal(t, "listing-1", result.ListingID)
	assert.Empty(t, result.Failures)
	assert.Equal(t, []string{"listing-1"}, repo.deleted)
	assert.ElementsMatch(t, []string{"owner-1/img-1", "owner-1/img-2", "owner-1/img-3"}, storage.removed)

	_, err = repo.FindByID(context.Background(), "listing-1")
	assert.ErrorIs(t, err, domain.ErrListingNotFound)
}

func TestCascadeDeleteToleratesPartialMediaFailure(t *testing.T) {
	repo := &stubListingRepo{listings: []*domain.Listing{cascadeFixture()}}
	storage := &stubStorage{removeErr: map[string]error{
		"img-2": errors.New("object locked"),
	}}
	uc := NewCascadeDeleteUsecase(repo, storage, logger.NewLogger())

	result, err := uc.Delete(context.Background(), "owner-1", "listing-1")
	require.NoError(t, err, "record deletion succeeded, so the operation succeeds")

	require.Len(t, result.Failures, 1)
	assert.Equal(t, "img-2", result.Failures[0].ImageID)
	assert.ErrorContains(t, result.Failures[0].Err, "object locked")

	// The record is gone even though one blob leaked.
	_, err = repo.FindByID(context.Background(), "listing-1")
	assert.ErrorIs(t, err, domain.ErrListingNotFound)
	assert.ElementsMatch(t, []string{"owner-1/img-1", "owner-1/img-3"}, storage.removed)
}

func TestCascadeDeleteAbortsWhenRecordDeleteFails(t *testing.T) {
	repo := &stubListingRepo{
		listings:  []*domain.Listing{cascadeFixture()},
		deleteErr: errors.New("write conflict"),
	}
	storage := &stubStorage{}
	uc := NewCascadeDeleteUsecase(repo, storage, logger.NewLogger())

	_, err := uc.Delete(context.Background(), "owner-1", "listing-1")

	assert.EqualError(t, err, "write conflict")
	assert.Empty(t, storage.removed, "no blob removal may be attempted when the record delete fails")
}

func TestCascadeDeleteForbiddenForNonOwner(t *testing.T) {
	repo := &stubListingRepo{listings: []*domain.Listing{cascadeFixture()}}
	storage := &stubStorage{}
	uc := NewCascadeDeleteUsecase(repo, storage, logger.NewLogger())

	_, err := uc.Delete(context.Background(), "owner-2", "listing-1")

	assert.ErrorIs(t, err, ErrForbidden)
	assert.Empty(t, repo.deleted)
	assert.Empty(t, storage.removed)
}

func TestCascadeDeleteNotFound(t *testing.T) {
	repo := &stubListingRepo{}
	uc := NewCascadeDeleteUsecase(repo, &stubStorage{}, logger.NewLogger())

	_, err := uc.Delete(context.Background(), "owner-1", "missing")
	assert.ErrorIs(t, err, domain.ErrListingNotFound)
}
