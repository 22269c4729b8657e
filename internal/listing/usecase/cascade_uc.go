package usecase

import (
	"context"
	"errors"

	"github.com/webcarros/listing-service/internal/listing/domain"
	"github.com/webcarros/listing-service/internal/platform/logger"
)

// MediaFailure records one blob that could not be removed while cascading.
type MediaFailure struct {
	ImageID string
	Err     error
}

// CascadeResult reports the outcome of a cascading delete. Whenever a result
// is returned without an error the listing record is gone; Failures lists
// blobs that leaked and were left behind.
type CascadeResult struct {
	ListingID string
	Failures  []MediaFailure
}

// CascadeDeleteUsecase removes a listing record and then cleans up its
// blobs best-effort. The document record is the source of truth for what is
// listed, so a dangling blob is an acceptable leak while a dangling record
// is not: per-image failures never roll back the record deletion.
type CascadeDeleteUsecase struct {
	repo    domain.ListingRepository
	storage domain.Storage
	logger  *logger.Logger
}

func NewCascadeDeleteUsecase(repo domain.ListingRepository, storage domain.Storage, log *logger.Logger) *CascadeDeleteUsecase {
	return &CascadeDeleteUsecase{
		repo:    repo,
		storage: storage,
		logger:  log,
	}
}

// Delete removes the listing owned by ownerID. The record is deleted first;
// if that fails nothing else is attempted and the error propagates. Blob
// removals then run independently of each other.
func (uc *CascadeDeleteUsecase) Delete(ctx context.Context, ownerID, listingID string) (*CascadeResult, error) {
	listing, err := uc.repo.FindByID(ctx, listingID)
	if err != nil {
		if !errors.Is(err, domain.ErrListingNotFound) {
			uc.logger.Error("CascadeDeleteUsecase.Delete: failed to find listing", "listing_id", listingID, "error", err.Error())
		}
		return nil, err
	}

	if listing.OwnerID != ownerID {
		uc.logger.Warn("CascadeDeleteUsecase.Delete: forbidden to delete listing",
			"listing_id", listingID, "listing_owner_id", listing.OwnerID, "user_id_performing_action", ownerID)
		return nil, ErrForbidden
	}

	if err := uc.repo.Delete(ctx, listingID); err != nil {
		uc.logger.Error("CascadeDeleteUsecase.Delete: failed to delete listing record", "listing_id", listingID, "error", err.Error())
		return nil, err
	}

	result := &CascadeResult{ListingID: listingID}
	for _, img := range listing.Images {
		if err := uc.storage.Remove(ctx, img.OwnerID, img.ID); err != nil {
			uc.logger.Warn("CascadeDeleteUsecase.Delete: failed to remove image blob",
				"listing_id", listingID, "image_id", img.ID, "error", err.Error())
			result.Failures = append(result.Failures, MediaFailure{ImageID: img.ID, Err: err})
		}
	}

	uc.logger.Info("CascadeDeleteUsecase.Delete: listing deleted",
		"listing_id", listingID, "owner_id", ownerID, "media_failures", len(result.Failures))
	return result, nil
}
