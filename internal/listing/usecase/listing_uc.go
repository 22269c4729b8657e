package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/webcarros/listing-service/internal/listing/domain"
	"github.com/webcarros/listing-service/internal/platform/logger"
)

var ErrForbidden = errors.New("user not authorized to perform this action")

// ListingInput carries the scalar fields of a listing draft. Images are
// passed separately because they are uploaded ahead of submission.
type ListingInput struct {
	Name        string
	Brand       string
	Model       string
	Year        string
	Km          string
	Price       string
	City        string
	Description string
}

type ListingUsecase struct {
	repo   domain.ListingRepository
	logger *logger.Logger
}

func NewListingUsecase(repo domain.ListingRepository, log *logger.Logger) *ListingUsecase {
	return &ListingUsecase{
		repo:   repo,
		logger: log,
	}
}

// Create persists a new listing for the owner. A draft without images is
// rejected before the store is contacted. CreatedAt is assigned here, at the
// moment of persistence.
func (uc *ListingUsecase) Create(ctx context.Context, ownerID string, in ListingInput, images []domain.Image) (*domain.Listing, error) {
	if len(images) == 0 {
		uc.logger.Warn("ListingUsecase.Create: rejected draft without images", "owner_id", ownerID)
		return nil, domain.ErrNoImages
	}

	listing := &domain.Listing{
		OwnerID:     ownerID,
		Name:        in.Name,
		Brand:       in.Brand,
		Model:       in.Model,
		Year:        in.Year,
		Km:          in.Km,
		Price:       in.Price,
		City:        in.City,
		Description: in.Description,
		CreatedAt:   time.Now().UTC(),
		Images:      images,
	}
	if err := uc.repo.Create(ctx, listing); err != nil {
		uc.logger.Error("ListingUsecase.Create: failed to create listing", "owner_id", ownerID, "error", err.Error())
		return nil, err
	}
	uc.logger.Info("ListingUsecase.Create: listing created", "listing_id", listing.ID, "owner_id", ownerID)
	return listing, nil
}

// ListAll returns the public feed. The repository already sorts, but the
// ordering contract (created desc, id asc on ties) is re-applied so it holds
// regardless of store behavior.
func (uc *ListingUsecase) ListAll(ctx context.Context) ([]*domain.Listing, error) {
	listings, err := uc.repo.FindAll(ctx)
	if err != nil {
		uc.logger.Error("ListingUsecase.ListAll: failed to fetch listings", "error", err.Error())
		return nil, err
	}
	domain.SortByNewest(listings)
	return listings, nil
}

// ListByOwner returns the caller's own listings in feed order.
func (uc *ListingUsecase) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Listing, error) {
	listings, err := uc.repo.FindByOwner(ctx, ownerID)
	if err != nil {
		uc.logger.Error("ListingUsecase.ListByOwner: failed to fetch listings", "owner_id", ownerID, "error", err.Error())
		return nil, err
	}
	domain.SortByNewest(listings)
	return listings, nil
}

func (uc *ListingUsecase) GetByID(ctx context.Context, id string) (*domain.Listing, error) {
	listing, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		if !errors.Is(err, domain.ErrListingNotFound) {
			uc.logger.Error("ListingUsecase.GetByID: failed to find listing", "listing_id", id, "error", err.Error())
		}
		return nil, err
	}
	return listing, nil
}
