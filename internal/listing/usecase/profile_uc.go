package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/webcarros/listing-service/internal/listing/domain"
	"github.com/webcarros/listing-service/internal/platform/logger"
)

// ProfileInput carries the mutable profile fields.
type ProfileInput struct {
	Name      string
	Email     string
	Phone     string
	AvatarURL string
}

type ProfileUsecase struct {
	repo   domain.ProfileRepository
	logger *logger.Logger
}

func NewProfileUsecase(repo domain.ProfileRepository, log *logger.Logger) *ProfileUsecase {
	return &ProfileUsecase{
		repo:   repo,
		logger: log,
	}
}

func (uc *ProfileUsecase) Get(ctx context.Context, ownerID string) (*domain.Profile, error) {
	profile, err := uc.repo.FindByOwner(ctx, ownerID)
	if err != nil {
		if !errors.Is(err, domain.ErrProfileNotFound) {
			uc.logger.Error("ProfileUsecase.Get: failed to find profile", "owner_id", ownerID, "error", err.Error())
		}
		return nil, err
	}
	return profile, nil
}

// Upsert updates the owner's profile or creates it when none exists. The
// decision is made on a fresh lookup every call, never on cached state, so
// repeated saves across sessions cannot produce duplicates.
func (uc *ProfileUsecase) Upsert(ctx context.Context, ownerID string, in ProfileInput) (*domain.Profile, error) {
	now := time.Now().UTC()

	existing, err := uc.repo.FindByOwner(ctx, ownerID)
	switch {
	case err == nil:
		existing.Name = in.Name
		existing.Email = in.Email
		existing.Phone = in.Phone
		existing.AvatarURL = in.AvatarURL
		existing.UpdatedAt = now
		if err := uc.repo.Update(ctx, existing); err != nil {
			uc.logger.Error("ProfileUsecase.Upsert: failed to update profile", "owner_id", ownerID, "error", err.Error())
			return nil, err
		}
		uc.logger.Info("ProfileUsecase.Upsert: profile updated", "owner_id", ownerID, "profile_id", existing.ID)
		return existing, nil

	case errors.Is(err, domain.ErrProfileNotFound):
		profile := &domain.Profile{
			OwnerID:   ownerID,
			Name:      in.Name,
			Email:     in.Email,
			Phone:     in.Phone,
			AvatarURL: in.AvatarURL,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := uc.repo.Create(ctx, profile); err != nil {
			uc.logger.Error("ProfileUsecase.Upsert: failed to create profile", "owner_id", ownerID, "error", err.Error())
			return nil, err
		}
		uc.logger.Info("ProfileUsecase.Upsert: profile created", "owner_id", ownerID, "profile_id", profile.ID)
		return profile, nil

	default:
		uc.logger.Error("ProfileUsecase.Upsert: lookup failed", "owner_id", ownerID, "error", err.Error())
		return nil, err
	}
}
