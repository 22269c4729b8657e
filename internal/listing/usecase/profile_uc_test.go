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

type stubProfileRepo struct {
	byOwner   map[string]*domain.Profile
	findErr   error
	createErr error
	updateErr error
	creates   int
	updates   int
	nextID    int
}

func newStubProfileRepo() *stubProfileRepo {
	return &stubProfileRepo{byOwner: make(map[string]*domain.Profile)}
}

func (s *stubProfileRepo) FindByOwner(ctx context.Context, ownerID string) (*domain.Profile, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	profile, ok := s.byOwner[ownerID]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	copied := *profile
	return &copied, nil
}

func (s *stubProfileRepo) Create(ctx context.Context, profile *domain.Profile) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.nextID++
	profile.ID = fmt.Sprintf("profile-%03d", s.nextID)
	copied := *profile
	s.byOwner[profile.OwnerID] = &copied
	s.creates++
	return nil
}

func (s *stubProfileRepo) Update(ctx context.Context, profile *domain.Profile) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	copied := *profile
	s.byOwner[profile.OwnerID] = &copied
	s.updates++
	return nil
}

func TestUpsertCreatesWhenMissing(t *testing.T) {
	repo := newStubProfileRepo()
	uc := NewProfileUsecase(repo, logger.NewLogger())

	profile, err := uc.Upsert(context.Background(), "owner-1", ProfileInput{
		Name:  "Maria",
		Email: "maria@example.com",
		Phone: "11999990000",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, repo.creates)
	assert.Equal(t, 0, repo.updates)
	assert.Equal(t, "owner-1", profile.OwnerID)
	assert.Equal(t, "Maria", profile.Name)
	assert.False(t, profile.CreatedAt.IsZero())
	assert.Equal(t, profile.CreatedAt, profile.UpdatedAt)
}

func TestUpsertTwiceKeepsSingleRecord(t *testing.T) {
	repo := newStubProfileRepo()
	uc := NewProfileUsecase(repo, logger.NewLogger())

	first, err := uc.Upsert(context.Background(), "owner-1", ProfileInput{Name: "Maria"})
	require.NoError(t, err)

	second, err := uc.Upsert(context.Background(), "owner-1", ProfileInput{Name: "Maria Silva"})
	require.NoError(t, err)

	assert.Equal(t, 1, repo.creates, "second save must update, not create")
	assert.Equal(t, 1, repo.updates)
	assert.Len(t, repo.byOwner, 1)
	assert.Equal(t, "Maria Silva", second.Name)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)
	assert.False(t, second.UpdatedAt.Before(first.UpdatedAt))
}

func TestUpsertPropagatesLookupError(t *testing.T) {
	repo := newStubProfileRepo()
	repo.findErr = errors.New("connection reset")
	uc := NewProfileUsecase(repo, logger.NewLogger())

	_, err := uc.Upsert(context.Background(), "owner-1", ProfileInput{})
	assert.EqualError(t, err, "connection reset")
	assert.Equal(t, 0, repo.creates)
}

func TestGetReturnsNotFoundForMissingProfile(t *testing.T) {
	repo := newStubProfileRepo()
	uc := NewProfileUsecase(repo, logger.NewLogger())

	_, err := uc.Get(context.Background(), "owner-1")
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)
}
