package domain

import "context"

// ListingRepository is the document-store port for the listings collection.
// Create assigns the store id back onto the listing. FindAll and FindByOwner
// return feeds ordered by creation time descending with id ascending as the
// tie-break.
type ListingRepository interface {
	Create(ctx context.Context, listing *Listing) error
	FindByID(ctx context.Context, id string) (*Listing, error)
	FindAll(ctx context.Context) ([]*Listing, error)
	FindByOwner(ctx context.Context, ownerID string) ([]*Listing, error)
	Delete(ctx context.Context, id string) error
}

// ProfileRepository is the document-store port for the profiles collection,
// keyed by owner. FindByOwner returns ErrProfileNotFound when no profile
// exists yet.
type ProfileRepository interface {
	FindByOwner(ctx context.Context, ownerID string) (*Profile, error)
	Create(ctx context.Context, profile *Profile) error
	Update(ctx context.Context, profile *Profile) error
}

// Storage is the blob-store port. Object keys are derived from the owner and
// image ids; Upload resolves the public retrieval URL after a successful put.
type Storage interface {
	Upload(ctx context.Context, ownerID, imageID string, data []byte, contentType string) (string, error)
	Remove(ctx context.Context, ownerID, imageID string) error
}
