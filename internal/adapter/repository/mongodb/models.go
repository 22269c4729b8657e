package mongodb

import (
	"fmt"
	"time"

	"github.com/webcarros/listing-service/internal/listing/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type imageDocument struct {
	ID      string `bson:"id"`
	OwnerID string `bson:"owner_id"`
	URL     string `bson:"url"`
}

type listingDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	OwnerID     string             `bson:"owner_id"`
	Name        string             `bson:"name"`
	Brand       string             `bson:"brand"`
	Model       string             `bson:"model"`
	Year        string             `bson:"year"`
	Km          string             `bson:"km"`
	Price       string             `bson:"price"`
	City        string             `bson:"city"`
	Description string             `bson:"description"`
	CreatedAt   time.Time          `bson:"created_at"`
	Images      []imageDocument    `bson:"images"`
}

type profileDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	OwnerID   string             `bson:"owner_id"`
	Name      string             `bson:"name"`
	Email     string             `bson:"email"`
	Phone     string             `bson:"phone"`
	AvatarURL string             `bson:"avatar_url,omitempty"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

// toListingDocument converts the domain model for storage. An empty domain ID
// leaves the ObjectID unset so MongoDB assigns one on insert; the repository
// writes the generated id back onto the domain model afterwards.
func toListingDocument(l *domain.Listing) (*listingDocument, error) {
	if l == nil {
		return nil, nil
	}

	docID := primitive.NilObjectID
	if l.ID != "" {
		var err error
		docID, err = primitive.ObjectIDFromHex(l.ID)
		if err != nil {
			return nil, fmt.Errorf("toListingDocument: invalid ID format %q: %w", l.ID, err)
		}
	}

	images := make([]imageDocument, 0, len(l.Images))
	for _, img := range l.Images {
		images = append(images, imageDocument{ID: img.ID, OwnerID: img.OwnerID, URL: img.URL})
	}

	return &listingDocument{
		ID:          docID,
		OwnerID:     l.OwnerID,
		Name:        l.Name,
		Brand:       l.Brand,
		Model:       l.Model,
		Year:        l.Year,
		Km:          l.Km,
		Price:       l.Price,
		City:        l.City,
		Description: l.Description,
		CreatedAt:   l.CreatedAt,
		Images:      images,
	}, nil
}

func toDomainListing(d *listingDocument) *domain.Listing {
	if d == nil {
		return nil
	}
	images := make([]domain.Image, 0, len(d.Images))
	for _, img := range d.Images {
		images = append(images, domain.Image{ID: img.ID, OwnerID: img.OwnerID, URL: img.URL})
	}
	return &domain.Listing{
		ID:          d.ID.Hex(),
		OwnerID:     d.OwnerID,
		Name:        d.Name,
		Brand:       d.Brand,
		Model:       d.Model,
		Year:        d.Year,
		Km:          d.Km,
		Price:       d.Price,
		City:        d.City,
		Description: d.Description,
		CreatedAt:   d.CreatedAt,
		Images:      images,
	}
}

func toDomainListings(docs []*listingDocument) []*domain.Listing {
	listings := make([]*domain.Listing, 0, len(docs))
	for _, doc := range docs {
		listings = append(listings, toDomainListing(doc))
	}
	return listings
}

func toProfileDocument(p *domain.Profile) (*profileDocument, error) {
	if p == nil {
		return nil, nil
	}

	docID := primitive.NilObjectID
	if p.ID != "" {
		var err error
		docID, err = primitive.ObjectIDFromHex(p.ID)
		if err != nil {
			return nil, fmt.Errorf("toProfileDocument: invalid ID format %q: %w", p.ID, err)
		}
	}

	return &profileDocument{
		ID:        docID,
		OwnerID:   p.OwnerID,
		Name:      p.Name,
		Email:     p.Email,
		Phone:     p.Phone,
		AvatarURL: p.AvatarURL,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}, nil
}

func toDomainProfile(d *profileDocument) *domain.Profile {
	if d == nil {
		return nil
	}
	return &domain.Profile{
		ID:        d.ID.Hex(),
		OwnerID:   d.OwnerID,
		Name:      d.Name,
		Email:     d.Email,
		Phone:     d.Phone,
		AvatarURL: d.AvatarURL,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}
