package mongodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/webcarros/listing-service/internal/listing/domain"
	"github.com/webcarros/listing-service/internal/platform/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// feedSort is the canonical feed ordering: newest first, _id ascending as
// the tie-break for equal timestamps.
var feedSort = bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}}

type ListingRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

func NewListingRepository(db *mongo.Database, log *logger.Logger) *ListingRepository {
	return &ListingRepository{
		collection: db.Collection("listings"),
		logger:     log,
	}
}

func (r *ListingRepository) Create(ctx context.Context, listing *domain.Listing) error {
	doc, err := toListingDocument(listing)
	if err != nil {
		return fmt.Errorf("failed to prepare listing for database: %w", err)
	}

	res, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		r.logger.Error("ListingRepository.Create: InsertOne failed", "owner_id", listing.OwnerID, "error", err.Error())
		return err
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		r.logger.Error("ListingRepository.Create: InsertOne returned unexpected ID type", "type", fmt.Sprintf("%T", res.InsertedID))
		return errors.New("failed to retrieve generated listing ID")
	}
	listing.ID = oid.Hex()
	return nil
}

func (r *ListingRepository) FindByID(ctx context.Context, id string) (*domain.Listing, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		// A malformed id cannot match any stored document.
		return nil, domain.ErrListingNotFound
	}

	var doc listingDocument
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrListingNotFound
		}
		r.logger.Error("ListingRepository.FindByID: FindOne failed", "listing_id", id, "error", err.Error())
		return nil, err
	}
	return toDomainListing(&doc), nil
}

func (r *ListingRepository) FindAll(ctx context.Context) ([]*domain.Listing, error) {
	return r.find(ctx, bson.M{})
}

func (r *ListingRepository) FindByOwner(ctx context.Context, ownerID string) ([]*domain.Listing, error) {
	return r.find(ctx, bson.M{"owner_id": ownerID})
}

func (r *ListingRepository) find(ctx context.Context, filter bson.M) ([]*domain.Listing, error) {
	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(feedSort))
	if err != nil {
		r.logger.Error("ListingRepository.find: Find failed", "error", err.Error())
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []*listingDocument
	if err = cursor.All(ctx, &docs); err != nil {
		r.logger.Error("ListingRepository.find: cursor decode failed", "error", err.Error())
		return nil, err
	}
	return toDomainListings(docs), nil
}

func (r *ListingRepository) Delete(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrListingNotFound
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		r.logger.Error("ListingRepository.Delete: DeleteOne failed", "listing_id", id, "error", err.Error())
		return err
	}
	if result.DeletedCount == 0 {
		return domain.ErrListingNotFound
	}
	return nil
}
