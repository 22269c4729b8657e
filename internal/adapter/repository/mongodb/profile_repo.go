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

type ProfileRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

func NewProfileRepository(db *mongo.Database, log *logger.Logger) *ProfileRepository {
	return &ProfileRepository{
		collection: db.Collection("profiles"),
		logger:     log,
	}
}

// EnsureIndexes creates the unique owner index backing the one-profile-per-
// owner invariant. Call once at startup.
func (r *ProfileRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "owner_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create profiles owner index: %w", err)
	}
	return nil
}

// FindByOwner returns the owner's profile. Should the store ever hold
// duplicates despite the unique index, FindOne yields the first by store
// order and the anomaly is not otherwise handled.
func (r *ProfileRepository) FindByOwner(ctx context.Context, ownerID string) (*domain.Profile, error) {
	var doc profileDocument
	err := r.collection.FindOne(ctx, bson.M{"owner_id": ownerID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProfileNotFound
		}
		r.logger.Error("ProfileRepository.FindByOwner: FindOne failed", "owner_id", ownerID, "error", err.Error())
		return nil, err
	}
	return toDomainProfile(&doc), nil
}

func (r *ProfileRepository) Create(ctx context.Context, profile *domain.Profile) error {
	doc, err := toProfileDocument(profile)
	if err != nil {
		return fmt.Errorf("failed to prepare profile for database: %w", err)
	}

	res, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		r.logger.Error("ProfileRepository.Create: InsertOne failed", "owner_id", profile.OwnerID, "error", err.Error())
		return err
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		r.logger.Error("ProfileRepository.Create: InsertOne returned unexpected ID type", "type", fmt.Sprintf("%T", res.InsertedID))
		return errors.New("failed to retrieve generated profile ID")
	}
	profile.ID = oid.Hex()
	return nil
}

func (r *ProfileRepository) Update(ctx context.Context, profile *domain.Profile) error {
	doc, err := toProfileDocument(profile)
	if err != nil {
		return fmt.Errorf("failed to prepare profile for database: %w", err)
	}

	result, err := r.collection.UpdateByID(ctx, doc.ID, bson.M{"$set": bson.M{
		"name":       doc.Name,
		"email":      doc.Email,
		"phone":      doc.Phone,
		"avatar_url": doc.AvatarURL,
		"updated_at": doc.UpdatedAt,
	}})
	if err != nil {
		r.logger.Error("ProfileRepository.Update: UpdateByID failed", "profile_id", profile.ID, "error", err.Error())
		return err
	}
	if result.MatchedCount == 0 {
		return domain.ErrProfileNotFound
	}
	return nil
}
