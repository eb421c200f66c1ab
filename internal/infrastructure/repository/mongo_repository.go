package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shopify-bundle-upsell/internal/domain"
	"shopify-bundle-upsell/internal/infrastructure/repository/entity"
	"shopify-bundle-upsell/internal/ports"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoBundleRepository implements BundleRepository using MongoDB
type MongoBundleRepository struct {
	collection *mongo.Collection
}

var _ ports.BundleRepository = (*MongoBundleRepository)(nil)

// NewMongoBundleRepository creates a new MongoDB bundle repository
func NewMongoBundleRepository(db *mongo.Database) *MongoBundleRepository {
	return &MongoBundleRepository{
		collection: db.Collection("bundles"),
	}
}

// EnsureIndexes creates the shop index used by ListByShop
func (r *MongoBundleRepository) EnsureIndexes(ctx context.Context) error {
	indexModel := mongo.IndexModel{
		Keys: bson.D{{Key: "shop", Value: 1}},
	}
	if _, err := r.collection.Indexes().CreateOne(ctx, indexModel); err != nil {
		return fmt.Errorf("failed to create bundle indexes: %w", err)
	}
	return nil
}

// Create inserts a new bundle
func (r *MongoBundleRepository) Create(ctx context.Context, bundle *domain.Bundle) error {
	doc := entity.MongoBundleDocFromDomain(bundle)
	if doc.ID.IsZero() {
		doc.ID = primitive.NewObjectID()
	}
	doc.UpdatedAt = time.Now().UTC()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = doc.UpdatedAt
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to create bundle: %w", err)
	}

	bundle.ID = doc.ID.Hex()
	bundle.CreatedAt = doc.CreatedAt
	bundle.UpdatedAt = doc.UpdatedAt
	return nil
}

// ListByShop retrieves all bundles of a shop
func (r *MongoBundleRepository) ListByShop(ctx context.Context, shop string) ([]*domain.Bundle, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"shop": shop})
	if err != nil {
		return nil, fmt.Errorf("failed to list bundles: %w", err)
	}
	defer cursor.Close(ctx)

	bundles := []*domain.Bundle{}
	for cursor.Next(ctx) {
		var doc entity.MongoBundleDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode bundle: %w", err)
		}
		bundles = append(bundles, doc.ToDomain())
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}

	return bundles, nil
}

// Update replaces the name, products and discount of a bundle
func (r *MongoBundleRepository) Update(ctx context.Context, id string, changes domain.BundleChanges) (*domain.Bundle, error) {
	objID, err := parseBundleID(id)
	if err != nil {
		return nil, err
	}

	update := bson.M{
		"$set": bson.M{
			"bundleName": changes.BundleName,
			"products":   changes.Products,
			"discount":   changes.Discount,
			"updatedAt":  time.Now().UTC(),
		},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc entity.MongoBundleDoc
	err = r.collection.FindOneAndUpdate(ctx, bson.M{"_id": objID}, update, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update bundle: %w", err)
	}

	return doc.ToDomain(), nil
}

// Delete deletes a bundle by ID
func (r *MongoBundleRepository) Delete(ctx context.Context, id string) (bool, error) {
	objID, err := parseBundleID(id)
	if err != nil {
		return false, err
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return false, fmt.Errorf("failed to delete bundle: %w", err)
	}
	return result.DeletedCount > 0, nil
}

func parseBundleID(id string) (primitive.ObjectID, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w %q", domain.ErrInvalidID, id)
	}
	return objID, nil
}
