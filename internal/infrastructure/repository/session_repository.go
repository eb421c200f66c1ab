package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shopify-bundle-upsell/internal/domain"
	"shopify-bundle-upsell/internal/infrastructure/repository/entity"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoSessionStore implements SessionStore using MongoDB, one document per shop
type MongoSessionStore struct {
	collection *mongo.Collection
}

// NewMongoSessionStore creates a new MongoDB session store
func NewMongoSessionStore(db *mongo.Database) *MongoSessionStore {
	return &MongoSessionStore{
		collection: db.Collection("sessions"),
	}
}

// EnsureIndexes creates the unique shop index
func (s *MongoSessionStore) EnsureIndexes(ctx context.Context) error {
	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "shop", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := s.collection.Indexes().CreateOne(ctx, indexModel); err != nil {
		return fmt.Errorf("failed to create session indexes: %w", err)
	}
	return nil
}

// Get retrieves the session of a shop
func (s *MongoSessionStore) Get(ctx context.Context, shop string) (*domain.Session, error) {
	var doc entity.MongoSessionDoc
	err := s.collection.FindOne(ctx, bson.M{"shop": shop}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return doc.ToDomain(), nil
}

// Put saves or replaces the session of a shop
func (s *MongoSessionStore) Put(ctx context.Context, session *domain.Session) error {
	doc := entity.MongoSessionDocFromDomain(session)
	doc.UpdatedAt = time.Now().UTC()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = doc.UpdatedAt
	}

	opts := options.Update().SetUpsert(true)
	filter := bson.M{"shop": session.Shop}
	update := bson.M{"$set": doc}

	if _, err := s.collection.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Delete deletes the session of a shop
func (s *MongoSessionStore) Delete(ctx context.Context, shop string) error {
	if _, err := s.collection.DeleteOne(ctx, bson.M{"shop": shop}); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
