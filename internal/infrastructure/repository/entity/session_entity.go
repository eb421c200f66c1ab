package entity

import (
	"time"

	"shopify-bundle-upsell/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MongoSessionDoc represents a shop session in MongoDB
type MongoSessionDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Shop        string             `bson:"shop"`
	AccessToken string             `bson:"accessToken"`
	Scopes      []string           `bson:"scopes"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

// ToDomain converts the MongoDB document to a domain entity
func (d *MongoSessionDoc) ToDomain() *domain.Session {
	return &domain.Session{
		ID:          d.ID.Hex(),
		Shop:        d.Shop,
		AccessToken: d.AccessToken,
		Scopes:      d.Scopes,
		CreatedAt:   d.CreatedAt,
	}
}

// MongoSessionDocFromDomain converts a domain entity to a MongoDB document
func MongoSessionDocFromDomain(session *domain.Session) *MongoSessionDoc {
	return &MongoSessionDoc{
		Shop:        session.Shop,
		AccessToken: session.AccessToken,
		Scopes:      session.Scopes,
		CreatedAt:   session.CreatedAt,
	}
}
