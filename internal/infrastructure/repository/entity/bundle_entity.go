package entity

import (
	"time"

	"shopify-bundle-upsell/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MongoBundleDoc represents a bundle in MongoDB
type MongoBundleDoc struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Shop       string             `bson:"shop"`
	BundleName string             `bson:"bundleName"`
	Products   []string           `bson:"products"`
	Discount   float64            `bson:"discount"`
	CreatedAt  time.Time          `bson:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt"`
}

// ToDomain converts the MongoDB document to a domain entity
func (d *MongoBundleDoc) ToDomain() *domain.Bundle {
	products := d.Products
	if products == nil {
		products = []string{}
	}
	return &domain.Bundle{
		ID:         d.ID.Hex(),
		Shop:       d.Shop,
		BundleName: d.BundleName,
		Products:   products,
		Discount:   d.Discount,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}

// MongoBundleDocFromDomain converts a domain entity to a MongoDB document
func MongoBundleDocFromDomain(bundle *domain.Bundle) *MongoBundleDoc {
	doc := &MongoBundleDoc{
		Shop:       bundle.Shop,
		BundleName: bundle.BundleName,
		Products:   bundle.Products,
		Discount:   bundle.Discount,
		CreatedAt:  bundle.CreatedAt,
		UpdatedAt:  bundle.UpdatedAt,
	}

	if bundle.ID != "" {
		if objID, err := primitive.ObjectIDFromHex(bundle.ID); err == nil {
			doc.ID = objID
		}
	}

	return doc
}
