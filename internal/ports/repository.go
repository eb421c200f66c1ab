package ports

import (
	"context"

	"shopify-bundle-upsell/internal/domain"
)

// BundleRepository defines the interface for bundle persistence.
// Every method maps to a single storage call.
type BundleRepository interface {
	// Create inserts a new bundle and fills in its ID and timestamps
	Create(ctx context.Context, bundle *domain.Bundle) error

	// ListByShop returns every bundle owned by the shop in storage order
	ListByShop(ctx context.Context, shop string) ([]*domain.Bundle, error)

	// Update replaces the mutable fields and returns the updated bundle,
	// or (nil, nil) when no bundle has that ID
	Update(ctx context.Context, id string, changes domain.BundleChanges) (*domain.Bundle, error)

	// Delete removes a bundle and reports whether one was removed
	Delete(ctx context.Context, id string) (bool, error)
}
