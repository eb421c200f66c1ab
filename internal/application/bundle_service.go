package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"shopify-bundle-upsell/internal/domain"
	"shopify-bundle-upsell/internal/ports"

	"github.com/rs/zerolog"
)

// BundleService maps each bundle operation onto a single repository call
type BundleService struct {
	repository ports.BundleRepository
	logger     zerolog.Logger
}

// NewBundleService creates a new bundle service
func NewBundleService(repository ports.BundleRepository, logger zerolog.Logger) *BundleService {
	return &BundleService{
		repository: repository,
		logger:     logger,
	}
}

// Create validates the input and stores a new bundle
func (s *BundleService) Create(ctx context.Context, input domain.BundleInput) (*domain.Bundle, error) {
	if err := input.ValidateCreate(); err != nil {
		return nil, err
	}

	bundle := input.ToBundle()
	if err := s.repository.Create(ctx, bundle); err != nil {
		s.logger.Error().Err(err).Str("shop", bundle.Shop).Msg("Failed to create bundle")
		return nil, storageError(err)
	}

	s.logger.Info().
		Str("shop", bundle.Shop).
		Str("bundleId", bundle.ID).
		Str("bundleName", bundle.BundleName).
		Msg("Created bundle")

	return bundle, nil
}

// ListByShop returns every bundle of a shop; a shop without bundles gets an empty slice
func (s *BundleService) ListByShop(ctx context.Context, shop string) ([]*domain.Bundle, error) {
	if strings.TrimSpace(shop) == "" {
		return nil, fmt.Errorf("%w: shop is required", domain.ErrValidation)
	}

	bundles, err := s.repository.ListByShop(ctx, shop)
	if err != nil {
		s.logger.Error().Err(err).Str("shop", shop).Msg("Failed to list bundles")
		return nil, storageError(err)
	}
	if bundles == nil {
		bundles = []*domain.Bundle{}
	}
	return bundles, nil
}

// Update replaces the name, products and discount of an existing bundle
func (s *BundleService) Update(ctx context.Context, id string, input domain.BundleInput) (*domain.Bundle, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: bundle id is required", domain.ErrInvalidID)
	}
	if err := input.ValidateUpdate(); err != nil {
		return nil, err
	}

	bundle, err := s.repository.Update(ctx, id, input.ToChanges())
	if err != nil {
		s.logger.Error().Err(err).Str("bundleId", id).Msg("Failed to update bundle")
		return nil, storageError(err)
	}
	if bundle == nil {
		return nil, fmt.Errorf("%w: bundle %s", domain.ErrNotFound, id)
	}

	s.logger.Info().
		Str("shop", bundle.Shop).
		Str("bundleId", bundle.ID).
		Msg("Updated bundle")

	return bundle, nil
}

// Delete removes a bundle. Deleting an id that does not exist succeeds.
func (s *BundleService) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: bundle id is required", domain.ErrInvalidID)
	}

	deleted, err := s.repository.Delete(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("bundleId", id).Msg("Failed to delete bundle")
		return storageError(err)
	}

	s.logger.Info().
		Str("bundleId", id).
		Bool("existed", deleted).
		Msg("Deleted bundle")

	return nil
}

// storageError classifies a repository failure; validation errors pass through
func storageError(err error) error {
	if errors.Is(err, domain.ErrValidation) {
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrStorage, err)
}
