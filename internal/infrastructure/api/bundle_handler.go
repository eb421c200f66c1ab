package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"shopify-bundle-upsell/internal/domain"
	"shopify-bundle-upsell/internal/infrastructure/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

const maxBodyBytes = 1 << 20

// DashboardText is served at /dashboard
const DashboardText = "Welcome to the Bundle Upsell Dashboard!"

// BundleStore is the bundle service the bundle handlers call
type BundleStore interface {
	Create(ctx context.Context, input domain.BundleInput) (*domain.Bundle, error)
	ListByShop(ctx context.Context, shop string) ([]*domain.Bundle, error)
	Update(ctx context.Context, id string, input domain.BundleInput) (*domain.Bundle, error)
	Delete(ctx context.Context, id string) error
}

// BundleHandler serves the bundle CRUD routes
type BundleHandler struct {
	bundles BundleStore
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

// NewBundleHandler creates a new bundle handler
func NewBundleHandler(bundles BundleStore, m *metrics.Metrics, logger zerolog.Logger) *BundleHandler {
	return &BundleHandler{bundles: bundles, metrics: m, logger: logger}
}

// Create stores a new bundle
func (h *BundleHandler) Create(w http.ResponseWriter, r *http.Request) {
	input, err := decodeBundleInput(w, r)
	if err != nil {
		h.logger.Warn().Err(err).Msg("Invalid create bundle body")
		http.Error(w, "Missing bundle details.", http.StatusBadRequest)
		return
	}

	bundle, err := h.bundles.Create(r.Context(), input)
	h.metrics.BundleOperation("create", result(err))
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			http.Error(w, "Missing bundle details.", http.StatusBadRequest)
			return
		}
		h.logger.Error().Err(err).Msg("Failed to create bundle")
		http.Error(w, "Failed to create bundle.", http.StatusInternalServerError)
		return
	}

	respondJSON(w, h.logger, http.StatusCreated, MessageResponse{
		Message: "Bundle \"" + bundle.BundleName + "\" created successfully!",
		Bundle:  bundle,
	})
}

// List returns every bundle of a shop
func (h *BundleHandler) List(w http.ResponseWriter, r *http.Request) {
	shop := r.URL.Query().Get("shop")
	if shop == "" {
		http.Error(w, "Missing shop parameter.", http.StatusBadRequest)
		return
	}

	bundles, err := h.bundles.ListByShop(r.Context(), shop)
	h.metrics.BundleOperation("list", result(err))
	if err != nil {
		h.logger.Error().Err(err).Str("shop", shop).Msg("Failed to fetch bundles")
		http.Error(w, "Failed to fetch bundles.", http.StatusInternalServerError)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, bundles)
}

// Update replaces the name, products and discount of a bundle
func (h *BundleHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	input, err := decodeBundleInput(w, r)
	if err != nil {
		h.logger.Warn().Err(err).Str("bundleId", id).Msg("Invalid update bundle body")
		http.Error(w, "Missing bundle details.", http.StatusBadRequest)
		return
	}

	bundle, err := h.bundles.Update(r.Context(), id, input)
	h.metrics.BundleOperation("update", result(err))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidID):
			http.Error(w, "Invalid bundle id.", http.StatusBadRequest)
		case errors.Is(err, domain.ErrValidation):
			http.Error(w, "Missing bundle details.", http.StatusBadRequest)
		case errors.Is(err, domain.ErrNotFound):
			http.Error(w, "Bundle not found.", http.StatusNotFound)
		default:
			h.logger.Error().Err(err).Str("bundleId", id).Msg("Failed to update bundle")
			http.Error(w, "Failed to update bundle.", http.StatusInternalServerError)
		}
		return
	}

	respondJSON(w, h.logger, http.StatusOK, MessageResponse{
		Message: "Bundle \"" + bundle.BundleName + "\" updated successfully!",
		Bundle:  bundle,
	})
}

// Delete removes a bundle; unknown ids succeed
func (h *BundleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	err := h.bundles.Delete(r.Context(), id)
	h.metrics.BundleOperation("delete", result(err))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidID) {
			http.Error(w, "Invalid bundle id.", http.StatusBadRequest)
			return
		}
		h.logger.Error().Err(err).Str("bundleId", id).Msg("Failed to delete bundle")
		http.Error(w, "Failed to delete bundle.", http.StatusInternalServerError)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, MessageResponse{Message: "Bundle deleted successfully!"})
}

// Dashboard serves the static landing text
func (h *BundleHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(DashboardText))
}

func decodeBundleInput(w http.ResponseWriter, r *http.Request) (domain.BundleInput, error) {
	var input domain.BundleInput
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&input); err != nil {
		return input, fmt.Errorf("failed to decode bundle body: %w", err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return input, errors.New("unexpected data after bundle body")
	}
	return input, nil
}
