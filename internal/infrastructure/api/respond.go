package api

import (
	"encoding/json"
	"net/http"

	"shopify-bundle-upsell/internal/domain"

	"github.com/rs/zerolog"
)

// MessageResponse is the confirmation body of bundle mutations
type MessageResponse struct {
	Message string         `json:"message"`
	Bundle  *domain.Bundle `json:"bundle,omitempty"`
}

func respondJSON(w http.ResponseWriter, logger zerolog.Logger, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error().Err(err).Msg("Failed to encode response")
	}
}

func result(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}
