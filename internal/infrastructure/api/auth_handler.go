package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"shopify-bundle-upsell/internal/domain"
	"shopify-bundle-upsell/internal/infrastructure/metrics"

	"github.com/rs/zerolog"
)

// Authenticator is the install flow the auth handlers drive
type Authenticator interface {
	Begin(ctx context.Context, shop string) (string, error)
	CompleteCallback(ctx context.Context, query url.Values) (*domain.Session, error)
	ListProducts(ctx context.Context, shop string) (json.RawMessage, error)
}

// AuthHandler serves the OAuth install routes and the product catalog
type AuthHandler struct {
	auth    Authenticator
	cookies *SessionCookie
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(auth Authenticator, cookies *SessionCookie, m *metrics.Metrics, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, cookies: cookies, metrics: m, logger: logger}
}

// Begin redirects the merchant to the Shopify consent screen
func (h *AuthHandler) Begin(w http.ResponseWriter, r *http.Request) {
	shop := strings.TrimSpace(r.URL.Query().Get("shop"))
	if shop == "" {
		http.Error(w, "Missing shop parameter.", http.StatusBadRequest)
		return
	}

	authURL, err := h.auth.Begin(r.Context(), shop)
	h.metrics.OAuthEvent("begin", result(err))
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			h.logger.Warn().Err(err).Str("shop", shop).Msg("Rejected OAuth begin")
			http.Error(w, "Invalid shop parameter.", http.StatusBadRequest)
			return
		}
		h.logger.Error().Err(err).Str("shop", shop).Msg("Failed to begin OAuth")
		http.Error(w, "Failed to begin authentication.", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, authURL, http.StatusFound)
}

// Callback completes the install and hands the browser to the dashboard
func (h *AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	session, err := h.auth.CompleteCallback(r.Context(), r.URL.Query())
	h.metrics.OAuthEvent("callback", result(err))
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("shop", r.URL.Query().Get("shop")).
			Msg("OAuth callback failed")
		http.Error(w, "Authentication failed.", http.StatusInternalServerError)
		return
	}

	h.cookies.Set(w, session.Shop)
	http.Redirect(w, r, "/dashboard?shop="+url.QueryEscape(session.Shop), http.StatusFound)
}

// Products lists the catalog of the shop bound to the session cookie
func (h *AuthHandler) Products(w http.ResponseWriter, r *http.Request) {
	shop := h.cookies.Shop(r)
	if shop == "" {
		h.logger.Warn().Msg("Products requested without a valid session cookie")
		http.Error(w, "Failed to fetch products.", http.StatusInternalServerError)
		return
	}

	products, err := h.auth.ListProducts(r.Context(), shop)
	if err != nil {
		h.logger.Error().Err(err).Str("shop", shop).Msg("Failed to fetch products")
		http.Error(w, "Failed to fetch products.", http.StatusInternalServerError)
		return
	}

	// the provider body is already {"products": [...]}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(products); err != nil {
		h.logger.Error().Err(err).Str("shop", shop).Msg("Failed to write products response")
	}
}
