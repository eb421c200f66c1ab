package application

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"shopify-bundle-upsell/internal/domain"
	"shopify-bundle-upsell/internal/ports"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DefaultStateTTL bounds how long an install may wait for its callback
const DefaultStateTTL = 10 * time.Minute

// AuthService runs the Shopify OAuth install flow and reads the catalog of authenticated shops
type AuthService struct {
	client   ports.ShopifyClient
	sessions ports.SessionStore
	states   ports.OAuthStateStore
	scopes   []string
	stateTTL time.Duration
	logger   zerolog.Logger

	now      func() time.Time
	newState func() string
}

// NewAuthService creates a new auth service
func NewAuthService(
	client ports.ShopifyClient,
	sessions ports.SessionStore,
	states ports.OAuthStateStore,
	scopes []string,
	stateTTL time.Duration,
	logger zerolog.Logger,
) *AuthService {
	if stateTTL <= 0 {
		stateTTL = DefaultStateTTL
	}
	return &AuthService{
		client:   client,
		sessions: sessions,
		states:   states,
		scopes:   scopes,
		stateTTL: stateTTL,
		logger:   logger,
		now:      time.Now,
		newState: uuid.NewString,
	}
}

// Begin stores a fresh state for the shop and returns the Shopify consent URL
func (s *AuthService) Begin(ctx context.Context, shop string) (string, error) {
	shop, err := domain.NormalizeShopDomain(shop)
	if err != nil {
		return "", err
	}

	state := &domain.OAuthState{
		State:     s.newState(),
		Shop:      shop,
		ExpiresAt: s.now().Add(s.stateTTL),
	}
	if err := s.states.Save(ctx, state); err != nil {
		s.logger.Error().Err(err).Str("shop", shop).Msg("Failed to save OAuth state")
		return "", fmt.Errorf("%w: failed to save oauth state: %w", domain.ErrStorage, err)
	}

	authURL, err := s.client.AuthorizeURL(shop, state.State)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrAuthentication, err)
	}

	s.logger.Info().
		Str("shop", shop).
		Strs("scopes", s.scopes).
		Msg("Beginning OAuth install")

	return authURL, nil
}

// CompleteCallback validates the callback query against the stored state,
// exchanges the code and stores the shop's session
func (s *AuthService) CompleteCallback(ctx context.Context, query url.Values) (*domain.Session, error) {
	code := query.Get("code")
	stateParam := query.Get("state")
	if query.Get("shop") == "" || code == "" || stateParam == "" || query.Get("hmac") == "" {
		return nil, fmt.Errorf("%w: missing callback parameters", domain.ErrAuthentication)
	}

	shop, err := domain.NormalizeShopDomain(query.Get("shop"))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrAuthentication, err)
	}

	valid, err := s.client.VerifyCallback(query)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrAuthentication, err)
	}
	if !valid {
		s.logger.Warn().Str("shop", shop).Msg("OAuth callback signature verification failed")
		return nil, fmt.Errorf("%w: invalid callback signature", domain.ErrAuthentication)
	}

	state, err := s.states.Consume(ctx, stateParam)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load oauth state: %w", domain.ErrAuthentication, err)
	}
	if state == nil || state.Shop != shop {
		s.logger.Warn().Str("shop", shop).Msg("OAuth callback state unknown or issued for another shop")
		return nil, fmt.Errorf("%w: invalid state", domain.ErrAuthentication)
	}
	if state.Expired(s.now()) {
		return nil, fmt.Errorf("%w: state expired", domain.ErrAuthentication)
	}

	accessToken, err := s.client.ExchangeToken(ctx, shop, code)
	if err != nil {
		s.logger.Error().Err(err).Str("shop", shop).Msg("Failed to exchange token")
		return nil, fmt.Errorf("%w: %w", domain.ErrAuthentication, err)
	}

	session := &domain.Session{
		ID:          uuid.NewString(),
		Shop:        shop,
		AccessToken: accessToken,
		Scopes:      s.scopes,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.sessions.Put(ctx, session); err != nil {
		s.logger.Error().Err(err).Str("shop", shop).Msg("Failed to store session")
		return nil, fmt.Errorf("%w: failed to store session: %w", domain.ErrAuthentication, err)
	}

	s.logger.Info().
		Str("shop", shop).
		Strs("scopes", s.scopes).
		Msg("OAuth install completed")

	return session, nil
}

// ListProducts fetches the product list of an authenticated shop
func (s *AuthService) ListProducts(ctx context.Context, shop string) (json.RawMessage, error) {
	if shop == "" {
		return nil, fmt.Errorf("%w: no session", domain.ErrSession)
	}

	session, err := s.sessions.Get(ctx, shop)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load session: %w", domain.ErrSession, err)
	}
	if session == nil {
		return nil, fmt.Errorf("%w: no session for shop %s", domain.ErrSession, shop)
	}

	products, err := s.client.ListProducts(ctx, session.Shop, session.AccessToken)
	if err != nil {
		s.logger.Error().Err(err).Str("shop", shop).Msg("Failed to fetch products")
		return nil, err
	}
	return products, nil
}
