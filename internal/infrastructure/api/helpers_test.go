package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"testing"
	"time"

	"shopify-bundle-upsell/internal/application"
	"shopify-bundle-upsell/internal/domain"
	"shopify-bundle-upsell/internal/infrastructure/metrics"
	"shopify-bundle-upsell/internal/infrastructure/session"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testSecret = "hush"

// providerProducts is served verbatim by the stub, including values a typed decode would reformat
const providerProducts = `{"products":[{"id":1,"title":"Hat","body_html":null,"variants":[{"id":5,"price":"19.90"}]},{"id":2,"title":"Scarf","has_variants_that_requires_components":false}]}`

// memoryRepository mimics the mongo repository, including its id format
type memoryRepository struct {
	m       sync.RWMutex
	bundles map[string]*domain.Bundle
	order   []string
	err     error
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{bundles: make(map[string]*domain.Bundle)}
}

func (r *memoryRepository) Create(_ context.Context, b *domain.Bundle) error {
	r.m.Lock()
	defer r.m.Unlock()
	if r.err != nil {
		return r.err
	}
	b.ID = primitive.NewObjectID().Hex()
	b.CreatedAt = time.Now().UTC()
	b.UpdatedAt = b.CreatedAt
	stored := *b
	r.bundles[b.ID] = &stored
	r.order = append(r.order, b.ID)
	return nil
}

func (r *memoryRepository) ListByShop(_ context.Context, shop string) ([]*domain.Bundle, error) {
	r.m.RLock()
	defer r.m.RUnlock()
	if r.err != nil {
		return nil, r.err
	}
	out := []*domain.Bundle{}
	for _, id := range r.order {
		if b, ok := r.bundles[id]; ok && b.Shop == shop {
			c := *b
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *memoryRepository) Update(_ context.Context, id string, changes domain.BundleChanges) (*domain.Bundle, error) {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return nil, fmt.Errorf("%w %q", domain.ErrInvalidID, id)
	}
	r.m.Lock()
	defer r.m.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	b, ok := r.bundles[id]
	if !ok {
		return nil, nil
	}
	b.BundleName = changes.BundleName
	b.Products = changes.Products
	b.Discount = changes.Discount
	b.UpdatedAt = time.Now().UTC()
	c := *b
	return &c, nil
}

func (r *memoryRepository) Delete(_ context.Context, id string) (bool, error) {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return false, fmt.Errorf("%w %q", domain.ErrInvalidID, id)
	}
	r.m.Lock()
	defer r.m.Unlock()
	if r.err != nil {
		return false, r.err
	}
	if _, ok := r.bundles[id]; !ok {
		return false, nil
	}
	delete(r.bundles, id)
	return true, nil
}

// stubShopify accepts callbacks whose hmac is "valid" and issues "token-<code>"
type stubShopify struct {
	products json.RawMessage
}

func (s *stubShopify) AuthorizeURL(shop string, state string) (string, error) {
	return "https://" + shop + "/admin/oauth/authorize?state=" + url.QueryEscape(state), nil
}

func (s *stubShopify) VerifyCallback(query url.Values) (bool, error) {
	return query.Get("hmac") == "valid", nil
}

func (s *stubShopify) ExchangeToken(_ context.Context, _ string, code string) (string, error) {
	if code == "bad" {
		return "", errors.New("invalid code")
	}
	return "token-" + code, nil
}

func (s *stubShopify) ListProducts(_ context.Context, _ string, token string) (json.RawMessage, error) {
	if token != "token-code-1" {
		return nil, errors.New("401 unauthorized")
	}
	return s.products, nil
}

type testServer struct {
	handler  http.Handler
	repo     *memoryRepository
	sessions *session.MemoryStore
	cookies  *SessionCookie
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := zerolog.Nop()

	repo := newMemoryRepository()
	store := session.NewMemoryStore()
	client := &stubShopify{products: json.RawMessage(providerProducts)}
	cookies := NewSessionCookie(testSecret, false)

	handler := NewRouter(RouterDeps{
		Auth:    application.NewAuthService(client, store, store, []string{"read_products"}, 0, logger),
		Bundles: application.NewBundleService(repo, logger),
		Cookies: cookies,
		Metrics: metrics.New(),
		Logger:  logger,
	})

	return &testServer{handler: handler, repo: repo, sessions: store, cookies: cookies}
}
