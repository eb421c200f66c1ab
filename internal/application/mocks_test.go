package application

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sync"
	"time"

	"shopify-bundle-upsell/internal/domain"
)

type mockRepository struct {
	m       sync.RWMutex
	bundles map[string]*domain.Bundle
	order   []string
	nextID  int
	err     error
}

func newMockRepository() *mockRepository {
	return &mockRepository{bundles: make(map[string]*domain.Bundle)}
}

func (m *mockRepository) Create(_ context.Context, b *domain.Bundle) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	m.nextID++
	b.ID = fmt.Sprintf("%024x", m.nextID)
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	stored := *b
	m.bundles[b.ID] = &stored
	m.order = append(m.order, b.ID)
	return nil
}

func (m *mockRepository) ListByShop(_ context.Context, shop string) ([]*domain.Bundle, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	var out []*domain.Bundle
	for _, id := range m.order {
		if b, ok := m.bundles[id]; ok && b.Shop == shop {
			c := *b
			out = append(out, &c)
		}
	}
	return out, nil
}

func (m *mockRepository) Update(_ context.Context, id string, changes domain.BundleChanges) (*domain.Bundle, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	b, ok := m.bundles[id]
	if !ok {
		return nil, nil
	}
	b.BundleName = changes.BundleName
	b.Products = changes.Products
	b.Discount = changes.Discount
	c := *b
	return &c, nil
}

func (m *mockRepository) Delete(_ context.Context, id string) (bool, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return false, m.err
	}
	_, ok := m.bundles[id]
	delete(m.bundles, id)
	return ok, nil
}

type mockShopifyClient struct {
	validSignature bool
	verifyErr      error
	token          string
	exchangeErr    error
	products       json.RawMessage
	productsErr    error

	exchangedCode string
	usedToken     string
}

func (c *mockShopifyClient) AuthorizeURL(shop string, state string) (string, error) {
	return fmt.Sprintf("https://%s/admin/oauth/authorize?client_id=key&state=%s", shop, url.QueryEscape(state)), nil
}

func (c *mockShopifyClient) VerifyCallback(url.Values) (bool, error) {
	return c.validSignature, c.verifyErr
}

func (c *mockShopifyClient) ExchangeToken(_ context.Context, _ string, code string) (string, error) {
	c.exchangedCode = code
	if c.exchangeErr != nil {
		return "", c.exchangeErr
	}
	return c.token, nil
}

func (c *mockShopifyClient) ListProducts(_ context.Context, _ string, accessToken string) (json.RawMessage, error) {
	c.usedToken = accessToken
	if c.productsErr != nil {
		return nil, c.productsErr
	}
	return c.products, nil
}
