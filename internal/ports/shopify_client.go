package ports

import (
	"context"
	"encoding/json"
	"net/url"
)

// ShopifyClient defines the Shopify operations the app depends on
type ShopifyClient interface {
	// Authentication
	AuthorizeURL(shop string, state string) (string, error)
	VerifyCallback(query url.Values) (bool, error)
	ExchangeToken(ctx context.Context, shop string, code string) (string, error)

	// Product API, the provider body is returned untouched
	ListProducts(ctx context.Context, shop string, accessToken string) (json.RawMessage, error)
}
