package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"shopify-bundle-upsell/internal/ports"

	goshopify "github.com/bold-commerce/go-shopify/v4"
	"github.com/rs/zerolog"
)

// Options configures the Shopify app credentials and REST client
type Options struct {
	APIKey      string
	APISecret   string
	RedirectURL string
	Scopes      []string
	APIVersion  string
	Retries     int

	// HTTPClient overrides the transport of the REST client
	HTTPClient *http.Client
}

type client struct {
	app        goshopify.App
	apiVersion string
	retries    int
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a new Shopify client adapter
func NewClient(opts Options, logger zerolog.Logger) ports.ShopifyClient {
	app := goshopify.App{
		ApiKey:      opts.APIKey,
		ApiSecret:   opts.APISecret,
		RedirectUrl: opts.RedirectURL,
		// Shopify expects scopes comma-separated without spaces
		Scope: strings.Join(opts.Scopes, ","),
	}
	return &client{
		app:        app,
		apiVersion: opts.APIVersion,
		retries:    opts.Retries,
		httpClient: opts.HTTPClient,
		logger:     logger,
	}
}

// createClient is a helper to create a goshopify client
func (c *client) createClient(shopDomain string, accessToken string) (*goshopify.Client, error) {
	var opts []goshopify.Option
	if c.apiVersion != "" {
		opts = append(opts, goshopify.WithVersion(c.apiVersion))
	}
	if c.retries > 0 {
		opts = append(opts, goshopify.WithRetry(c.retries))
	}
	if c.httpClient != nil {
		opts = append(opts, goshopify.WithHTTPClient(c.httpClient))
	}
	client, err := goshopify.NewClient(c.app, shopDomain, accessToken, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return client, nil
}

// Authentication methods

func (c *client) AuthorizeURL(shop string, state string) (string, error) {
	authURL, err := c.app.AuthorizeUrl(shop, state)
	if err != nil {
		return "", fmt.Errorf("failed to build authorize url: %w", err)
	}

	c.logger.Debug().
		Str("shop", shop).
		Str("scopes", c.app.Scope).
		Msg("Generated OAuth authorization URL")

	return authURL, nil
}

func (c *client) VerifyCallback(query url.Values) (bool, error) {
	u := &url.URL{RawQuery: query.Encode()}
	ok, err := c.app.VerifyAuthorizationURL(u)
	if err != nil {
		return false, fmt.Errorf("failed to verify callback: %w", err)
	}
	return ok, nil
}

func (c *client) ExchangeToken(ctx context.Context, shop string, code string) (string, error) {
	shopClient, err := c.createClient(shop, "")
	if err != nil {
		return "", err
	}
	app := c.app
	app.Client = shopClient

	token, err := app.GetAccessToken(ctx, shop, code)
	if err != nil {
		return "", fmt.Errorf("failed to exchange token: %w", err)
	}
	return token, nil
}

// Product API

// ListProducts fetches products.json and keeps the body verbatim, so fields the
// goshopify.Product struct does not model survive
func (c *client) ListProducts(ctx context.Context, shopDomain string, accessToken string) (json.RawMessage, error) {
	client, err := c.createClient(shopDomain, accessToken)
	if err != nil {
		return nil, err
	}
	var body json.RawMessage
	if err := client.Get(ctx, "products.json", &body, nil); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return body, nil
}
