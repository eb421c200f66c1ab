package shopify

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func newTestClient(httpClient *http.Client) *client {
	return NewClient(Options{
		APIKey:      "test-key",
		APISecret:   testSecret,
		RedirectURL: "https://app.example.com/auth/callback",
		Scopes:      []string{"write_products", "read_products"},
		APIVersion:  "2023-01",
		HTTPClient:  httpClient,
	}, zerolog.Nop()).(*client)
}

// sign computes the hmac Shopify appends to the callback query
func sign(q url.Values) string {
	unsigned := url.Values{}
	for k, v := range q {
		if k == "hmac" || k == "signature" {
			continue
		}
		unsigned[k] = v
	}
	message, _ := url.QueryUnescape(unsigned.Encode())
	mac := hmac.New(sha256.New, []byte(testSecret))
	mac.Write([]byte(message))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestAuthorizeURL(t *testing.T) {
	c := newTestClient(nil)

	raw, err := c.AuthorizeURL("shop1.myshopify.com", "nonce-123")
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "https", u.Scheme)
	assert.Equal(t, "shop1.myshopify.com", u.Host)
	assert.Equal(t, "/admin/oauth/authorize", u.Path)

	q := u.Query()
	assert.Equal(t, "test-key", q.Get("client_id"))
	assert.Equal(t, "write_products,read_products", q.Get("scope"))
	assert.Equal(t, "https://app.example.com/auth/callback", q.Get("redirect_uri"))
	assert.Equal(t, "nonce-123", q.Get("state"))
}

func TestVerifyCallback(t *testing.T) {
	c := newTestClient(nil)

	q := url.Values{}
	q.Set("shop", "shop1.myshopify.com")
	q.Set("code", "auth-code")
	q.Set("state", "nonce-123")
	q.Set("timestamp", "1700000000")
	q.Set("hmac", sign(q))

	ok, err := c.VerifyCallback(q)
	require.NoError(t, err)
	assert.True(t, ok)

	q.Set("code", "tampered")
	ok, err = c.VerifyCallback(q)
	require.NoError(t, err)
	assert.False(t, ok)
}

// rewriteTransport sends every request to the test server regardless of shop host
type rewriteTransport struct {
	target *url.URL
}

func (rt rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.URL.Scheme = rt.target.Scheme
	req.URL.Host = rt.target.Host
	return http.DefaultTransport.RoundTrip(req)
}

// providerProducts carries values a decode into goshopify.Product would drop or reformat
const providerProducts = `{"products":[{"id":1,"title":"Hat","has_variants_that_requires_components":false,"body_html":null,"variants":[{"id":5,"price":"19.90","inventory_quantity":3}]}]}`

func TestListProducts(t *testing.T) {
	var gotPath, gotToken string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotToken = r.Header.Get("X-Shopify-Access-Token")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(providerProducts))
	}))
	defer srv.Close()

	target, err := url.Parse(srv.URL)
	require.NoError(t, err)
	c := newTestClient(&http.Client{Transport: rewriteTransport{target: target}})

	products, err := c.ListProducts(context.Background(), "shop1.myshopify.com", "shpat_token")
	require.NoError(t, err)
	assert.Equal(t, providerProducts, string(products))
	assert.Equal(t, "/admin/api/2023-01/products.json", gotPath)
	assert.Equal(t, "shpat_token", gotToken)
}

func TestListProducts_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"errors":"[API] Invalid API key or access token"}`))
	}))
	defer srv.Close()

	target, err := url.Parse(srv.URL)
	require.NoError(t, err)
	c := newTestClient(&http.Client{Transport: rewriteTransport{target: target}})

	_, err = c.ListProducts(context.Background(), "shop1.myshopify.com", "bad")
	assert.Error(t, err)
}

func TestExchangeToken(t *testing.T) {
	var gotMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"shpat_abc","scope":"write_products,read_products"}`))
	}))
	defer srv.Close()

	target, err := url.Parse(srv.URL)
	require.NoError(t, err)
	c := newTestClient(&http.Client{Transport: rewriteTransport{target: target}})

	token, err := c.ExchangeToken(context.Background(), "shop1.myshopify.com", "auth-code")
	require.NoError(t, err)
	assert.Equal(t, "shpat_abc", token)
	assert.Equal(t, http.MethodPost, gotMethod)
}
