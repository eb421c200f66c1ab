package middleware

import (
	"net/http"

	"shopify-bundle-upsell/internal/domain"
)

// SecurityHeadersMiddleware sets response headers for an app embedded in the Shopify admin.
// Framing is only allowed by the admin and the shop named in the request.
func SecurityHeadersMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			h.Set("Content-Security-Policy", frameAncestors(r.URL.Query().Get("shop")))
			next.ServeHTTP(w, r)
		})
	}
}

func frameAncestors(shop string) string {
	if shop, err := domain.NormalizeShopDomain(shop); err == nil {
		return "frame-ancestors https://" + shop + " https://admin.shopify.com;"
	}
	return "frame-ancestors 'none';"
}
