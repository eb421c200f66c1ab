package domain

import (
	"fmt"
	"regexp"
	"strings"
)

var shopDomainPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*\.myshopify\.com$`)

// NormalizeShopDomain lowercases a shop parameter and expands a bare store name
// to its myshopify.com domain. It rejects anything that is not a myshopify.com host.
func NormalizeShopDomain(shop string) (string, error) {
	shop = strings.ToLower(strings.TrimSpace(shop))
	if shop == "" {
		return "", fmt.Errorf("%w: shop is required", ErrValidation)
	}
	if !strings.Contains(shop, ".") {
		shop += ".myshopify.com"
	}
	if !shopDomainPattern.MatchString(shop) {
		return "", fmt.Errorf("%w: invalid shop domain %q", ErrValidation, shop)
	}
	return shop, nil
}
