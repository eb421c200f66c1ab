package domain

import "time"

// Session holds the offline access token Shopify granted for a shop
type Session struct {
	ID          string    `json:"id"`
	Shop        string    `json:"shop"`
	AccessToken string    `json:"access_token"`
	Scopes      []string  `json:"scopes"`
	CreatedAt   time.Time `json:"created_at"`
}

// OAuthState is the nonce stored between beginning an install and its callback
type OAuthState struct {
	State     string    `json:"state"`
	Shop      string    `json:"shop"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the state can no longer complete a callback
func (s *OAuthState) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}
