package ports

import (
	"context"

	"shopify-bundle-upsell/internal/domain"
)

// SessionStore persists the access token of each authenticated shop
type SessionStore interface {
	// Get returns the shop's session, or (nil, nil) if the shop never authenticated
	Get(ctx context.Context, shop string) (*domain.Session, error)
	Put(ctx context.Context, session *domain.Session) error
	Delete(ctx context.Context, shop string) error
}

// OAuthStateStore keeps the nonce of installs waiting for their callback
type OAuthStateStore interface {
	Save(ctx context.Context, state *domain.OAuthState) error

	// Consume returns and removes a state in one step so a nonce completes at most one callback.
	// It returns (nil, nil) for an unknown state.
	Consume(ctx context.Context, state string) (*domain.OAuthState, error)
}
