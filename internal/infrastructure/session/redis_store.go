package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"shopify-bundle-upsell/internal/domain"

	"github.com/redis/go-redis/v9"
)

const (
	// session:{shop} -> JSON session
	keySession = "session:%s"

	// oauth_state:{state} -> JSON state, expires with the state
	keyOAuthState = "oauth_state:%s"
)

// RedisStore keeps sessions and pending OAuth states in Redis
type RedisStore struct {
	client *redis.Client
	now    func() time.Time
}

// NewRedisStore creates a store on an existing Redis client
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client: client,
		now:    time.Now,
	}
}

func (r *RedisStore) Get(ctx context.Context, shop string) (*domain.Session, error) {
	data, err := r.client.Get(ctx, fmt.Sprintf(keySession, shop)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get session failed: %w", err)
	}

	var s domain.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("unmarshal session failed: %w", err)
	}
	return &s, nil
}

func (r *RedisStore) Put(ctx context.Context, session *domain.Session) error {
	s := *session
	if s.CreatedAt.IsZero() {
		s.CreatedAt = r.now().UTC()
	}
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal session failed: %w", err)
	}
	if err := r.client.Set(ctx, fmt.Sprintf(keySession, s.Shop), data, 0).Err(); err != nil {
		return fmt.Errorf("redis set session failed: %w", err)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, shop string) error {
	if err := r.client.Del(ctx, fmt.Sprintf(keySession, shop)).Err(); err != nil {
		return fmt.Errorf("redis delete session failed: %w", err)
	}
	return nil
}

func (r *RedisStore) Save(ctx context.Context, state *domain.OAuthState) error {
	ttl := state.ExpiresAt.Sub(r.now())
	if state.ExpiresAt.IsZero() {
		ttl = 0
	} else if ttl <= 0 {
		return fmt.Errorf("oauth state already expired")
	}

	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal oauth state failed: %w", err)
	}
	if err := r.client.Set(ctx, fmt.Sprintf(keyOAuthState, state.State), data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set oauth state failed: %w", err)
	}
	return nil
}

func (r *RedisStore) Consume(ctx context.Context, state string) (*domain.OAuthState, error) {
	data, err := r.client.GetDel(ctx, fmt.Sprintf(keyOAuthState, state)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis getdel oauth state failed: %w", err)
	}

	var s domain.OAuthState
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("unmarshal oauth state failed: %w", err)
	}
	return &s, nil
}
