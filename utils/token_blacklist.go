package utils

import (
	"context"
	"time"
)

// TokenBlacklist records revoked session tokens until their natural expiry.
type TokenBlacklist struct {
	store Cache
}

// NewTokenBlacklist stores revocations in the given cache.
func NewTokenBlacklist(store Cache) *TokenBlacklist {
	return &TokenBlacklist{store: store}
}

// Revoke blacklists token until expiresAt. Already expired tokens are ignored.
func (b *TokenBlacklist) Revoke(ctx context.Context, token string, expiresAt time.Time) {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return
	}
	b.store.SetBytes(ctx, token, []byte("1"), ttl)
}

// IsRevoked reports whether token was revoked before its expiry.
func (b *TokenBlacklist) IsRevoked(ctx context.Context, token string) bool {
	_, ok := b.store.GetBytes(ctx, token)
	return ok
}
