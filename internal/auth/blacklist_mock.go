package auth

import (
	"context"
	"sync"
	"time"
)

type blacklistMock struct {
	mutex   sync.Mutex
	entries map[string]time.Time
}

func NewMockBlacklist() *blacklistMock {
	return &blacklistMock{
		entries: make(map[string]time.Time),
	}
}

func (b *blacklistMock) Add(_ context.Context, jti string, _ int, expiresAt time.Time) error {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	if _, ok := b.entries[jti]; ok {
		return ErrTokenBlacklisted
	}
	b.entries[jti] = expiresAt
	return nil
}

func (b *blacklistMock) IsBlacklisted(_ context.Context, jti string) (bool, error) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	_, ok := b.entries[jti]
	return ok, nil
}

func (b *blacklistMock) DeleteExpired(_ context.Context) (int64, error) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	var removed int64
	for jti, expiresAt := range b.entries {
		if expiresAt.Before(time.Now()) {
			delete(b.entries, jti)
			removed++
		}
	}
	return removed, nil
}
