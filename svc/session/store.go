// Package session stores the server side of the cookie session: an opaque
// token mapped to a user id with a TTL. Two backends exist, a bounded
// in-process LRU and Redis for deployments that need sessions to survive a
// restart.
package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"
)

type Store interface {
	Create(ctx context.Context, token string, userID int64, ttl time.Duration) error
	Lookup(ctx context.Context, token string) (int64, bool, error)
	Delete(ctx context.Context, token string) error
	Close() error
}

// NewToken returns an unguessable session token.
func NewToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.Wrap(err, "session token rand")
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

type Memory struct {
	c  *lru.Cache[string, entry]
	mu sync.Mutex
}

type entry struct {
	userID int64
	exp    time.Time
}

func NewMemory(size int) (*Memory, error) {
	if size <= 0 {
		return nil, errors.New("session store size must be positive")
	}
	c, err := lru.New[string, entry](size)
	if err != nil {
		return nil, err
	}
	return &Memory{c: c}, nil
}

func (m *Memory) Create(ctx context.Context, token string, userID int64, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.c.Add(token, entry{userID: userID, exp: time.Now().Add(ttl)})
	return nil
}

func (m *Memory) Lookup(ctx context.Context, token string) (int64, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.c.Get(token)
	if !ok {
		return 0, false, nil
	}
	if time.Now().After(e.exp) {
		m.c.Remove(token)
		return 0, false, nil
	}
	return e.userID, true, nil
}

func (m *Memory) Delete(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.c.Remove(token)
	return nil
}

func (m *Memory) Close() error { return nil }
