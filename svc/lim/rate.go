// Package lim rate-limits the guessable surfaces of the API, share-code
// validation and login, per client IP.
package lim

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"clipshare/svc/util"
)

const (
	cleanupInterval = 5 * time.Minute
	limiterTTL      = 30 * time.Minute
)

type Limiter struct {
	mu      sync.Mutex
	entries map[string]*limiterEntry
	rpm     int
	burst   int
	quit    chan struct{}
}

type limiterEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

func New(rpm, burst int) *Limiter {
	l := &Limiter{
		entries: make(map[string]*limiterEntry),
		rpm:     rpm,
		burst:   burst,
		quit:    make(chan struct{}),
	}
	go l.cleanupLoop()
	return l
}

func (l *Limiter) Allow(r *http.Request) bool {
	ip := ClientIP(r)
	l.mu.Lock()
	e, ok := l.entries[ip]
	if !ok {
		e = &limiterEntry{
			limiter: rate.NewLimiter(rate.Limit(float64(l.rpm)/60.0), l.burst),
		}
		l.entries[ip] = e
	}
	e.lastAccess = time.Now()
	l.mu.Unlock()
	return e.limiter.Allow()
}

func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func (l *Limiter) cleanupLoop() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.evictStale()
		case <-l.quit:
			return
		}
	}
}

func (l *Limiter) evictStale() {
	now := time.Now()
	l.mu.Lock()
	evicted := 0
	for key, e := range l.entries {
		if now.Sub(e.lastAccess) > limiterTTL {
			delete(l.entries, key)
			evicted++
		}
	}
	remaining := len(l.entries)
	l.mu.Unlock()
	if evicted > 0 {
		util.Debug().Int("evicted", evicted).Int("remaining", remaining).Msg("rate limiter cleanup")
	}
}

func (l *Limiter) Stop() {
	close(l.quit)
}
