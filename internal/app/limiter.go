package app

import (
	"context"
	"sync"
)

// StreamLimiter borne le nombre de flux amont ouverts en parallèle par le serveur.
// Le plafond suit les réglages (SetLimit) sans redémarrage; Acquire respecte le contexte.
type StreamLimiter struct {
	mu       sync.Mutex
	limit    int
	inFlight int
	notify   chan struct{}
}

func NewStreamLimiter(limit int) *StreamLimiter {
	if limit <= 0 {
		limit = 1
	}
	return &StreamLimiter{limit: limit, notify: make(chan struct{})}
}

func (l *StreamLimiter) Limit() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.limit
}

func (l *StreamLimiter) InFlight() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.inFlight
}

func (l *StreamLimiter) SetLimit(limit int) {
	if limit <= 0 {
		limit = 1
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.limit == limit {
		return
	}
	l.limit = limit
	l.wakeLocked()
}

// Acquire attend une place libre. La fonction renvoyée libère la place; elle est idempotente.
func (l *StreamLimiter) Acquire(ctx context.Context) (func(), error) {
	for {
		l.mu.Lock()
		if l.inFlight < l.limit {
			l.inFlight++
			l.mu.Unlock()
			var once sync.Once
			return func() { once.Do(l.release) }, nil
		}
		ch := l.notify
		l.mu.Unlock()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ch:
		}
	}
}

func (l *StreamLimiter) release() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.inFlight > 0 {
		l.inFlight--
	}
	l.wakeLocked()
}

// wakeLocked réveille tous les waiters: fermer puis recréer le channel.
func (l *StreamLimiter) wakeLocked() {
	close(l.notify)
	l.notify = make(chan struct{})
}
