package discord

import (
	"sync"
	"time"
)

type userLimiter struct {
	mu   sync.Mutex
	next map[string]time.Time
	win  time.Duration
	now  func() time.Time
}

func newUserLimiter(window time.Duration) *userLimiter {
	return &userLimiter{next: map[string]time.Time{}, win: window, now: time.Now}
}

// Allow devuelve false y cuánto falta si el usuario sigue dentro de su ventana.
func (l *userLimiter) Allow(userID string) (bool, time.Duration) {
	if l.win <= 0 {
		return true, 0
	}
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()
	if until, ok := l.next[userID]; ok && now.Before(until) {
		return false, until.Sub(now)
	}
	l.next[userID] = now.Add(l.win)
	return true, 0
}

// Release devuelve la ventana del usuario (el intento no contó).
func (l *userLimiter) Release(userID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.next, userID)
}
