package memory

import (
	"context"
	"sync"
	"time"

	"github.com/profitum/platform-api/internal/core/ports"
)

var _ ports.RevocationList = (*RevocationList)(nil)

// RevocationList is the single-process fallback used when Redis is not
// configured. Expired entries are dropped lazily.
type RevocationList struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

func NewRevocationList() *RevocationList {
	return &RevocationList{entries: make(map[string]time.Time), now: time.Now}
}

func (l *RevocationList) Revoke(_ context.Context, tokenID string, until time.Time) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for id, exp := range l.entries {
		if !exp.After(now) {
			delete(l.entries, id)
		}
	}
	if until.After(now) {
		l.entries[tokenID] = until
	}
	return nil
}

func (l *RevocationList) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	exp, ok := l.entries[tokenID]
	if !ok {
		return false, nil
	}
	if !exp.After(l.now()) {
		delete(l.entries, tokenID)
		return false, nil
	}
	return true, nil
}
