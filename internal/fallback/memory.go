package fallback

import (
	"context"
	"sync"
	"time"

	"github.com/ibyanalytics/nfl-gateway/internal/resource"
)

type memoryEntry struct {
	result    resource.Result
	expiresAt time.Time // zero = never expires
}

// Memory is a thread-safe in-process fallback store. With ttl = 0 entries
// never expire — stale data beats no data when every provider is down.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
}

// NewMemory creates an in-memory store. ttl = 0 keeps entries forever.
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
	}
}

// Seed preloads bundled defaults so a cold process still has something to
// degrade to. Seeded entries never expire.
func (m *Memory) Seed(results ...*resource.Result) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range results {
		m.entries[r.Resource] = memoryEntry{result: *r}
	}
}

func (m *Memory) Get(_ context.Context, name string) (*resource.Result, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[name]
	if !ok {
		return nil, false, nil
	}
	if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
		return nil, false, nil
	}
	cp := e.result
	return &cp, true, nil
}

func (m *Memory) Set(_ context.Context, res *resource.Result) error {
	e := memoryEntry{result: *res}
	if m.ttl > 0 {
		e.expiresAt = time.Now().Add(m.ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[res.Resource] = e
	return nil
}

func (m *Memory) Stats(_ context.Context) map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	active := 0
	now := time.Now()
	for _, e := range m.entries {
		if e.expiresAt.IsZero() || now.Before(e.expiresAt) {
			active++
		}
	}
	return map[string]interface{}{
		"backend":      "memory",
		"total_keys":   len(m.entries),
		"active_keys":  active,
		"expired_keys": len(m.entries) - active,
	}
}
