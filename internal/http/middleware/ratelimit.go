package middleware

import (
	"sync"
	"time"
)

type clientInfo struct {
	last  time.Time
	count int
}

// sweepAbove is the map size at which stale windows are dropped.
const sweepAbove = 1024

// memoryCounter is the fixed-window counter used when Redis is not configured.
// Each limiter owns one, so limits on different routes do not share counts.
type memoryCounter struct {
	mu      sync.Mutex
	clients map[string]*clientInfo
}

func newMemoryCounter() *memoryCounter {
	return &memoryCounter{clients: make(map[string]*clientInfo)}
}

// incr counts one hit for key and returns the count in the current window.
func (m *memoryCounter) incr(key string, window time.Duration, now time.Time) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.clients) > sweepAbove {
		for k, ci := range m.clients {
			if now.Sub(ci.last) > window {
				delete(m.clients, k)
			}
		}
	}

	ci, ok := m.clients[key]
	if !ok || now.Sub(ci.last) > window {
		m.clients[key] = &clientInfo{last: now, count: 1}
		return 1
	}
	ci.count++
	return int64(ci.count)
}
