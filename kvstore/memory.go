package kvstore

import (
	"context"
	"strconv"
	"sync"
	"time"
)

type memoryItem struct {
	value   string
	expires time.Time
}

// Memory is a mutex-guarded map implementation of Store.
type Memory struct {
	mu    sync.Mutex
	items map[string]memoryItem
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{items: make(map[string]memoryItem)}
}

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.items[key]
	if !ok {
		return "", false, nil
	}
	if !item.expires.IsZero() && time.Now().After(item.expires) {
		delete(m.items, key)
		return "", false, nil
	}
	return item.value, true, nil
}

func (m *Memory) Set(_ context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	item := memoryItem{value: value}
	if ttl > 0 {
		item.expires = time.Now().Add(ttl)
	}
	m.items[key] = item
	return nil
}

func (m *Memory) Increment(ctx context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.items[key]
	if ok && !item.expires.IsZero() && time.Now().After(item.expires) {
		ok = false
	}

	var n int64
	if ok {
		parsed, err := strconv.ParseInt(item.value, 10, 64)
		if err == nil {
			n = parsed
		}
	}
	n++

	m.items[key] = memoryItem{value: strconv.FormatInt(n, 10), expires: item.expires}
	return n, nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}
