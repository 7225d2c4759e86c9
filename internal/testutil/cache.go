package testutil

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// Cache implementación en memoria de ports.Cache que ignora el TTL.
type Cache struct {
	mu       sync.Mutex
	values   map[string][]byte
	counters map[string]int64
	Gets     int
	Hits     int
}

// NewCache crea una caché vacía.
func NewCache() *Cache {
	return &Cache{values: map[string][]byte{}, counters: map[string]int64{}}
}

func (c *Cache) Get(_ context.Context, key string, dest any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Gets++
	if n, ok := c.counters[key]; ok {
		b, _ := json.Marshal(n)
		return true, json.Unmarshal(b, dest)
	}
	b, ok := c.values[key]
	if !ok {
		return false, nil
	}
	c.Hits++
	return true, json.Unmarshal(b, dest)
}

func (c *Cache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = b
	return nil
}

func (c *Cache) Incr(_ context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counters[key]++
	return c.counters[key], nil
}

// Version valor actual de un contador.
func (c *Cache) Version(key string) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counters[key]
}
