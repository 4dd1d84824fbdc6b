package service

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// IndexCache keeps built FAQ indexes keyed by the table content and the
// embedding model, so an unchanged table is embedded only once. Entries are
// evicted oldest first. A capacity of 0 disables caching.
type IndexCache struct {
	registry *ModelRegistry
	capacity int
	logger   *zap.Logger

	group singleflight.Group

	mu      sync.Mutex
	entries map[string]*FAQSearch
	order   []string
}

func NewIndexCache(registry *ModelRegistry, capacity int, logger *zap.Logger) *IndexCache {
	if capacity < 0 {
		capacity = 0
	}
	return &IndexCache{
		registry: registry,
		capacity: capacity,
		logger:   logger,
		entries:  make(map[string]*FAQSearch),
	}
}

// Get returns the index for the table at tablePath, building it on a miss.
func (c *IndexCache) Get(ctx context.Context, tablePath, embeddingModelID string) (*FAQSearch, error) {
	content, err := readTable(tablePath)
	if err != nil {
		return nil, err
	}

	if c.capacity == 0 {
		return c.build(ctx, tablePath, content, embeddingModelID)
	}

	key := tableKey(content, embeddingModelID)
	if s, ok := c.lookup(key); ok {
		c.logger.Debug("FAQ index cache hit", zap.String("table", tablePath), zap.String("key", key))
		return s, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		if s, ok := c.lookup(key); ok {
			return s, nil
		}
		s, err := c.build(ctx, tablePath, content, embeddingModelID)
		if err != nil {
			return nil, err
		}
		c.store(key, s)
		return s, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*FAQSearch), nil
}

// Build indexes the table without consulting or filling the cache. One-off
// tables go through here so they cannot evict the shared default index.
func (c *IndexCache) Build(ctx context.Context, tablePath, embeddingModelID string) (*FAQSearch, error) {
	content, err := readTable(tablePath)
	if err != nil {
		return nil, err
	}
	return c.build(ctx, tablePath, content, embeddingModelID)
}

// Purge drops every cached index and returns how many were removed.
func (c *IndexCache) Purge() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := len(c.entries)
	c.entries = make(map[string]*FAQSearch)
	c.order = nil
	return n
}

// Len returns the number of cached indexes.
func (c *IndexCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *IndexCache) build(ctx context.Context, tablePath string, content []byte, embeddingModelID string) (*FAQSearch, error) {
	entries, err := ParseFAQTable(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", tablePath, err)
	}

	embedder, err := c.registry.Embedder(embeddingModelID)
	if err != nil {
		return nil, err
	}

	s, err := NewFAQSearch(ctx, entries, embedder)
	if err != nil {
		return nil, err
	}

	c.logger.Info("FAQ index built",
		zap.String("table", tablePath),
		zap.String("embedding_model", embeddingModelID),
		zap.Int("rows", s.Len()),
		zap.Int("dimensions", s.Dimensions()),
	)
	return s, nil
}

func (c *IndexCache) lookup(key string) (*FAQSearch, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.entries[key]
	return s, ok
}

func (c *IndexCache) store(key string, s *FAQSearch) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; ok {
		return
	}
	for len(c.order) >= c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
	c.entries[key] = s
	c.order = append(c.order, key)
}

func readTable(path string) ([]byte, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read FAQ table: %v", ErrDataLoad, err)
	}
	return content, nil
}

func tableKey(content []byte, embeddingModelID string) string {
	return strconv.FormatUint(xxhash.Sum64(content), 16) + "/" + embeddingModelID
}
