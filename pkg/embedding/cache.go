package embedding

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/coocood/freecache"
)

// CachedEmbedder memoizes vectors per (model, text) in a freecache segment.
// Only texts missing from the cache are sent to the wrapped embedder.
type CachedEmbedder struct {
	next  Embedder
	cache *freecache.Cache
	ttl   int
}

// NewCachedEmbedder wraps next with a cache of sizeMB megabytes.
// ttlSeconds <= 0 keeps entries until evicted.
func NewCachedEmbedder(next Embedder, sizeMB, ttlSeconds int) *CachedEmbedder {
	if sizeMB <= 0 {
		sizeMB = 1
	}
	if ttlSeconds < 0 {
		ttlSeconds = 0
	}
	return &CachedEmbedder{
		next:  next,
		cache: freecache.NewCache(sizeMB * 1024 * 1024),
		ttl:   ttlSeconds,
	}
}

func (c *CachedEmbedder) Model() string { return c.next.Model() }

func (c *CachedEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	var missing []string
	var missingPos []int

	for i, text := range texts {
		if raw, err := c.cache.Get(c.key(text)); err == nil {
			out[i] = decodeVector(raw)
			continue
		}
		missing = append(missing, text)
		missingPos = append(missingPos, i)
	}

	if len(missing) == 0 {
		return out, nil
	}

	fresh, err := c.next.Embed(ctx, missing)
	if err != nil {
		return nil, err
	}
	if len(fresh) != len(missing) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d texts", len(fresh), len(missing))
	}
	for j, v := range fresh {
		out[missingPos[j]] = v
		// a full cache just means a future miss
		_ = c.cache.Set(c.key(missing[j]), encodeVector(v), c.ttl)
	}
	return out, nil
}

// Stats returns cache hit and miss counters.
func (c *CachedEmbedder) Stats() (hits, misses int64) {
	return c.cache.HitCount(), c.cache.MissCount()
}

func (c *CachedEmbedder) key(text string) []byte {
	return []byte(c.next.Model() + "\x00" + text)
}

func encodeVector(v []float32) []byte {
	buf := make([]byte, 4*len(v))
	for i, x := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(x))
	}
	return buf
}

func decodeVector(buf []byte) []float32 {
	v := make([]float32, len(buf)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
	}
	return v
}
