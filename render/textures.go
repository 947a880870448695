// Package render draws the visible tiles and markers of a world onto an
// ebiten screen.
package render

import (
	"fmt"
	"image"
	"sync"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/dgraph-io/ristretto/v2/z"

	"github.com/plus3/mapview/assets"
)

const bytesPerPixel = 4

// TextureCache converts decoded assets into textures and keeps them under a
// memory budget. Evicted textures are rebuilt from the decoded image on the
// next request.
//
// Writes to the underlying cache are buffered and may be refused by its
// admission policy, so a converted texture stays in a pending table until
// the cache serves it. Evicted textures are queued and handed to release on
// the next Sweep, which must run on the goroutine that draws.
type TextureCache[T any] struct {
	cache   *ristretto.Cache[string, T]
	convert func(image.Image) T
	release func(T)

	mu      sync.Mutex
	pending map[uint64]T
	evicted []T
}

// NewTextureCache builds a cache spending at most budgetBytes on textures.
// release may be nil; it can see the same texture more than once.
func NewTextureCache[T any](budgetBytes int64, convert func(image.Image) T, release func(T)) (*TextureCache[T], error) {
	c := &TextureCache[T]{
		convert: convert,
		release: release,
		pending: make(map[uint64]T),
	}
	cache, err := ristretto.NewCache(&ristretto.Config[string, T]{
		NumCounters: 10000,
		MaxCost:     budgetBytes,
		BufferItems: 64,
		Metrics:     true,
		OnEvict:     c.onEvict,
	})
	if err != nil {
		return nil, fmt.Errorf("render: texture cache: %w", err)
	}
	c.cache = cache
	return c, nil
}

// Texture returns the texture for a ready handle, converting each path at
// most once while it is held.
func (c *TextureCache[T]) Texture(h *assets.Handle) (T, bool) {
	var zero T
	if h == nil || !h.Ready() {
		return zero, false
	}
	path := h.Path()
	key, _ := z.KeyToHash(path)

	if tex, ok := c.cache.Get(path); ok {
		c.mu.Lock()
		delete(c.pending, key)
		c.mu.Unlock()
		return tex, true
	}

	img := h.Image()
	c.mu.Lock()
	tex, ok := c.pending[key]
	if !ok {
		tex = c.convert(img)
		c.pending[key] = tex
	}
	c.mu.Unlock()

	// A refused write is offered again; repeated requests raise the key's
	// admission estimate.
	c.cache.Set(path, tex, textureCost(img))
	return tex, true
}

func (c *TextureCache[T]) onEvict(item *ristretto.Item[T]) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.pending, item.Key)
	c.evicted = append(c.evicted, item.Value)
}

// Sweep releases the textures evicted since the last call.
func (c *TextureCache[T]) Sweep() int {
	c.mu.Lock()
	evicted := c.evicted
	c.evicted = nil
	c.mu.Unlock()

	if c.release != nil {
		for _, tex := range evicted {
			c.release(tex)
		}
	}
	return len(evicted)
}

// Pending counts converted textures the cache has not served yet.
func (c *TextureCache[T]) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// Hits and misses since creation.
func (c *TextureCache[T]) Ratio() float64 {
	return c.cache.Metrics.Ratio()
}

// Wait blocks until buffered writes are applied.
func (c *TextureCache[T]) Wait() {
	c.cache.Wait()
}

// Close releases every texture the cache still holds.
func (c *TextureCache[T]) Close() {
	c.cache.Close()

	c.mu.Lock()
	for key, tex := range c.pending {
		c.evicted = append(c.evicted, tex)
		delete(c.pending, key)
	}
	c.mu.Unlock()
	c.Sweep()
}

func textureCost(img image.Image) int64 {
	b := img.Bounds()
	return int64(b.Dx()) * int64(b.Dy()) * bytesPerPixel
}
