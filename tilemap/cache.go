package tilemap

import (
	"github.com/kamstrup/intmap"
	"github.com/sirupsen/logrus"

	"github.com/plus3/mapview/assets"
	"github.com/plus3/mapview/ecs"
	"github.com/plus3/mapview/internal/logging"
)

// Loader starts an asynchronous asset load. *assets.Loader satisfies it.
type Loader interface {
	Load(path string) *assets.Handle
}

// TileEntry records one requested tile for the rest of the session.
type TileEntry struct {
	Key   TileKey
	Path  string
	Asset *assets.Handle
	// Entity is the placeholder entity, zero until the spawn is flushed.
	Entity ecs.EntityId
	// Sequence is the insertion position, starting at 0.
	Sequence int
}

// TileCache remembers every tile ever requested and guarantees one load per
// key. Entries are never removed.
type TileCache struct {
	loader  Loader
	logger  logrus.FieldLogger
	entries []*TileEntry
	index   *intmap.Map[uint64, *TileEntry]
}

func NewTileCache(loader Loader, logger logrus.FieldLogger) *TileCache {
	return &TileCache{
		loader: loader,
		logger: logging.OrDiscard(logger),
		index:  intmap.New[uint64, *TileEntry](256),
	}
}

// Request returns the entry for key, issuing the load on first sight.
// created reports whether this call inserted the entry. An invalid key
// panics; callers derive keys from clamped indices.
func (c *TileCache) Request(key TileKey) (entry *TileEntry, created bool) {
	if !key.Valid() {
		panic("tilemap: request for invalid tile key " + key.String())
	}

	code := key.Code()
	if entry, ok := c.index.Get(code); ok {
		return entry, false
	}

	path := key.Path()
	entry = &TileEntry{
		Key:      key,
		Path:     path,
		Asset:    c.loader.Load(path),
		Sequence: len(c.entries),
	}
	c.entries = append(c.entries, entry)
	c.index.Put(code, entry)
	c.logger.WithField("tile", path).Debug("tile requested")
	return entry, true
}

// Lookup returns the entry for key without requesting it.
func (c *TileCache) Lookup(key TileKey) (*TileEntry, bool) {
	if !key.Valid() {
		return nil, false
	}
	return c.index.Get(key.Code())
}

func (c *TileCache) Contains(key TileKey) bool {
	_, ok := c.Lookup(key)
	return ok
}

func (c *TileCache) Len() int {
	return len(c.entries)
}

// Paths returns the requested paths in insertion order.
func (c *TileCache) Paths() []string {
	paths := make([]string, len(c.entries))
	for i, entry := range c.entries {
		paths[i] = entry.Path
	}
	return paths
}

// Entries returns the entries in insertion order. The slice is shared and
// must not be modified.
func (c *TileCache) Entries() []*TileEntry {
	return c.entries
}

// LevelCounts returns how many tiles were requested per level.
func (c *TileCache) LevelCounts() [MaxLevel + 1]int {
	var counts [MaxLevel + 1]int
	for _, entry := range c.entries {
		counts[entry.Key.Level]++
	}
	return counts
}
