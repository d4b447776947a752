package texture

import (
	"path/filepath"

	"github.com/Faultbox/phongview/internal/engine/gpu"
)

// Cache uploads each texture file once and hands out the shared handle.
// Failed loads are remembered too, so a missing file is reported once.
// The cache owns every handle it returns.
type Cache struct {
	ctx     gpu.Textures
	handles map[string]uint32
	failed  map[string]error
}

// NewCache creates an empty cache uploading through ctx.
func NewCache(ctx gpu.Textures) *Cache {
	return &Cache{
		ctx:     ctx,
		handles: make(map[string]uint32),
		failed:  make(map[string]error),
	}
}

// Get returns the texture for path, loading it on first use.
// The second result reports whether this call did the loading.
func (c *Cache) Get(path string) (uint32, bool, error) {
	key := filepath.Clean(path)
	if tex, ok := c.handles[key]; ok {
		return tex, false, nil
	}
	if err, ok := c.failed[key]; ok {
		return 0, false, err
	}

	tex, err := Load(c.ctx, key)
	if err != nil {
		c.failed[key] = err
		return 0, true, err
	}
	c.handles[key] = tex
	return tex, true, nil
}

// Len returns the number of uploaded textures.
func (c *Cache) Len() int {
	return len(c.handles)
}

// Release deletes every uploaded texture and empties the cache.
func (c *Cache) Release() {
	for key, tex := range c.handles {
		c.ctx.DeleteTexture(tex)
		delete(c.handles, key)
	}
	clear(c.failed)
}
