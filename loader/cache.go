package loader

import (
	"sync"

	"sla-pipeline/models"
)

// Cache memoizes directory loads for the lifetime of one session, so that
// repeated filter changes do not re-read identical files. It does not
// watch the filesystem; callers invalidate explicitly when the staged file
// set changes.
type Cache struct {
	mu     sync.Mutex
	tables map[string]models.Table
}

// NewCache returns an empty load cache.
func NewCache() *Cache {
	return &Cache{tables: make(map[string]models.Table)}
}

// Directory returns the cached table for path, loading it on first use.
// Failed loads are not cached, so a fixed export can be retried without
// invalidation.
func (c *Cache) Directory(path string) (models.Table, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if t, ok := c.tables[path]; ok {
		return t, nil
	}
	t, err := LoadDirectory(path)
	if err != nil {
		return models.Table{}, err
	}
	c.tables[path] = t
	return t, nil
}

// Invalidate forgets the cached load for path.
func (c *Cache) Invalidate(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.tables, path)
}

// InvalidateAll forgets every cached load.
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tables = make(map[string]models.Table)
}
