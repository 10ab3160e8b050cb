package server

import (
	"context"
	"sync"

	"github.com/KaramelBytes/vgdash/internal/dataset"
)

// Source yields the dataset for one render.
type Source interface {
	Load(ctx context.Context) (*dataset.Dataset, *dataset.Profile, error)
}

// FileSource reads the dataset file on every call.
type FileSource struct {
	Path string
}

func (f FileSource) Load(ctx context.Context) (*dataset.Dataset, *dataset.Profile, error) {
	return dataset.Load(ctx, f.Path)
}

// CachedSource reuses the first successful load of its inner source.
// Failed loads are not cached, so a file that appears later is picked up.
type CachedSource struct {
	src Source

	mu   sync.Mutex
	ds   *dataset.Dataset
	prof *dataset.Profile
}

// NewCachedSource wraps src.
func NewCachedSource(src Source) *CachedSource {
	return &CachedSource{src: src}
}

func (c *CachedSource) Load(ctx context.Context) (*dataset.Dataset, *dataset.Profile, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ds != nil {
		return c.ds, c.prof, nil
	}
	ds, prof, err := c.src.Load(ctx)
	if err != nil {
		return nil, nil, err
	}
	c.ds, c.prof = ds, prof
	return ds, prof, nil
}
