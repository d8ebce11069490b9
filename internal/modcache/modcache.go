// Package modcache persists parsed-module binary blobs keyed by a
// caller-supplied name (the import path) so repeated imports of the same
// .modu file skip re-lexing/parsing. Adapted from the teacher's
// gql/cache.go, generalized from a package-global cacheRoot tied to one
// process's table-shard cache into a Cache value a Session configures,
// since a library (unlike a CLI binary) should not reach for a global.
package modcache

import (
	"context"
	"time"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/retry"
)

// Cache is a directory-backed store of named binary blobs.
type Cache struct {
	root string
}

// New creates a Cache rooted at dir. Directory creation is lazy: it is
// created on first write, not here.
func New(dir string) *Cache { return &Cache{root: dir} }

// Lookup looks up name (the cache key — e.g. "lib.modu.<hex hash>") in the
// cache and returns its contents if present.
func (c *Cache) Lookup(ctx context.Context, name string) ([]byte, bool) {
	if c.root == "" {
		return nil, false
	}
	absPath := file.Join(c.root, name+".link")
	backoff := retry.Backoff(100*time.Millisecond, 10*time.Second, 1.2)
	var (
		data []byte
		err  error
	)
	for retries := 0; ; retries++ {
		data, err = file.ReadFile(ctx, absPath)
		if !errors.Is(errors.Precondition, err) {
			break
		}
		log.Printf("modcache: lookup %s: %v, retries=%d", absPath, err, retries)
		if werr := retry.Wait(ctx, backoff, retries); werr != nil {
			break
		}
	}
	if err != nil {
		return nil, false
	}
	return data, true
}

// Store writes data under name, overwriting any existing entry.
func (c *Cache) Store(ctx context.Context, name string, data []byte) error {
	if c.root == "" {
		return errors.E(errors.Precondition, "modcache: no cache directory configured")
	}
	absPath := file.Join(c.root, name+".link")
	return file.WriteFile(ctx, absPath, data)
}
