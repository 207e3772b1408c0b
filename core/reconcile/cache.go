package reconcile

import (
	"context"
	"fmt"
	"path"

	"area-reconciler/core/fsys"
	"area-reconciler/core/metrics"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// CacheKey names one cached report artifact.
type CacheKey struct {
	Area   string
	Report string
	Format string
}

func (k CacheKey) fileName() string {
	return fmt.Sprintf("%s.%s.%s", k.Area, k.Report, k.Format)
}

// ComputeFunc produces the bytes of a report.
type ComputeFunc func(ctx context.Context) ([]byte, error)

// ResultCache stores report artifacts on a file system and serves them while
// they are newer than every file they were computed from.
type ResultCache struct {
	fs      fsys.FileSystem
	dir     string
	logger  *zap.Logger
	metrics *metrics.Metrics

	// group collapses concurrent recomputes of one artifact in this process.
	// Across processes writes are last-writer-wins.
	group singleflight.Group
}

// NewResultCache creates a cache storing artifacts below dir.
func NewResultCache(fs fsys.FileSystem, dir string, logger *zap.Logger, m *metrics.Metrics) *ResultCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResultCache{fs: fs, dir: dir, logger: logger, metrics: m}
}

// Path returns the file system path of an artifact.
func (c *ResultCache) Path(key CacheKey) string {
	return path.Join(c.dir, key.fileName())
}

// IsCurrent reports whether the artifact at cachePath can be served: it exists
// and every existing dependency was modified strictly before it. Missing
// dependencies are ignored.
func (c *ResultCache) IsCurrent(ctx context.Context, cachePath string, deps []string) (bool, error) {
	cached, err := c.fs.ModTime(ctx, cachePath)
	if err != nil {
		if fsys.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	for _, dep := range deps {
		modified, err := c.fs.ModTime(ctx, dep)
		if err != nil {
			if fsys.IsNotExist(err) {
				continue
			}
			return false, err
		}
		if !modified.Before(cached) {
			return false, nil
		}
	}
	return true, nil
}

// IsOutdated is the negation of IsCurrent: a missing artifact is outdated.
func (c *ResultCache) IsOutdated(ctx context.Context, cachePath string, deps []string) (bool, error) {
	current, err := c.IsCurrent(ctx, cachePath, deps)
	if err != nil {
		return false, err
	}
	return !current, nil
}

// GetOrCompute serves the cached artifact of key when it is current and
// otherwise calls compute, stores its output and returns it. Concurrent calls
// for one key share a single computation, which runs detached from any one
// caller's cancellation; each caller still returns when its own ctx is done.
func (c *ResultCache) GetOrCompute(ctx context.Context, key CacheKey, deps []string, compute ComputeFunc) ([]byte, error) {
	p := c.Path(key)
	flight := context.WithoutCancel(ctx)
	ch := c.group.DoChan(p, func() (any, error) {
		ctx := flight
		current, err := c.IsCurrent(ctx, p, deps)
		if err != nil {
			return nil, fmt.Errorf("check cache %s: %w", p, err)
		}
		if current {
			data, err := fsys.ReadAll(ctx, c.fs, p)
			if err == nil {
				c.metrics.CacheHit(key.Report)
				c.logger.Debug("Serving cached report", zap.String("path", p))
				return data, nil
			}
			// Removed between the freshness check and the read.
			if !fsys.IsNotExist(err) {
				return nil, fmt.Errorf("read cache %s: %w", p, err)
			}
		}

		c.metrics.CacheMiss(key.Report)
		c.logger.Debug("Recomputing report", zap.String("path", p))
		data, err := compute(ctx)
		if err != nil {
			return nil, err
		}
		if err := fsys.WriteAll(ctx, c.fs, p, data); err != nil {
			return nil, fmt.Errorf("write cache %s: %w", p, err)
		}
		return data, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]byte), nil
	}
}

// Invalidate removes the artifact of key.
func (c *ResultCache) Invalidate(ctx context.Context, key CacheKey) error {
	return c.fs.Remove(ctx, c.Path(key))
}
