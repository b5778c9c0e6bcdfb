package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mcviz/pkg/cache"
	"github.com/matzehuels/mcviz/pkg/layout"
	"github.com/matzehuels/mcviz/pkg/painter"
)

// Runner executes pipeline stages with caching.
//
// The Runner holds no per-run state, so multiple goroutines can share one
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute lays out the input if needed and paints it.
func (r *Runner) Execute(ctx context.Context, in Input, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	result := &Result{}

	l := in.Layout
	switch {
	case l == nil:
		start := time.Now()
		var hit bool
		var err error
		l, hit, err = r.LayoutWithCacheInfo(ctx, in.DOT, opts)
		if err != nil {
			return nil, fmt.Errorf("layout: %w", err)
		}
		r.layoutDone(result, opts, start, hit)
	case l.DOT != "" && !l.Placed():
		start := time.Now()
		placed, hit, err := r.place(ctx, l, opts)
		if err != nil {
			return nil, fmt.Errorf("layout: %w", err)
		}
		l = placed
		r.layoutDone(result, opts, start, hit)
	}
	if opts.Width > 0 {
		resized := *l
		resized.Canvas = layout.Canvas{Width: opts.Width, Height: opts.Height}
		l = &resized
	}
	result.Layout = l
	result.Stats.NodeCount = l.NodeCount()
	result.Stats.EdgeCount = l.EdgeCount()

	start := time.Now()
	data, hash, hit, err := r.paint(ctx, l, opts)
	if err != nil {
		return nil, fmt.Errorf("paint: %w", err)
	}
	result.Artifact = data
	result.LayoutHash = hash
	result.Stats.PaintTime = time.Since(start)
	result.CacheInfo.PaintHit = hit

	r.Logger.Info("painted", "format", opts.Format, "bytes", len(data), "cached", hit,
		"duration", result.Stats.PaintTime.Round(time.Millisecond))
	return result, nil
}

func (r *Runner) layoutDone(result *Result, opts Options, start time.Time, hit bool) {
	result.Stats.LayoutTime = time.Since(start)
	result.CacheInfo.LayoutHit = hit
	r.Logger.Info("computed layout", "engine", opts.Engine, "cached", hit,
		"duration", result.Stats.LayoutTime.Round(time.Millisecond))
}

// place lays out the DOT source carried by l and returns a copy of l with
// the computed geometry. Labels, styles and line types of l are kept; l
// itself is not modified.
func (r *Runner) place(ctx context.Context, l *layout.Layout, opts Options) (*layout.Layout, bool, error) {
	src, hit, err := r.LayoutWithCacheInfo(ctx, l.DOT, opts)
	if err != nil {
		return nil, false, err
	}
	dst := *l
	dst.Nodes = slices.Clone(l.Nodes)
	dst.Edges = slices.Clone(l.Edges)
	layout.Apply(&dst, src)
	return &dst, hit, nil
}

// LayoutWithCacheInfo lays out dot with Graphviz and reports whether the
// layout came from the cache.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, dot string, opts Options) (*layout.Layout, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	data, hit, err := r.LayoutJSON(ctx, dot, opts)
	if err != nil {
		return nil, false, err
	}
	l, err := layout.ReadJSON(bytes.NewReader(data))
	if err != nil {
		return nil, false, err
	}
	return l, hit, nil
}

// Layout is LayoutWithCacheInfo without the cache hit info.
func (r *Runner) Layout(ctx context.Context, dot string, opts Options) (*layout.Layout, error) {
	l, _, err := r.LayoutWithCacheInfo(ctx, dot, opts)
	return l, err
}

// LayoutJSON lays out dot and returns the layout in its JSON form, which is
// also what the cache stores.
func (r *Runner) LayoutJSON(ctx context.Context, dot string, opts Options) ([]byte, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	key := r.Keyer.LayoutKey(dot, opts.LayoutKeyOpts())
	return r.fetch(ctx, cache.KeyTypeLayout, key, opts, func(ctx context.Context) ([]byte, error) {
		l, err := layout.Run(ctx, dot, opts.Engine)
		if err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		if err := layout.WriteJSON(l, &buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	})
}

// PaintWithCacheInfo paints l and reports whether the artifact came from
// the cache.
func (r *Runner) PaintWithCacheInfo(ctx context.Context, l *layout.Layout, opts Options) ([]byte, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)
	data, _, hit, err := r.paint(ctx, l, opts)
	return data, hit, err
}

// Paint is PaintWithCacheInfo without the cache hit info.
func (r *Runner) Paint(ctx context.Context, l *layout.Layout, opts Options) ([]byte, error) {
	data, _, err := r.PaintWithCacheInfo(ctx, l, opts)
	return data, err
}

// paint keys the artifact by the hash of the layout JSON. opts must be
// validated.
func (r *Runner) paint(ctx context.Context, l *layout.Layout, opts Options) ([]byte, string, bool, error) {
	var buf bytes.Buffer
	if err := layout.WriteJSON(l, &buf); err != nil {
		return nil, "", false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	hash := cache.Hash(buf.Bytes())
	key := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts())

	data, hit, err := r.fetch(ctx, cache.KeyTypeArtifact, key, opts, func(ctx context.Context) ([]byte, error) {
		p, err := painter.New(opts.Format, opts.PainterOptions())
		if err != nil {
			return nil, err
		}
		return p.Paint(ctx, l)
	})
	return data, hash, hit, err
}

func (r *Runner) fetch(ctx context.Context, keyType, key string, opts Options, compute func(context.Context) ([]byte, error)) ([]byte, bool, error) {
	c := r.Cache
	if opts.Refresh {
		c = refreshCache{c}
	}
	return cache.Fetch(ctx, c, keyType, key, opts.TTL, compute)
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if none was given.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// refreshCache misses on every read and writes through.
type refreshCache struct{ cache.Cache }

func (refreshCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
