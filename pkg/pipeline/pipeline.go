// Package pipeline runs the layout → paint pipeline for mcviz.
//
// Both the CLI and the HTTP server go through a [Runner] so caching and
// option handling behave the same everywhere.
//
// # Stages
//
//  1. Layout: a DOT description is laid out in-process with Graphviz. Inputs
//     that already carry a layout (JSON) skip this stage, unless they hold
//     only DOT source and no geometry; then the DOT is laid out and the
//     positions are merged into the JSON layout.
//  2. Paint: the layout is painted as SVG or passed through as DOT.
//
// Both stages are cached by content hash when the runner has a cache.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	in, err := pipeline.ReadInput(data)
//	res, err := runner.Execute(ctx, in, pipeline.Options{Format: "svg"})
//	os.Stdout.Write(res.Artifact)
package pipeline

import (
	"bytes"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mcviz/pkg/cache"
	"github.com/matzehuels/mcviz/pkg/errors"
	"github.com/matzehuels/mcviz/pkg/glyph"
	"github.com/matzehuels/mcviz/pkg/layout"
	"github.com/matzehuels/mcviz/pkg/painter"
)

// Options configures a pipeline run. The zero value paints SVG with the
// embedded glyph catalog.
type Options struct {
	// Format is the artifact format, "svg" or "dot".
	Format string `json:"format,omitempty"`
	// Engine is the Graphviz engine for DOT inputs.
	Engine string `json:"engine,omitempty"`

	// Width and Height override the canvas size of the layout. The scale is
	// then derived from the content.
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`

	LabelSize float64 `json:"label_size,omitempty"`
	Strict    bool    `json:"strict,omitempty"`

	// Catalog resolves glyphs; nil means the embedded catalog.
	Catalog glyph.Catalog `json:"-"`
	// CatalogID keys cache entries painted with a non-default catalog.
	CatalogID string `json:"catalog_id,omitempty"`

	// TTL is the lifetime of cached layouts and artifacts.
	TTL time.Duration `json:"-"`
	// Refresh recomputes every stage and overwrites cached entries.
	Refresh bool `json:"refresh,omitempty"`

	// Logger receives painter warnings; nil means the runner's logger.
	Logger *log.Logger `json:"-"`
}

// Input is what a run starts from: DOT text or a ready layout.
type Input struct {
	DOT    string
	Layout *layout.Layout
}

// Result holds the outputs of a run.
type Result struct {
	// Layout is the layout that was painted.
	Layout *layout.Layout
	// LayoutHash is the content hash of the layout JSON.
	LayoutHash string
	// Artifact is the painted document.
	Artifact []byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains run statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	LayoutTime time.Duration
	PaintTime  time.Duration
}

// CacheInfo tracks which stages were served from the cache.
type CacheInfo struct {
	LayoutHit bool
	PaintHit  bool
}

// ValidateAndSetDefaults fills unset options and checks the rest.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Format == "" {
		o.Format = painter.FormatSVG
	}
	if err := errors.ValidateFormat(o.Format); err != nil {
		return err
	}
	o.Format = strings.ToLower(o.Format)

	if o.Engine == "" {
		o.Engine = layout.DefaultEngine
	}
	if err := layout.ValidateEngine(o.Engine); err != nil {
		return err
	}
	if o.LabelSize == 0 {
		o.LabelSize = painter.DefaultLabelSize
	}
	if err := errors.ValidateFinite("label size", o.LabelSize); err != nil {
		return err
	}
	if o.LabelSize < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "label size must be positive, got %v", o.LabelSize)
	}
	if o.Width < 0 || o.Height < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "canvas size must not be negative")
	}
	if (o.Width == 0) != (o.Height == 0) {
		return errors.New(errors.ErrCodeInvalidInput, "width and height must be set together")
	}
	return nil
}

// PainterOptions returns the painter configuration for the run.
func (o *Options) PainterOptions() painter.Options {
	return painter.Options{
		Catalog:   o.Catalog,
		LabelSize: o.LabelSize,
		Strict:    o.Strict,
		Logger:    o.Logger,
	}
}

// LayoutKeyOpts returns the options that identify a cached layout.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{Engine: o.Engine}
}

// ArtifactKeyOpts returns the options that identify a cached artifact.
func (o *Options) ArtifactKeyOpts() cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:    o.Format,
		LabelSize: o.LabelSize,
		Strict:    o.Strict,
		Catalog:   o.CatalogID,
	}
}

// ReadInput decides whether data is a JSON layout or DOT text. Anything
// starting with '{' is treated as JSON.
func ReadInput(data []byte) (Input, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return Input{}, errors.New(errors.ErrCodeInvalidInput, "empty input")
	}
	if trimmed[0] == '{' {
		l, err := layout.ReadJSON(bytes.NewReader(trimmed))
		if err != nil {
			return Input{}, err
		}
		return Input{Layout: l}, nil
	}
	return Input{DOT: string(data)}, nil
}
