package glyph

import (
	"strconv"
	"sync"

	"github.com/matzehuels/mcviz/pkg/observability"
)

// Glyph is a pre-built vector symbol for a particle.
//
// The bounding box is given in glyph units before DefaultScale is applied.
// Markup is a complete, pre-escaped definition element whose id is DefID;
// its content is already scaled by DefaultScale.
type Glyph struct {
	PDGID        int
	Names        []string
	DefID        string
	Markup       string
	XMin, XMax   float64
	YMin, YMax   float64
	DefaultScale float64
}

// Key returns the canonical catalog key: the decimal PDG id.
func (g Glyph) Key() string { return strconv.Itoa(g.PDGID) }

// Dimensions returns the unscaled width and height of the bounding box.
func (g Glyph) Dimensions() (w, h float64) {
	return g.XMax - g.XMin, g.YMax - g.YMin
}

// Catalog looks up glyphs by identifier. Implementations must be pure and
// safe for concurrent use.
type Catalog interface {
	// Exists reports whether a glyph is available for key.
	Exists(key string) bool
	// Resolve returns the glyph for key. The boolean is false when no glyph
	// exists; callers fall back to a text label.
	Resolve(key string) (Glyph, bool)
}

// Resolver memoizes lookups against an immutable catalog. It is safe to
// share across painting passes.
type Resolver struct {
	cat  Catalog
	memo sync.Map // key -> lookup
}

type lookup struct {
	glyph Glyph
	found bool
}

// NewResolver wraps cat with a lookup cache.
func NewResolver(cat Catalog) *Resolver {
	return &Resolver{cat: cat}
}

// Exists reports whether a glyph is available for key.
func (r *Resolver) Exists(key string) bool {
	_, ok := r.Resolve(key)
	return ok
}

// Resolve returns the glyph for key, consulting the wrapped catalog at most
// once per key.
func (r *Resolver) Resolve(key string) (Glyph, bool) {
	if v, ok := r.memo.Load(key); ok {
		l := v.(lookup)
		return l.glyph, l.found
	}
	g, found := r.cat.Resolve(key)
	r.memo.Store(key, lookup{g, found})
	observability.Glyph().OnGlyphResolved(key, found)
	return g, found
}

// Layered resolves keys against several catalogs in order; the first catalog
// holding a key wins. It lets a user catalog override the embedded one.
type Layered []Catalog

// Exists reports whether any layer has a glyph for key.
func (l Layered) Exists(key string) bool {
	_, ok := l.Resolve(key)
	return ok
}

// Resolve returns the glyph from the first layer that has key.
func (l Layered) Resolve(key string) (Glyph, bool) {
	for _, c := range l {
		if c == nil {
			continue
		}
		if g, ok := c.Resolve(key); ok {
			return g, true
		}
	}
	return Glyph{}, false
}

// Merge layers catalogs so that earlier ones override later ones.
func Merge(cats ...Catalog) Catalog { return Layered(cats) }

// Empty is a catalog without glyphs; every label renders as text.
type Empty struct{}

func (Empty) Exists(string) bool           { return false }
func (Empty) Resolve(string) (Glyph, bool) { return Glyph{}, false }

var (
	_ Catalog = (*Resolver)(nil)
	_ Catalog = Layered(nil)
	_ Catalog = Empty{}
)
