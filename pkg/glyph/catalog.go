package glyph

import (
	_ "embed"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/mcviz/pkg/errors"
)

//go:embed catalog.toml
var embeddedCatalog []byte

type catalogFile struct {
	Glyphs []entry `toml:"glyph"`
}

type entry struct {
	PDGID        int      `toml:"pdgid"`
	Names        []string `toml:"names"`
	XMin         float64  `toml:"xmin"`
	XMax         float64  `toml:"xmax"`
	YMin         float64  `toml:"ymin"`
	YMax         float64  `toml:"ymax"`
	DefaultScale float64  `toml:"default_scale"`
	Body         string   `toml:"body"`
}

// TOMLCatalog is a static glyph catalog parsed from TOML.
//
// Each [[glyph]] table describes one particle:
//
//	[[glyph]]
//	pdgid = 11
//	names = ["e-", "electron"]
//	xmin = 0.0
//	xmax = 0.75
//	ymin = -0.7
//	ymax = 0.05
//	default_scale = 1.0
//	body = '<path d="..."/>'
//
// Glyphs are reachable by the decimal PDG id and by every name.
type TOMLCatalog struct {
	glyphs []Glyph
	byKey  map[string]int
}

// Parse builds a catalog from TOML data.
func Parse(data []byte) (*TOMLCatalog, error) {
	var f catalogFile
	if _, err := toml.Decode(string(data), &f); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidCatalog, err, "decode glyph catalog")
	}

	c := &TOMLCatalog{byKey: make(map[string]int)}
	for _, e := range f.Glyphs {
		g, err := e.glyph()
		if err != nil {
			return nil, err
		}
		idx := len(c.glyphs)
		c.glyphs = append(c.glyphs, g)
		for _, k := range append([]string{g.Key()}, g.Names...) {
			if prev, dup := c.byKey[k]; dup {
				return nil, errors.New(errors.ErrCodeInvalidCatalog,
					"glyph key %q used by pdgid %d and %d", k, c.glyphs[prev].PDGID, g.PDGID)
			}
			c.byKey[k] = idx
		}
	}
	return c, nil
}

// LoadFile reads a catalog from a TOML file.
func LoadFile(path string) (*TOMLCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

func (e entry) glyph() (Glyph, error) {
	if e.PDGID == 0 {
		return Glyph{}, errors.New(errors.ErrCodeInvalidCatalog, "glyph without pdgid")
	}
	if e.XMax <= e.XMin || e.YMax <= e.YMin {
		return Glyph{}, errors.New(errors.ErrCodeInvalidCatalog, "glyph %d: empty bounding box", e.PDGID)
	}
	if strings.TrimSpace(e.Body) == "" {
		return Glyph{}, errors.New(errors.ErrCodeInvalidCatalog, "glyph %d: empty body", e.PDGID)
	}
	scale := e.DefaultScale
	if scale == 0 {
		scale = 1
	}
	if scale < 0 {
		return Glyph{}, errors.New(errors.ErrCodeInvalidCatalog, "glyph %d: negative default_scale", e.PDGID)
	}

	id := defID(e.PDGID)
	return Glyph{
		PDGID:        e.PDGID,
		Names:        slices.Clone(e.Names),
		DefID:        id,
		Markup:       fmt.Sprintf(`<g id="%s" transform="scale(%s)">%s</g>`, id, strconv.FormatFloat(scale, 'g', -1, 64), strings.TrimSpace(e.Body)),
		XMin:         e.XMin,
		XMax:         e.XMax,
		YMin:         e.YMin,
		YMax:         e.YMax,
		DefaultScale: scale,
	}, nil
}

// defID names the definition element of a glyph. Antiparticles use an "m"
// prefix so ids stay valid XML names.
func defID(pdgid int) string {
	if pdgid < 0 {
		return fmt.Sprintf("pdgm%d", -pdgid)
	}
	return fmt.Sprintf("pdg%d", pdgid)
}

// Exists reports whether a glyph is available for key.
func (c *TOMLCatalog) Exists(key string) bool {
	_, ok := c.byKey[key]
	return ok
}

// Resolve returns the glyph for key.
func (c *TOMLCatalog) Resolve(key string) (Glyph, bool) {
	i, ok := c.byKey[key]
	if !ok {
		return Glyph{}, false
	}
	return c.glyphs[i], true
}

// Glyphs returns all glyphs ordered by absolute PDG id, particle before
// antiparticle.
func (c *TOMLCatalog) Glyphs() []Glyph {
	out := slices.Clone(c.glyphs)
	slices.SortFunc(out, func(a, b Glyph) int {
		if d := abs(a.PDGID) - abs(b.PDGID); d != 0 {
			return d
		}
		return b.PDGID - a.PDGID
	})
	return out
}

// Len returns the number of glyphs in the catalog.
func (c *TOMLCatalog) Len() int { return len(c.glyphs) }

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Cache for the embedded catalog (parsed once on first access).
var (
	defaultCatalog     *TOMLCatalog
	defaultCatalogOnce sync.Once
)

// Default returns the catalog embedded in the binary. It is parsed once per
// process and shared; the embedded data is validated by tests, so a parse
// failure panics.
func Default() *TOMLCatalog {
	defaultCatalogOnce.Do(func() {
		c, err := Parse(embeddedCatalog)
		if err != nil {
			panic(fmt.Sprintf("glyph: embedded catalog: %v", err))
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

var _ Catalog = (*TOMLCatalog)(nil)
