package cache

// Keyer builds cache keys.
type Keyer interface {
	// LayoutKey identifies the layout computed from a DOT description.
	LayoutKey(dot string, opts LayoutKeyOpts) string
	// ArtifactKey identifies a painted artifact for a layout.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts holds the options that change a layout.
type LayoutKeyOpts struct {
	Engine string `json:"engine"`
}

// ArtifactKeyOpts holds the options that change a painted artifact.
type ArtifactKeyOpts struct {
	Format    string  `json:"format"`
	LabelSize float64 `json:"label_size"`
	Strict    bool    `json:"strict,omitempty"`
	// Catalog identifies the glyph catalog, e.g. a hash of a user catalog
	// file. Empty means the embedded catalog.
	Catalog string `json:"catalog,omitempty"`
}

// DefaultKeyer hashes inputs and options with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey returns "layout:<hash>".
func (DefaultKeyer) LayoutKey(dot string, opts LayoutKeyOpts) string {
	return hashKey(KeyTypeLayout, Hash([]byte(dot)), opts)
}

// ArtifactKey returns "artifact:<hash>".
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey(KeyTypeArtifact, layoutHash, opts)
}

// ScopedKeyer prefixes every key of another keyer, so several deployments
// can share one Redis database.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, or the default keyer when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// LayoutKey returns the prefixed layout key.
func (k *ScopedKeyer) LayoutKey(dot string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(dot, opts)
}

// ArtifactKey returns the prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}

var (
	_ Keyer = DefaultKeyer{}
	_ Keyer = (*ScopedKeyer)(nil)
)
