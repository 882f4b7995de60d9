package cache

// Keyer builds cache keys.
type Keyer interface {
	// ArtifactKey returns the key of one output format of a sheet.
	// sheetHash identifies the range and every option that affects content.
	ArtifactKey(sheetHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts holds the format-specific inputs of an artifact key.
type ArtifactKeyOpts struct {
	Format string  `json:"format"`
	DPI    float64 `json:"dpi,omitempty"`
}

// DefaultKeyer hashes key components into "artifact:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(sheetHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", sheetHash, opts)
}
