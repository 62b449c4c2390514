package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Keyer derives cache keys.
type Keyer interface {
	// LayoutKey identifies a generated layout.
	LayoutKey(opts LayoutKeyOpts) string

	// ArtifactKey identifies a raster rendered from a layout. layoutHash is
	// the [Hash] of the serialized layout.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts holds every input of template generation that affects
// geometry. The headline does not, so it is not part of the key.
type LayoutKeyOpts struct {
	Ratio    string `json:"ratio"`
	Template string `json:"template"`
	Palette  string `json:"palette"`

	// Assets is a hash over the decoration assets, including their image
	// data, so changed images give a new key.
	Assets string `json:"assets,omitempty"`
}

// ArtifactKeyOpts holds every render input that is not part of the layout.
type ArtifactKeyOpts struct {
	Format   string `json:"format"`
	Quality  int    `json:"quality,omitempty"`
	Packshot string `json:"packshot"`
	Logo     string `json:"logo"`
	Headline string `json:"headline,omitempty"`
	CTA      string `json:"cta,omitempty"`
}

// DefaultKeyer produces "layout:<sha256>" and "artifact:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a [DefaultKeyer].
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) LayoutKey(opts LayoutKeyOpts) string {
	return hashKey("layout", opts)
}

func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

// hashKey formats prefix:sha256(json(parts)).
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(sum[:]))
}

// Hash returns the hex SHA-256 of data (64 characters).
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

var _ Keyer = DefaultKeyer{}
