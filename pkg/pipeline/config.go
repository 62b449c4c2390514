package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/adforge/pkg/asset"
	"github.com/matzehuels/adforge/pkg/creative"
	"github.com/matzehuels/adforge/pkg/errors"
	"github.com/matzehuels/adforge/pkg/render"
	"github.com/matzehuels/adforge/pkg/template"
)

// Config is a batch file:
//
//	headline    = "Summer sale"
//	cta         = "Shop now"
//	brand_color = "#E11D48"
//	ratios      = ["1:1", "9:16"]
//	packshot    = "assets/bottle.png"
//	logo        = "https://example.com/logo.png"
//	output      = "out"
//
//	[templates]
//	"1:1" = "bold-dynamic"
//
//	[[decorations]]
//	type = "emoji"
//	content = "✨"
//
// Relative asset paths resolve against the directory of the file.
type Config struct {
	Headline   string            `toml:"headline"`
	CTA        string            `toml:"cta"`
	BrandColor string            `toml:"brand_color"`
	Ratios     []string          `toml:"ratios"`
	Templates  map[string]string `toml:"templates"`
	Seed       uint64            `toml:"seed"`

	Packshot    string             `toml:"packshot"`
	Logo        string             `toml:"logo"`
	Decorations []DecorationConfig `toml:"decorations"`
	QR          string             `toml:"qr"` // text encoded as a QR-code image decoration

	Output   string `toml:"output"`
	Format   string `toml:"format"`
	Quality  int    `toml:"quality"`
	TargetKB int    `toml:"target_kb"`
	Export   bool   `toml:"export"`

	dir string
}

// DecorationConfig is one [[decorations]] entry.
type DecorationConfig struct {
	Type    string `toml:"type"`
	Src     string `toml:"src"`     // image: path, URL or data URL
	Content string `toml:"content"` // emoji glyph
	Color   string `toml:"color"`
}

// LoadConfig reads a TOML batch file. Unknown keys are rejected.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return Config{}, err
	}
	cfg, err := ParseConfig(string(data))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	cfg.dir = filepath.Dir(path)
	return cfg, nil
}

// ParseConfig decodes a TOML batch document.
func ParseConfig(doc string) (Config, error) {
	var cfg Config
	md, err := toml.Decode(doc, &cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, errors.New(errors.ErrCodeInvalidInput, "unknown config keys: %s", strings.Join(keys, ", "))
	}
	return cfg, nil
}

// Options loads the referenced assets and converts the file into pipeline
// options.
func (c Config) Options(ctx context.Context) (Options, error) {
	opts := Options{
		Headline:   c.Headline,
		CTA:        c.CTA,
		BrandColor: c.BrandColor,
		Seed:       c.Seed,
	}
	opts.Quality = c.Quality

	var err error
	if opts.Ratios, err = creative.ParseRatios(c.Ratios); err != nil {
		return Options{}, err
	}
	if len(c.Templates) > 0 {
		opts.Templates = make(map[creative.Ratio]creative.Template, len(c.Templates))
		for rs, ts := range c.Templates {
			r, err := creative.ParseRatio(rs)
			if err != nil {
				return Options{}, err
			}
			t, err := creative.ParseTemplate(ts)
			if err != nil {
				return Options{}, err
			}
			opts.Templates[r] = t
		}
	}
	if c.Format != "" {
		if opts.Format, err = render.ParseFormat(c.Format); err != nil {
			return Options{}, err
		}
	}

	if c.Packshot == "" {
		return Options{}, errors.New(errors.ErrCodeAssetMissing, "packshot is required")
	}
	if opts.Packshot, err = asset.Load(ctx, c.resolve(c.Packshot)); err != nil {
		return Options{}, fmt.Errorf("packshot: %w", err)
	}
	if c.Logo == "" {
		return Options{}, errors.New(errors.ErrCodeAssetMissing, "logo is required")
	}
	if opts.Logo, err = asset.Load(ctx, c.resolve(c.Logo)); err != nil {
		return Options{}, fmt.Errorf("logo: %w", err)
	}

	for i, d := range c.Decorations {
		a, err := c.decoration(ctx, d)
		if err != nil {
			return Options{}, fmt.Errorf("decoration %d: %w", i, err)
		}
		opts.Decorations = append(opts.Decorations, a)
	}
	if c.QR != "" {
		url, err := asset.QRCodeDataURL(c.QR, 0)
		if err != nil {
			return Options{}, fmt.Errorf("qr: %w", err)
		}
		opts.Decorations = append(opts.Decorations, template.ImageAsset(url))
	}
	return opts, nil
}

func (c Config) decoration(ctx context.Context, d DecorationConfig) (template.Asset, error) {
	kind := creative.DecorationKind(d.Type)
	if !kind.Valid() {
		return template.Asset{}, errors.New(errors.ErrCodeInvalidInput, "unknown decoration type %q", d.Type)
	}
	a := template.Asset{Kind: kind, Content: d.Content, Color: d.Color}
	if kind == creative.DecorationImage {
		data, err := asset.Load(ctx, c.resolve(d.Src))
		if err != nil {
			return template.Asset{}, err
		}
		a.ImageDataURL = asset.EncodeDataURL("", data)
	}
	return a, nil
}

// resolve makes relative file paths relative to the config directory.
func (c Config) resolve(src string) string {
	if c.dir == "" || src == "" || filepath.IsAbs(src) ||
		strings.HasPrefix(src, "data:") ||
		strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		return src
	}
	return filepath.Join(c.dir, src)
}
