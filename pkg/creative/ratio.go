package creative

import (
	"strings"

	"github.com/matzehuels/adforge/pkg/errors"
)

// Ratio is an aspect ratio variant of a creative.
type Ratio string

// Supported aspect ratios.
const (
	RatioSquare    Ratio = "1:1"
	RatioPortrait  Ratio = "9:16"
	RatioLandscape Ratio = "1.91:1"
)

var dimensions = map[Ratio][2]int{
	RatioSquare:    {1080, 1080},
	RatioPortrait:  {1080, 1920},
	RatioLandscape: {1200, 628},
}

// Ratios returns all supported ratios in canonical order.
func Ratios() []Ratio {
	return []Ratio{RatioSquare, RatioPortrait, RatioLandscape}
}

// ParseRatio parses "1:1", "9:16" or "1.91:1". The file-name slug forms
// ("1-1", "9-16", "1.91-1") are accepted too.
func ParseRatio(s string) (Ratio, error) {
	r := Ratio(strings.ReplaceAll(strings.TrimSpace(s), "-", ":"))
	if !r.Valid() {
		return "", errors.New(errors.ErrCodeInvalidTemplateOrRatio, "unknown ratio %q (want 1:1, 9:16 or 1.91:1)", s)
	}
	return r, nil
}

// ParseRatios parses a list of ratios, dropping duplicates while keeping order.
func ParseRatios(ss []string) ([]Ratio, error) {
	var out []Ratio
	seen := make(map[Ratio]bool, len(ss))
	for _, s := range ss {
		r, err := ParseRatio(s)
		if err != nil {
			return nil, err
		}
		if !seen[r] {
			seen[r] = true
			out = append(out, r)
		}
	}
	return out, nil
}

// Valid reports whether r is a supported ratio.
func (r Ratio) Valid() bool {
	_, ok := dimensions[r]
	return ok
}

// Dimensions returns the canonical pixel size for r, or 0, 0 if r is unknown.
func (r Ratio) Dimensions() (width, height int) {
	d := dimensions[r]
	return d[0], d[1]
}

// Slug returns r in a form safe for file names, e.g. "9-16".
func (r Ratio) Slug() string {
	return strings.ReplaceAll(string(r), ":", "-")
}

func (r Ratio) String() string { return string(r) }

// Template is a visual template family.
type Template string

// Template families.
const (
	TemplateCleanMinimal Template = "clean-minimal"
	TemplateBoldDynamic  Template = "bold-dynamic"
	TemplatePremiumSoft  Template = "premium-soft"
)

var templateNames = map[Template]string{
	TemplateCleanMinimal: "Clean Minimal",
	TemplateBoldDynamic:  "Bold Dynamic",
	TemplatePremiumSoft:  "Premium Soft",
}

// Templates returns all template families in canonical order.
func Templates() []Template {
	return []Template{TemplateCleanMinimal, TemplateBoldDynamic, TemplatePremiumSoft}
}

// ParseTemplate parses a template family name.
func ParseTemplate(s string) (Template, error) {
	t := Template(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", errors.New(errors.ErrCodeInvalidTemplateOrRatio,
			"unknown template %q (want clean-minimal, bold-dynamic or premium-soft)", s)
	}
	return t, nil
}

// Valid reports whether t is a known template family.
func (t Template) Valid() bool {
	_, ok := templateNames[t]
	return ok
}

// DisplayName returns the human-readable name, e.g. "Bold Dynamic".
func (t Template) DisplayName() string {
	if n, ok := templateNames[t]; ok {
		return n
	}
	return string(t)
}

func (t Template) String() string { return string(t) }
