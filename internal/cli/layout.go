package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/adforge/pkg/asset"
	"github.com/matzehuels/adforge/pkg/creative"
	"github.com/matzehuels/adforge/pkg/errors"
	"github.com/matzehuels/adforge/pkg/palette"
	"github.com/matzehuels/adforge/pkg/pipeline"
	"github.com/matzehuels/adforge/pkg/template"
)

// layoutOpts holds the command-line flags for the layout command.
type layoutOpts struct {
	ratio      string
	template   string
	brandColor string
	headline   string
	emoji      []string
	shapes     []string
	images     []string
	format     string
	output     string
	cache      cacheFlags
}

// layoutCommand creates the layout command, which prints the layout a
// template produces without rendering it.
func (c *CLI) layoutCommand() *cobra.Command {
	opts := layoutOpts{
		ratio:      string(creative.RatioSquare),
		template:   string(creative.TemplateCleanMinimal),
		brandColor: pipeline.DefaultBrandColor,
		format:     "json",
	}

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Print a generated layout as JSON or YAML",
		Example: `  adforge layout --ratio 9:16 --template bold-dynamic --brand-color "#E11D48"
  adforge layout -r 1.91:1 --emoji ✨ --shape circle -f yaml -o banner.layout.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.ratio, "ratio", "r", opts.ratio, "aspect ratio: 1:1, 9:16, 1.91:1")
	f.StringVarP(&opts.template, "template", "t", opts.template, "template: clean-minimal, bold-dynamic, premium-soft")
	f.StringVar(&opts.brandColor, "brand-color", opts.brandColor, "brand colour as #RRGGBB")
	f.StringVar(&opts.headline, "headline", "", "headline text")
	f.StringSliceVar(&opts.emoji, "emoji", nil, "emoji decorations")
	f.StringSliceVar(&opts.shapes, "shape", nil, "shape decorations: circle, rectangle, line")
	f.StringSliceVar(&opts.images, "image", nil, "image decorations: path, URL or data URL")
	f.StringVarP(&opts.format, "format", "f", opts.format, "output format: json, yaml")
	f.StringVarP(&opts.output, "output", "o", "", "write to file instead of stdout")
	opts.cache.register(cmd)

	return cmd
}

func (c *CLI) runLayout(ctx context.Context, opts layoutOpts) error {
	ratio, err := creative.ParseRatio(opts.ratio)
	if err != nil {
		return err
	}
	family, err := creative.ParseTemplate(opts.template)
	if err != nil {
		return err
	}
	p, err := palette.FromHex(opts.brandColor)
	if err != nil {
		return err
	}
	assets, err := decorationAssets(ctx, opts.emoji, opts.shapes, opts.images)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.cache, false)
	if err != nil {
		return err
	}
	defer runner.Close()

	l, err := runner.GenerateLayout(ctx, pipeline.LayoutRequest{
		Ratio:    ratio,
		Template: family,
		Palette:  p,
		Headline: opts.headline,
		Assets:   assets,
	})
	if err != nil {
		return err
	}

	var data []byte
	switch opts.format {
	case "json":
		data, err = creative.MarshalLayout(l)
	case "yaml", "yml":
		data, err = creative.MarshalLayoutYAML(l)
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %s (must be 'json' or 'yaml')", opts.format)
	}
	if err != nil {
		return err
	}

	if opts.output == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", opts.output, err)
	}
	printSuccess("%s %s layout", ratio, family.DisplayName())
	printFile(opts.output)
	return nil
}

// decorationAssets builds template assets from decoration flags, in emoji,
// shape, image order.
func decorationAssets(ctx context.Context, emoji, shapes, images []string) ([]template.Asset, error) {
	var out []template.Asset
	for _, e := range emoji {
		out = append(out, template.EmojiAsset(e))
	}
	for _, s := range shapes {
		kind := creative.DecorationKind(s)
		if !kind.Valid() || kind == creative.DecorationImage || kind == creative.DecorationEmoji {
			return nil, errors.New(errors.ErrCodeInvalidInput, "unknown shape %q", s)
		}
		out = append(out, template.ShapeAsset(kind))
	}
	for _, src := range images {
		data, err := asset.Load(ctx, src)
		if err != nil {
			return nil, fmt.Errorf("image %s: %w", src, err)
		}
		out = append(out, template.ImageAsset(asset.EncodeDataURL("", data)))
	}
	return out, nil
}
