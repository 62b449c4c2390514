package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/adforge/pkg/asset"
	"github.com/matzehuels/adforge/pkg/creative"
	"github.com/matzehuels/adforge/pkg/pipeline"
	"github.com/matzehuels/adforge/pkg/render"
)

// assetFlags are the per-creative inputs a layout file does not carry.
type assetFlags struct {
	packshot string
	logo     string
	headline string
	cta      string
	removeBG bool
}

func (f *assetFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.packshot, "packshot", "", "product image: path, URL or data URL (required)")
	cmd.Flags().StringVar(&f.logo, "logo", "", "logo image: path, URL or data URL (required)")
	cmd.Flags().StringVar(&f.headline, "headline", "", "headline text")
	cmd.Flags().StringVar(&f.cta, "cta", "", "call-to-action text")
	cmd.Flags().BoolVar(&f.removeBG, "remove-bg", false, "key out plain studio backgrounds from packshot and logo")
	_ = cmd.MarkFlagRequired("packshot")
	_ = cmd.MarkFlagRequired("logo")
}

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	assets  assetFlags
	output  string
	format  string
	quality int
	cache   cacheFlags
}

// renderCommand creates the render command, which rasterizes a layout file.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [layout file]",
		Short: "Render a layout file to PNG or JPEG",
		Long: `Render rasterizes a JSON or YAML layout, such as one written by
"adforge generate" or "adforge layout", with the given packshot, logo and copy.`,
		Example: `  adforge render creatives/creative-1-1.layout.json --packshot shoe.png --logo logo.png --headline "Run further"`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}

	opts.assets.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: layout name with the format extension)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "raster format: png (default), jpeg")
	cmd.Flags().IntVar(&opts.quality, "quality", 0, "JPEG quality 1-100")
	opts.cache.register(cmd)

	return cmd
}

func (c *CLI) runRender(ctx context.Context, path string, opts renderOpts) error {
	l, err := creative.ReadLayoutFile(path)
	if err != nil {
		return err
	}
	format, err := render.ParseFormat(opts.format)
	if err != nil {
		return err
	}
	cfg := pipeline.RenderConfig{Format: format, Quality: opts.quality}
	if err := cfg.ValidateAndSetDefaults(); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.cache, opts.assets.removeBG)
	if err != nil {
		return err
	}
	defer runner.Close()

	in, err := opts.assets.load(ctx, runner)
	if err != nil {
		return err
	}

	prog := newProgress(loggerFromContext(ctx))
	data, cached, err := runner.RenderWithCacheInfo(ctx, l, in, cfg)
	if err != nil {
		return err
	}
	prog.done("Rendered layout", "ratio", l.Ratio, "cached", cached)

	out := opts.output
	if out == "" {
		out = outputPath(path, format.Ext())
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	printSuccess("%s %s", l.Ratio, l.Template.DisplayName())
	printStats(l.Width, l.Height, len(data), cached)
	printFile(out)
	return nil
}

// outputPath derives "creative-1-1.png" from "creative-1-1.layout.json".
func outputPath(layoutPath, ext string) string {
	base := strings.TrimSuffix(layoutPath, filepath.Ext(layoutPath))
	base = strings.TrimSuffix(base, ".layout")
	return base + "." + ext
}

// load reads the packshot and logo and removes their backgrounds.
func (f assetFlags) load(ctx context.Context, r *pipeline.Runner) (render.Inputs, error) {
	packshot, err := asset.Load(ctx, f.packshot)
	if err != nil {
		return render.Inputs{}, fmt.Errorf("packshot: %w", err)
	}
	logo, err := asset.Load(ctx, f.logo)
	if err != nil {
		return render.Inputs{}, fmt.Errorf("logo: %w", err)
	}
	in, _, err := r.Prepare(ctx, pipeline.Options{
		Headline: f.headline,
		CTA:      f.cta,
		Packshot: packshot,
		Logo:     logo,
	})
	return in, err
}
