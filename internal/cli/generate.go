package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/adforge/pkg/creative"
	"github.com/matzehuels/adforge/pkg/errors"
	"github.com/matzehuels/adforge/pkg/pipeline"
)

// generateOpts holds the command-line flags for the generate command.
// Flags that are set override the values of the --config file.
type generateOpts struct {
	config     string
	headline   string
	cta        string
	brandColor string
	ratios     []string
	templates  map[string]string
	seed       uint64
	packshot   string
	logo       string
	emoji      []string
	shapes     []string
	images     []string
	qr         string
	output     string
	format     string
	quality    int
	targetKB   int
	export     bool
	removeBG   bool
	refresh    bool
	cache      cacheFlags
}

// generateCommand creates the generate command: one creative per ratio from
// a packshot, a logo and a headline.
func (c *CLI) generateCommand() *cobra.Command {
	var opts generateOpts

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a batch of creatives",
		Long: `Generate lays out and renders one creative per aspect ratio.

Inputs come from flags, from a TOML batch file (--config), or both; flags win.
Each creative is written as creative-<ratio>.<ext> next to its layout
creative-<ratio>.layout.json, which "adforge render" and "adforge edit" accept.`,
		Example: `  adforge generate --packshot shoe.png --logo logo.png --headline "Run further" --cta "Shop now"
  adforge generate --config batch.toml --ratio 9:16 --template 9:16=bold-dynamic
  adforge generate --config batch.toml --export --target-kb 300`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.resolve(cmd)
			if err != nil {
				return err
			}
			return c.runGenerate(cmd.Context(), cfg, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.config, "config", "c", "", "TOML batch file")
	f.StringVar(&opts.headline, "headline", "", "headline text (max 60 characters)")
	f.StringVar(&opts.cta, "cta", "", "call-to-action text (max 20 characters)")
	f.StringVar(&opts.brandColor, "brand-color", "", "brand colour as #RRGGBB (default: extracted from the logo)")
	f.StringSliceVarP(&opts.ratios, "ratio", "r", nil, "aspect ratios: 1:1, 9:16, 1.91:1 (default all)")
	f.StringToStringVarP(&opts.templates, "template", "t", nil, "template per ratio, e.g. 1:1=premium-soft")
	f.Uint64Var(&opts.seed, "seed", 0, "seed for templates that are not set explicitly")
	f.StringVar(&opts.packshot, "packshot", "", "product image: path, URL or data URL")
	f.StringVar(&opts.logo, "logo", "", "logo image: path, URL or data URL")
	f.StringSliceVar(&opts.emoji, "emoji", nil, "emoji decorations")
	f.StringSliceVar(&opts.shapes, "shape", nil, "shape decorations: circle, rectangle, line")
	f.StringSliceVar(&opts.images, "image", nil, "image decorations: path, URL or data URL")
	f.StringVar(&opts.qr, "qr", "", "add a QR code for this text as an image decoration")
	f.StringVarP(&opts.output, "output", "o", "", "output directory (default \""+defaultOutputDir+"\")")
	f.StringVarP(&opts.format, "format", "f", "", "raster format: png (default), jpeg")
	f.IntVar(&opts.quality, "quality", 0, "JPEG quality 1-100")
	f.IntVar(&opts.targetKB, "target-kb", 0, "export size target in KB")
	f.BoolVar(&opts.export, "export", false, "also write size-targeted JPEG exports")
	f.BoolVar(&opts.removeBG, "remove-bg", false, "key out plain studio backgrounds from packshot and logo")
	f.BoolVar(&opts.refresh, "refresh", false, "ignore cached layouts and renders")
	opts.cache.register(cmd)

	return cmd
}

// resolve loads the --config file and applies the flags that were set.
func (o *generateOpts) resolve(cmd *cobra.Command) (pipeline.Config, error) {
	var cfg pipeline.Config
	if o.config != "" {
		var err error
		if cfg, err = pipeline.LoadConfig(o.config); err != nil {
			return pipeline.Config{}, err
		}
	}

	f := cmd.Flags()
	set := func(name string, dst *string, v string) {
		if f.Changed(name) {
			*dst = v
		}
	}
	set("headline", &cfg.Headline, o.headline)
	set("cta", &cfg.CTA, o.cta)
	set("brand-color", &cfg.BrandColor, o.brandColor)
	set("packshot", &cfg.Packshot, o.packshot)
	set("logo", &cfg.Logo, o.logo)
	set("qr", &cfg.QR, o.qr)
	set("output", &cfg.Output, o.output)
	set("format", &cfg.Format, o.format)

	if f.Changed("ratio") {
		cfg.Ratios = o.ratios
	}
	if f.Changed("template") {
		if cfg.Templates == nil {
			cfg.Templates = map[string]string{}
		}
		for k, v := range parseTemplateFlags(o.templates) {
			cfg.Templates[k] = v
		}
	}
	if f.Changed("seed") {
		cfg.Seed = o.seed
	}
	if f.Changed("quality") {
		cfg.Quality = o.quality
	}
	if f.Changed("target-kb") {
		cfg.TargetKB = o.targetKB
	}
	if f.Changed("export") {
		cfg.Export = o.export
	}

	for _, e := range o.emoji {
		cfg.Decorations = append(cfg.Decorations, pipeline.DecorationConfig{Type: string(creative.DecorationEmoji), Content: e})
	}
	for _, s := range o.shapes {
		cfg.Decorations = append(cfg.Decorations, pipeline.DecorationConfig{Type: s})
	}
	for _, src := range o.images {
		cfg.Decorations = append(cfg.Decorations, pipeline.DecorationConfig{Type: string(creative.DecorationImage), Src: src})
	}

	if cfg.Output == "" {
		cfg.Output = defaultOutputDir
	}
	return cfg, nil
}

func (c *CLI) runGenerate(ctx context.Context, cfg pipeline.Config, flags generateOpts) error {
	logger := loggerFromContext(ctx)
	if cfg.TargetKB != 0 {
		if err := errors.ValidateTargetSize(cfg.TargetKB); err != nil {
			return err
		}
	}

	opts, err := cfg.Options(ctx)
	if err != nil {
		return err
	}
	opts.Refresh = flags.refresh
	opts.Logger = logger
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, flags.cache, flags.removeBG)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(logger)
	spinner := newSpinnerWithContext(ctx, "Generating creatives...")
	spinner.Start()
	res, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.Stop()
		return err
	}
	prog.step("rendered variants", "variants", len(res.Variants), "failed", res.Failed())
	spinner.Update("Writing creatives...")

	if err := os.MkdirAll(cfg.Output, 0o755); err != nil {
		spinner.Stop()
		return fmt.Errorf("create output dir: %w", err)
	}

	rows := make([]variantRow, 0, len(res.Variants))
	for _, v := range res.Variants {
		row := variantRow{
			ratio:    v.Ratio.String(),
			template: v.Template.DisplayName(),
			duration: v.Duration,
			cached:   v.Cached,
			err:      v.Err,
		}
		if v.Err == nil {
			path, err := writeVariant(cfg.Output, v, opts.Format.Ext())
			if err != nil {
				spinner.Stop()
				return err
			}
			row.size = len(v.Creative.Rendered)
			row.file = path
		}
		rows = append(rows, row)
	}
	spinner.Stop()
	prog.done("Generated creatives", "count", len(res.Variants), "dir", cfg.Output)

	printNewline()
	printSuccess("Brand colour %s", StyleHighlight.Render(res.BrandColor))
	fmt.Println(renderVariantTable(rows))

	if cfg.Export {
		if err := c.exportCreatives(ctx, cfg, res.Creatives()); err != nil {
			return err
		}
	}

	if failed := res.Failed(); failed > 0 {
		printWarning("%d of %d creatives failed", failed, len(res.Variants))
		return res.Complete()
	}

	printNewline()
	printNextStep("Adjust a layout", fmt.Sprintf("%s edit %s --packshot %s --logo %s",
		appName, layoutPath(cfg.Output, res.Variants[0].Creative), cfg.Packshot, cfg.Logo))
	return nil
}

// writeVariant writes the raster and its layout file and returns the
// raster path.
func writeVariant(dir string, v pipeline.Variant, ext string) (string, error) {
	path := filepath.Join(dir, v.Creative.FileName(ext))
	if err := os.WriteFile(path, v.Creative.Rendered, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if err := creative.WriteLayoutFile(layoutPath(dir, v.Creative), v.Creative.Layout); err != nil {
		return "", err
	}
	return path, nil
}

func layoutPath(dir string, c creative.GeneratedCreative) string {
	return filepath.Join(dir, c.FileName("layout.json"))
}

// exportCreatives writes size-targeted JPEGs to <output>/export.
func (c *CLI) exportCreatives(ctx context.Context, cfg pipeline.Config, creatives []creative.GeneratedCreative) error {
	dir := filepath.Join(cfg.Output, "export")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}

	targetKB := cfg.TargetKB
	if targetKB == 0 {
		targetKB = pipeline.DefaultTargetKB
	}
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Exporting %d creatives...", len(creatives)))
	spinner.Start()
	exported := pipeline.Export(ctx, creatives, pipeline.ExportOptions{
		TargetKB: targetKB,
		Pacing:   pipeline.DefaultExportPacing,
		Logger:   loggerFromContext(ctx),
	})
	spinner.Stop()

	printNewline()
	printInfo("Exports (target %d KB)", targetKB)
	var failed int
	for _, e := range exported {
		if e.Err != nil {
			failed++
			printError("%s: %s", e.Ratio, errors.UserMessage(e.Err))
			continue
		}
		path := filepath.Join(dir, e.FileName)
		if err := os.WriteFile(path, e.Data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
		printDetail("%s", formatBytes(len(e.Data)))
	}
	if failed > 0 {
		return errors.New(errors.ErrCodeRenderFailed, "%d of %d exports failed", failed, len(exported))
	}
	return nil
}
