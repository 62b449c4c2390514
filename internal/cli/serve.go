package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/adforge/internal/server"
	"github.com/matzehuels/adforge/pkg/pipeline"
	"github.com/matzehuels/adforge/pkg/render"
	"github.com/matzehuels/adforge/pkg/session"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr     string
	ttl      time.Duration
	pacing   time.Duration
	format   string
	removeBG bool
	cache    cacheFlags
}

// serveCommand creates the serve command, which runs the editing API.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{
		addr:   ":8080",
		ttl:    session.DefaultTTL,
		pacing: pipeline.DefaultExportPacing,
	}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP editing API",
		Example: `  adforge serve --addr :9000
  adforge serve --redis localhost:6379 --session-ttl 30m`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			format, err := render.ParseFormat(opts.format)
			if err != nil {
				return err
			}

			runner, err := c.newRunner(ctx, opts.cache, opts.removeBG)
			if err != nil {
				return err
			}
			defer runner.Close()

			srv, err := server.New(runner, session.NewMemoryStore(opts.ttl),
				server.WithLogger(c.Logger),
				server.WithRenderConfig(pipeline.RenderConfig{Format: format}),
				server.WithExportPacing(opts.pacing),
			)
			if err != nil {
				return err
			}

			printInfo("Serving on %s", StyleLink.Render("http://"+displayAddr(opts.addr)))
			printDetail("Sessions expire after %s idle", opts.ttl)
			return srv.ListenAndServe(ctx, opts.addr)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.addr, "addr", opts.addr, "listen address")
	f.DurationVar(&opts.ttl, "session-ttl", opts.ttl, "drop sessions idle for this long")
	f.DurationVar(&opts.pacing, "export-pacing", opts.pacing, "pause between exported creatives")
	f.StringVarP(&opts.format, "format", "f", "", "preview format: png (default), jpeg")
	f.BoolVar(&opts.removeBG, "remove-bg", false, "key out plain studio backgrounds from uploaded images")
	opts.cache.register(cmd)

	return cmd
}

// displayAddr turns ":8080" into "localhost:8080".
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
