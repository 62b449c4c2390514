package pipeline

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/adforge/pkg/asset"
	"github.com/matzehuels/adforge/pkg/creative"
	"github.com/matzehuels/adforge/pkg/errors"
	"github.com/matzehuels/adforge/pkg/observability"
)

// ExportOptions configures [Export].
type ExportOptions struct {
	Compressor asset.Compressor // default asset.JPEGCompressor
	TargetKB   int              // default DefaultTargetKB
	Pacing     time.Duration    // pause between items; zero for none
	Logger     *log.Logger
}

// Exported is the outcome for one creative.
type Exported struct {
	Ratio    creative.Ratio
	FileName string
	Data     []byte
	Err      error
}

// Export compresses each creative towards the size target, one at a time
// with opts.Pacing between items. Items are isolated: a failure is stored
// on its [Exported] and the rest continue. Stale creatives fail with
// RENDER_FAILED; re-render them first.
func Export(ctx context.Context, creatives []creative.GeneratedCreative, opts ExportOptions) []Exported {
	if opts.Compressor == nil {
		opts.Compressor = asset.JPEGCompressor{}
	}
	if opts.TargetKB == 0 {
		opts.TargetKB = DefaultTargetKB
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	sizeErr := errors.ValidateTargetSize(opts.TargetKB)

	out := make([]Exported, len(creatives))
	for i, c := range creatives {
		out[i] = Exported{Ratio: c.Ratio}
		if sizeErr != nil {
			out[i].Err = sizeErr
			continue
		}
		if i > 0 && opts.Pacing > 0 {
			if err := sleep(ctx, opts.Pacing); err != nil {
				for j := i; j < len(creatives); j++ {
					out[j] = Exported{Ratio: creatives[j].Ratio, Err: err}
				}
				return out
			}
		}
		out[i] = exportOne(ctx, c, opts)
	}
	return out
}

func exportOne(ctx context.Context, c creative.GeneratedCreative, opts ExportOptions) Exported {
	e := Exported{Ratio: c.Ratio}
	start := time.Now()
	if c.Stale() {
		e.Err = errors.New(errors.ErrCodeRenderFailed, "creative %s has no current render", c.Ratio)
	} else {
		e.Data, e.Err = opts.Compressor.Compress(ctx, c.Rendered, opts.TargetKB)
	}
	if e.Err == nil {
		e.FileName = c.FileName(extFor(e.Data))
	}
	observability.Pipeline().OnExportComplete(ctx, string(c.Ratio), len(e.Data), time.Since(start), e.Err)

	if e.Err != nil {
		opts.Logger.Warn("export failed", "ratio", c.Ratio, "error", e.Err)
	} else {
		opts.Logger.Debug("exported", "ratio", c.Ratio, "file", e.FileName, "kb", len(e.Data)/1024)
	}
	return e
}

func extFor(data []byte) string {
	switch http.DetectContentType(data) {
	case "image/png":
		return "png"
	case "image/jpeg":
		return "jpg"
	}
	return "bin"
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
