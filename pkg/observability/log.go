package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks implements every hook interface by logging at debug level.
type LogHooks struct {
	Logger *log.Logger
}

// NewLogHooks returns hooks writing to logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	return &LogHooks{Logger: logger}
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ HTTPHooks     = (*LogHooks)(nil)
)

func (h *LogHooks) OnGenerateStart(_ context.Context, ratios []string) {
	h.Logger.Debug("generate started", "ratios", ratios)
}

func (h *LogHooks) OnGenerateComplete(_ context.Context, variants, failed int, d time.Duration, err error) {
	h.Logger.Debug("generate finished", "variants", variants, "failed", failed, "duration", d, "err", err)
}

func (h *LogHooks) OnLayoutComplete(_ context.Context, ratio, template string, cached bool) {
	h.Logger.Debug("layout ready", "ratio", ratio, "template", template, "cached", cached)
}

func (h *LogHooks) OnRenderStart(_ context.Context, ratio string) {
	h.Logger.Debug("render started", "ratio", ratio)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, ratio string, size int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Debug("render failed", "ratio", ratio, "duration", d, "err", err)
		return
	}
	h.Logger.Debug("render finished", "ratio", ratio, "bytes", size, "duration", d)
}

func (h *LogHooks) OnExportComplete(_ context.Context, ratio string, size int, d time.Duration, err error) {
	h.Logger.Debug("export finished", "ratio", ratio, "bytes", size, "duration", d, "err", err)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, url string) {
	h.Logger.Debug("fetch", "url", url)
}

func (h *LogHooks) OnResponse(_ context.Context, url string, status int, d time.Duration, err error) {
	h.Logger.Debug("fetched", "url", url, "status", status, "duration", d, "err", err)
}
