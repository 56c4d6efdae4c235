package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event to a charmbracelet logger at debug level,
// except failures which are logged as errors. It implements all hook
// interfaces of this package.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks that log through l.
func NewLogHooks(l *log.Logger) *LogHooks {
	return &LogHooks{logger: l}
}

func (h *LogHooks) OnLayoutStart(_ context.Context, strategy string, nodeCount int) {
	h.logger.Debug("layout start", "strategy", strategy, "nodes", nodeCount)
}

func (h *LogHooks) OnLayoutComplete(_ context.Context, strategy string, nodeCount int, d time.Duration, err error) {
	if err != nil {
		h.logger.Error("layout failed", "strategy", strategy, "err", err)
		return
	}
	h.logger.Debug("layout done", "strategy", strategy, "nodes", nodeCount, "took", d.Round(time.Microsecond))
}

func (h *LogHooks) OnCacheHit(_ context.Context, strategy string) {
	h.logger.Debug("cache hit", "strategy", strategy)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, strategy string) {
	h.logger.Debug("cache miss", "strategy", strategy)
}

func (h *LogHooks) OnCacheSet(_ context.Context, strategy string, size int) {
	h.logger.Debug("cache set", "strategy", strategy, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, path string, status int, d time.Duration) {
	h.logger.Info("request", "method", method, "path", path, "status", status, "took", d.Round(time.Microsecond))
}

func (h *LogHooks) OnCommit(op string, nodeCount, edgeCount, historyLen int) {
	h.logger.Debug("commit", "op", op, "nodes", nodeCount, "edges", edgeCount, "history", historyLen)
}

func (h *LogHooks) OnRejected(op string, err error) {
	h.logger.Warn("rejected", "op", op, "err", err)
}

var (
	_ LayoutHooks = (*LogHooks)(nil)
	_ CacheHooks  = (*LogHooks)(nil)
	_ HTTPHooks   = (*LogHooks)(nil)
	_ StoreHooks  = (*LogHooks)(nil)
)
