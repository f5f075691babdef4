package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time, rounded to the millisecond.
// Example output: "Laid out 250 rows (3ms)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// =============================================================================
// Observability Hooks
// =============================================================================

// logHooks reports pipeline and session events as debug log lines.
type logHooks struct {
	logger *log.Logger
}

func (h *logHooks) OnLoadStart(_ context.Context, path string) {
	h.logger.Debug("loading dataset", "path", path)
}

func (h *logHooks) OnLoadComplete(_ context.Context, path string, rows int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("load failed", "path", path, "error", err)
		return
	}
	h.logger.Debug("dataset loaded", "path", path, "rows", rows, "duration", d)
}

func (h *logHooks) OnLayoutStart(_ context.Context, ruleSet string, nodes int) {
	h.logger.Debug("layout started", "rule_set", ruleSet, "rows", nodes)
}

func (h *logHooks) OnLayoutComplete(_ context.Context, ruleSet string, violations int, d time.Duration, err error) {
	h.logger.Debug("layout complete", "rule_set", ruleSet, "violations", violations, "duration", d, "error", err)
}

func (h *logHooks) OnRenderStart(_ context.Context, formats []string) {
	h.logger.Debug("rendering", "formats", formats)
}

func (h *logHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	h.logger.Debug("render complete", "formats", formats, "duration", d, "error", err)
}

func (h *logHooks) OnRestructure(op string, columns []string, d time.Duration, err error) {
	h.logger.Debug("restructure", "op", op, "columns", columns, "duration", d, "error", err)
}

func (h *logHooks) OnPass(ruleSet string, dynamic bool, d time.Duration) {
	h.logger.Debug("pass", "rule_set", ruleSet, "dynamic", dynamic, "duration", d)
}

func (h *logHooks) OnViolation(kind, message string) {
	h.logger.Debug("violation", "kind", kind, "message", message)
}
