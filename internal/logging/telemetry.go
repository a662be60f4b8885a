package logging

import (
	"context"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Azure/mypl/parser"
)

// Options configures the process logger.
type Options struct {
	// Verbosity enables logr V-levels up to and including this value.
	// 0 logs outcomes, 1 adds per-source details, 2 adds the grammar trace.
	Verbosity   int
	Development bool
	Build       string
}

// New builds a zap-backed logr.Logger.
func New(opts Options) (logr.Logger, error) {
	cfg := zap.NewProductionConfig()
	if opts.Development {
		cfg = zap.NewDevelopmentConfig()
	}
	if opts.Verbosity < 0 {
		opts.Verbosity = 0
	}
	cfg.Level = zap.NewAtomicLevelAt(zapcore.Level(-opts.Verbosity))

	zl, err := cfg.Build()
	if err != nil {
		return logr.Discard(), err
	}
	return NewLoggerWithBuild(zl, opts.Build), nil
}

// NewLoggerWithBuild creates a logger with serviceBuild field if buildVersion is provided
func NewLoggerWithBuild(zl *zap.Logger, buildVersion string) logr.Logger {
	logger := zapr.NewLogger(zl)
	if buildVersion != "" {
		logger = logger.WithValues("serviceBuild", buildVersion)
	}
	return logger
}

// NewTracer returns a parser.Tracer that writes each entered grammar rule at V(2),
// indented by nesting depth.
func NewTracer(logger logr.Logger) parser.Tracer {
	log := logger.V(2)
	return parser.TraceFunc(func(rule string, depth int, lookahead parser.Token) {
		if !log.Enabled() {
			return
		}
		indent := strings.Repeat("  ", max(depth-1, 0))
		log.Info(indent+"<"+rule+">", "lookahead", lookahead.Type.String(), "lexeme", lookahead.Lexeme, "line", lookahead.Line, "column", lookahead.Column)
	})
}

// EventLogger records analysis events on the logger carried by the context.
type EventLogger struct {
	logFn func(ctx context.Context, msg string, args ...any)
}

func NewEventLogger() *EventLogger {
	return &EventLogger{
		logFn: func(ctx context.Context, msg string, args ...any) {
			logr.FromContextOrDiscard(ctx).V(0).Info(msg, args...)
		},
	}
}

// Record logs msg with an event type and timestamp prepended to the given fields.
func (l *EventLogger) Record(ctx context.Context, eventType, msg string, fields ...any) {
	enriched := []any{"eventType", eventType, "timestamp", time.Now()}
	enriched = append(enriched, fields...)
	l.logFn(ctx, msg, enriched...)
}

func (l *EventLogger) WithLogFn(fn func(ctx context.Context, msg string, args ...any)) *EventLogger {
	l.logFn = fn
	return l
}

// AddFields is a helper to build field arrays safely
func AddFields(base []any, keyValues ...any) []any {
	out := make([]any, 0, len(base)+len(keyValues))
	out = append(out, base...)
	return append(out, keyValues...)
}
