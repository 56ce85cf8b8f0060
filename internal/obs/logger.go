// Package obs provides the logging interface shared by every long-running
// component. Components take a Logger at construction time rather than
// reaching for a package-level global, so tests can inject a no-op or
// recording implementation.
package obs

import (
	"fmt"

	"go.uber.org/zap"
)

// Logger is the dependency-injected logging seam. The level argument is a
// free-form string ("debug", "info", "warn", "error") so call sites read the
// same way regardless of backing implementation.
type Logger interface {
	Log(level, message string)
	With(fields ...any) Logger
}

// NewZap builds a Logger backed by a zap.SugaredLogger. prod selects the
// production JSON encoder; false selects the human-readable development
// console encoder.
func NewZap(prod bool) (Logger, error) {
	var cfg zap.Config
	if prod {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}
	z, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return &zapLogger{sugar: z.Sugar()}, nil
}

type zapLogger struct {
	sugar *zap.SugaredLogger
}

func (l *zapLogger) Log(level, message string) {
	switch level {
	case "debug":
		l.sugar.Debug(message)
	case "warn", "warning":
		l.sugar.Warn(message)
	case "error":
		l.sugar.Error(message)
	default:
		l.sugar.Info(message)
	}
}

func (l *zapLogger) With(fields ...any) Logger {
	return &zapLogger{sugar: l.sugar.With(fields...)}
}

// Nop is a Logger that discards everything; used as the zero-value default
// so callers never have to nil-check before logging.
var Nop Logger = nopLogger{}

type nopLogger struct{}

func (nopLogger) Log(string, string) {}
func (n nopLogger) With(...any) Logger { return n }

// Recording is a test-oriented Logger that keeps every message, the way a
// table-driven test wants to assert on log output without a real sink.
type Recording struct {
	Entries []string
}

func (r *Recording) Log(level, message string) {
	r.Entries = append(r.Entries, fmt.Sprintf("[%s] %s", level, message))
}

func (r *Recording) With(...any) Logger { return r }
