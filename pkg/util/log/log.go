// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package log implements context-aware, leveled logging. Messages carry the
// logtags attached to their context and are emitted through a zap logger.
package log

import (
	"context"
	"io"
	"os"
	"strings"
	"sync/atomic"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/logtags"
	"github.com/cockroachdb/redact"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	logger    atomic.Pointer[zap.Logger]
	verbosity atomic.Int32
)

func init() {
	logger.Store(newLogger(os.Stderr, "text", zapcore.InfoLevel))
}

// Config configures the process-wide logger.
type Config struct {
	// Format is either "text" or "json".
	Format string
	// Level is the minimum severity that is emitted.
	Level string
	// Verbosity enables V(level) and VEventf messages up to the given level.
	Verbosity int32
}

// Init replaces the process-wide logger. Output goes to w.
func Init(w io.Writer, cfg Config) error {
	lvl := zapcore.InfoLevel
	if cfg.Level != "" {
		var err error
		if lvl, err = zapcore.ParseLevel(cfg.Level); err != nil {
			return errors.Wrapf(err, "invalid log level %q", cfg.Level)
		}
	}
	switch cfg.Format {
	case "", "text", "json":
	default:
		return errors.Newf("unknown log format %q", cfg.Format)
	}
	logger.Store(newLogger(w, cfg.Format, lvl))
	SetVerbosity(cfg.Verbosity)
	return nil
}

func newLogger(w io.Writer, format string, lvl zapcore.Level) *zap.Logger {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	var enc zapcore.Encoder
	if format == "json" {
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	}
	return zap.New(zapcore.NewCore(enc, zapcore.AddSync(w), lvl), zap.AddCaller(), zap.AddCallerSkip(2))
}

// SetVerbosity sets the level up to which V returns true.
func SetVerbosity(level int32) {
	verbosity.Store(level)
}

// V returns true if the logging verbosity is set to the specified level or
// higher.
func V(level int32) bool {
	return verbosity.Load() >= level
}

// Infof logs to the INFO severity.
func Infof(ctx context.Context, format string, args ...interface{}) {
	logf(ctx, zapcore.InfoLevel, format, args...)
}

// Info logs a constant message to the INFO severity.
func Info(ctx context.Context, msg string) {
	logf(ctx, zapcore.InfoLevel, "%s", redact.Safe(msg))
}

// Warningf logs to the WARNING severity.
func Warningf(ctx context.Context, format string, args ...interface{}) {
	logf(ctx, zapcore.WarnLevel, format, args...)
}

// Errorf logs to the ERROR severity.
func Errorf(ctx context.Context, format string, args ...interface{}) {
	logf(ctx, zapcore.ErrorLevel, format, args...)
}

// VEventf either logs a message to the INFO severity if the verbosity is at
// least level, or adds it as an event to the span in ctx. It does both if
// both conditions hold.
func VEventf(ctx context.Context, level int32, format string, args ...interface{}) {
	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.AddEvent(redact.Sprintf(format, args...).StripMarkers())
	}
	if V(level) {
		logf(ctx, zapcore.InfoLevel, format, args...)
	}
}

func logf(ctx context.Context, lvl zapcore.Level, format string, args ...interface{}) {
	l := logger.Load()
	if ce := l.Check(lvl, ""); ce != nil {
		ce.Message = FormatWithContextTags(ctx, format, args...)
		ce.Write()
	}
}

// FormatWithContextTags formats the message and prepends the logtags found
// in ctx, e.g. "[q=1,task=3] message".
func FormatWithContextTags(ctx context.Context, format string, args ...interface{}) string {
	var sb strings.Builder
	if tags := logtags.FromContext(ctx); tags != nil && len(tags.Get()) > 0 {
		sb.WriteByte('[')
		for i, t := range tags.Get() {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(t.Key())
			if v := t.ValueStr(); v != "" {
				sb.WriteByte('=')
				sb.WriteString(v)
			}
		}
		sb.WriteString("] ")
	}
	sb.WriteString(redact.Sprintf(format, args...).StripMarkers())
	return sb.String()
}
