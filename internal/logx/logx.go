package logx

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var base atomic.Pointer[zap.Logger]

func init() {
	base.Store(zap.NewNop())
}

// useColor decides whether the console encoder colours levels.
func useColor(env string) bool {
	return env == "local" || env == "dev"
}

// Init builds the process logger. Dev environments get a coloured console
// encoder, everything else gets JSON.
func Init(level, env string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", level, err)
	}

	var cfg zap.Config
	if useColor(env) {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg = zap.NewProductionConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	l, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	Set(l)
	return l, nil
}

// InitFile builds a JSON logger that writes only to path. Terminal front
// ends use it so log lines never land on the screen.
func InitFile(level, path string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", level, err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}

	l, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	Set(l)
	return l, nil
}

// Set replaces the process logger. Tests use it with zaptest/observer loggers.
func Set(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	base.Store(l)
}

// L returns the process logger.
func L() *zap.Logger {
	return base.Load()
}

// Sync flushes buffered entries.
func Sync() {
	_ = L().Sync()
}

// --- Public API ---

func Debug(component, msg string, args ...any) {
	logGeneric(zapcore.DebugLevel, component, msg, args...)
}

func Info(component, msg string, args ...any) {
	logGeneric(zapcore.InfoLevel, component, msg, args...)
}

func Warn(component, msg string, args ...any) {
	logGeneric(zapcore.WarnLevel, component, msg, args...)
}

func Error(component, msg string, args ...any) {
	logGeneric(zapcore.ErrorLevel, component, msg, args...)
}

// --- Context ---

// ToContext stores a request-scoped logger in ctx.
func ToContext(ctx context.Context, l *zap.Logger) context.Context {
	return ctxzap.ToContext(ctx, l)
}

// FromContext returns the request-scoped logger, falling back to the
// process logger when ctx carries none.
func FromContext(ctx context.Context) *zap.Logger {
	if ctx == nil {
		return L()
	}
	l := ctxzap.Extract(ctx)
	if l == nil || l.Core() == zapcore.NewNopCore() {
		return L()
	}
	return l
}

// --- Core ---

func logGeneric(level zapcore.Level, component, msg string, args ...any) {
	l := L()
	if ce := l.Check(level, fmt.Sprintf(msg, args...)); ce != nil {
		ce.Write(zap.String("component", component))
	}
}
