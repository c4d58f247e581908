// Package logger provides structured logging using go.uber.org/zap. The
// default sink is a file under the user cache dir: the terminal belongs to
// the board UI, so nothing may log to stdout while it runs.
package logger

import (
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the logging settings.
type Config struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, console
	Path   string `mapstructure:"path"`   // file path, or stderr
}

var (
	defaultLogger *zap.Logger
	defaultOnce   sync.Once
)

// Default returns the shared logger, lazily initialized to info level writing
// JSON to the default log file. Falls back to a no-op logger when the file
// cannot be opened.
func Default() *zap.Logger {
	defaultOnce.Do(func() {
		l, err := New(Config{Level: "info", Format: "json", Path: DefaultPath()})
		if err != nil {
			l = zap.NewNop()
		}
		defaultLogger = l
	})
	return defaultLogger
}

// SetDefault replaces the shared logger, typically with one built from the
// loaded configuration.
func SetDefault(l *zap.Logger) {
	defaultOnce.Do(func() {})
	defaultLogger = l
}

// DefaultPath returns the stock log file location.
func DefaultPath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "nodeboard.log"
	}
	return filepath.Join(dir, "nodeboard", "nodeboard.log")
}

// New builds a logger from cfg. An unparseable level falls back to info.
func New(cfg Config) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.LowercaseLevelEncoder

	var encoder zapcore.Encoder
	if cfg.Format == "console" || cfg.Format == "text" {
		encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	} else {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	}

	var sink zapcore.WriteSyncer
	switch cfg.Path {
	case "stderr":
		sink = zapcore.AddSync(os.Stderr)
	case "":
		cfg.Path = DefaultPath()
		fallthrough
	default:
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
			return nil, err
		}
		file, err := os.OpenFile(cfg.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, err
		}
		sink = zapcore.AddSync(file)
	}

	core := zapcore.NewCore(encoder, sink, level)
	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)), nil
}
