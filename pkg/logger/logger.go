package logger

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	charmlog "github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config describes how the application logger should behave.
type Config struct {
	Level       string      `json:"level"`
	Format      string      `json:"format"`
	OutputPaths []string    `json:"output_paths"`
	Audit       AuditConfig `json:"audit"`
}

// AuditConfig controls audit log output behaviour. The audit log records every
// resource read served to an agent.
type AuditConfig struct {
	Enabled    bool   `json:"enabled"`
	Path       string `json:"path"`
	MaxSizeMB  int    `json:"max_size_mb"`
	MaxBackups int    `json:"max_backups"`
	MaxAgeDays int    `json:"max_age_days"`
}

// Loggers bundles the application and audit loggers built from a Config.
type Loggers struct {
	App     *slog.Logger
	Audit   *slog.Logger
	closers []io.Closer
}

// Close releases any files opened for the loggers.
func (l *Loggers) Close() error {
	var err error
	for _, closer := range l.closers {
		err = errors.Join(err, closer.Close())
	}
	l.closers = nil
	return err
}

var (
	mu      sync.Mutex
	current *Loggers
)

// Init configures the global logger instances. Only the first call takes
// effect.
func Init(cfg Config) error {
	mu.Lock()
	defer mu.Unlock()
	if current != nil {
		return errors.New("logger already initialised")
	}
	loggers, err := New(cfg)
	if err != nil {
		return err
	}
	current = loggers
	return nil
}

// New builds loggers without touching the package globals.
func New(cfg Config) (*Loggers, error) {
	level := parseLevel(cfg.Level)
	out := &Loggers{}

	writer, err := out.buildWriter(cfg.OutputPaths)
	if err != nil {
		_ = out.Close()
		return nil, err
	}
	out.App = slog.New(buildHandler(cfg.Format, writer, level))

	out.Audit = out.App
	if cfg.Audit.Enabled {
		audit, err := out.buildAuditLogger(cfg.Audit)
		if err != nil {
			_ = out.Close()
			return nil, err
		}
		out.Audit = audit
	}
	return out, nil
}

func buildHandler(format string, writer io.Writer, level slog.Level) slog.Handler {
	if strings.EqualFold(format, "text") {
		return charmlog.NewWithOptions(writer, charmlog.Options{
			Level:           charmlog.Level(level),
			ReportTimestamp: true,
			TimeFormat:      time.DateTime,
		})
	}
	return slog.NewJSONHandler(writer, &slog.HandlerOptions{Level: level, AddSource: true})
}

func (l *Loggers) buildWriter(outputs []string) (io.Writer, error) {
	if len(outputs) == 0 {
		return os.Stdout, nil
	}
	writers := make([]io.Writer, 0, len(outputs))
	for _, out := range outputs {
		writer, closer, err := openWriter(out)
		if err != nil {
			return nil, err
		}
		if closer != nil {
			l.closers = append(l.closers, closer)
		}
		writers = append(writers, writer)
	}
	if len(writers) == 1 {
		return writers[0], nil
	}
	return io.MultiWriter(writers...), nil
}

func (l *Loggers) buildAuditLogger(cfg AuditConfig) (*slog.Logger, error) {
	if cfg.Path == "" {
		return nil, errors.New("audit log path cannot be empty when enabled")
	}
	if cfg.MaxSizeMB <= 0 {
		cfg.MaxSizeMB = 100
	}
	if cfg.MaxBackups <= 0 {
		cfg.MaxBackups = 7
	}
	if cfg.MaxAgeDays <= 0 {
		cfg.MaxAgeDays = 30
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, fmt.Errorf("create audit log directory: %w", err)
	}

	writer := &lumberjack.Logger{
		Filename:   cfg.Path,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
	}
	l.closers = append(l.closers, writer)
	handler := slog.NewJSONHandler(writer, &slog.HandlerOptions{Level: slog.LevelInfo})
	return slog.New(handler), nil
}

func openWriter(path string) (io.Writer, io.Closer, error) {
	switch strings.ToLower(path) {
	case "stdout":
		return os.Stdout, nil, nil
	case "stderr":
		return os.Stderr, nil, nil
	default:
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create log directory: %w", err)
		}
		file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file %s: %w", path, err)
		}
		return file, file, nil
	}
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func loggers() *Loggers {
	mu.Lock()
	defer mu.Unlock()
	if current == nil {
		current, _ = New(Config{})
	}
	return current
}

// L returns the structured logger instance.
func L() *slog.Logger {
	return loggers().App
}

// Audit returns the audit logger.
func Audit() *slog.Logger {
	return loggers().Audit
}

// Sync closes log files opened by Init.
func Sync() error {
	mu.Lock()
	defer mu.Unlock()
	if current == nil {
		return nil
	}
	return current.Close()
}

// Named returns a child logger with the provided component name.
func Named(name string) *slog.Logger {
	return L().With(slog.String("component", name))
}
