package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Component constants for structured logging.
const (
	CompMain    = "main"
	CompDesktop = "desktop"
	CompServer  = "server"
	CompWatch   = "watch"
	CompConfig  = "config"
)

// LogFileName is the rotated log file written inside Config.LogDir.
const LogFileName = "debug.log"

// Config holds logging configuration.
type Config struct {
	// LogDir is the directory for the rotated log file. Empty disables file logging
	// unless Debug is set, in which case DefaultDir is used.
	LogDir string

	// DefaultDir is the fallback directory used when Debug is set without LogDir
	DefaultDir string

	// Level is the minimum log level: "debug", "info", "warn", "error"
	Level string

	// Format of the file log: "json" (default) or "text". Stderr is always text.
	Format string

	// MaxSizeMB is the max size in MB before rotation (default: 10)
	MaxSizeMB int

	// MaxBackups is rotated files to keep (default: 5)
	MaxBackups int

	// MaxAgeDays is days to keep rotated files (default: 10)
	MaxAgeDays int

	// Compress rotated files
	Compress bool

	// Debug forces debug level and file logging
	Debug bool

	// Stderr overrides the diagnostic stream (tests). Defaults to os.Stderr.
	Stderr io.Writer
}

var (
	globalLogger *slog.Logger
	globalMu     sync.RWMutex
	lumberjackW  *lumberjack.Logger
)

// ParseLevel maps a level name to a slog level. Unknown names map to info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
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

// Init initializes the global logging system.
// Diagnostics always go to stderr; stdout belongs to the MCP transport.
func Init(cfg Config) {
	globalMu.Lock()
	defer globalMu.Unlock()

	if cfg.MaxSizeMB <= 0 {
		cfg.MaxSizeMB = 10
	}
	if cfg.MaxBackups <= 0 {
		cfg.MaxBackups = 5
	}
	if cfg.MaxAgeDays <= 0 {
		cfg.MaxAgeDays = 10
	}
	if cfg.Stderr == nil {
		cfg.Stderr = os.Stderr
	}

	level := ParseLevel(cfg.Level)
	if cfg.Debug {
		level = slog.LevelDebug
	}
	handlerOpts := &slog.HandlerOptions{Level: level}

	if lumberjackW != nil {
		lumberjackW.Close()
		lumberjackW = nil
	}

	logDir := cfg.LogDir
	if logDir == "" && cfg.Debug {
		logDir = cfg.DefaultDir
	}
	if logDir == "" {
		globalLogger = slog.New(slog.NewTextHandler(cfg.Stderr, handlerOpts))
		return
	}

	lumberjackW = &lumberjack.Logger{
		Filename:   filepath.Join(logDir, LogFileName),
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}

	var fileHandler slog.Handler
	if cfg.Format == "text" {
		fileHandler = slog.NewTextHandler(lumberjackW, handlerOpts)
	} else {
		fileHandler = slog.NewJSONHandler(lumberjackW, handlerOpts)
	}

	globalLogger = slog.New(fanout{
		slog.NewTextHandler(cfg.Stderr, handlerOpts),
		fileHandler,
	})
}

// Logger returns the global logger. Safe to call before Init (returns a stderr logger).
func Logger() *slog.Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	if globalLogger == nil {
		return slog.New(slog.NewTextHandler(os.Stderr, nil))
	}
	return globalLogger
}

// ForComponent returns a sub-logger with the component field set.
func ForComponent(name string) *slog.Logger {
	return Logger().With(slog.String("component", name))
}

// Shutdown closes the rotated writer and resets the global logger.
func Shutdown() {
	globalMu.Lock()
	defer globalMu.Unlock()

	if lumberjackW != nil {
		lumberjackW.Close()
		lumberjackW = nil
	}
	globalLogger = nil
}
