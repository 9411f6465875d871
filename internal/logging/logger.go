// Package logging provides config-driven categorized file logging for chunker.
// Logs are written to <workspace>/.chunker/logs/ with one file per category.
// Nothing is written unless debug mode is on; every call is a cheap no-op otherwise.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Category represents a log category/system
type Category string

const (
	CategoryBoot      Category = "boot"      // Startup, config resolution
	CategoryLoader    Category = "loader"    // Spreadsheet reading
	CategoryChunker   Category = "chunker"   // Filter and partition
	CategoryClipboard Category = "clipboard" // Clipboard writes
	CategorySession   Category = "session"   // Session state transitions
	CategoryUI        Category = "ui"        // Widget events
	CategoryWatch     Category = "watch"     // File change notifications
)

// Options controls the logging system. It mirrors config.LoggingConfig so this
// package does not import config.
type Options struct {
	DebugMode  bool
	Level      string
	JSONFormat bool
	Categories map[string]bool

	// Rotation, passed to lumberjack.
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// Logger writes one category to its own file.
type Logger struct {
	category Category
	sugar    *zap.SugaredLogger
	base     *zap.Logger
	file     *lumberjack.Logger
}

var (
	loggers   = make(map[Category]*Logger)
	loggersMu sync.RWMutex
	logsDir   string
	opts      Options
	level     = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	nop       = &Logger{sugar: zap.NewNop().Sugar(), base: zap.NewNop()}
	fields    []zap.Field
)

// Initialize sets up the logs directory under ws. Call once at startup.
func Initialize(ws string, o Options) error {
	if ws == "" {
		return fmt.Errorf("workspace path required")
	}

	CloseAll()

	loggersMu.Lock()
	opts = o
	logsDir = filepath.Join(ws, ".chunker", "logs")
	lvl, err := zapcore.ParseLevel(strings.ToLower(o.Level))
	if err != nil || o.Level == "" {
		lvl = zapcore.InfoLevel
	}
	level.SetLevel(lvl)
	loggersMu.Unlock()

	if !o.DebugMode {
		return nil
	}

	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return fmt.Errorf("failed to create logs directory: %w", err)
	}

	boot := Get(CategoryBoot)
	boot.Info("=== chunker logging initialized ===")
	boot.Info("Workspace: %s", ws)
	boot.Info("Log level: %s", lvl)
	return nil
}

// SetSessionID tags every logger created afterwards with the session ID.
func SetSessionID(id string) {
	loggersMu.Lock()
	defer loggersMu.Unlock()
	fields = []zap.Field{zap.String("session", id)}
	closeLocked()
}

// IsDebugMode reports whether logs are being written.
func IsDebugMode() bool {
	loggersMu.RLock()
	defer loggersMu.RUnlock()
	return opts.DebugMode
}

// IsCategoryEnabled returns false in production mode; otherwise categories
// are on unless explicitly disabled.
func IsCategoryEnabled(category Category) bool {
	loggersMu.RLock()
	defer loggersMu.RUnlock()
	return categoryEnabled(category)
}

func categoryEnabled(category Category) bool {
	if !opts.DebugMode {
		return false
	}
	if opts.Categories == nil {
		return true
	}
	enabled, ok := opts.Categories[string(category)]
	return !ok || enabled
}

// Get returns the logger for category, creating its file on first use.
func Get(category Category) *Logger {
	loggersMu.RLock()
	if l, ok := loggers[category]; ok {
		loggersMu.RUnlock()
		return l
	}
	loggersMu.RUnlock()

	loggersMu.Lock()
	defer loggersMu.Unlock()

	if l, ok := loggers[category]; ok {
		return l
	}
	if !categoryEnabled(category) || logsDir == "" {
		return nop
	}

	writer := &lumberjack.Logger{
		Filename:   filepath.Join(logsDir, string(category)+".log"),
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
		MaxAge:     opts.MaxAgeDays,
		Compress:   opts.Compress,
		LocalTime:  true,
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	var enc zapcore.Encoder
	if opts.JSONFormat {
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		enc = zapcore.NewConsoleEncoder(encCfg)
	}

	base := zap.New(zapcore.NewCore(enc, zapcore.AddSync(writer), level)).
		Named(string(category)).
		With(fields...)
	l := &Logger{category: category, sugar: base.Sugar(), base: base, file: writer}
	loggers[category] = l
	return l
}

// Debug logs at debug level.
func (l *Logger) Debug(format string, args ...interface{}) { l.sugar.Debugf(format, args...) }

// Info logs at info level.
func (l *Logger) Info(format string, args ...interface{}) { l.sugar.Infof(format, args...) }

// Warn logs at warn level.
func (l *Logger) Warn(format string, args ...interface{}) { l.sugar.Warnf(format, args...) }

// Error logs at error level.
func (l *Logger) Error(format string, args ...interface{}) { l.sugar.Errorf(format, args...) }

// CloseAll flushes and forgets every category logger.
func CloseAll() {
	loggersMu.Lock()
	defer loggersMu.Unlock()
	closeLocked()
}

func closeLocked() {
	for cat, l := range loggers {
		_ = l.base.Sync()
		if l.file != nil {
			_ = l.file.Close()
		}
		delete(loggers, cat)
	}
}

// Convenience helpers, one set per category.

func Boot(format string, args ...interface{})      { Get(CategoryBoot).Info(format, args...) }
func BootDebug(format string, args ...interface{}) { Get(CategoryBoot).Debug(format, args...) }
func BootWarn(format string, args ...interface{})  { Get(CategoryBoot).Warn(format, args...) }
func BootError(format string, args ...interface{}) { Get(CategoryBoot).Error(format, args...) }

func Loader(format string, args ...interface{})      { Get(CategoryLoader).Info(format, args...) }
func LoaderDebug(format string, args ...interface{}) { Get(CategoryLoader).Debug(format, args...) }
func LoaderWarn(format string, args ...interface{})  { Get(CategoryLoader).Warn(format, args...) }
func LoaderError(format string, args ...interface{}) { Get(CategoryLoader).Error(format, args...) }

func Chunker(format string, args ...interface{})      { Get(CategoryChunker).Info(format, args...) }
func ChunkerDebug(format string, args ...interface{}) { Get(CategoryChunker).Debug(format, args...) }
func ChunkerWarn(format string, args ...interface{})  { Get(CategoryChunker).Warn(format, args...) }

func Clipboard(format string, args ...interface{})      { Get(CategoryClipboard).Info(format, args...) }
func ClipboardError(format string, args ...interface{}) { Get(CategoryClipboard).Error(format, args...) }

func Session(format string, args ...interface{})      { Get(CategorySession).Info(format, args...) }
func SessionDebug(format string, args ...interface{}) { Get(CategorySession).Debug(format, args...) }

func UI(format string, args ...interface{})      { Get(CategoryUI).Info(format, args...) }
func UIDebug(format string, args ...interface{}) { Get(CategoryUI).Debug(format, args...) }

func Watch(format string, args ...interface{})      { Get(CategoryWatch).Info(format, args...) }
func WatchDebug(format string, args ...interface{}) { Get(CategoryWatch).Debug(format, args...) }
func WatchError(format string, args ...interface{}) { Get(CategoryWatch).Error(format, args...) }
