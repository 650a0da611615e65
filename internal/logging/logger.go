// Package logging provides categorized structured logging for taskrelay.
// Each subsystem logs under its own named zap logger so relay and executor
// output can be filtered per category.
package logging

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category identifies a logging subsystem.
type Category string

const (
	CategoryBoot       Category = "boot"       // Startup and configuration
	CategoryServer     Category = "server"     // Relay HTTP API
	CategoryStore      Category = "store"      // File-backed collections
	CategoryClient     Category = "client"     // Queue store HTTP client
	CategoryPoller     Category = "poller"     // Executor polling loop
	CategoryDispatcher Category = "dispatcher" // Command routing and finalization
	CategoryActions    Category = "actions"    // Action handler execution
	CategoryJournal    Category = "journal"    // Finalization journal
)

var (
	mu      sync.RWMutex
	root    *zap.Logger
	loggers = make(map[Category]*zap.SugaredLogger)
)

// Initialize builds the root logger. Call once at startup; verbose enables
// debug-level output. Safe to call again in tests to swap configuration.
func Initialize(verbose bool) error {
	config := zap.NewProductionConfig()
	config.Encoding = "console"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	logger, err := config.Build()
	if err != nil {
		return err
	}

	mu.Lock()
	defer mu.Unlock()
	root = logger
	loggers = make(map[Category]*zap.SugaredLogger)
	return nil
}

// Get returns the sugared logger for a category, creating it on first use.
// Works before Initialize by falling back to a no-op logger.
func Get(category Category) *zap.SugaredLogger {
	mu.RLock()
	if logger, ok := loggers[category]; ok {
		mu.RUnlock()
		return logger
	}
	mu.RUnlock()

	mu.Lock()
	defer mu.Unlock()
	if logger, ok := loggers[category]; ok {
		return logger
	}
	base := root
	if base == nil {
		base = zap.NewNop()
	}
	logger := base.Named(string(category)).WithOptions(zap.AddCallerSkip(1)).Sugar()
	loggers[category] = logger
	return logger
}

// Sync flushes buffered log entries. Call before process exit.
func Sync() {
	mu.RLock()
	defer mu.RUnlock()
	if root != nil {
		_ = root.Sync()
	}
}

// Convenience wrappers, one pair per category.

func Boot(format string, args ...any)       { Get(CategoryBoot).Infof(format, args...) }
func Server(format string, args ...any)     { Get(CategoryServer).Infof(format, args...) }
func Store(format string, args ...any)      { Get(CategoryStore).Infof(format, args...) }
func Client(format string, args ...any)     { Get(CategoryClient).Infof(format, args...) }
func Poller(format string, args ...any)     { Get(CategoryPoller).Infof(format, args...) }
func Dispatcher(format string, args ...any) { Get(CategoryDispatcher).Infof(format, args...) }
func Actions(format string, args ...any)    { Get(CategoryActions).Infof(format, args...) }
func Journal(format string, args ...any)    { Get(CategoryJournal).Infof(format, args...) }

func BootDebug(format string, args ...any)       { Get(CategoryBoot).Debugf(format, args...) }
func ServerDebug(format string, args ...any)     { Get(CategoryServer).Debugf(format, args...) }
func StoreDebug(format string, args ...any)      { Get(CategoryStore).Debugf(format, args...) }
func ClientDebug(format string, args ...any)     { Get(CategoryClient).Debugf(format, args...) }
func PollerDebug(format string, args ...any)     { Get(CategoryPoller).Debugf(format, args...) }
func DispatcherDebug(format string, args ...any) { Get(CategoryDispatcher).Debugf(format, args...) }
func ActionsDebug(format string, args ...any)    { Get(CategoryActions).Debugf(format, args...) }
func JournalDebug(format string, args ...any)    { Get(CategoryJournal).Debugf(format, args...) }

func ServerWarn(format string, args ...any)     { Get(CategoryServer).Warnf(format, args...) }
func StoreWarn(format string, args ...any)      { Get(CategoryStore).Warnf(format, args...) }
func ClientWarn(format string, args ...any)     { Get(CategoryClient).Warnf(format, args...) }
func PollerWarn(format string, args ...any)     { Get(CategoryPoller).Warnf(format, args...) }
func DispatcherWarn(format string, args ...any) { Get(CategoryDispatcher).Warnf(format, args...) }
func ActionsWarn(format string, args ...any)    { Get(CategoryActions).Warnf(format, args...) }
func JournalWarn(format string, args ...any)    { Get(CategoryJournal).Warnf(format, args...) }

func DispatcherError(format string, args ...any) { Get(CategoryDispatcher).Errorf(format, args...) }
func ServerError(format string, args ...any)     { Get(CategoryServer).Errorf(format, args...) }
func PollerError(format string, args ...any)     { Get(CategoryPoller).Errorf(format, args...) }
