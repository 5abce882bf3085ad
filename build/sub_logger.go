package build

import (
	"sort"
	"sync"

	"github.com/btcsuite/btclog/v2"
)

// SubLoggerManager manages a set of subsystem loggers that all write through
// a single handler. Levels are tracked per subsystem.
type SubLoggerManager struct {
	handler btclog.Handler

	loggers SubLoggers
	mu      sync.Mutex
}

// A compile-time check to ensure that SubLoggerManager implements
// LeveledSubLogger.
var _ LeveledSubLogger = (*SubLoggerManager)(nil)

// NewSubLoggerManager constructs a new SubLoggerManager writing through the
// given handler.
func NewSubLoggerManager(handler btclog.Handler) *SubLoggerManager {
	return &SubLoggerManager{
		handler: handler,
		loggers: make(SubLoggers),
	}
}

// GenSubLogger creates a new sub-logger tagged with subsystem. The logger is
// not registered with the manager.
func (r *SubLoggerManager) GenSubLogger(subsystem string) btclog.Logger {
	return btclog.NewSLogger(r.handler.SubSystem(subsystem))
}

// RegisterSubLogger registers the given logger under the subsystem name.
func (r *SubLoggerManager) RegisterSubLogger(subsystem string,
	logger btclog.Logger) {

	r.mu.Lock()
	defer r.mu.Unlock()

	r.loggers[subsystem] = logger
}

// SubLoggers returns all currently registered subsystem loggers for this log
// writer.
//
// NOTE: This is part of the LeveledSubLogger interface.
func (r *SubLoggerManager) SubLoggers() SubLoggers {
	r.mu.Lock()
	defer r.mu.Unlock()

	loggers := make(SubLoggers, len(r.loggers))
	for subsystem, logger := range r.loggers {
		loggers[subsystem] = logger
	}

	return loggers
}

// SupportedSubsystems returns a sorted string slice of all keys in the
// subsystems map, corresponding to the names of the subsystems.
//
// NOTE: This is part of the LeveledSubLogger interface.
func (r *SubLoggerManager) SupportedSubsystems() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Convert the subsystemLoggers map keys to a string slice.
	subsystems := make([]string, 0, len(r.loggers))
	for subsysID := range r.loggers {
		subsystems = append(subsystems, subsysID)
	}

	// Sort the subsystems for stable display.
	sort.Strings(subsystems)

	return subsystems
}

// SetLogLevel sets the logging level for provided subsystem. Invalid
// subsystems are ignored.
//
// NOTE: This is part of the LeveledSubLogger interface.
func (r *SubLoggerManager) SetLogLevel(subsystemID string, logLevel string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.setLogLevelUnsafe(subsystemID, logLevel)
}

// SetLogLevels sets the log level for all subsystem loggers to the passed
// level.
//
// NOTE: This is part of the LeveledSubLogger interface.
func (r *SubLoggerManager) SetLogLevels(logLevel string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for subsystemID := range r.loggers {
		r.setLogLevelUnsafe(subsystemID, logLevel)
	}
}

// setLogLevelUnsafe sets the level of a single subsystem logger.
//
// NOTE: the mutex must be held when calling this method.
func (r *SubLoggerManager) setLogLevelUnsafe(subsystemID string,
	logLevel string) {

	logger, ok := r.loggers[subsystemID]
	if !ok {
		return
	}

	// Defaults to info if the log level is invalid.
	level, _ := btclog.LevelFromString(logLevel)
	logger.SetLevel(level)
}
