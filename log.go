package junokeys

import (
	"github.com/btcsuite/btclog/v2"
	"github.com/junocash/juno-keys/build"
	"github.com/junocash/juno-keys/keychain"
	"github.com/junocash/juno-keys/zip316"
)

// Subsystem defines the logging code for this subsystem.
const Subsystem = "KEYS"

// log is a logger that is initialized with no output filters. This means the
// package will not perform any logging by default until the caller requests
// it.
var log btclog.Logger

// The default amount of logging is none.
func init() {
	UseLogger(build.NewSubLogger(Subsystem, nil))
}

// DisableLog disables all library log output. Logging output is disabled by
// default until UseLogger is called.
func DisableLog() {
	UseLogger(btclog.Disabled)
}

// UseLogger uses a specified Logger to output package logging info.
func UseLogger(logger btclog.Logger) {
	log = logger
}

// SetupLoggers initializes all package-global logger variables.
func SetupLoggers(root *build.SubLoggerManager) {
	AddSubLogger(root, Subsystem, UseLogger)
	AddSubLogger(root, zip316.Subsystem, zip316.UseLogger)
	AddSubLogger(root, keychain.Subsystem, keychain.UseLogger)
}

// AddSubLogger is a helper method to conveniently create and register the
// logger of one or more sub systems.
func AddSubLogger(root *build.SubLoggerManager, subsystem string,
	useLoggers ...func(btclog.Logger)) {

	// Create and register just a single logger to prevent them from
	// overwriting each other internally.
	logger := root.GenSubLogger(subsystem)
	root.RegisterSubLogger(subsystem, logger)
	for _, useLogger := range useLoggers {
		useLogger(logger)
	}
}
