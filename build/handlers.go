package build

import (
	"io"

	"github.com/btcsuite/btclog/v2"
)

// LogConfig holds logging configuration options.
type LogConfig struct {
	// NoTimestamps omits timestamps from log lines.
	NoTimestamps bool

	// Level is the initial level spec, in the format accepted by
	// ParseAndSetDebugLevels.
	Level string
}

// DefaultLogConfig returns the default logging config options. Logging is
// off so that command output stays machine readable.
func DefaultLogConfig() *LogConfig {
	return &LogConfig{
		NoTimestamps: true,
		Level:        "off",
	}
}

// NewConsoleHandler returns the console log handler writing to w, with the
// config options applied.
func NewConsoleHandler(cfg *LogConfig, w io.Writer) btclog.Handler {
	var opts []btclog.HandlerOption
	if cfg.NoTimestamps {
		opts = append(opts, btclog.WithNoTimestamp())
	}

	return btclog.NewDefaultHandler(w, opts...)
}
