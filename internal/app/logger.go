package app

import (
	"strings"

	"github.com/wjy1814-droid/memos/pkg/logger"
)

// ConfigureLogging initialises the global logger with the provided level,
// defaulting to info, and attaches the rotating file sink when enabled.
func ConfigureLogging(level string, logging LoggingConfig) error {
	level = strings.TrimSpace(level)
	if level == "" {
		level = "info"
	}

	var opts []logger.Option
	if logging.File.Enabled {
		opts = append(opts, logger.WithFile(logger.FileConfig{
			Path:       logging.File.Path,
			MaxSizeMB:  logging.File.MaxSizeMB,
			MaxBackups: logging.File.MaxBackups,
			MaxAgeDays: logging.File.MaxAgeDays,
		}))
	}

	return logger.Init(level, opts...)
}
