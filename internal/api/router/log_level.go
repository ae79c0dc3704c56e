package router

import (
	"github.com/rs/zerolog"
)

// requestLogLevel parses the configured per-request log level, falling back
// to debug on unknown values so misconfiguration never silences logs.
func requestLogLevel(level string) zerolog.Level {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil || parsed == zerolog.NoLevel {
		return zerolog.DebugLevel
	}
	return parsed
}
