package logging

import (
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap/zapcore"
)

// Level is the level of a given logger.
type Level int

const (
	// DEBUG logs verbose information useful when debugging.
	DEBUG Level = iota - 1
	// INFO logs normal operational information. This is the default.
	INFO
	// WARN logs unexpected but tolerable events.
	WARN
	// ERROR logs failures.
	ERROR
)

func (level Level) String() string {
	switch level {
	case DEBUG:
		return "Debug"
	case INFO:
		return "Info"
	case WARN:
		return "Warn"
	case ERROR:
		return "Error"
	}
	return "unknown"
}

// AsZap converts the Level to its zap equivalent.
func (level Level) AsZap() zapcore.Level {
	switch level {
	case DEBUG:
		return zapcore.DebugLevel
	case INFO:
		return zapcore.InfoLevel
	case WARN:
		return zapcore.WarnLevel
	case ERROR:
		return zapcore.ErrorLevel
	}
	return zapcore.InfoLevel
}

// LevelFromString parses a level name ("debug", "info", "warn", "error")
// into a Level.
func LevelFromString(text string) (Level, error) {
	switch strings.ToLower(text) {
	case "debug":
		return DEBUG, nil
	case "info", "":
		return INFO, nil
	case "warn", "warning":
		return WARN, nil
	case "error":
		return ERROR, nil
	}
	return INFO, errors.Errorf("unknown log level %q", text)
}
