package ports

import (
	"fmt"
	"strings"
)

// LogLevel is the minimum severity a Logger emits.
type LogLevel int

const (
	LevelDebug LogLevel = iota // Stage internals
	LevelInfo                  // Pipeline progress
	LevelWarn                  // Recoverable problems such as truncated sampling
	LevelError                 // The run failed
	LevelQuiet                 // Nothing is logged
)

var levelNames = [...]string{"debug", "info", "warn", "error", "quiet"}

// String returns the lowercase level name.
func (l LogLevel) String() string {
	if l < LevelDebug || l > LevelQuiet {
		return "unknown"
	}
	return levelNames[l]
}

// ParseLogLevel parses a level name case-insensitively.
// Unknown names map to LevelInfo.
func ParseLogLevel(s string) LogLevel {
	level, err := lookupLogLevel(s)
	if err != nil {
		return LevelInfo
	}
	return level
}

// UnmarshalText implements encoding.TextUnmarshaler and rejects unknown names.
func (l *LogLevel) UnmarshalText(text []byte) error {
	level, err := lookupLogLevel(string(text))
	if err != nil {
		return err
	}
	*l = level
	return nil
}

func lookupLogLevel(s string) (LogLevel, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range levelNames {
		if n == name {
			return LogLevel(i), nil
		}
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// Logger writes leveled messages. msg is a translation key for go-l10n and
// args are its format arguments, so callers pass them separately instead of
// formatting first.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})

	// WithComponent returns a Logger that prefixes messages with "[component]".
	WithComponent(component string) Logger
}
