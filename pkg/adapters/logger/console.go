// Package logger provides logging implementations.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/ideamans/go-l10n"
	"github.com/mattn/go-isatty"
	"github.com/user/moviesigdb/pkg/ports"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorGray   = "\033[90m"
	colorYellow = "\033[33m"
	colorRed    = "\033[31m"
	colorCyan   = "\033[36m"
)

// ConsoleLogger writes translated messages to the console. Debug and info go
// to out, warn and error to errOut. Loggers derived with WithComponent share
// the parent's writers and lock.
type ConsoleLogger struct {
	level     ports.LogLevel
	component string
	color     bool
	out       io.Writer
	errOut    io.Writer
	mu        *sync.Mutex
}

// NewConsole creates a logger on stdout and stderr.
// Color is enabled when stdout is a terminal.
func NewConsole(level ports.LogLevel) *ConsoleLogger {
	l := NewConsoleWriters(level, os.Stdout, os.Stderr)
	l.color = isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	return l
}

// NewConsoleWriters creates an uncolored logger writing to the given streams.
func NewConsoleWriters(level ports.LogLevel, out, errOut io.Writer) *ConsoleLogger {
	return &ConsoleLogger{
		level:  level,
		out:    out,
		errOut: errOut,
		mu:     &sync.Mutex{},
	}
}

func (l *ConsoleLogger) Debug(msg string, args ...interface{}) { l.log(ports.LevelDebug, msg, args) }
func (l *ConsoleLogger) Info(msg string, args ...interface{})  { l.log(ports.LevelInfo, msg, args) }
func (l *ConsoleLogger) Warn(msg string, args ...interface{})  { l.log(ports.LevelWarn, msg, args) }
func (l *ConsoleLogger) Error(msg string, args ...interface{}) { l.log(ports.LevelError, msg, args) }

// WithComponent returns a logger that prefixes messages with the component name.
func (l *ConsoleLogger) WithComponent(component string) ports.Logger {
	child := *l
	child.component = component
	return &child
}

func (l *ConsoleLogger) log(level ports.LogLevel, msg string, args []interface{}) {
	if level < l.level || l.level == ports.LevelQuiet {
		return
	}

	line := l10n.F(msg, args...)
	if l.component != "" {
		prefix := "[" + l.component + "]"
		if l.color {
			prefix = colorCyan + prefix + colorReset
		}
		line = prefix + " " + line
	}

	w := l.out
	switch level {
	case ports.LevelDebug:
		if l.color {
			line = colorGray + line + colorReset
		}
	case ports.LevelWarn:
		w = l.errOut
		if l.color {
			line = colorYellow + line + colorReset
		}
	case ports.LevelError:
		w = l.errOut
		if l.color {
			line = colorRed + line + colorReset
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(w, line)
}

var _ ports.Logger = (*ConsoleLogger)(nil)
