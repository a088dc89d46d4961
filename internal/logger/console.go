// Package logger provides the leveled console logger used by the
// recommendation pipeline. Output is prefixed with [HH:MM:SS] timestamps,
// filtered by level, and colored when writing to a terminal.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

// Log level constants for filtering.
const (
	levelTrace int = 0
	levelDebug int = 1
	levelInfo  int = 2
	levelWarn  int = 3
	levelError int = 4
)

// Console is a thread-safe leveled logger writing to a single io.Writer.
// A nil writer silently discards all messages.
type Console struct {
	writer      io.Writer
	logLevel    string
	mutex       sync.Mutex
	colorOutput bool
}

// New creates a Console logger writing to the provided writer.
// Valid levels: trace, debug, info, warn, error (case-insensitive); empty or
// invalid levels default to "info". Color output is enabled automatically
// when the writer is a terminal, honoring NO_COLOR.
func New(writer io.Writer, logLevel string) *Console {
	return &Console{
		writer:      writer,
		logLevel:    normalizeLevel(logLevel),
		colorOutput: isTerminal(writer),
	}
}

// isTerminal reports whether the writer is a TTY that supports colors.
func isTerminal(w io.Writer) bool {
	if w == nil {
		return false
	}
	if w == os.Stdout || w == os.Stderr {
		// The color library's NoColor flag folds in NO_COLOR and TTY
		// detection.
		return !color.NoColor
	}
	return false
}

// normalizeLevel lower-cases and validates a level name, defaulting to info.
func normalizeLevel(level string) string {
	normalized := strings.ToLower(strings.TrimSpace(level))
	switch normalized {
	case "trace", "debug", "info", "warn", "error":
		return normalized
	}
	return "info"
}

func levelToInt(level string) int {
	switch level {
	case "trace":
		return levelTrace
	case "debug":
		return levelDebug
	case "info":
		return levelInfo
	case "warn":
		return levelWarn
	case "error":
		return levelError
	}
	return levelInfo
}

func (c *Console) shouldLog(messageLevel string) bool {
	return levelToInt(messageLevel) >= levelToInt(c.logLevel)
}

// Tracef logs a trace-level message (most verbose).
func (c *Console) Tracef(format string, args ...interface{}) {
	c.logf("TRACE", format, args...)
}

// Debugf logs a debug-level message.
func (c *Console) Debugf(format string, args ...interface{}) {
	c.logf("DEBUG", format, args...)
}

// Infof logs an info-level message.
func (c *Console) Infof(format string, args ...interface{}) {
	c.logf("INFO", format, args...)
}

// Warnf logs a warning-level message.
func (c *Console) Warnf(format string, args ...interface{}) {
	c.logf("WARN", format, args...)
}

// Errorf logs an error-level message.
func (c *Console) Errorf(format string, args ...interface{}) {
	c.logf("ERROR", format, args...)
}

// logf formats and writes one message if level filtering allows it.
// Format: "[HH:MM:SS] [LEVEL] <message>".
func (c *Console) logf(level, format string, args ...interface{}) {
	if c == nil || c.writer == nil {
		return
	}
	if !c.shouldLog(strings.ToLower(level)) {
		return
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	ts := time.Now().Format("15:04:05")
	message := fmt.Sprintf(format, args...)

	if c.colorOutput {
		fmt.Fprintf(c.writer, "[%s] [%s] %s\n", ts, colorLevel(level), message)
		return
	}
	fmt.Fprintf(c.writer, "[%s] [%s] %s\n", ts, level, message)
}

func colorLevel(level string) string {
	switch level {
	case "TRACE":
		return color.New(color.FgHiBlack).Sprint(level)
	case "DEBUG":
		return color.New(color.FgCyan).Sprint(level)
	case "INFO":
		return color.New(color.FgBlue).Sprint(level)
	case "WARN":
		return color.New(color.FgYellow).Sprint(level)
	case "ERROR":
		return color.New(color.FgRed).Sprint(level)
	}
	return level
}
