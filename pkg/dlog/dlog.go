// Package dlog is a pure-sink diagnostic logger for the generation
// pipeline. Every call site checks the level/component gate before
// building logrus.Fields or formatting a message, so a disabled logger
// costs one nil check and a branch on the hot path, never an
// allocation.
package dlog

import "github.com/sirupsen/logrus"

// Level mirrors logrus's severity ordering but is declared locally so
// pipeline code never imports logrus directly outside this package.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) toLogrus() logrus.Level {
	switch l {
	case LevelDebug:
		return logrus.DebugLevel
	case LevelWarn:
		return logrus.WarnLevel
	case LevelError:
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

// Logger gates logrus output by level and an optional component filter. A
// nil *Logger is valid and always disabled, so pipeline stages never need
// a sentinel check before passing a logger down the call chain.
type Logger struct {
	backend    *logrus.Logger
	level      Level
	components map[string]bool // nil means "all components enabled"
}

// New builds a Logger at the given minimum level, emitting through a
// fresh logrus.Logger. components, if non-empty, restricts output to the
// named components; pass nil to allow every component through the level
// gate alone.
func New(level Level, components []string) *Logger {
	backend := logrus.New()
	backend.SetLevel(level.toLogrus())

	var set map[string]bool
	if len(components) > 0 {
		set = make(map[string]bool, len(components))
		for _, c := range components {
			set[c] = true
		}
	}
	return &Logger{backend: backend, level: level, components: set}
}

// Enabled reports whether a call at level for component would actually be
// emitted. Call sites gate on this before building Fields.
func (l *Logger) Enabled(level Level, component string) bool {
	if l == nil {
		return false
	}
	if level < l.level {
		return false
	}
	if l.components != nil && !l.components[component] {
		return false
	}
	return true
}

// FieldBuilder lazily produces the structured fields for a log call. It is
// only invoked when Enabled has already returned true, so callers may do
// arbitrarily expensive formatting inside it without cost on disabled
// paths.
type FieldBuilder func() logrus.Fields

// Log emits message at level for component, calling fields() only if the
// gate passes.
func (l *Logger) Log(level Level, component, message string, fields FieldBuilder) {
	if !l.Enabled(level, component) {
		return
	}
	entry := l.backend.WithField("component", component)
	if fields != nil {
		entry = entry.WithFields(fields())
	}
	switch level {
	case LevelDebug:
		entry.Debug(message)
	case LevelWarn:
		entry.Warn(message)
	case LevelError:
		entry.Error(message)
	default:
		entry.Info(message)
	}
}
