// Package log wraps slog with component-tagged loggers shared by the
// server and the worker binaries.
package log

import (
	"log/slog"
	"os"
)

// Logger is a slog.Logger bound to a component name. Every record it emits
// carries the component field exactly once; retagging goes through the
// untagged base logger.
type Logger struct {
	*slog.Logger
	base      *slog.Logger
	component string
}

// Config holds logger configuration.
type Config struct {
	Level     slog.Level
	Component string
}

// New creates a component-tagged text logger writing to stdout.
func New(config Config) *Logger {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: config.Level,
	})
	component := config.Component
	if component == "" {
		component = ComponentApp
	}
	return fromHandler(handler, component)
}

func fromHandler(handler slog.Handler, component string) *Logger {
	base := slog.New(handler)
	return &Logger{
		Logger:    base.With(FieldComponent, component),
		base:      base,
		component: component,
	}
}

// With returns a logger carrying additional attributes.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{
		Logger:    l.Logger.With(args...),
		base:      l.base.With(args...),
		component: l.component,
	}
}

// WithComponent returns a logger retagged with a different component name,
// replacing the previous tag rather than stacking a second one.
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{
		Logger:    l.base.With(FieldComponent, component),
		base:      l.base,
		component: component,
	}
}

// Component returns the logger's component name.
func (l *Logger) Component() string {
	return l.component
}

// SetDefault installs the logger as the process-wide slog default.
func SetDefault(logger *Logger) {
	slog.SetDefault(logger.Logger)
}
