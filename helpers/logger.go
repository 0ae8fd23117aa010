package helpers

import (
	"fmt"

	"sjsage522/lotwatcher/logger"
)

// LoggerInterface defines the interface for logger implementations
type LoggerInterface interface {
	LogError(component string, err error)
	LogInfo(format string, args ...interface{})
	LogDebug(format string, args ...interface{})
}

// Logger provides logging functionality on top of a structured logger
type Logger struct {
	log *logger.Logger
}

// NewLogger creates a new logger instance
func NewLogger(log *logger.Logger) *Logger {
	return &Logger{
		log: log,
	}
}

// LogError logs an error at error level, tagged with the component that raised it
func (l *Logger) LogError(component string, err error) {
	l.log.Error().Str("component", component).Err(err).Msg(err.Error())
}

// LogInfo logs an informational message
func (l *Logger) LogInfo(format string, args ...interface{}) {
	l.log.Info().Msg(fmt.Sprintf(format, args...))
}

// LogDebug logs a debug message
func (l *Logger) LogDebug(format string, args ...interface{}) {
	l.log.Debug().Msg(fmt.Sprintf(format, args...))
}

// WithField returns a logger that tags every line with key=value
func (l *Logger) WithField(key string, value interface{}) LoggerInterface {
	return &Logger{log: l.log.WithField(key, value)}
}
