package utils

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a custom logger type
type Logger struct {
	file   *os.File
	logger *zap.Logger
}

// NewLogger creates a new logger instance writing JSON lines to filePath
func NewLogger(filePath string) (*Logger, error) {
	file, err := os.OpenFile(filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig()), zapcore.AddSync(file), zap.InfoLevel)
	return &Logger{
		file:   file,
		logger: zap.New(core),
	}, nil
}

// NewConsoleLogger logs to stderr. Under wasm stderr ends up in the browser console.
func NewConsoleLogger(debug bool) *Logger {
	level := zap.InfoLevel
	if debug {
		level = zap.DebugLevel
	}
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig()), zapcore.Lock(os.Stderr), level)
	return &Logger{logger: zap.New(core)}
}

// Wrap adopts an existing zap logger, mostly for tests using zaptest/observer.
func Wrap(l *zap.Logger) *Logger {
	return &Logger{logger: l}
}

// NewNopLogger discards everything.
func NewNopLogger() *Logger {
	return &Logger{logger: zap.NewNop()}
}

func encoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg
}

// With returns a child logger carrying fields on every entry
func (l *Logger) With(fields ...zap.Field) *Logger {
	return &Logger{file: l.file, logger: l.logger.With(fields...)}
}

// Debug logs a debug message
func (l *Logger) Debug(msg string, fields ...zap.Field) {
	l.logger.Debug(msg, fields...)
}

// Info logs an info message
func (l *Logger) Info(msg string, fields ...zap.Field) {
	l.logger.Info(msg, fields...)
}

// Warn logs a warning message
func (l *Logger) Warn(msg string, fields ...zap.Field) {
	l.logger.Warn(msg, fields...)
}

// Error logs an error message
func (l *Logger) Error(msg string, fields ...zap.Field) {
	l.logger.Error(msg, fields...)
}

// Close flushes and closes the log file
func (l *Logger) Close() {
	_ = l.logger.Sync()
	if l.file != nil {
		l.file.Close()
	}
}
