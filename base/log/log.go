package log

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Fields to be added to a logger
type Fields map[string]interface{}

// Logger carries a sugared zap logger and the key/value pairs attached to it
type Logger struct {
	logger *zap.SugaredLogger
	fields []interface{}
}

var zapSugaredLogger *zap.SugaredLogger

func init() {
	zapLogger, _ := zap.NewProduction(zap.AddCallerSkip(1))
	zapSugaredLogger = zapLogger.Sugar()
}

// Init replaces the process logger. Debug mode switches to the development
// encoder and enables debug level.
func Init(debug bool) error {
	cfg := zap.NewProductionConfig()
	if debug {
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	zapLogger, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return err
	}
	zapSugaredLogger = zapLogger.Sugar()
	return nil
}

// Sync flushes buffered entries
func Sync() {
	_ = zapSugaredLogger.Sync()
}

// Log returns an empty field logger
func Log() Logger {
	return Logger{
		logger: zapSugaredLogger,
		fields: []interface{}{},
	}
}

// WithField add a key/value pair to its fields
func (l Logger) WithField(key string, value interface{}) Logger {
	fields := make([]interface{}, 0, len(l.fields)+2)
	fields = append(fields, l.fields...)
	l.fields = append(fields, key, value)
	return l
}

// WithFields add multiple key/value pairs to its fields
func (l Logger) WithFields(kvs Fields) Logger {
	for k, v := range kvs {
		l = l.WithField(k, v)
	}
	return l
}

// WithErr is a shortcut of WithField("err", err)
func (l Logger) WithErr(err error) Logger {
	return l.WithField("err", err)
}

// Debug log
func (l Logger) Debug(args ...interface{}) {
	l.logger.With(l.fields...).Debug(args...)
}

// Info log
func (l Logger) Info(args ...interface{}) {
	l.logger.With(l.fields...).Info(args...)
}

// Warn log
func (l Logger) Warn(args ...interface{}) {
	l.logger.With(l.fields...).Warn(args...)
}

// Error log
func (l Logger) Error(args ...interface{}) {
	l.logger.With(l.fields...).Error(args...)
}

// Panic log
func (l Logger) Panic(args ...interface{}) {
	l.logger.With(l.fields...).Panic(args...)
}
