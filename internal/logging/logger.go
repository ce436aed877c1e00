package logging

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var globalLogger *zap.SugaredLogger

func configFor(appEnv string) zap.Config {
	cfg := zap.NewDevelopmentConfig()
	if appEnv == "production" {
		cfg = zap.NewProductionConfig()
	}
	cfg.Encoding = "json"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.TimeKey = "ts"
	return cfg
}

// Init builds the process-wide JSON logger. Anything other than "production" logs at debug level.
func Init(appEnv string) error {
	logger, err := configFor(appEnv).Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	globalLogger = logger.Sugar().With("service", "mtrledger", "env", appEnv)
	return nil
}

// InitNop discards all output. Used by tests and mtrctl --quiet.
func InitNop() {
	globalLogger = zap.NewNop().Sugar()
}

// GetLogger returns the global logger, building a production one on first use if Init never ran.
func GetLogger() *zap.SugaredLogger {
	if globalLogger == nil {
		logger, _ := zap.NewProduction()
		globalLogger = logger.Sugar()
	}
	return globalLogger
}

// Close flushes buffered entries.
func Close() error {
	if globalLogger == nil {
		return nil
	}
	return globalLogger.Sync()
}

func Info(msg string, kv ...any)  { GetLogger().Infow(msg, kv...) }
func Debug(msg string, kv ...any) { GetLogger().Debugw(msg, kv...) }
func Warn(msg string, kv ...any)  { GetLogger().Warnw(msg, kv...) }
func Error(msg string, kv ...any) { GetLogger().Errorw(msg, kv...) }

// Fatal logs and exits with status 1.
func Fatal(msg string, kv ...any) {
	GetLogger().Fatalw(msg, kv...)
	os.Exit(1)
}

func With(kv ...any) *zap.SugaredLogger {
	return GetLogger().With(kv...)
}

// WithRequest tags entries with the request id and the matched route.
func WithRequest(requestID, route string) *zap.SugaredLogger {
	return GetLogger().With("request_id", requestID, "route", route)
}
