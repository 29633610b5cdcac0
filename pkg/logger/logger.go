// Package logger builds the application-wide zap logger.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a zap logger tuned for the given environment. "local" and
// "dev" get the human-readable development encoder; everything else gets
// production JSON output.
func New(env string) *zap.Logger {
	switch env {
	case "local", "dev", "development":
		cfg := zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return zap.Must(cfg.Build())
	default:
		cfg := zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "ts"
		return zap.Must(cfg.Build())
	}
}
