// Package logger holds the process-wide zap loggers.
package logger

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Log is the structured logger. It is a no-op until Init is called.
	Log = zap.NewNop()
	// SLog is the sugared variant of Log.
	SLog = Log.Sugar()
)

// Init replaces the global loggers. Production-like environments get JSON
// output at info level, everything else gets the colored development encoder.
func Init(env string) error {
	var cfg zap.Config
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "prod", "production", "release":
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "ts"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	default:
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	l, err := cfg.Build(zap.AddCaller())
	if err != nil {
		return err
	}

	Log = l
	SLog = l.Sugar()
	zap.ReplaceGlobals(l)
	return nil
}

func Sync() {
	_ = Log.Sync()
}
