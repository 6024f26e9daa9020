// Package xap builds preconfigured zap loggers for commands and tests.
package xap

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Console returns a human-readable logger writing to stdout at the given
// level ("debug", "info", ...). Panics on an unknown level name: a bad log
// level is a startup misconfiguration, not a runtime condition.
func Console(level string) *zap.Logger {
	logLevel, err := zap.ParseAtomicLevel(level)
	if err != nil {
		panic("failed to parse log level: " + err.Error())
	}

	encoder := zap.NewDevelopmentEncoderConfig()
	encoder.EncodeLevel = zapcore.CapitalColorLevelEncoder

	cfg := zap.Config{
		Level:             logLevel,
		OutputPaths:       []string{"stdout"},
		ErrorOutputPaths:  []string{"stderr"},
		Encoding:          "console",
		EncoderConfig:     encoder,
		DisableStacktrace: true,
	}

	z, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	return z
}

// JSON returns a production JSON logger at the given level.
func JSON(lvl zap.AtomicLevel) *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.Level = lvl
	z, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	return z
}
