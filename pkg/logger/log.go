package logger

import (
	"repair-desk/pkg/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func NewLogger(cfg config.LogConfig) *zap.Logger {
	level := zap.NewAtomicLevelAt(zap.DebugLevel)
	if parsed, err := zapcore.ParseLevel(cfg.Level); err == nil {
		level = zap.NewAtomicLevelAt(parsed)
	}

	outputs := []string{"stdout"}
	if cfg.File != "" {
		outputs = append(outputs, cfg.File)
	}

	dualConfig := zap.Config{
		Encoding:         "console",
		Level:            level,
		OutputPaths:      outputs,
		ErrorOutputPaths: []string{"stderr"},
		EncoderConfig:    zap.NewProductionEncoderConfig(),
	}

	dualLogger, err := dualConfig.Build()
	if err != nil {
		panic(err)
	}

	return dualLogger
}
