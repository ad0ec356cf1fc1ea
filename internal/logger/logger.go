// Package logger turns the log_* settings into the zap logger shared by the
// server and the dashboard.
package logger

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"mirror_shop/internal/config"
)

// Initialize builds the logger for cfg on stderr and installs it as the zap
// global.
func Initialize(cfg *config.Config) (*zap.Logger, error) {
	l, err := New(cfg, os.Stderr)
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(l)
	return l, nil
}

// New writes to console in the encoding of cfg.LogMode and, when cfg.LogFile
// is set, also writes JSON lines to that file with size based rotation.
func New(cfg *config.Config, console io.Writer) (*zap.Logger, error) {
	production := cfg.LogMode == "production"

	level, err := parseLevel(cfg.LogLevel, production)
	if err != nil {
		return nil, err
	}

	var encoder zapcore.Encoder
	if production {
		encoder = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	} else {
		encoder = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	}
	cores := []zapcore.Core{
		zapcore.NewCore(encoder, zapcore.Lock(zapcore.AddSync(console)), level),
	}

	if cfg.LogFile != "" {
		file := &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    cfg.LogMaxSizeMB,
			MaxBackups: cfg.LogMaxBackups,
			MaxAge:     cfg.LogMaxAgeDays,
			Compress:   cfg.LogCompress,
		}
		fileEncoding := zap.NewProductionEncoderConfig()
		fileEncoding.EncodeTime = zapcore.ISO8601TimeEncoder
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(fileEncoding), zapcore.AddSync(file), level))
	}

	opts := []zap.Option{zap.AddCaller()}
	if production {
		opts = append(opts, zap.AddStacktrace(zapcore.DPanicLevel))
	} else {
		opts = append(opts, zap.Development(), zap.AddStacktrace(zapcore.ErrorLevel))
	}
	return zap.New(zapcore.NewTee(cores...), opts...), nil
}

func parseLevel(text string, production bool) (zapcore.Level, error) {
	if text == "" {
		if production {
			return zapcore.InfoLevel, nil
		}
		return zapcore.DebugLevel, nil
	}
	level, err := zapcore.ParseLevel(text)
	if err != nil {
		return level, fmt.Errorf("invalid log level %q: %w", text, err)
	}
	return level, nil
}
