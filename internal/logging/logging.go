// Package logging builds the structured logger used by the console and the
// server.
package logging

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config says where log entries go and which are kept.
type Config struct {
	// Level is the minimum level logged: "debug", "info", "warn", or
	// "error". Defaults to "info".
	Level string

	// File is a path to write JSON log entries to. It is rotated once it
	// reaches MaxSizeMB. If empty, entries are not written to a file.
	File       string
	MaxSizeMB  int
	MaxBackups int

	// Console is where human-readable log entries are written. If nil, they
	// are not written anywhere besides File.
	Console io.Writer
}

// New creates a logger from cfg. If cfg names neither a file nor a console
// writer, the logger discards everything.
func New(cfg Config) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if cfg.Level != "" {
		var err error
		level, err = zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("log level: %w", err)
		}
	}

	var cores []zapcore.Core

	if cfg.File != "" {
		rotator := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
		}
		enc := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
		cores = append(cores, zapcore.NewCore(enc, zapcore.AddSync(rotator), level))
	}

	if cfg.Console != nil {
		encCfg := zap.NewDevelopmentEncoderConfig()
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc := zapcore.NewConsoleEncoder(encCfg)
		cores = append(cores, zapcore.NewCore(enc, zapcore.Lock(zapcore.AddSync(cfg.Console)), level))
	}

	if len(cores) == 0 {
		return zap.NewNop(), nil
	}
	return zap.New(zapcore.NewTee(cores...)), nil
}

// Stderr is the Config for logging human-readable entries to stderr at the
// given level.
func Stderr(level string) Config {
	return Config{Level: level, Console: os.Stderr}
}
