package main

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"sprintpulse/internal/config"
	"sprintpulse/internal/core"
)

// newLogger builds the process logger from the logging section. --verbose
// wins over the configured level.
func newLogger(cfg config.Logging, verbose bool) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if cfg.Format != "json" {
		zcfg.Encoding = "console"
		zcfg.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	}
	level := strings.ToLower(cfg.Level)
	if level == "" {
		level = "warn"
	}
	atomic, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	zcfg.Level = atomic
	if verbose {
		zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return zcfg.Build()
}

// zapLogger adapts a sugared zap logger to the key/value Logger shape used
// by the store and the persistence adapter.
type zapLogger struct {
	s *zap.SugaredLogger
}

func (l zapLogger) Debug(msg string, args ...any) { l.s.Debugw(msg, args...) }
func (l zapLogger) Info(msg string, args ...any)  { l.s.Infow(msg, args...) }
func (l zapLogger) Warn(msg string, args ...any)  { l.s.Warnw(msg, args...) }
func (l zapLogger) Error(msg string, args ...any) { l.s.Errorw(msg, args...) }

// auditLogger writes every store operation at debug level.
type auditLogger struct {
	log *zap.Logger
}

func (a auditLogger) Record(_ context.Context, e core.AuditEntry) {
	fields := []zap.Field{
		zap.String("operation", e.Operation),
		zap.String("status", string(e.Status)),
		zap.Int("week", e.Week),
		zap.Duration("duration", e.Duration),
	}
	if e.EntityID != "" {
		fields = append(fields, zap.String("entity", e.EntityID))
	}
	if e.Error != "" {
		fields = append(fields, zap.String("error", e.Error))
	}
	a.log.Debug("store operation", fields...)
}
