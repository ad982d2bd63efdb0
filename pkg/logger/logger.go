// Package logger wires logrus into request contexts.
package logger

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

type ctxKey struct{}

// Config controls the process wide logrus setup
type Config struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"` // text or json
}

// Init configures the standard logrus logger. Unknown levels fall back to info.
func Init(cfg Config) {
	InitWithOutput(cfg, os.Stderr)
}

func InitWithOutput(cfg Config, out io.Writer) {
	level, err := logrus.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
	logrus.SetOutput(out)

	if strings.EqualFold(cfg.Format, "json") {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
}

// Logger returns the entry stored in ctx, or a fresh entry on the standard logger
func Logger(ctx context.Context) *logrus.Entry {
	if ctx != nil {
		if entry, ok := ctx.Value(ctxKey{}).(*logrus.Entry); ok && entry != nil {
			return entry
		}
	}
	return logrus.NewEntry(logrus.StandardLogger())
}

// WithLogger returns a copy of ctx carrying entry
func WithLogger(ctx context.Context, entry *logrus.Entry) context.Context {
	return context.WithValue(ctx, ctxKey{}, entry)
}

// WithFields returns a copy of ctx whose logger carries the extra fields
func WithFields(ctx context.Context, fields logrus.Fields) context.Context {
	return WithLogger(ctx, Logger(ctx).WithFields(fields))
}
