// Package config holds the settings shared by every fcbtool command.
package config

import (
	"fmt"
	"io"
	"os"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/OpenTraceLab/OpenTraceFCB/pkg/devicedb"
)

// Log formats.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Config controls database selection, logging and metrics output.
type Config struct {
	// Database is a directory holding database.yaml and the layouts it
	// references. Empty selects the embedded database.
	Database string

	// Logging
	Verbose   bool   // enable V(1) messages (default: false)
	LogFormat string // console or json (default: console)

	// MetricsFile receives counters in textfile format when set.
	MetricsFile string
}

// DefaultConfig returns a Config using the embedded database and console
// logging.
func DefaultConfig() *Config {
	return &Config{
		Database:    "",
		Verbose:     false,
		LogFormat:   FormatConsole,
		MetricsFile: "",
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.LogFormat == "" {
		c.LogFormat = FormatConsole
	}
	if c.LogFormat != FormatConsole && c.LogFormat != FormatJSON {
		return fmt.Errorf("invalid log format %q (want %s or %s)", c.LogFormat, FormatConsole, FormatJSON)
	}

	if c.Database != "" {
		info, err := os.Stat(c.Database)
		if err != nil {
			return fmt.Errorf("database: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("database %s is not a directory", c.Database)
		}
	}
	return nil
}

// Provider opens the configured device database.
func (c *Config) Provider() (*devicedb.Store, error) {
	if c.Database == "" {
		return devicedb.Default()
	}
	return devicedb.Load(os.DirFS(c.Database))
}

// Logger builds a logr.Logger writing to w.
func (c *Config) Logger(w io.Writer) logr.Logger {
	var encoder zapcore.Encoder
	if c.LogFormat == FormatJSON {
		encoder = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	} else {
		encoder = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	}

	// logr verbosity 1 maps to zap level -1.
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if c.Verbose {
		level.SetLevel(zapcore.Level(-1))
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(w), level)
	return zapr.NewLogger(zap.New(core))
}
