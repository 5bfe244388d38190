// Package logging builds the zap loggers used by the command line tools.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds logging configuration
type Config struct {
	Level      string `koanf:"level"`
	Format     string `koanf:"format"` // "console" or "json"
	OutputPath string `koanf:"output_path"`
}

// DefaultConfig logs warnings and above to stderr in console format.
func DefaultConfig() Config {
	return Config{Level: "warn", Format: "console", OutputPath: "stderr"}
}

// New creates a logger from cfg. Output goes to stderr unless OutputPath is
// set, so reports written to stdout stay machine readable.
func New(cfg Config) (*zap.Logger, error) {
	output := cfg.OutputPath
	if output == "" {
		output = "stderr"
	}

	var zapConfig zap.Config
	if cfg.Format == "json" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
		zapConfig.Encoding = "console"
		// Unfit pieces are logged at warn level and are not failures.
		zapConfig.DisableStacktrace = true
		zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		if isTerminalStream(output) {
			zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		}
	}

	level, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	zapConfig.Level = level

	zapConfig.OutputPaths = []string{output}
	zapConfig.ErrorOutputPaths = []string{"stderr"}

	logger, err := zapConfig.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger, nil
}

// isTerminalStream reports whether output names a standard stream rather than a file.
func isTerminalStream(output string) bool {
	return output == "stderr" || output == "stdout"
}
