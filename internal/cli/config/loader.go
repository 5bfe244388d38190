package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

// EnvPrefix prefixes every environment variable the loader reads.
const EnvPrefix = "STAIRCUT_"

type configKey struct{}

type loggerKey struct{}

// flagKeys bridges flag names that differ from their config keys.
var flagKeys = map[string]string{
	"tread-rotation": "allow_tread_rotation",
	"riser-rotation": "allow_riser_rotation",
	"log-level":      "log.level",
	"log-format":     "log.format",
	"log-file":       "log.output_path",
}

// Load resolves the configuration.
// Precedence (highest to lowest): flags > env vars > config file > defaults.
// Only flags that were explicitly set override the other sources.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	def := Default()
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"kerf":                 def.Kerf,
		"safety_margin":        def.SafetyMargin,
		"allow_tread_rotation": def.AllowTreadRotation,
		"allow_riser_rotation": def.AllowRiserRotation,
		"max_planks":           def.MaxPlanks,
		"max_iterations":       def.MaxIterations,
		"output":               def.Output,
		"log.level":            def.Log.Level,
		"log.format":           def.Log.Format,
		"log.output_path":      def.Log.OutputPath,
		"gcode.tool_diameter":  def.GCode.ToolDiameter,
		"gcode.feed_rate":      def.GCode.FeedRate,
		"gcode.plunge_rate":    def.GCode.PlungeRate,
		"gcode.spindle_speed":  def.GCode.SpindleSpeed,
		"gcode.safe_z":         def.GCode.SafeZ,
		"gcode.pass_depth":     def.GCode.PassDepth,
		"gcode.tabs_per_side":  def.GCode.TabsPerSide,
		"gcode.tab_width":      def.GCode.TabWidth,
		"gcode.tab_height":     def.GCode.TabHeight,
		"gcode.decimal_places": def.GCode.DecimalPlaces,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	used := findConfigFile(cfgFile)
	if used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", used, err)
		}
	}

	// STAIRCUT_SAFETY_MARGIN -> safety_margin, STAIRCUT_LOG_LEVEL -> log.level,
	// STAIRCUT_GCODE_FEED_RATE -> gcode.feed_rate
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		for _, section := range []string{"log", "gcode"} {
			if rest, ok := strings.CutPrefix(key, section+"_"); ok {
				return section + "." + rest
			}
		}
		return key
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			key, ok := flagKeys[f.Name]
			if !ok {
				key = strings.ReplaceAll(f.Name, "-", "_")
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.File = used

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// findConfigFile returns the explicit path, or ./staircut.yaml when present.
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if _, err := os.Stat(DefaultConfigFile); err == nil {
		return DefaultConfigFile
	}
	return ""
}

// WithConfig stores cfg in ctx.
func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// FromContext returns the config stored in ctx, or the defaults.
func FromContext(ctx context.Context) *Config {
	if ctx != nil {
		if c, ok := ctx.Value(configKey{}).(*Config); ok {
			return c
		}
	}
	return Default()
}

// WithLogger stores the command logger in ctx.
func WithLogger(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// Logger returns the logger stored in ctx, or a no-op logger.
func Logger(ctx context.Context) *zap.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey{}).(*zap.Logger); ok {
			return l
		}
	}
	return zap.NewNop()
}
