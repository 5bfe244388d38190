package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/piwi3910/StairCut/internal/gcode"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "staircut.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func testFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Float64("kerf", 0, "")
	fs.Float64("safety-margin", 0, "")
	fs.Bool("tread-rotation", false, "")
	fs.Bool("riser-rotation", false, "")
	fs.Int("max-planks", 0, "")
	fs.String("log-level", "", "")
	fs.StringP("output", "o", "", "")
	return fs
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, 10.0, cfg.Kerf)
	assert.Equal(t, 5.0, cfg.SafetyMargin)
	assert.True(t, cfg.AllowTreadRotation)
	assert.True(t, cfg.AllowRiserRotation)
	assert.Equal(t, DefaultMaxPlanks, cfg.MaxPlanks)
	assert.Equal(t, DefaultMaxIterations, cfg.MaxIterations)
	assert.Equal(t, OutputText, cfg.Output)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, gcode.DefaultSettings(), cfg.GCode)
	assert.Empty(t, cfg.File)
}

func TestLoad_GCodeSection(t *testing.T) {
	t.Chdir(t.TempDir())
	path := writeConfig(t, "gcode:\n  tool_diameter: 8\n  tabs_per_side: 2\n")
	t.Setenv("STAIRCUT_GCODE_FEED_RATE", "1200")

	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, 8.0, cfg.GCode.ToolDiameter)
	assert.Equal(t, 2, cfg.GCode.TabsPerSide)
	assert.Equal(t, 1200.0, cfg.GCode.FeedRate)
	assert.Equal(t, gcode.DefaultSettings().PassDepth, cfg.GCode.PassDepth)
}

func TestLoad_ConfigFile(t *testing.T) {
	t.Chdir(t.TempDir())
	path := writeConfig(t, `
kerf: 3.2
safety_margin: 0
allow_riser_rotation: false
max_planks: 8
log:
  level: debug
  format: json
`)

	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, 3.2, cfg.Kerf)
	assert.Equal(t, 0.0, cfg.SafetyMargin)
	assert.True(t, cfg.AllowTreadRotation, "unset keys keep their defaults")
	assert.False(t, cfg.AllowRiserRotation)
	assert.Equal(t, 8, cfg.MaxPlanks)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, path, cfg.File)
}

func TestLoad_FindsFileInWorkingDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultConfigFile), []byte("kerf: 4\n"), 0644))
	t.Chdir(dir)

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, 4.0, cfg.Kerf)
	assert.Equal(t, DefaultConfigFile, cfg.File)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Chdir(t.TempDir())
	path := writeConfig(t, "kerf: 3\nmax_planks: 8\n")
	t.Setenv("STAIRCUT_KERF", "2.5")
	t.Setenv("STAIRCUT_LOG_LEVEL", "info")
	t.Setenv("STAIRCUT_ALLOW_TREAD_ROTATION", "false")

	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, 2.5, cfg.Kerf)
	assert.Equal(t, 8, cfg.MaxPlanks)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.AllowTreadRotation)
}

func TestLoad_FlagPrecedence(t *testing.T) {
	t.Chdir(t.TempDir())
	path := writeConfig(t, "kerf: 3\nsafety_margin: 2\n")
	t.Setenv("STAIRCUT_KERF", "2.5")

	flags := testFlags()
	require.NoError(t, flags.Parse([]string{"--kerf", "1.5", "--tread-rotation=false", "--log-level", "error", "-o", "json"}))

	cfg, err := Load(path, flags)
	require.NoError(t, err)

	assert.Equal(t, 1.5, cfg.Kerf, "flag beats env and file")
	assert.Equal(t, 2.0, cfg.SafetyMargin, "unchanged flag does not override the file")
	assert.False(t, cfg.AllowTreadRotation)
	assert.True(t, cfg.AllowRiserRotation)
	assert.Equal(t, "error", cfg.Log.Level)
	assert.Equal(t, OutputJSON, cfg.Output)
	assert.Equal(t, DefaultMaxPlanks, cfg.MaxPlanks, "zero-valued unchanged flag is ignored")
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errStr  string
	}{
		{"negative kerf", "kerf: -1\n", "kerf"},
		{"negative margin", "safety_margin: -0.5\n", "safety_margin"},
		{"zero max planks", "max_planks: 0\n", "max_planks"},
		{"unknown output", "output: xml\n", "output format"},
		{"zero tool", "gcode:\n  tool_diameter: 0\n", "tool diameter"},
		{"broken yaml", "kerf: [1,\n", "error reading config file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			_, err := Load(writeConfig(t, tt.content), nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errStr)
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	assert.Error(t, err)
}

func TestConfig_Constraints(t *testing.T) {
	cfg := Default()
	cfg.Kerf = 3
	cfg.AllowRiserRotation = false

	c := cfg.Constraints()
	assert.Equal(t, 3.0, c.SawBladeKerf)
	assert.Equal(t, 5.0, c.SafetyMargin)
	assert.True(t, c.AllowTreadRotation)
	assert.False(t, c.AllowRiserRotation)
}

func TestContextAccessors(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, Default(), FromContext(ctx))
	assert.NotNil(t, Logger(ctx))

	cfg := Default()
	cfg.Kerf = 7
	logger := zap.NewExample()
	ctx = WithLogger(WithConfig(ctx, cfg), logger)

	assert.Same(t, cfg, FromContext(ctx))
	assert.Same(t, logger, Logger(ctx))
}
