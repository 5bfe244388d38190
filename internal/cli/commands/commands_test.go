package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/StairCut/internal/cli/config"
	"github.com/piwi3910/StairCut/internal/model"
	"github.com/piwi3910/StairCut/internal/project"
)

const stepsCSV = "Step,Width,Depth,Height\n1,900,280,180\n2,900,280,180\n3,900,280,180\n"

// execute runs cmd with args and returns stdout and stderr.
func execute(t *testing.T, ctx context.Context, cmd *cobra.Command, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	return stdout.String(), stderr.String(), err
}

func jsonContext() context.Context {
	cfg := config.Default()
	cfg.Output = config.OutputJSON
	return config.WithConfig(context.Background(), cfg)
}

// setupProject creates a project with three identical steps and returns its path.
func setupProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	_, _, err := execute(t, context.Background(), NewInitCommand(), "villa", "--dir", dir)
	require.NoError(t, err)

	csvPath := filepath.Join(dir, "steps.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(stepsCSV), 0644))

	path := filepath.Join(dir, "villa"+project.FileExtension)
	_, _, err = execute(t, context.Background(), NewImportCommand(), path, csvPath)
	require.NoError(t, err)
	return path
}

func TestCommandMetadata(t *testing.T) {
	tests := []struct {
		cmd   *cobra.Command
		use   string
		flags []string
	}{
		{NewInitCommand(), "init <name>", []string{"dir", "client", "postal-code", "user-inventory", "force"}},
		{NewImportCommand(), "import <project> [measurements]", []string{"replace", "inventory"}},
		{NewInventoryCommand(), "inventory", []string{"file"}},
		{NewOptimizeCommand(), "optimize <project>", []string{"no-save"}},
		{NewCompareCommand(), "compare <project>", nil},
		{NewExportCommand(), "export <project>", []string{"format", "file"}},
	}
	for _, tt := range tests {
		t.Run(tt.use, func(t *testing.T) {
			assert.Equal(t, tt.use, tt.cmd.Use)
			assert.NotEmpty(t, tt.cmd.Short, "Short should not be empty")
			for _, f := range tt.flags {
				found := tt.cmd.Flags().Lookup(f) != nil || tt.cmd.PersistentFlags().Lookup(f) != nil
				assert.True(t, found, "flag %q should exist", f)
			}
		})
	}
}

func TestVersionCommand(t *testing.T) {
	out, _, err := execute(t, context.Background(), NewVersionCommand("1.2.3", "abc123", "2026-01-01"))
	require.NoError(t, err)
	assert.Contains(t, out, "StairCut v1.2.3")
	assert.Contains(t, out, "abc123")
}

func TestInitCommand(t *testing.T) {
	dir := t.TempDir()

	out, _, err := execute(t, context.Background(), NewInitCommand(), "villa", "--dir", dir, "--client", "J. Jansen")
	require.NoError(t, err)
	assert.Contains(t, out, "Created project")
	assert.Contains(t, out, "Created config")

	p, err := project.Load(filepath.Join(dir, "villa.staircut"))
	require.NoError(t, err)
	assert.Equal(t, "villa", p.Name)
	assert.Equal(t, "J. Jansen", p.Client.Name)
	assert.Len(t, p.Inventory.Treads, 3)
	assert.Equal(t, model.DefaultConstraints(), p.Constraints)

	cfg, err := config.Load(filepath.Join(dir, config.DefaultConfigFile), nil)
	require.NoError(t, err, "generated config must load")
	assert.Equal(t, 10.0, cfg.Kerf)

	_, _, err = execute(t, context.Background(), NewInitCommand(), "villa", "--dir", dir)
	assert.ErrorContains(t, err, "already exists")

	_, _, err = execute(t, context.Background(), NewInitCommand(), "villa", "--dir", dir, "--force")
	assert.NoError(t, err)
}

func TestInitCommand_UserInventory(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	dir := t.TempDir()

	_, _, err := execute(t, context.Background(), NewInitCommand(), "villa", "--dir", dir, "--user-inventory")
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(home, ".staircut", "inventory.json"))
	assert.NoError(t, err, "personal inventory should be created on first use")
}

func TestImportCommand_MergesAndReplaces(t *testing.T) {
	path := setupProject(t)
	dir := filepath.Dir(path)

	p, err := project.Load(path)
	require.NoError(t, err)
	require.Len(t, p.Measurements, 3)

	more := filepath.Join(dir, "more.csv")
	require.NoError(t, os.WriteFile(more, []byte("Step,Width,Depth,Height\n3,950,290,185\n4,900,280,180\n"), 0644))

	out, _, err := execute(t, context.Background(), NewImportCommand(), path, more)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 2 measurements")

	p, err = project.Load(path)
	require.NoError(t, err)
	require.Len(t, p.Measurements, 4)
	assert.Equal(t, 950.0, p.Measurements[2].FrontWidth, "step 3 is overwritten")
	assert.Equal(t, 4, p.Measurements[3].StepNumber)

	_, _, err = execute(t, context.Background(), NewImportCommand(), path, more, "--replace")
	require.NoError(t, err)
	p, err = project.Load(path)
	require.NoError(t, err)
	assert.Len(t, p.Measurements, 2)
}

func TestImportCommand_Errors(t *testing.T) {
	path := setupProject(t)
	dir := filepath.Dir(path)

	_, _, err := execute(t, context.Background(), NewImportCommand(), path)
	assert.ErrorContains(t, err, "nothing to import")

	bad := filepath.Join(dir, "bad.csv")
	require.NoError(t, os.WriteFile(bad, []byte("Width,Depth\n900,280\n"), 0644))
	_, stderr, err := execute(t, context.Background(), NewImportCommand(), path, bad)
	assert.ErrorContains(t, err, "no measurements imported")
	assert.Contains(t, stderr, "Riser height")
}

func TestImportCommand_Inventory(t *testing.T) {
	path := setupProject(t)

	extra := model.PlankInventory{
		Risers: []model.PlankSpec{{ID: "wide", Name: "Wide riser", Width: 2800, Length: 200, Thickness: 18, PricePerPlank: 20}},
	}
	data, err := json.Marshal(extra)
	require.NoError(t, err)
	invPath := filepath.Join(filepath.Dir(path), "supplier.json")
	require.NoError(t, os.WriteFile(invPath, data, 0644))

	out, _, err := execute(t, context.Background(), NewImportCommand(), path, "--inventory", invPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Added 1 plank specs")

	p, err := project.Load(path)
	require.NoError(t, err)
	assert.NotNil(t, p.Inventory.FindByID("wide"))
}

func TestInventoryCommand(t *testing.T) {
	invPath := filepath.Join(t.TempDir(), "inventory.json")

	out, _, err := execute(t, context.Background(), NewInventoryCommand(), "--file", invPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Oak tread 1000x400")
	assert.Contains(t, out, "unlimited")

	extra := model.PlankInventory{
		Treads: []model.PlankSpec{{ID: "ash", Name: "Ash tread", Width: 1100, Length: 350, Thickness: 20, HasNosing: true, PricePerPlank: 44}},
	}
	data, err := json.Marshal(extra)
	require.NoError(t, err)
	src := filepath.Join(t.TempDir(), "ash.json")
	require.NoError(t, os.WriteFile(src, data, 0644))

	out, _, err = execute(t, context.Background(), NewInventoryCommand(), "import", src, "--file", invPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Added 1 plank specs")

	inv, err := project.LoadInventory(invPath)
	require.NoError(t, err)
	assert.Len(t, inv.Treads, 4)
}

func TestOptimizeCommand_Text(t *testing.T) {
	path := setupProject(t)

	out, _, err := execute(t, context.Background(), NewOptimizeCommand(), path)
	require.NoError(t, err)
	// Table titles and footers may be upper-cased by the table style
	lower := strings.ToLower(out)
	for _, want := range []string{"summary", "shopping list", "plank layouts", "grand total", "tread-1", "oak tread 1000x400"} {
		assert.Contains(t, lower, want)
	}
	assert.NotContains(t, lower, "pieces that do not fit")

	p, err := project.Load(path)
	require.NoError(t, err)
	require.NotNil(t, p.Result, "plan is stored in the project")
	assert.True(t, p.Result.AllPiecesFit)
	assert.Equal(t, 6, p.Result.PlacedCount())
}

func TestOptimizeCommand_JSONNoSave(t *testing.T) {
	path := setupProject(t)

	out, _, err := execute(t, jsonContext(), NewOptimizeCommand(), path, "--no-save")
	require.NoError(t, err)

	var report optimizeReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.True(t, report.Result.AllPiecesFit)
	assert.Len(t, report.Instructions, 6)
	assert.InDelta(t, report.Result.TotalCost, report.ShoppingList.GrandTotal, 1e-9)

	p, err := project.Load(path)
	require.NoError(t, err)
	assert.Nil(t, p.Result)
}

func TestOptimizeCommand_KeepsStoredConstraints(t *testing.T) {
	path := setupProject(t)

	p, err := project.Load(path)
	require.NoError(t, err)
	p.Constraints = model.CuttingConstraints{SawBladeKerf: 3, SafetyMargin: 1, AllowTreadRotation: true}
	require.NoError(t, project.Save(path, &p))

	_, _, err = execute(t, context.Background(), NewOptimizeCommand(), path)
	require.NoError(t, err)

	p, err = project.Load(path)
	require.NoError(t, err)
	assert.Equal(t, model.CuttingConstraints{SawBladeKerf: 3, SafetyMargin: 1, AllowTreadRotation: true}, p.Constraints)
	require.NotNil(t, p.Result)
	for _, l := range p.Result.RiserLayouts {
		for _, pl := range l.Placements {
			assert.Equal(t, model.Rotation0, pl.Rotation, "stored constraints disable riser rotation")
		}
	}
}

func TestProjectConstraints_FlagsOverrideStored(t *testing.T) {
	cfg := config.Default()
	cfg.Kerf = 2.5
	cfg.AllowRiserRotation = true

	cmd := &cobra.Command{Use: "optimize"}
	cmd.Flags().Float64("kerf", 0, "")
	cmd.Flags().Bool("riser-rotation", true, "")
	cmd.SetContext(config.WithConfig(context.Background(), cfg))
	require.NoError(t, cmd.Flags().Parse([]string{"--kerf", "2.5"}))

	stored := model.CuttingConstraints{SawBladeKerf: 8, SafetyMargin: 1}
	got := projectConstraints(cmd, model.Project{Constraints: stored})
	assert.Equal(t, 2.5, got.SawBladeKerf)
	assert.Equal(t, 1.0, got.SafetyMargin)
	assert.False(t, got.AllowRiserRotation, "unset flags keep the stored value")

	got = projectConstraints(cmd, model.Project{})
	assert.Equal(t, cfg.Constraints(), got)
}

func TestOptimizeCommand_NoMeasurements(t *testing.T) {
	dir := t.TempDir()
	_, _, err := execute(t, context.Background(), NewInitCommand(), "empty", "--dir", dir)
	require.NoError(t, err)

	_, _, err = execute(t, context.Background(), NewOptimizeCommand(), filepath.Join(dir, "empty.staircut"))
	assert.ErrorContains(t, err, "no measurements")
}

func TestCompareCommand(t *testing.T) {
	path := setupProject(t)

	out, _, err := execute(t, context.Background(), NewCompareCommand(), path)
	require.NoError(t, err)
	assert.Contains(t, out, "Current Settings")
	assert.Contains(t, out, "No Rotation")

	out, _, err = execute(t, jsonContext(), NewCompareCommand(), path)
	require.NoError(t, err)
	var rows []comparisonRow
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.NotEmpty(t, rows)
	assert.Equal(t, "Current Settings", rows[0].Scenario)
	assert.Empty(t, rows[0].Error)
}

func TestExportCommand(t *testing.T) {
	path := setupProject(t)
	dir := filepath.Dir(path)

	_, _, err := execute(t, context.Background(), NewExportCommand(), path)
	assert.ErrorContains(t, err, "run staircut optimize first")

	_, _, err = execute(t, context.Background(), NewOptimizeCommand(), path)
	require.NoError(t, err)

	for format, file := range map[string]string{
		"pdf":    "villa.pdf",
		"labels": "villa-labels.pdf",
		"xlsx":   "villa.xlsx",
		"dxf":    "villa.dxf",
		"gcode":  "villa.nc",
		"json":   "villa.json",
	} {
		t.Run(format, func(t *testing.T) {
			out, _, err := execute(t, context.Background(), NewExportCommand(), path, "--format", format)
			require.NoError(t, err)
			assert.Contains(t, out, file)

			info, err := os.Stat(filepath.Join(dir, file))
			require.NoError(t, err)
			assert.NotZero(t, info.Size())
		})
	}

	custom := filepath.Join(dir, "order.xlsx")
	_, _, err = execute(t, context.Background(), NewExportCommand(), path, "--format", "xlsx", "-f", custom)
	require.NoError(t, err)
	assert.FileExists(t, custom)

	_, _, err = execute(t, context.Background(), NewExportCommand(), path, "--format", "svg")
	assert.ErrorContains(t, err, "unknown export format")
}

func TestMergeMeasurements(t *testing.T) {
	existing := []model.StepMeasurement{{StepNumber: 2, FrontWidth: 900}, {StepNumber: 1, FrontWidth: 900}}
	imported := []model.StepMeasurement{{StepNumber: 2, FrontWidth: 950}, {StepNumber: 5, FrontWidth: 910}}

	merged := mergeMeasurements(existing, imported)
	require.Len(t, merged, 3)
	assert.Equal(t, []int{1, 2, 5}, []int{merged[0].StepNumber, merged[1].StepNumber, merged[2].StepNumber})
	assert.Equal(t, 950.0, merged[1].FrontWidth)
}

func TestMergeMeasurements_DuplicateImportedSteps(t *testing.T) {
	imported := []model.StepMeasurement{{StepNumber: 3, FrontWidth: 900}, {StepNumber: 3, FrontWidth: 920}}

	merged := mergeMeasurements(nil, imported)
	require.Len(t, merged, 1)
	assert.Equal(t, 920.0, merged[0].FrontWidth, "the last row for a step wins")
}
