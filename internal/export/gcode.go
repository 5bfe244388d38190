package export

import (
	"fmt"
	"os"

	"github.com/piwi3910/StairCut/internal/gcode"
	"github.com/piwi3910/StairCut/internal/model"
)

// ExportGCode writes a router program cutting every plank of the result and
// returns the toolpath statistics of the written program.
func ExportGCode(path string, result model.OptimizationResult, settings gcode.Settings) (gcode.Stats, error) {
	if len(result.Layouts()) == 0 {
		return gcode.Stats{}, fmt.Errorf("no planks to export")
	}
	if err := settings.Validate(); err != nil {
		return gcode.Stats{}, fmt.Errorf("invalid gcode settings: %w", err)
	}

	code := gcode.New(settings).GenerateAll(result)
	if err := os.WriteFile(path, []byte(code), 0644); err != nil {
		return gcode.Stats{}, fmt.Errorf("failed to write gcode: %w", err)
	}
	return gcode.Summarize(gcode.Parse(code)), nil
}
