package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/piwi3910/StairCut/internal/cli/config"
	"github.com/piwi3910/StairCut/internal/export"
	"github.com/piwi3910/StairCut/internal/gcode"
)

// Export formats and the file extension each one defaults to.
var exportFormats = map[string]string{
	"pdf":    ".pdf",
	"labels": "-labels.pdf",
	"xlsx":   ".xlsx",
	"dxf":    ".dxf",
	"gcode":  ".nc",
	"json":   ".json",
}

// NewExportCommand creates the export command.
func NewExportCommand() *cobra.Command {
	var (
		format string
		out    string
	)

	cmd := &cobra.Command{
		Use:   "export <project>",
		Short: "Export the stored plank plan of a project",
		Long: `Export the plank plan stored by "staircut optimize".

Formats:
  pdf     plank diagrams and a summary with the shopping list
  labels  QR-coded piece labels (Avery 5160)
  xlsx    shopping list, cutting instructions and layouts workbook
  dxf     plank outlines for CAD
  gcode   router program cutting every plank (settings from the gcode config section)
  json    the raw optimization result`,
		Example: `  staircut export villa.staircut --format pdf
  staircut export villa.staircut --format xlsx -f order.xlsx`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			ext, ok := exportFormats[format]
			if !ok {
				return fmt.Errorf("unknown export format %q", format)
			}

			p, err := loadProject(path)
			if err != nil {
				return err
			}
			if p.Result == nil {
				return fmt.Errorf("project %s has no plank plan (run staircut optimize first)", path)
			}
			result := *p.Result

			if out == "" {
				out = strings.TrimSuffix(path, filepath.Ext(path)) + ext
			}

			switch format {
			case "pdf":
				err = export.ExportPDF(out, result, p.Constraints)
			case "labels":
				err = export.ExportLabels(out, result)
			case "xlsx":
				err = export.ExportWorkbook(out, result)
			case "dxf":
				err = export.ExportDXF(out, result)
			case "gcode":
				var stats gcode.Stats
				stats, err = export.ExportGCode(out, result, config.FromContext(cmd.Context()).GCode)
				if err == nil {
					config.Logger(cmd.Context()).Debug("gcode toolpath",
						zap.Int("moves", stats.Moves),
						zap.Int("plunges", stats.Plunges),
						zap.Float64("cut_length_mm", stats.CutLength))
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Cut length %.1f m, %d plunges\n", stats.CutLength/1000, stats.Plunges)
				}
			case "json":
				err = writeJSONFile(out, result)
			}
			if err != nil {
				return fmt.Errorf("failed to export %s: %w", format, err)
			}

			config.Logger(cmd.Context()).Info("exported plan",
				zap.String("project", p.Name),
				zap.String("format", format),
				zap.String("file", out))
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", out)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "pdf", "Export format (pdf|labels|xlsx|dxf|gcode|json)")
	cmd.Flags().StringVarP(&out, "file", "f", "", "Output file (default: project name with the format extension)")

	_ = cmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"pdf", "labels", "xlsx", "dxf", "gcode", "json"}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func writeJSONFile(path string, v interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := writeJSON(f, v); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
