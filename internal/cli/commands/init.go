package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/piwi3910/StairCut/internal/cli/config"
	"github.com/piwi3910/StairCut/internal/model"
	"github.com/piwi3910/StairCut/internal/project"
)

const configTemplate = `# StairCut configuration
kerf: %.1f
safety_margin: %.1f
allow_tread_rotation: %t
allow_riser_rotation: %t
max_planks: %d
max_iterations: %d
output: %s
log:
  level: %s
  format: %s
gcode:
  tool_diameter: %.1f
  feed_rate: %.0f
  plunge_rate: %.0f
  pass_depth: %.1f
  tabs_per_side: %d
`

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var (
		dir           string
		client        string
		postalCode    string
		userInventory bool
		force         bool
	)

	cmd := &cobra.Command{
		Use:   "init <name>",
		Short: "Create a new staircase project",
		Long: `Create a new staircase project file and, when missing, a staircut.yaml
configuration next to it.

The project starts with the built-in plank inventory, or with your personal
inventory from ~/.staircut/inventory.json when --user-inventory is set.`,
		Example: `  # Create ./villa.staircut
  staircut init villa --client "J. Jansen"

  # Seed the project from the personal inventory
  staircut init villa --user-inventory`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := config.Logger(cmd.Context())
			name := args[0]
			path := filepath.Join(dir, name+project.FileExtension)

			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("project %s already exists (use --force to overwrite)", path)
			}

			p := model.NewProject(name)
			p.Client = model.ClientInfo{Name: client, PostalCode: postalCode}
			p.Constraints = config.FromContext(cmd.Context()).Constraints()

			if userInventory {
				inv, invPath, err := project.LoadOrCreateInventory()
				if err != nil {
					return fmt.Errorf("failed to load inventory: %w", err)
				}
				logger.Debug("seeded project inventory", zap.String("path", invPath))
				p.Inventory = inv
			}

			if err := project.Save(path, &p); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created project %s\n", path)

			cfgPath := filepath.Join(dir, config.DefaultConfigFile)
			if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
				if err := writeDefaultConfig(cfgPath, config.FromContext(cmd.Context())); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created config %s\n", cfgPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "Directory to create the project in")
	cmd.Flags().StringVar(&client, "client", "", "Client name")
	cmd.Flags().StringVar(&postalCode, "postal-code", "", "Client postal code")
	cmd.Flags().BoolVar(&userInventory, "user-inventory", false, "Use ~/.staircut/inventory.json as the plank inventory")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing project")

	return cmd
}

func writeDefaultConfig(path string, cfg *config.Config) error {
	content := fmt.Sprintf(configTemplate,
		cfg.Kerf, cfg.SafetyMargin, cfg.AllowTreadRotation, cfg.AllowRiserRotation,
		cfg.MaxPlanks, cfg.MaxIterations, cfg.Output, cfg.Log.Level, cfg.Log.Format,
		cfg.GCode.ToolDiameter, cfg.GCode.FeedRate, cfg.GCode.PlungeRate, cfg.GCode.PassDepth, cfg.GCode.TabsPerSide)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
