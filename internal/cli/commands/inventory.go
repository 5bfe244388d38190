package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/piwi3910/StairCut/internal/model"
	"github.com/piwi3910/StairCut/internal/project"
)

// NewInventoryCommand creates the inventory command and its subcommands.
func NewInventoryCommand() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "inventory",
		Short: "Show the personal plank inventory",
		Long: `Show the plank specs in the personal inventory (~/.staircut/inventory.json).
The file is created with the built-in specs on first use.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			inv, _, err := loadInventory(file)
			if err != nil {
				return err
			}
			if wantsJSON(cmd.Context()) {
				return writeJSON(cmd.OutOrStdout(), inv)
			}
			renderInventory(cmd.OutOrStdout(), inv)
			for _, w := range model.ValidateInventory(inv).Warnings {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
			}
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&file, "file", "", "Inventory file (default: ~/.staircut/inventory.json)")

	cmd.AddCommand(&cobra.Command{
		Use:   "import <file>",
		Short: "Merge plank specs from a JSON file into the inventory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, path, err := loadInventory(file)
			if err != nil {
				return err
			}
			merged, err := project.ImportInventory(args[0], inv)
			if err != nil {
				return fmt.Errorf("failed to import inventory %s: %w", args[0], err)
			}
			if v := model.ValidateInventory(merged); !v.OK() {
				return fmt.Errorf("imported inventory is invalid: %v", v.Errors)
			}
			if err := project.SaveInventory(path, merged); err != nil {
				return fmt.Errorf("failed to save inventory: %w", err)
			}
			added := len(merged.Treads) + len(merged.Risers) - len(inv.Treads) - len(inv.Risers)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Added %d plank specs to %s\n", added, path)
			return nil
		},
	})

	return cmd
}

func loadInventory(path string) (model.PlankInventory, string, error) {
	if path == "" {
		inv, p, err := project.LoadOrCreateInventory()
		if err != nil {
			return model.PlankInventory{}, "", fmt.Errorf("failed to load inventory: %w", err)
		}
		return inv, p, nil
	}
	inv, err := project.LoadInventory(path)
	if err != nil {
		return model.PlankInventory{}, "", fmt.Errorf("failed to load inventory %s: %w", path, err)
	}
	return inv, path, nil
}
