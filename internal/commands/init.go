package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/recount-dev/recount/internal/config"
)

func newInitCommand() *cobra.Command {
	var currency string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new recount project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(cmd, absDir, currency)
		},
	}

	cmd.Flags().StringVar(&currency, "currency", "USD", "ISO currency code")

	return cmd
}

func runInit(cmd *cobra.Command, dir, currency string) error {
	dirs := []string{
		"ledgers",
		"statements",
		"rules",
		"logs",
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	// Write recount.yaml.
	cfg := config.Default(currency)
	if err := config.Save(filepath.Join(dir, "recount.yaml"), cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// Write empty categorization rules.
	rulesContent := "rules: []\n"
	if err := os.WriteFile(filepath.Join(dir, "rules", "categorization-rules.yaml"), []byte(rulesContent), 0o644); err != nil {
		return fmt.Errorf("writing rules: %w", err)
	}

	// Write statements/.gitkeep.
	if err := os.WriteFile(filepath.Join(dir, "statements", ".gitkeep"), []byte{}, 0o644); err != nil {
		return fmt.Errorf("writing .gitkeep: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Initialized recount project at %s\n", dir)
	return nil
}
