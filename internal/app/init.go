package app

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/andyballingall/repofmt/internal/config"
)

// NewInitCmd returns a command that writes the default config file.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   InitCmdName + " [dirpath]",
		Short: "Write a default " + config.FileName,
		Long: `Write a ` + config.FileName + ` describing the built-in formatters, ready to be edited.
An existing file is never overwritten.`,
		Args: cobra.MaximumNArgs(1),
		Example: `
repofmt init
repofmt init ./path/to/repo`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			path := filepath.Join(dir, config.FileName)
			if err := config.WriteDefault(path); err != nil {
				return fmt.Errorf("failed to write configuration file: %w", err)
			}

			cmd.Printf("Created %s\n", path)
			return nil
		},
	}

	return cmd
}
