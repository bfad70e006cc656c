package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aretw0/fittrack/internal/platform"
)

var (
	initVersioning bool
	initFormat     string
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a data directory",
	Long: `Create the data directory layout and a fittrack.yaml holding its settings.
With --versioning the directory is also a git repository and every write is committed.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := cfg
		if cmd.Flags().Changed("versioning") {
			c.Versioning = initVersioning
		}
		if cmd.Flags().Changed("format") {
			c.Format = initFormat
		}
		if err := os.MkdirAll(c.DataDir, 0o755); err != nil {
			return fmt.Errorf("failed to create data directory: %w", err)
		}

		path := filepath.Join(c.DataDir, platform.ConfigFile)
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			if err := platform.WriteConfig(path, c); err != nil {
				return err
			}
		}

		opts, err := c.Options(logger)
		if err != nil {
			return err
		}
		if _, err := platform.Init(c.DataDir, opts...); err != nil {
			return fmt.Errorf("failed to initialize data directory: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Initialized fittrack data directory in", c.DataDir)
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVar(&initVersioning, "versioning", false, "Commit every write to git")
	initCmd.Flags().StringVar(&initFormat, "format", "json", "Log format: json or yaml")
	rootCmd.AddCommand(initCmd)
}
