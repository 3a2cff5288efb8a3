/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/thingc24/carve/core/config"
	"github.com/thingc24/carve/core/logger"
)

var (
	force bool
)

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Write a carve.yaml with the built-in services",
	Long: `Writes the built-in CareerMate services to carve.yaml so the catalog and
rewrite rules can be edited instead of recompiled.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.Debug("init called")
		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}
		path := filepath.Join(dir, config.FileName)
		if _, err := os.Stat(path); err == nil {
			if !force {
				fmt.Fprintf(cmd.OutOrStdout(), "%s already exists. Use --force to overwrite.\n", path)
				return nil
			}
			logger.Debug("%s already exists. Overwriting.", path)
		}

		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
		if err := config.Default().Save(path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Successfully wrote %s\n", path)

		fmt.Fprintf(cmd.OutOrStdout(), "Next Steps:\n")
		if dir != "." {
			fmt.Fprintf(cmd.OutOrStdout(), "  - cd %s\n", dir)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "  - carve plan\n")
		fmt.Fprintf(cmd.OutOrStdout(), "  - carve extract\n")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().BoolVar(&force, "force", false, "Force overwrite existing files")
}
