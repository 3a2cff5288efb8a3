/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/thingc24/carve/core/config"
	"github.com/thingc24/carve/core/logger"
)

// ExitConfigError is returned when a service's source root does not exist.
const ExitConfigError = 2

var rootCmd = &cobra.Command{
	Use:   "carve",
	Short: "Carve services out of a monolith.",
	Long: `Carve copies a cataloged subset of a monolith's sources into a service tree,
then rewrites the copied entities so they reference other services' records
by id instead of by type.

Without a carve.yaml the built-in CareerMate services are used.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger.SetVerbose(verbose)
		logger.SetErrorWriter()
		if logfile != "" {
			f, err := os.OpenFile(logfile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
			if err != nil {
				return fmt.Errorf("failed to open log file: %w", err)
			}
			logFile = f
			logger.AddWriterForAll(f, false)
		}
		return config.LoadEnv()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logFile != nil {
			_ = logFile.Close()
		}
	},
}

var (
	logfile    string
	verbose    bool
	configPath string
	rootDir    string

	logFile *os.File
)

func Execute() {
	err := rootCmd.Execute()
	if err == nil {
		return
	}

	var cfgErr *config.ConfigurationError
	if errors.As(err, &cfgErr) {
		logger.Error("Configuration error: %v", cfgErr)
		os.Exit(ExitConfigError)
	}
	logger.Error("%v", err)
	os.Exit(1)
}

// loadServices loads the config and picks the services named in args.
func loadServices(args []string) (*config.Config, []config.Service, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	if rootDir != "" {
		cfg.Root = rootDir
	}
	services, err := cfg.Select(args)
	if err != nil {
		return nil, nil, err
	}
	return cfg, services, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logfile, "logfile", "", "File to write logs to")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to carve.yaml (default: ./carve.yaml or built-in services)")
	rootCmd.PersistentFlags().StringVar(&rootDir, "root", "", "Workspace root that service paths are relative to")
}
