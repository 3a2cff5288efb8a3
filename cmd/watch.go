package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/thingc24/carve/core/config"
	"github.com/thingc24/carve/core/logger"
	"github.com/thingc24/carve/core/pipeline"
	"github.com/thingc24/carve/core/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch [service...]",
	Short: "Re-extract services whenever their monolith sources change",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, services, err := loadServices(args)
		if err != nil {
			return err
		}

		runner := pipeline.NewRunner(cfg, pipeline.Options{Workers: workers})
		extract := func() error {
			summary, err := runner.Run(services, pipeline.ModeExtract)
			if summary != nil {
				summary.Log(cmd.OutOrStdout())
			}
			return err
		}
		if err := extract(); err != nil {
			return err
		}

		files, err := sourceFiles(cfg, services)
		if err != nil {
			return err
		}
		w, err := watcher.New(files, extract)
		if err != nil {
			return err
		}
		defer w.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		logger.Info("Watching %d source files. Press Ctrl+C to stop.", len(files))
		return w.Watch(ctx)
	},
}

// sourceFiles lists the monolith path of every cataloged file.
func sourceFiles(cfg *config.Config, services []config.Service) ([]string, error) {
	var files []string
	for _, svc := range services {
		src, err := cfg.SourceDir(svc)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve source root of %s: %w", svc.Name, err)
		}
		for _, rel := range svc.Catalog.Paths() {
			files = append(files, filepath.Join(src, filepath.FromSlash(rel)))
		}
	}
	return files, nil
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().IntVar(&workers, "workers", 1, "Files rewritten in parallel")
}
