package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/thingc24/carve/core/pipeline"
)

var (
	workers  int
	dryRun   bool
	showDiff bool
)

var extractCmd = &cobra.Command{
	Use:   "extract [service...]",
	Short: "Copy service files from the monolith and decouple their entities",
	Long: `Copies every cataloged file of the given services (all services when none
are named) from the monolith, then rewrites the copied entities. The rewrite
always follows the copy, since copying restores the monolith's text.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPipeline(cmd, args, pipeline.ModeExtract, pipeline.Options{Workers: workers})
	},
}

var syncCmd = &cobra.Command{
	Use:   "sync [service...]",
	Short: "Only copy service files from the monolith",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := runPipeline(cmd, args, pipeline.ModeSync, pipeline.Options{}); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Copied files hold monolith references until `carve rewrite` runs.")
		return nil
	},
}

var rewriteCmd = &cobra.Command{
	Use:   "rewrite [service...]",
	Short: "Decouple entities already present in the service trees",
	Long: `Runs the rewrite rules against cataloged files that already exist in the
service trees. Safe to repeat: rules whose replacement is in place are no-ops.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if showDiff && !dryRun {
			return fmt.Errorf("--diff requires --dry-run")
		}
		opts := pipeline.Options{Workers: workers, DryRun: dryRun, ShowDiff: showDiff}
		return runPipeline(cmd, args, pipeline.ModeRewrite, opts)
	},
}

func runPipeline(cmd *cobra.Command, args []string, mode pipeline.Mode, opts pipeline.Options) error {
	cfg, services, err := loadServices(args)
	if err != nil {
		return err
	}

	summary, err := pipeline.NewRunner(cfg, opts).Run(services, mode)
	if summary != nil {
		summary.Log(cmd.OutOrStdout())
	}
	if err != nil {
		return err
	}
	if failed := summary.Failed(); failed > 0 {
		return fmt.Errorf("%d files failed to refactor", failed)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(rewriteCmd)

	extractCmd.Flags().IntVar(&workers, "workers", 1, "Files rewritten in parallel")
	rewriteCmd.Flags().IntVar(&workers, "workers", 1, "Files rewritten in parallel")
	rewriteCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report what would change without writing")
	rewriteCmd.Flags().BoolVar(&showDiff, "diff", false, "Print a diff of each change (with --dry-run)")
}
