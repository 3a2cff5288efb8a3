package cmd

import (
	"github.com/spf13/cobra"
	"github.com/thingc24/carve/core/pipeline"
)

var planCmd = &cobra.Command{
	Use:   "plan [service...]",
	Short: "Show the catalog and rewrite rules without changing anything",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, services, err := loadServices(args)
		if err != nil {
			return err
		}
		ov, err := pipeline.Describe(cfg, services)
		if err != nil {
			return err
		}
		return ov.Render(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(planCmd)
}
