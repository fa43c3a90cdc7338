package cmd

import (
	"github.com/spf13/cobra"
)

func init() {
	syncCmd := &cobra.Command{
		Use:   "sync",
		Short: "Reconcile Markdown sources and tangled targets in both directions",
		Args:  cobra.NoArgs,
		RunE:  runSync,
	}
	syncCmd.Flags().BoolP("force", "f", false, "overwrite files that diverged from the last recorded state")
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, _ []string) error {
	force, _ := cmd.Flags().GetBool("force")
	ui := printer()

	ctx, err := newContext(cmd)
	if err != nil {
		return err
	}

	result, err := ctx.Sync(force)
	if err != nil {
		return err
	}
	ui.Applied(len(result.StitchActions), len(result.StitchActions))
	ui.Applied(len(result.TangleActions), len(result.TangleActions))
	return ctx.SaveDB()
}
