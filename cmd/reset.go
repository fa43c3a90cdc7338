package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Clear the FileDB, forgetting every tracked file",
		Args:  cobra.NoArgs,
		RunE:  runReset,
	}
	resetCmd.Flags().Bool("delete-files", false, "also delete every tracked tangle target from disk")
	resetCmd.Flags().BoolP("force", "f", false, "skip the confirmation prompt")
	rootCmd.AddCommand(resetCmd)
}

func runReset(cmd *cobra.Command, _ []string) error {
	deleteFiles, _ := cmd.Flags().GetBool("delete-files")
	force, _ := cmd.Flags().GetBool("force")
	ui := printer()

	ctx, err := newContext(cmd)
	if err != nil {
		return err
	}

	if deleteFiles && !force {
		fmt.Print("This will delete every tracked tangle target. Continue? [y/N] ")
		var answer string
		fmt.Scanln(&answer)
		if answer != "y" && answer != "Y" {
			ui.Info("reset cancelled")
			return nil
		}
	}

	removed, err := ctx.Reset(deleteFiles)
	if err != nil {
		return err
	}
	for _, p := range removed {
		ui.Info("removed " + p)
	}
	return ctx.SaveDB()
}
