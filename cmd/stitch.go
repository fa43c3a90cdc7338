package cmd

import (
	"github.com/spf13/cobra"

	"github.com/entangled-go/entangled/internal/txn"
)

func init() {
	stitchCmd := &cobra.Command{
		Use:   "stitch [files...]",
		Short: "Patch Markdown sources from edited source files",
		Args:  cobra.ArbitraryArgs,
		RunE:  runStitch,
	}
	addForceDryRunFlags(stitchCmd)
	rootCmd.AddCommand(stitchCmd)
}

func runStitch(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	ui := printer()

	ctx, err := newContext(cmd)
	if err != nil {
		return err
	}

	plan, err := ctx.PlanStitch(force)
	if err != nil {
		if cerr, ok := err.(*txn.ConflictError); ok {
			ui.Conflict(cerr.Path)
		}
		return err
	}
	filterActionsByArgs(plan.Tx, args)

	ui.Plan(txn.Describe(plan.Tx))
	if dryRun {
		diffs, derr := txn.Diffs(plan.Tx)
		if derr != nil {
			return derr
		}
		ui.Diffs(diffs)
		return nil
	}

	completed, err := ctx.ApplyStitch(plan)
	ui.Applied(len(completed), len(plan.Tx.Actions))
	if err != nil {
		return err
	}
	return ctx.SaveDB()
}
