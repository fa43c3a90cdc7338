package cmd

import (
	"github.com/spf13/cobra"

	"github.com/entangled-go/entangled/internal/engine"
	"github.com/entangled-go/entangled/internal/uiprint"
)

// resolveDir returns the --directory flag value, defaulting to ".".
func resolveDir(cmd *cobra.Command) string {
	dir, _ := cmd.Flags().GetString("directory")
	if dir == "" {
		dir = "."
	}
	return dir
}

// newContext opens an engine.Context rooted at the resolved --directory.
func newContext(cmd *cobra.Command) (*engine.Context, error) {
	return engine.New(resolveDir(cmd))
}

// printer returns the shared ANSI status printer every subcommand reports
// through.
func printer() uiprint.UI {
	return uiprint.New()
}

// addForceDryRunFlags adds the -f/--force and -n/--dry-run flags shared by
// tangle and stitch.
func addForceDryRunFlags(c *cobra.Command) {
	c.Flags().BoolP("force", "f", false, "overwrite files that diverged from the last recorded state")
	c.Flags().BoolP("dry-run", "n", false, "show what would change without writing anything")
}
