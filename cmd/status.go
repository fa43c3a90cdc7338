package cmd

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/entangled-go/entangled/internal/filedb"
)

func init() {
	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Report each tracked file's classification against disk",
		Args:  cobra.NoArgs,
		RunE:  runStatus,
	}
	statusCmd.Flags().Bool("json", false, "print machine-readable JSON instead of the ANSI summary")
	statusCmd.Flags().BoolP("verbose", "v", false, "include untracked discoverable targets (Status already does this)")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")

	ctx, err := newContext(cmd)
	if err != nil {
		return err
	}

	classified, err := ctx.Status()
	if err != nil {
		return err
	}

	if asJSON {
		out := make(map[string]string, len(classified))
		for path, st := range classified {
			out[path] = statusString(st)
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	printer().Status(classified)
	return nil
}

func statusString(s filedb.Status) string {
	switch s {
	case filedb.Unchanged:
		return "unchanged"
	case filedb.ModifiedExternally:
		return "modified"
	case filedb.Missing:
		return "missing"
	case filedb.Untracked:
		return "untracked"
	default:
		return "unknown"
	}
}
