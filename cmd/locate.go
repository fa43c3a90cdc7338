package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	locateCmd := &cobra.Command{
		Use:   "locate FILE:LINE",
		Short: "Resolve a tangled output line back to its Markdown source position",
		Args:  cobra.ExactArgs(1),
		RunE:  runLocate,
	}
	rootCmd.AddCommand(locateCmd)
}

func runLocate(cmd *cobra.Command, args []string) error {
	file, line, err := parseFileLine(args[0])
	if err != nil {
		return err
	}

	ctx, err := newContext(cmd)
	if err != nil {
		return err
	}

	pos, ok := ctx.Locate(file, line)
	if !ok {
		return fmt.Errorf("locate: no source position for %s:%d", file, line)
	}

	fmt.Printf("%s:%d (block %s)\n", pos.SourceFile, pos.SourceLine, pos.BlockID)
	return nil
}

// parseFileLine splits "FILE:LINE", where FILE may itself contain colons
// (e.g. a Windows drive letter) — only the final colon-separated field is
// taken as the line number.
func parseFileLine(arg string) (string, int, error) {
	idx := strings.LastIndex(arg, ":")
	if idx < 0 {
		return "", 0, fmt.Errorf("locate: expected FILE:LINE, got %q", arg)
	}
	line, err := strconv.Atoi(arg[idx+1:])
	if err != nil {
		return "", 0, fmt.Errorf("locate: invalid line number in %q: %w", arg, err)
	}
	return arg[:idx], line, nil
}
