package txn

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Describe returns one human-readable line per action, in apply order.
func Describe(tx *Transaction) []string {
	lines := make([]string, 0, len(tx.Actions))
	for _, a := range tx.Actions {
		lines = append(lines, fmt.Sprintf("%s %s", a.Kind, a.Path))
	}
	return lines
}

// Diffs returns a unified diff per action (old vs new content), in apply
// order. CreateFile actions diff against an empty file; DeleteFile
// actions diff against an empty result.
func Diffs(tx *Transaction) ([]string, error) {
	out := make([]string, 0, len(tx.Actions))
	for _, a := range tx.Actions {
		diff := difflib.UnifiedDiff{
			A:        difflib.SplitLines(a.OldContent),
			B:        difflib.SplitLines(a.NewContent),
			FromFile: a.Path,
			ToFile:   a.Path,
			Context:  3,
		}
		text, err := difflib.GetUnifiedDiffString(diff)
		if err != nil {
			return nil, fmt.Errorf("diffing %s: %w", a.Path, err)
		}
		if !strings.HasSuffix(text, "\n") && text != "" {
			text += "\n"
		}
		out = append(out, text)
	}
	return out, nil
}
