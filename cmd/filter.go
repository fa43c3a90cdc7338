package cmd

import (
	"path/filepath"
	"strings"

	"github.com/entangled-go/entangled/internal/txn"
)

// filterActionsByArgs restricts tx's actions to those whose path matches
// one of args (by base name or full relative/absolute path). No args
// leaves the transaction untouched, which is the common case: tangle and
// stitch operate on the whole project by default, and accept specific
// files only to narrow an already-planned run.
func filterActionsByArgs(tx *txn.Transaction, args []string) {
	if len(args) == 0 || tx == nil {
		return
	}
	want := make(map[string]bool, len(args))
	for _, a := range args {
		want[a] = true
		want[filepath.Base(a)] = true
	}
	var kept []txn.Action
	for _, a := range tx.Actions {
		if want[a.Path] || want[filepath.Base(a.Path)] || want[strings.TrimSuffix(a.Path, filepath.Ext(a.Path))] {
			kept = append(kept, a)
		}
	}
	tx.Actions = kept
}
