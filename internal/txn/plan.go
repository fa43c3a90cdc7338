package txn

import (
	"fmt"
	"sort"
	"strings"

	"github.com/entangled-go/entangled/internal/docparser"
	"github.com/entangled-go/entangled/internal/filedb"
	"github.com/entangled-go/entangled/internal/stitch"
	"github.com/entangled-go/entangled/internal/tangle"
)

// FileReader abstracts disk reads so planning can be exercised without a
// filesystem. ReadFile satisfies it directly.
type FileReader func(path string) (content string, exists bool, err error)

// PlanTangle compares each composed target against its FileDB entry and
// current disk content, producing Create/Write actions for what changed
// and Delete actions for tracked targets no longer produced. A target
// whose disk content diverges from both the FileDB hash and the new
// content is a conflict, reported as *ConflictError unless force is set.
func PlanTangle(results []tangle.Result, db *filedb.DB, read FileReader, force bool) (*Transaction, error) {
	tx := &Transaction{Force: force}
	expected := make(map[string]bool, len(results))

	for _, res := range results {
		expected[res.Target] = true

		disk, exists, err := read(res.Target)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", res.Target, err)
		}
		newHash := filedb.Hash(res.Text)

		entry, tracked := db.Get(res.Target)
		dbHash := ""
		if tracked {
			dbHash = entry.Hash
		}

		switch {
		case exists && filedb.Hash(disk) == newHash:
			// Already matches — no-op.
		case !exists:
			tx.Actions = append(tx.Actions, Action{Kind: CreateFile, Path: res.Target, NewContent: res.Text, ExpectedHash: dbHash})
		case tracked && filedb.Hash(disk) == dbHash:
			tx.Actions = append(tx.Actions, Action{Kind: WriteFile, Path: res.Target, OldContent: disk, NewContent: res.Text, ExpectedHash: dbHash})
		default:
			if !force {
				return nil, &ConflictError{Path: res.Target}
			}
			tx.Actions = append(tx.Actions, Action{Kind: WriteFile, Path: res.Target, OldContent: disk, NewContent: res.Text, ExpectedHash: dbHash})
		}
	}

	for _, p := range db.Paths() {
		entry, _ := db.Get(p)
		if entry.Owner == nil || expected[p] {
			// Not a tangle target (no Owner recorded), or still produced.
			continue
		}
		disk, exists, err := read(p)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", p, err)
		}
		if !exists {
			continue
		}
		if filedb.Hash(disk) != entry.Hash && !force {
			return nil, &ConflictError{Path: p}
		}
		tx.Actions = append(tx.Actions, Action{Kind: DeleteFile, Path: p, OldContent: disk, ExpectedHash: entry.Hash})
	}

	sortActions(tx.Actions)
	return tx, nil
}

// PlanStitch turns a set of document patches into PatchDocument actions,
// one per source Markdown file, applying all of a file's patches
// highest-line-first before planning so earlier patches' line numbers
// stay valid.
func PlanStitch(patches []stitch.Patch, db *filedb.DB, read FileReader, force bool) (*Transaction, error) {
	byFile := make(map[string][]stitch.Patch)
	var order []string
	for _, p := range patches {
		if _, ok := byFile[p.File]; !ok {
			order = append(order, p.File)
		}
		byFile[p.File] = append(byFile[p.File], p)
	}
	sort.Strings(order)

	tx := &Transaction{Force: force}
	for _, file := range order {
		ps := append([]stitch.Patch(nil), byFile[file]...)
		sort.SliceStable(ps, func(i, j int) bool { return ps[i].StartLine > ps[j].StartLine })

		disk, exists, err := read(file)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", file, err)
		}
		if !exists {
			return nil, fmt.Errorf("patching %s: source file is missing", file)
		}

		entry, tracked := db.Get(file)
		if tracked && filedb.Hash(disk) != entry.Hash && !force {
			return nil, &ConflictError{Path: file}
		}

		newContent := applyPatches(disk, ps)
		if newContent == disk {
			continue
		}
		expectedHash := ""
		if tracked {
			expectedHash = entry.Hash
		}
		tx.Actions = append(tx.Actions, Action{Kind: PatchDocument, Path: file, OldContent: disk, NewContent: newContent, ExpectedHash: expectedHash})
	}

	sortActions(tx.Actions)
	return tx, nil
}

// applyPatches replaces each patch's line range in content. ps must
// already be sorted highest-StartLine-first.
func applyPatches(content string, ps []stitch.Patch) string {
	lines := docparser.SplitLines(content)
	for _, p := range ps {
		start := p.StartLine - 1
		end := p.EndLine
		if start < 0 {
			start = 0
		}
		if end > len(lines) {
			end = len(lines)
		}
		if start > end {
			start = end
		}
		merged := append([]string{}, lines[:start]...)
		merged = append(merged, p.NewSource...)
		merged = append(merged, lines[end:]...)
		lines = merged
	}
	text := strings.Join(lines, "\n")
	if len(lines) > 0 {
		text += "\n"
	}
	return text
}

func sortActions(actions []Action) {
	order := map[Kind]int{CreateFile: 0, WriteFile: 1, DeleteFile: 2, PatchDocument: 3}
	sort.SliceStable(actions, func(i, j int) bool {
		if order[actions[i].Kind] != order[actions[j].Kind] {
			return order[actions[i].Kind] < order[actions[j].Kind]
		}
		return actions[i].Path < actions[j].Path
	})
}
