package txn

import (
	"fmt"

	"github.com/entangled-go/entangled/internal/filedb"
)

// Apply runs the two-phase commit: every action's guard is validated
// against the live filesystem first (unless Force), and only once all
// pass does it perform the writes, staged atomically. On a mid-apply
// failure the already-written actions are returned alongside the error —
// there is no global rollback, since file writes are not generally
// reversible, but the caller learns exactly what landed.
func Apply(tx *Transaction) ([]Action, error) {
	if tx.Empty() {
		return nil, nil
	}

	if !tx.Force {
		for _, a := range tx.Actions {
			if err := validateGuard(a); err != nil {
				return nil, err
			}
		}
	}

	completed := make([]Action, 0, len(tx.Actions))
	for _, a := range tx.Actions {
		switch a.Kind {
		case CreateFile, WriteFile, PatchDocument:
			if err := WriteFileAtomic(a.Path, a.NewContent); err != nil {
				return completed, fmt.Errorf("applying %s %s: %w", a.Kind, a.Path, err)
			}
		case DeleteFile:
			if err := RemoveFile(a.Path); err != nil {
				return completed, fmt.Errorf("applying %s %s: %w", a.Kind, a.Path, err)
			}
		}
		completed = append(completed, a)
	}
	return completed, nil
}

func validateGuard(a Action) error {
	content, exists, err := ReadFile(a.Path)
	if err != nil {
		return err
	}

	switch a.Kind {
	case CreateFile:
		if exists && filedb.Hash(content) != filedb.Hash(a.NewContent) {
			return &ConflictError{Path: a.Path}
		}
	case WriteFile, PatchDocument:
		if !exists {
			return &ConflictError{Path: a.Path}
		}
		h := filedb.Hash(content)
		if h != a.ExpectedHash && h != filedb.Hash(a.NewContent) {
			return &ConflictError{Path: a.Path}
		}
	case DeleteFile:
		if exists && filedb.Hash(content) != a.ExpectedHash {
			return &ConflictError{Path: a.Path}
		}
	}
	return nil
}
