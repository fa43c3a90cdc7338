package txn

import "fmt"

// ConflictError reports that a target's on-disk content diverges from both
// the FileDB's recorded hash and the newly computed content — an external
// edit the engine cannot reconcile without --force.
type ConflictError struct {
	Path string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict: %s was modified outside the engine", e.Path)
}
