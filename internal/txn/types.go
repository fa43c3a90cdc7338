// Package txn plans and applies the filesystem/document changes a tangle
// or stitch run needs, as a single ordered Transaction: guard checks,
// conflict detection, and atomic two-phase apply.
package txn

// Kind identifies what an Action does.
type Kind int

const (
	CreateFile Kind = iota
	WriteFile
	DeleteFile
	PatchDocument
)

func (k Kind) String() string {
	switch k {
	case CreateFile:
		return "create"
	case WriteFile:
		return "write"
	case DeleteFile:
		return "delete"
	case PatchDocument:
		return "patch"
	default:
		return "unknown"
	}
}

// Action is one planned filesystem or document change. Fields not
// meaningful for a given Kind are left zero: CreateFile has no OldContent,
// DeleteFile has no NewContent.
type Action struct {
	Kind Kind
	Path string

	// ExpectedHash is the FileDB-recorded hash this action's guard checks
	// the live on-disk content against ("" for a never-tracked path).
	ExpectedHash string

	OldContent string
	NewContent string
}

// Transaction is an ordered, already-planned list of Actions. Force
// relaxes the apply-time guard so a diverged file is overwritten/deleted
// instead of aborting with ConflictError.
type Transaction struct {
	Actions []Action
	Force   bool
}

// Empty reports whether the transaction has nothing to do.
func (tx *Transaction) Empty() bool {
	return tx == nil || len(tx.Actions) == 0
}
