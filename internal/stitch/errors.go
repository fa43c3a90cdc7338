package stitch

import "fmt"

// StitchError reports a malformed marker stream: an orphan end, an
// unterminated begin, or an attempt to stitch a naked-mode target.
type StitchError struct {
	File string
	Line int
	Msg  string
}

func (e *StitchError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.File, e.Msg)
}

// MissingBlockError reports a block reachable from a root that the target
// file no longer contains a marker pair for — the target was truncated.
// StartLine disambiguates ID among any other blocks sharing it.
type MissingBlockError struct {
	ID        string
	StartLine int
}

func (e *MissingBlockError) Error() string {
	return fmt.Sprintf("block %q (source line %d) is missing from the stitched target", e.ID, e.StartLine)
}
