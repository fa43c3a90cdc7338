// Package locate answers "what source line produced this tangled line"
// from the FileDB's persisted line map, without re-parsing or re-tangling
// anything.
package locate

import "github.com/entangled-go/entangled/internal/filedb"

// Position is the originating location of one tangled output line.
type Position struct {
	SourceFile string
	SourceLine int
	BlockID    string
}

// Locate returns the source position for targetPath's given 1-based output
// line, or false if the target isn't tracked or the line is an annotation
// marker (which carries no source line map entry).
func Locate(db *filedb.DB, targetPath string, line int) (Position, bool) {
	entry, ok := db.Get(targetPath)
	if !ok {
		return Position{}, false
	}
	for _, lm := range entry.LineMap {
		if lm.Line == line {
			return Position{SourceFile: lm.Src, SourceLine: lm.SrcLine, BlockID: lm.Block}, true
		}
	}
	return Position{}, false
}
