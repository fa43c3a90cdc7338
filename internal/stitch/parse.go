// Package stitch recognizes the annotation markers a standard-mode tangle
// emits and turns an edited target file back into per-block source updates,
// the reverse leg of the tangle in package tangle.
package stitch

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/entangled-go/entangled/internal/config"
	"github.com/entangled-go/entangled/internal/docparser"
)

var (
	beginRe = regexp.MustCompile(`^(\s*)\S+\s+~/~ begin <<([^<>\s]+)>>\[(\d+)\]\s*$`)
	endRe   = regexp.MustCompile(`^(\s*)\S+\s+~/~ end\s*$`)
)

// BlockUpdate is one block's reconstructed source, as recovered from a
// begin/end marker pair. SrcLine is the marker's own SRC_LINE — the
// originating block's opening-fence line — carried so a same-named block
// can be matched back to the one physical occurrence it came from rather
// than any other block sharing ID.
type BlockUpdate struct {
	ID        string
	SrcLine   int
	NewSource []string
}

// frame tracks one open begin marker while scanning.
type frame struct {
	id      string
	srcLine int
	indent  string
	lines   []string
	// run holds the id[SRC_LINE] keys of the children folded into the
	// placeholder last appended to lines; nil once a content line follows.
	run map[string]bool
}

// RequireStandardAnnotation refuses to stitch a target configured for any
// mode other than standard — naked mode emits no markers to recover, and
// supplemental mode keeps its markers in a sidecar rather than the body.
func RequireStandardAnnotation(cfg config.Config) error {
	if cfg.Annotation != config.AnnotationStandard {
		return &StitchError{Msg: "cannot stitch a target tangled in " + string(cfg.Annotation) + " annotation mode"}
	}
	return nil
}

// Parse scans a target file's text for nested begin/end marker pairs and
// returns one BlockUpdate per block, in the order their end markers close,
// so a nested block's update precedes that of the block enclosing it.
func Parse(text, path string) ([]BlockUpdate, error) {
	lines := docparser.SplitLines(text)

	var stack []frame
	var updates []BlockUpdate

	for i, line := range lines {
		lineNo := i + 1

		if m := beginRe.FindStringSubmatch(line); m != nil {
			indent, id := m[1], m[2]
			srcLine, err := strconv.Atoi(m[3])
			if err != nil {
				return nil, &StitchError{File: path, Line: lineNo, Msg: "malformed SRC_LINE in begin marker"}
			}
			if len(stack) > 0 {
				// Same-named blocks concatenated under one <<name>> arrive
				// as adjacent begin markers; fold them into one placeholder
				// unless this block already appeared in the current run.
				top := &stack[len(stack)-1]
				ref := strings.TrimPrefix(indent, top.indent) + "<<" + refName(id) + ">>"
				key := id + "[" + m[3] + "]"
				n := len(top.lines)
				if top.run == nil || top.run[key] || n == 0 || top.lines[n-1] != ref {
					top.lines = append(top.lines, ref)
					top.run = make(map[string]bool)
				}
				top.run[key] = true
			}
			stack = append(stack, frame{id: id, srcLine: srcLine, indent: indent})
			continue
		}

		if m := endRe.FindStringSubmatch(line); m != nil {
			if len(stack) == 0 {
				return nil, &StitchError{File: path, Line: lineNo, Msg: "end marker with no matching begin"}
			}
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			updates = append(updates, BlockUpdate{ID: top.id, SrcLine: top.srcLine, NewSource: top.lines})
			continue
		}

		if len(stack) == 0 {
			// Lines outside any marker pair belong to no block; a
			// well-formed standard-mode target has none once the file's
			// own top-level block is open, but a leading hook-inserted
			// line (e.g. a moved shebang) is expected here and ignored.
			continue
		}

		top := &stack[len(stack)-1]
		text := strings.TrimPrefix(line, top.indent)
		if line == "" {
			text = ""
		}
		top.lines = append(top.lines, text)
		top.run = nil
	}

	if len(stack) > 0 {
		return nil, &StitchError{File: path, Line: len(lines), Msg: "unterminated begin marker for " + stack[len(stack)-1].id}
	}

	return updates, nil
}

// refName recovers the referenceable name from a namespaced block id
// ("file:name" -> "name"; a non-namespaced id is its own name).
func refName(id string) string {
	if idx := strings.LastIndex(id, ":"); idx >= 0 {
		return id[idx+1:]
	}
	return id
}
