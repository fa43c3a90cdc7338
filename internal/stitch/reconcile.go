package stitch

import (
	"fmt"
	"sort"

	"github.com/entangled-go/entangled/internal/block"
	"github.com/entangled-go/entangled/internal/config"
	"github.com/entangled-go/entangled/internal/docparser"
)

// blockRef pairs a block id with its opening-fence line — the same
// (ID, SRC_LINE) pair a marker carries — so reconciliation can tell apart
// distinct blocks that share an id (the same-named-blocks composition
// case) rather than collapsing them onto whichever survives in byID.
type blockRef struct {
	id        string
	startLine int
}

// Patch replaces a block's source lines in the Markdown file it originated
// from. StartLine/EndLine are 1-based and inclusive, spanning the block's
// body (excluding the fence lines themselves).
type Patch struct {
	File      string
	StartLine int
	EndLine   int
	NewSource []string
}

// Reconcile compares a stitched target's recovered BlockUpdates against the
// current document model and returns the patches needed to bring the
// Markdown back in sync. docs/idx/cfg must be the same document set and
// config the target was originally tangled from, so reachability resolves
// references exactly the way the tangler did.
//
// Every block reachable from target's root(s) must appear among updates —
// a reachable id missing from the recovered markers means the target file
// was truncated, reported as *MissingBlockError.
func Reconcile(docs []*block.Document, idx *block.BlockIndex, cfg config.Config, target string, updates []BlockUpdate) ([]Patch, error) {
	var roots []*block.CodeBlock
	for _, doc := range docs {
		for _, b := range doc.Blocks() {
			if b.Target == target {
				roots = append(roots, b)
			}
		}
	}

	reachable := reachableIDs(roots, idx, cfg)

	seen := make(map[blockRef]bool, len(updates))
	var patches []Patch
	for _, u := range updates {
		ref := blockRef{u.ID, u.SrcLine}
		seen[ref] = true
		b, ok := idx.ByID(u.ID, u.SrcLine)
		if !ok {
			return nil, &StitchError{Msg: fmt.Sprintf("marker references unknown block id %s[%d]", u.ID, u.SrcLine)}
		}
		if linesEqual(b.Source, u.NewSource) {
			continue
		}
		patches = append(patches, Patch{
			File:      b.Origin.File,
			StartLine: b.Origin.StartLine + 1,
			EndLine:   b.Origin.EndLine - 1,
			NewSource: u.NewSource,
		})
	}

	for ref := range reachable {
		if !seen[ref] {
			return nil, &MissingBlockError{ID: ref.id, StartLine: ref.startLine}
		}
	}

	sort.SliceStable(patches, func(i, j int) bool {
		if patches[i].File != patches[j].File {
			return patches[i].File < patches[j].File
		}
		return patches[i].StartLine > patches[j].StartLine
	})
	return patches, nil
}

func reachableIDs(roots []*block.CodeBlock, idx *block.BlockIndex, cfg config.Config) map[blockRef]bool {
	seen := make(map[blockRef]bool)
	var visit func(b *block.CodeBlock)
	visit = func(b *block.CodeBlock) {
		ref := blockRef{b.ID, b.Origin.StartLine}
		if seen[ref] {
			return
		}
		seen[ref] = true
		for _, r := range docparser.FindReferences(b.Source) {
			for _, c := range lookupRef(idx, cfg, b.Origin.File, r.Name) {
				visit(c)
			}
		}
	}
	for _, r := range roots {
		visit(r)
	}
	return seen
}

// lookupRef mirrors the tangler's reference resolution: under file
// namespacing a local definition shadows same-named blocks in other
// files; under namespace "none" resolution is global.
func lookupRef(idx *block.BlockIndex, cfg config.Config, from, name string) []*block.CodeBlock {
	if cfg.NamespaceDefault == config.NamespaceFile {
		return idx.LookupFrom(from, name)
	}
	return idx.Lookup(name)
}

func linesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
