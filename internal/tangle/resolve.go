// Package tangle composes root code blocks and their <<name>> references
// into target file contents: a depth-first walk over the block-reference
// graph whose result is rendered text plus a line map.
//
// Annotation markers use the form
//
//	<comment> ~/~ begin <<BLOCK_ID>>[SRC_LINE]
//	...
//	<comment> ~/~ end
//
// chosen over the plain "begin <ID> LINE" grammar because it delimits the
// block id and source line explicitly, and because the stitcher (package
// stitch) parses exactly this grammar (an id containing whitespace is not
// recognized).
package tangle

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/entangled-go/entangled/internal/block"
	"github.com/entangled-go/entangled/internal/config"
	"github.com/entangled-go/entangled/internal/docparser"
	"github.com/entangled-go/entangled/internal/lang"
	"github.com/entangled-go/entangled/internal/refgraph"
)

// ResolveAll composes every tangle target found across docs. Documents must
// already be sorted by path; targets are discovered in the order their root
// blocks first appear once documents are walked in that order.
func ResolveAll(docs []*block.Document, idx *block.BlockIndex, cfg config.Config, table *lang.Table) ([]Result, error) {
	checker := refgraph.NewChecker(edgesFor(idx, cfg))

	var targets []string
	seen := make(map[string]bool)
	for _, doc := range docs {
		for _, b := range doc.Blocks() {
			if b.Target == "" || seen[b.Target] {
				continue
			}
			seen[b.Target] = true
			targets = append(targets, b.Target)
		}
	}

	results := make([]Result, 0, len(targets))
	for _, target := range targets {
		res, err := resolveTarget(target, docs, idx, checker, cfg, table)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}

// lookupRef resolves a <<name>> reference written in file from. Under file
// namespacing a local definition shadows same-named blocks in other files;
// under namespace "none" every same-named block concatenates in global
// document order.
func lookupRef(idx *block.BlockIndex, cfg config.Config, from, name string) []*block.CodeBlock {
	if cfg.NamespaceDefault == config.NamespaceFile {
		return idx.LookupFrom(from, name)
	}
	return idx.Lookup(name)
}

// Cycle-checker nodes are (referencing file, name) pairs rather than bare
// names, since local shadowing can resolve the same name differently
// depending on which file the reference is written in.
func refKey(from, name string) string {
	return from + "\x00" + name
}

func splitRefKey(key string) (from, name string) {
	i := strings.IndexByte(key, 0)
	if i < 0 {
		return "", key
	}
	return key[:i], key[i+1:]
}

// edgesFor builds the refgraph.Edges closure over a block index: a
// reference's edges are the union of references made by every block it
// resolves to, since those blocks concatenate when expanded.
func edgesFor(idx *block.BlockIndex, cfg config.Config) refgraph.Edges {
	return func(key string) ([]string, bool) {
		from, name := splitRefKey(key)
		blocks := lookupRef(idx, cfg, from, name)
		if len(blocks) == 0 {
			return nil, false
		}
		var refs []string
		for _, b := range blocks {
			for _, r := range docparser.FindReferences(b.Source) {
				refs = append(refs, refKey(b.Origin.File, r.Name))
			}
		}
		return refs, true
	}
}

func resolveTarget(target string, docs []*block.Document, idx *block.BlockIndex, checker *refgraph.Checker, cfg config.Config, table *lang.Table) (Result, error) {
	var roots []*block.CodeBlock
	for _, doc := range docs {
		for _, b := range doc.Blocks() {
			if b.Target == target {
				roots = append(roots, b)
			}
		}
	}
	// Root blocks sharing a target compose, in document order, as long as
	// they agree on language — mixed languages would emit markers in
	// mixed comment syntaxes into one file.
	sort.SliceStable(roots, func(i, j int) bool {
		if roots[i].Origin.File != roots[j].Origin.File {
			return roots[i].Origin.File < roots[j].Origin.File
		}
		return roots[i].Origin.StartLine < roots[j].Origin.StartLine
	})
	for _, r := range roots[1:] {
		if r.Language != roots[0].Language {
			sources := make([]string, 0, len(roots))
			for _, rr := range roots {
				sources = append(sources, fmt.Sprintf("%s:%d", rr.Origin.File, rr.Origin.StartLine))
			}
			return Result{}, &DuplicateTargetError{Path: target, Sources: sources}
		}
	}

	for _, r := range roots {
		for _, ref := range docparser.FindReferences(r.Source) {
			if err := checker.Visit(refKey(r.Origin.File, ref.Name)); err != nil {
				return Result{}, wrapGraphErr(err)
			}
		}
	}

	var lines []OutputLine
	for _, r := range roots {
		sub, err := expandBlock(r, "", idx, cfg, table)
		if err != nil {
			return Result{}, err
		}
		lines = append(lines, sub...)
	}

	text, lineMap := render(lines)
	outTarget := target
	if cfg.OutputDir != "" {
		outTarget = filepath.Join(cfg.OutputDir, target)
	}
	return Result{Target: outTarget, RawTarget: target, Text: text, LineMap: lineMap}, nil
}

// expandBlock recursively expands b's source, substituting each <<name>>
// reference line with the indent-prefixed expansion of every block
// registered under that name, each individually wrapped in its own
// begin/end annotation (nested, when annotation mode is standard and the
// block's language has a known comment token). Blocks with no content
// contribute nothing — not even annotations.
func expandBlock(b *block.CodeBlock, indent string, idx *block.BlockIndex, cfg config.Config, table *lang.Table) ([]OutputLine, error) {
	if b.IsEmpty() {
		return nil, nil
	}

	comment := table.CommentFor(b.Language)
	annotate := cfg.Annotation == config.AnnotationStandard && comment != ""

	refs := docparser.FindReferences(b.Source)
	refByLine := make(map[int]block.Reference, len(refs))
	for _, r := range refs {
		refByLine[r.Line] = r
	}

	var out []OutputLine
	if annotate {
		out = append(out, OutputLine{Text: indent + comment + " ~/~ begin <<" + b.ID + ">>[" + strconv.Itoa(b.Origin.StartLine) + "]"})
	}

	for i, line := range b.Source {
		if ref, ok := refByLine[i]; ok {
			contributing := lookupRef(idx, cfg, b.Origin.File, ref.Name)
			for _, c := range contributing {
				sub, err := expandBlock(c, indent+ref.Indent, idx, cfg, table)
				if err != nil {
					return nil, err
				}
				out = append(out, sub...)
			}
			continue
		}
		text := line
		if text != "" {
			text = indent + line
		}
		out = append(out, OutputLine{
			Text: text,
			Src: &SourceRef{
				File:    b.Origin.File,
				Line:    b.Origin.StartLine + 1 + i,
				BlockID: b.ID,
			},
		})
	}

	if annotate {
		out = append(out, OutputLine{Text: indent + comment + " ~/~ end"})
	}
	return out, nil
}

func render(lines []OutputLine) (string, []LineMapEntry) {
	texts := make([]string, len(lines))
	lineMap := make([]LineMapEntry, len(lines))
	for i, l := range lines {
		texts[i] = l.Text
		lineMap[i] = LineMapEntry{Line: i + 1, Src: l.Src}
	}
	body := strings.Join(texts, "\n")
	if len(texts) > 0 {
		body += "\n"
	}
	return body, lineMap
}

func wrapGraphErr(err error) error {
	var ce *refgraph.CycleError
	if errors.As(err, &ce) {
		_, name := splitRefKey(ce.Name)
		path := make([]string, len(ce.Path))
		for i, k := range ce.Path {
			_, path[i] = splitRefKey(k)
		}
		return &CycleError{Name: name, Path: path}
	}
	var ue *refgraph.UnknownRefError
	if errors.As(err, &ue) {
		_, name := splitRefKey(ue.Name)
		return &UnknownRefError{Name: name}
	}
	return err
}
