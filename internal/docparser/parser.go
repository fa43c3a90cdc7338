// Package docparser recognizes fenced code blocks across the entangled-rs,
// pandoc, quarto, and knitr dialects and turns a Markdown file into a
// block.Document.
package docparser

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/entangled-go/entangled/internal/block"
	"github.com/entangled-go/entangled/internal/config"
)

// ParseError reports a malformed fence, header, or dialect at a specific
// location.
type ParseError struct {
	File string
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Msg)
}

var (
	fenceOpenRe = regexp.MustCompile("^(`{3,})(.*)$")
	refLineRe   = regexp.MustCompile(`^(\s*)<<([^<>\s]+)>>\s*$`)
	quartoOptRe = regexp.MustCompile(`^\s*#\|`)
)

// Parse parses Markdown text from a single file into a Document. Nested
// fences are not recognized — a fence opens at the first matching
// backtick-count line in column 1 and closes at the next line with the same
// backtick count and nothing else on it.
func Parse(text, path string, cfg config.Config) (*block.Document, error) {
	lines := splitLines(text)
	doc := &block.Document{Path: path}

	var proseBuf []string
	flushProse := func() {
		if len(proseBuf) == 0 {
			return
		}
		doc.Segments = append(doc.Segments, block.Segment{Prose: strings.Join(proseBuf, "\n")})
		proseBuf = nil
	}

	anonCounter := 0
	i := 0
	for i < len(lines) {
		line := lines[i]
		m := fenceOpenRe.FindStringSubmatch(line)
		if m == nil {
			proseBuf = append(proseBuf, line)
			i++
			continue
		}
		fence := m[1]
		header := strings.TrimSpace(m[2])
		startLine := i + 1 // 1-based

		// Find the matching close: same backtick run, nothing else on the line.
		closeIdx := -1
		for j := i + 1; j < len(lines); j++ {
			if strings.TrimSpace(lines[j]) == fence {
				closeIdx = j
				break
			}
		}
		if closeIdx == -1 {
			return nil, &ParseError{File: path, Line: startLine, Msg: "unterminated fence"}
		}

		bodyLines := append([]string(nil), lines[i+1:closeIdx]...)

		lang, name, attrs, order, headerErr := parseHeader(cfg.Style, header)
		if headerErr != nil {
			return nil, &ParseError{File: path, Line: startLine, Msg: headerErr.Error()}
		}

		if cfg.Style == config.StyleQuarto && cfg.StripQuartoOptions {
			bodyLines = stripQuartoOptions(bodyLines)
		}

		id := name
		if name == "" {
			anonCounter++
			id = fmt.Sprintf("~anon~%s:%d", path, startLine)
		} else if cfg.NamespaceDefault == config.NamespaceFile {
			id = namespacedID(path, name)
		}

		cb := &block.CodeBlock{
			ID:         id,
			Name:       name,
			Language:   lang,
			Source:     bodyLines,
			Target:     attrs["file"],
			Attributes: attrs,
			AttrOrder:  order,
			Fence:      fence,
			RawHeader:  m[2],
			Origin: block.Origin{
				File:      path,
				StartLine: startLine,
				EndLine:   closeIdx + 1,
			},
		}

		flushProse()
		doc.Segments = append(doc.Segments, block.Segment{Block: cb})
		i = closeIdx + 1
	}
	flushProse()
	return doc, nil
}

// namespacedID prefixes a block name with its source file's basename
// (without extension), per Config.NamespaceDefault == "file".
func namespacedID(path, name string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return base + ":" + name
}

// stripQuartoOptions removes lines matching ^\s*#\| from a Quarto block's
// body before further processing.
func stripQuartoOptions(lines []string) []string {
	out := lines[:0:0]
	for _, l := range lines {
		if quartoOptRe.MatchString(l) {
			continue
		}
		out = append(out, l)
	}
	return out
}

// FindReferences scans a block's source lines for <<name>> placeholders that
// occupy a full line (with surrounding indentation).
func FindReferences(source []string) []block.Reference {
	var refs []block.Reference
	for i, l := range source {
		m := refLineRe.FindStringSubmatch(l)
		if m == nil {
			continue
		}
		refs = append(refs, block.Reference{Indent: m[1], Name: m[2], Line: i})
	}
	return refs
}

// SplitLines normalizes line endings and splits text the same way Parse
// does, for callers (e.g. the stitcher) that need to walk raw lines with
// identical semantics.
func SplitLines(text string) []string {
	return splitLines(text)
}

func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	// Preserve a final empty element only if the text does not end in \n,
	// so round-tripping with strings.Join("\n", ...) stays stable.
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
