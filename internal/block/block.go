// Package block defines the typed document model shared by the parser,
// tangler, and stitcher: code blocks, references, and the ordered document
// that owns them.
package block

import "strings"

// Origin locates a block within the Markdown file it came from.
type Origin struct {
	File      string // path relative to the base directory
	StartLine int    // 1-based line of the opening fence
	EndLine   int    // 1-based line of the closing fence
}

// CodeBlock is a single fenced block: either a named, referenceable fragment
// or a root block that targets an output file.
type CodeBlock struct {
	ID         string            // stable id, namespaced per Config.NamespaceDefault
	Name       string            // logical name as written in the header, "" if anonymous
	Language   string            // e.g. "python", "rust"
	Source     []string          // raw lines, newline-joined on demand
	Target     string            // output path if this is a root block, else ""
	Attributes map[string]string // ordered-insertion map of recognized header keys
	AttrOrder  []string          // key order, since Go maps don't preserve it
	Fence      string            // the literal backtick run that opened the block
	RawHeader  string            // header text exactly as written after the fence
	Origin     Origin
}

// Text returns the block's source, newline-joined.
func (b CodeBlock) Text() string {
	return strings.Join(b.Source, "\n")
}

// IsEmpty reports whether the block has no content lines.
func (b CodeBlock) IsEmpty() bool {
	return len(b.Source) == 0
}

// LineCount returns the number of raw source lines.
func (b CodeBlock) LineCount() int {
	return len(b.Source)
}

// IsRoot reports whether this block targets an output file.
func (b CodeBlock) IsRoot() bool {
	return b.Target != ""
}

// IsAnonymous reports whether the block has no name and so cannot be
// referenced by <<name>>.
func (b CodeBlock) IsAnonymous() bool {
	return b.Name == ""
}

// Reference is a <<name>> placeholder found on its own line inside a block's
// source, together with the indentation it must prefix onto each expanded
// line.
type Reference struct {
	Name   string
	Indent string
	Line   int // index into the owning block's Source slice
}

// Segment is one element of a Document's ordered content: either verbatim
// prose or a fenced code block. Document reassembly walks Segments in order.
type Segment struct {
	Prose string     // set when Block is the zero value
	Block *CodeBlock // non-nil for a fenced block segment
}

// IsProse reports whether this segment is a verbatim prose run.
func (s Segment) IsProse() bool {
	return s.Block == nil
}

// Document is an ordered sequence of prose segments and code blocks parsed
// from a single Markdown file.
type Document struct {
	Path     string
	Segments []Segment
}

// Serialize reassembles the document's Markdown text: prose runs and
// fenced blocks in order, ending in a single trailing newline. For a
// freshly parsed document the result reproduces the input byte-for-byte
// (modulo trailing-newline normalization).
func (d *Document) Serialize() string {
	var lines []string
	for _, s := range d.Segments {
		if s.Block == nil {
			lines = append(lines, strings.Split(s.Prose, "\n")...)
			continue
		}
		b := s.Block
		fence := b.Fence
		if fence == "" {
			fence = "```"
		}
		lines = append(lines, fence+b.RawHeader)
		lines = append(lines, b.Source...)
		lines = append(lines, fence)
	}
	text := strings.Join(lines, "\n")
	if len(lines) > 0 {
		text += "\n"
	}
	return text
}

// Blocks returns the code blocks in document order.
func (d *Document) Blocks() []*CodeBlock {
	var out []*CodeBlock
	for i := range d.Segments {
		if d.Segments[i].Block != nil {
			out = append(out, d.Segments[i].Block)
		}
	}
	return out
}

// Len returns the number of code blocks in the document.
func (d *Document) Len() int {
	return len(d.Blocks())
}

// GetByName returns the blocks in this document whose Name matches, in
// document order.
func (d *Document) GetByName(name string) []*CodeBlock {
	var out []*CodeBlock
	for _, b := range d.Blocks() {
		if b.Name == name {
			out = append(out, b)
		}
	}
	return out
}

// Targets returns the distinct output paths this document's root blocks
// claim, in document order.
func (d *Document) Targets() []string {
	seen := make(map[string]bool)
	var out []string
	for _, b := range d.Blocks() {
		if b.Target == "" || seen[b.Target] {
			continue
		}
		seen[b.Target] = true
		out = append(out, b.Target)
	}
	return out
}

// idKey identifies one physical block occurrence. Blocks can legitimately
// share an ID — the "multiple blocks, one name" composition case names
// concatenate, but id := name (or the namespaced form) does not vary by
// occurrence — so any lookup that must resolve to a single block pairs the
// id with the block's own opening-fence line, the same SRC_LINE a
// standard-mode marker already carries in <<ID>>[SRC_LINE].
type idKey struct {
	id        string
	startLine int
}

// BlockIndex maps a block name to every block sharing that name across one
// or more documents, in document order (files sorted lexicographically,
// then by line within a file). Same-name blocks concatenate when referenced.
type BlockIndex struct {
	byName map[string][]*CodeBlock
	byFile map[string]map[string][]*CodeBlock
	byID   map[idKey]*CodeBlock
}

// NewBlockIndex builds an index from a set of documents. Documents must
// already be sorted by path; blocks within each document are visited in
// document order.
func NewBlockIndex(docs []*Document) *BlockIndex {
	idx := &BlockIndex{
		byName: make(map[string][]*CodeBlock),
		byFile: make(map[string]map[string][]*CodeBlock),
		byID:   make(map[idKey]*CodeBlock),
	}
	for _, doc := range docs {
		local := make(map[string][]*CodeBlock)
		idx.byFile[doc.Path] = local
		for _, b := range doc.Blocks() {
			if !b.IsAnonymous() {
				idx.byName[b.Name] = append(idx.byName[b.Name], b)
				local[b.Name] = append(local[b.Name], b)
			}
			idx.byID[idKey{b.ID, b.Origin.StartLine}] = b
		}
	}
	return idx
}

// Lookup returns every block registered under name, in document order.
func (idx *BlockIndex) Lookup(name string) []*CodeBlock {
	return idx.byName[name]
}

// LookupFrom returns the blocks a reference written in file from resolves
// to: blocks defined in from itself shadow same-named blocks in other
// files, and a name with no local definition falls back to the global
// document-order set.
func (idx *BlockIndex) LookupFrom(from, name string) []*CodeBlock {
	if local := idx.byFile[from][name]; len(local) > 0 {
		return local
	}
	return idx.byName[name]
}

// ByID returns the block whose id is id and whose opening fence is at
// startLine — the (id, startLine) pair a standard-mode marker's
// <<ID>>[SRC_LINE] identifies uniquely, even when other blocks share id.
func (idx *BlockIndex) ByID(id string, startLine int) (*CodeBlock, bool) {
	b, ok := idx.byID[idKey{id, startLine}]
	return b, ok
}
