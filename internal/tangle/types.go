package tangle

// SourceRef points a generated output line back at the Markdown line it came
// from. A nil *SourceRef (inside LineMapEntry) marks an annotation marker
// line, which has no source counterpart.
type SourceRef struct {
	File    string
	Line    int
	BlockID string
}

// OutputLine is one line of a composed target file, paired with the source
// location it was emitted from (nil for begin/end markers).
type OutputLine struct {
	Text string
	Src  *SourceRef
}

// LineMapEntry records, for one 1-based output line, the source location it
// traces back to.
type LineMapEntry struct {
	Line int
	Src  *SourceRef
}

// Result is the composed content for a single tangle target, plus the line
// map used for stitching back and for locate(). Target is the path actually
// written to disk (BaseDir-relative, with Config.OutputDir folded in);
// RawTarget is the path as a root block's own file= attribute declares it,
// the identity root blocks are matched back to this result by.
type Result struct {
	Target    string
	RawTarget string
	Text      string
	LineMap   []LineMapEntry
}
