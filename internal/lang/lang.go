// Package lang holds the built-in table of language → line-comment mappings
// used to emit and recognize annotation markers.
package lang

import "strings"

// Language describes how a target language's comments are written.
type Language struct {
	Name        string   // canonical language name, e.g. "python"
	Comment     string   // line-comment token, e.g. "#"
	Identifiers []string // accepted aliases in fenced-block headers, e.g. "py"
}

// builtins is the minimum set required by the external-interfaces contract.
var builtins = []Language{
	{Name: "python", Comment: "#", Identifiers: []string{"python", "py"}},
	{Name: "rust", Comment: "//", Identifiers: []string{"rust", "rs"}},
	{Name: "javascript", Comment: "//", Identifiers: []string{"javascript", "js"}},
	{Name: "typescript", Comment: "//", Identifiers: []string{"typescript", "ts"}},
	{Name: "go", Comment: "//", Identifiers: []string{"go", "golang"}},
	{Name: "c", Comment: "//", Identifiers: []string{"c"}},
	{Name: "cpp", Comment: "//", Identifiers: []string{"cpp", "c++"}},
	{Name: "java", Comment: "//", Identifiers: []string{"java"}},
	{Name: "ruby", Comment: "#", Identifiers: []string{"ruby", "rb"}},
	{Name: "shell", Comment: "#", Identifiers: []string{"shell", "sh", "bash"}},
	{Name: "haskell", Comment: "--", Identifiers: []string{"haskell", "hs"}},
	{Name: "lua", Comment: "--", Identifiers: []string{"lua"}},
}

// Table resolves language identifiers (as they appear in a fence header) to
// their Language definition. It starts from the built-in set and can be
// extended from Config.Languages.
type Table struct {
	byID map[string]Language
}

// NewTable builds a Table from the built-in languages plus any extras.
// Extras with an identifier already claimed by a built-in override it —
// this lets Config.languages redefine a comment token for a project.
func NewTable(extras []Language) *Table {
	t := &Table{byID: make(map[string]Language)}
	for _, l := range builtins {
		t.add(l)
	}
	for _, l := range extras {
		t.add(l)
	}
	return t
}

func (t *Table) add(l Language) {
	for _, id := range l.Identifiers {
		t.byID[strings.ToLower(id)] = l
	}
	if len(l.Identifiers) == 0 {
		t.byID[strings.ToLower(l.Name)] = l
	}
}

// Lookup returns the Language for a fence-header identifier, and whether it
// was found. Unknown languages still tangle fine; they just get no
// standard-mode annotations (no comment token). The shebang/SPDX hooks do
// not depend on the language.
func (t *Table) Lookup(id string) (Language, bool) {
	l, ok := t.byID[strings.ToLower(id)]
	return l, ok
}

// CommentFor returns the line-comment token for a language identifier, or
// "" if the language is unknown.
func (t *Table) CommentFor(id string) string {
	l, ok := t.Lookup(id)
	if !ok {
		return ""
	}
	return l.Comment
}
