package lang

import "testing"

func TestBuiltinComments(t *testing.T) {
	table := NewTable(nil)
	cases := map[string]string{
		"python":  "#",
		"py":      "#",
		"rust":    "//",
		"go":      "//",
		"haskell": "--",
		"lua":     "--",
		"bash":    "#",
		"C++":     "//",
	}
	for id, want := range cases {
		if got := table.CommentFor(id); got != want {
			t.Errorf("CommentFor(%q) = %q, want %q", id, got, want)
		}
	}
}

func TestUnknownLanguage(t *testing.T) {
	table := NewTable(nil)
	if _, ok := table.Lookup("brainfuck"); ok {
		t.Fatal("expected unknown language to miss")
	}
	if got := table.CommentFor("brainfuck"); got != "" {
		t.Fatalf("expected empty comment token, got %q", got)
	}
}

func TestExtrasOverrideBuiltins(t *testing.T) {
	table := NewTable([]Language{
		{Name: "mylang", Comment: ";;", Identifiers: []string{"mylang", "ml"}},
		{Name: "python", Comment: "##", Identifiers: []string{"python"}},
	})
	if got := table.CommentFor("ml"); got != ";;" {
		t.Fatalf("extra language not registered: %q", got)
	}
	if got := table.CommentFor("python"); got != "##" {
		t.Fatalf("extras should override builtins: %q", got)
	}
	// Aliases not redefined keep the builtin mapping.
	if got := table.CommentFor("py"); got != "#" {
		t.Fatalf("untouched alias should keep its builtin comment: %q", got)
	}
}
