package locate

import (
	"testing"

	"github.com/entangled-go/entangled/internal/filedb"
)

func TestLocateContentLine(t *testing.T) {
	db, _ := filedb.Load("unused.json")
	db.Set(filedb.FileEntry{
		Path: "hello.py",
		LineMap: []filedb.LineMapEntry{
			{Line: 2, Src: "test.md", SrcLine: 2, Block: "main"},
		},
	})

	pos, ok := Locate(db, "hello.py", 2)
	if !ok {
		t.Fatal("expected a position for line 2")
	}
	if pos.SourceFile != "test.md" || pos.SourceLine != 2 || pos.BlockID != "main" {
		t.Fatalf("unexpected position: %+v", pos)
	}
}

func TestLocateAnnotationLine(t *testing.T) {
	db, _ := filedb.Load("unused.json")
	db.Set(filedb.FileEntry{
		Path: "hello.py",
		LineMap: []filedb.LineMapEntry{
			{Line: 2, Src: "test.md", SrcLine: 2, Block: "main"},
		},
	})

	_, ok := Locate(db, "hello.py", 1)
	if ok {
		t.Fatal("line 1 has no line map entry (annotation marker) and should not resolve")
	}
}

func TestLocateUntrackedTarget(t *testing.T) {
	db, _ := filedb.Load("unused.json")
	if _, ok := Locate(db, "missing.py", 1); ok {
		t.Fatal("expected untracked target to return false")
	}
}
