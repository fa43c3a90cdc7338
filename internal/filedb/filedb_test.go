package filedb

import (
	"path/filepath"
	"testing"
)

func TestHashNormalization(t *testing.T) {
	a := Hash("print(1)\n")
	b := Hash("print(1)")
	c := Hash("print(1)\r\n")
	if a != b || a != c {
		t.Fatalf("normalization should make these equal: %q %q %q", a, b, c)
	}
}

func TestLoadMissing(t *testing.T) {
	db, err := Load(filepath.Join(t.TempDir(), "filedb.json"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(db.Paths()) != 0 {
		t.Fatalf("expected an empty db, got %v", db.Paths())
	}
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".entangled", "filedb.json")
	db, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	db.Set(FileEntry{
		Path:  "hello.py",
		Hash:  Hash("print(1)\n"),
		Owner: []string{"test.md"},
		LineMap: []LineMapEntry{
			{Line: 2, Src: "test.md", SrcLine: 2, Block: "main"},
		},
	})
	if err := db.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}

	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	entry, ok := reloaded.Get("hello.py")
	if !ok {
		t.Fatal("expected hello.py to be tracked after reload")
	}
	if entry.Hash != Hash("print(1)\n") {
		t.Fatalf("hash mismatch after reload")
	}
	if len(entry.LineMap) != 1 || entry.LineMap[0].Block != "main" {
		t.Fatalf("line map did not survive reload: %+v", entry.LineMap)
	}
}

func TestClassify(t *testing.T) {
	db, _ := Load(filepath.Join(t.TempDir(), "filedb.json"))
	db.Set(FileEntry{Path: "a.py", Hash: Hash("x\n")})

	if got := db.Classify("a.py", true, Hash("x\n")); got != Unchanged {
		t.Fatalf("expected Unchanged, got %v", got)
	}
	if got := db.Classify("a.py", true, Hash("y\n")); got != ModifiedExternally {
		t.Fatalf("expected ModifiedExternally, got %v", got)
	}
	if got := db.Classify("a.py", false, ""); got != Missing {
		t.Fatalf("expected Missing, got %v", got)
	}
	if got := db.Classify("b.py", true, Hash("z\n")); got != Untracked {
		t.Fatalf("expected Untracked, got %v", got)
	}
}

func TestClear(t *testing.T) {
	db, _ := Load(filepath.Join(t.TempDir(), "filedb.json"))
	db.Set(FileEntry{Path: "a.py", Hash: "h"})
	db.Clear()
	if len(db.Paths()) != 0 {
		t.Fatalf("expected empty after Clear, got %v", db.Paths())
	}
}
