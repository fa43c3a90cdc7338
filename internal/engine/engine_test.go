package engine

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/entangled-go/entangled/internal/config"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestTangleThenIdempotent(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "test.md"), "``` {.python #main file=hello.py}\nprint('hello')\n```\n")

	ctx, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx.Config.Style = config.StylePandoc

	plan, err := ctx.PlanTangle(false)
	if err != nil {
		t.Fatalf("PlanTangle: %v", err)
	}
	if len(plan.Tx.Actions) != 1 {
		t.Fatalf("expected 1 action, got %d", len(plan.Tx.Actions))
	}
	if _, err := ctx.ApplyTangle(plan); err != nil {
		t.Fatalf("ApplyTangle: %v", err)
	}
	if err := ctx.SaveDB(); err != nil {
		t.Fatalf("SaveDB: %v", err)
	}

	content, err := os.ReadFile(filepath.Join(dir, "hello.py"))
	if err != nil {
		t.Fatalf("reading hello.py: %v", err)
	}
	if !strings.Contains(string(content), "print('hello')") {
		t.Fatalf("unexpected content: %s", content)
	}

	ctx2, err := New(dir)
	if err != nil {
		t.Fatalf("New (reload): %v", err)
	}
	ctx2.Config.Style = config.StylePandoc
	plan2, err := ctx2.PlanTangle(false)
	if err != nil {
		t.Fatalf("PlanTangle (idempotent): %v", err)
	}
	if !plan2.Tx.Empty() {
		t.Fatalf("expected an empty transaction on the second tangle, got %v", plan2.Tx.Actions)
	}
}

func TestStitchRoundTrip(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "test.md"), "``` {.python #main file=hello.py}\nprint('hello')\n```\n")

	ctx, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx.Config.Style = config.StylePandoc

	plan, err := ctx.PlanTangle(false)
	if err != nil {
		t.Fatalf("PlanTangle: %v", err)
	}
	if _, err := ctx.ApplyTangle(plan); err != nil {
		t.Fatalf("ApplyTangle: %v", err)
	}
	if err := ctx.SaveDB(); err != nil {
		t.Fatalf("SaveDB: %v", err)
	}

	writeFile(t, filepath.Join(dir, "hello.py"), "# ~/~ begin <<test:main>>[1]\nprint('world')\n# ~/~ end\n")

	ctx2, err := New(dir)
	if err != nil {
		t.Fatalf("New (reload): %v", err)
	}
	ctx2.Config.Style = config.StylePandoc

	stitchPlan, err := ctx2.PlanStitch(false)
	if err != nil {
		t.Fatalf("PlanStitch: %v", err)
	}
	if len(stitchPlan.Tx.Actions) != 1 {
		t.Fatalf("expected 1 patch action, got %d", len(stitchPlan.Tx.Actions))
	}
	if _, err := ctx2.ApplyStitch(stitchPlan); err != nil {
		t.Fatalf("ApplyStitch: %v", err)
	}
	if err := ctx2.SaveDB(); err != nil {
		t.Fatalf("SaveDB: %v", err)
	}

	md, err := os.ReadFile(filepath.Join(dir, "test.md"))
	if err != nil {
		t.Fatalf("reading test.md: %v", err)
	}
	if !strings.Contains(string(md), "print('world')") {
		t.Fatalf("expected the Markdown block to be updated, got:\n%s", md)
	}

	ctx3, err := New(dir)
	if err != nil {
		t.Fatalf("New (reload 2): %v", err)
	}
	ctx3.Config.Style = config.StylePandoc
	plan3, err := ctx3.PlanTangle(false)
	if err != nil {
		t.Fatalf("PlanTangle (post-stitch): %v", err)
	}
	if !plan3.Tx.Empty() {
		t.Fatalf("expected tangle after stitch to be a no-op, got %v", plan3.Tx.Actions)
	}
}

func TestConflictWithoutForce(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "test.md"), "``` {.python #main file=hello.py}\nprint('hello')\n```\n")

	ctx, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx.Config.Style = config.StylePandoc

	plan, err := ctx.PlanTangle(false)
	if err != nil {
		t.Fatalf("PlanTangle: %v", err)
	}
	if _, err := ctx.ApplyTangle(plan); err != nil {
		t.Fatalf("ApplyTangle: %v", err)
	}
	if err := ctx.SaveDB(); err != nil {
		t.Fatalf("SaveDB: %v", err)
	}

	// External edit, outside any begin/end marker recognition.
	writeFile(t, filepath.Join(dir, "hello.py"), "garbage\n")
	writeFile(t, filepath.Join(dir, "test.md"), "``` {.python #main file=hello.py}\nprint('x')\n```\n")

	ctx2, err := New(dir)
	if err != nil {
		t.Fatalf("New (reload): %v", err)
	}
	ctx2.Config.Style = config.StylePandoc

	if _, err := ctx2.PlanTangle(false); err == nil {
		t.Fatal("expected a conflict error")
	}

	plan2, err := ctx2.PlanTangle(true)
	if err != nil {
		t.Fatalf("force should bypass the conflict: %v", err)
	}
	if len(plan2.Tx.Actions) != 1 {
		t.Fatalf("expected 1 forced write action, got %d", len(plan2.Tx.Actions))
	}
}

func TestStatusClassification(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "test.md"), "``` {.python #main file=hello.py}\nprint('hello')\n```\n")

	ctx, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx.Config.Style = config.StylePandoc
	plan, err := ctx.PlanTangle(false)
	if err != nil {
		t.Fatalf("PlanTangle: %v", err)
	}
	if _, err := ctx.ApplyTangle(plan); err != nil {
		t.Fatalf("ApplyTangle: %v", err)
	}

	st, err := ctx.Status()
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if st["hello.py"] != 0 { // filedb.Unchanged
		t.Fatalf("expected hello.py to be Unchanged, got %v", st["hello.py"])
	}
}

func TestTangleSupplementalWritesSidecar(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "test.md"), "``` {.python #main file=hello.py}\nprint('hello')\n```\n")

	ctx, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx.Config.Style = config.StylePandoc
	ctx.Config.Annotation = config.AnnotationSupplemental

	plan, err := ctx.PlanTangle(false)
	if err != nil {
		t.Fatalf("PlanTangle: %v", err)
	}
	if len(plan.Tx.Actions) != 2 {
		t.Fatalf("expected target + sidecar actions, got %d: %v", len(plan.Tx.Actions), plan.Tx.Actions)
	}
	if _, err := ctx.ApplyTangle(plan); err != nil {
		t.Fatalf("ApplyTangle: %v", err)
	}
	if err := ctx.SaveDB(); err != nil {
		t.Fatalf("SaveDB: %v", err)
	}

	body, err := os.ReadFile(filepath.Join(dir, "hello.py"))
	if err != nil {
		t.Fatalf("reading hello.py: %v", err)
	}
	if strings.Contains(string(body), "~/~") {
		t.Fatalf("supplemental target body must carry no markers, got:\n%s", body)
	}

	sidecar, err := os.ReadFile(filepath.Join(dir, "hello.py.entangled-map.json"))
	if err != nil {
		t.Fatalf("reading sidecar: %v", err)
	}
	if !strings.Contains(string(sidecar), "test:main") {
		t.Fatalf("sidecar should record the contributing block, got:\n%s", sidecar)
	}
}

func TestTangleTracksSourceMarkdown(t *testing.T) {
	dir := t.TempDir()
	md := "``` {.python #main file=hello.py}\nprint('hello')\n```\n"
	writeFile(t, filepath.Join(dir, "test.md"), md)

	ctx, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx.Config.Style = config.StylePandoc
	plan, err := ctx.PlanTangle(false)
	if err != nil {
		t.Fatalf("PlanTangle: %v", err)
	}
	if _, err := ctx.ApplyTangle(plan); err != nil {
		t.Fatalf("ApplyTangle: %v", err)
	}

	entry, tracked := ctx.DB.Get("test.md")
	if !tracked {
		t.Fatal("expected the source Markdown to be tracked after a tangle")
	}
	if entry.Owner != nil || entry.LineMap != nil {
		t.Fatalf("source entries carry no target bookkeeping, got %+v", entry)
	}

	st, err := ctx.Status()
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if st["test.md"] != 0 { // filedb.Unchanged
		t.Fatalf("expected test.md Unchanged, got %v", st["test.md"])
	}

	writeFile(t, filepath.Join(dir, "test.md"), "``` {.python #main file=hello.py}\nprint('edited')\n```\n")
	st, err = ctx.Status()
	if err != nil {
		t.Fatalf("Status (after edit): %v", err)
	}
	if st["test.md"] != 1 { // filedb.ModifiedExternally
		t.Fatalf("expected test.md ModifiedExternally, got %v", st["test.md"])
	}
}

// A Markdown-only edit must not be reverted by the stitch direction: the
// untouched target still matches its recorded hash, so stitch has nothing
// to fold back and the following tangle carries the edit forward.
func TestStitchSkipsUnchangedTargets(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "test.md"), "``` {.python #main file=hello.py}\nprint('hello')\n```\n")

	ctx, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx.Config.Style = config.StylePandoc
	plan, err := ctx.PlanTangle(false)
	if err != nil {
		t.Fatalf("PlanTangle: %v", err)
	}
	if _, err := ctx.ApplyTangle(plan); err != nil {
		t.Fatalf("ApplyTangle: %v", err)
	}
	if err := ctx.SaveDB(); err != nil {
		t.Fatalf("SaveDB: %v", err)
	}

	writeFile(t, filepath.Join(dir, "test.md"), "``` {.python #main file=hello.py}\nprint('edited')\n```\n")

	ctx2, err := New(dir)
	if err != nil {
		t.Fatalf("New (reload): %v", err)
	}
	ctx2.Config.Style = config.StylePandoc
	stitchPlan, err := ctx2.PlanStitch(false)
	if err != nil {
		t.Fatalf("PlanStitch: %v", err)
	}
	if !stitchPlan.Tx.Empty() {
		t.Fatalf("expected no stitch actions for an untouched target, got %v", stitchPlan.Tx.Actions)
	}
}

func TestStitchConflictWhenBothSidesModified(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "test.md"), "``` {.python #main file=hello.py}\nprint('hello')\n```\n")

	ctx, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx.Config.Style = config.StylePandoc
	plan, err := ctx.PlanTangle(false)
	if err != nil {
		t.Fatalf("PlanTangle: %v", err)
	}
	if _, err := ctx.ApplyTangle(plan); err != nil {
		t.Fatalf("ApplyTangle: %v", err)
	}
	if err := ctx.SaveDB(); err != nil {
		t.Fatalf("SaveDB: %v", err)
	}

	// Both sides move: the target's block body and the Markdown block.
	writeFile(t, filepath.Join(dir, "hello.py"), "# ~/~ begin <<test:main>>[1]\nprint('world')\n# ~/~ end\n")
	writeFile(t, filepath.Join(dir, "test.md"), "``` {.python #main file=hello.py}\nprint('edited')\n```\n")

	ctx2, err := New(dir)
	if err != nil {
		t.Fatalf("New (reload): %v", err)
	}
	ctx2.Config.Style = config.StylePandoc

	if _, err := ctx2.PlanStitch(false); err == nil {
		t.Fatal("expected a conflict: the Markdown moved since the last sync")
	}
	forced, err := ctx2.PlanStitch(true)
	if err != nil {
		t.Fatalf("force should bypass the conflict: %v", err)
	}
	if len(forced.Tx.Actions) != 1 {
		t.Fatalf("expected 1 forced patch action, got %d", len(forced.Tx.Actions))
	}
}
