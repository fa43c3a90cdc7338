package tangle

import (
	"encoding/json"
	"testing"

	"github.com/entangled-go/entangled/internal/block"
	"github.com/entangled-go/entangled/internal/config"
	"github.com/entangled-go/entangled/internal/lang"
)

func TestSidecarRegions(t *testing.T) {
	cfg := config.Default()
	cfg.Style = config.StylePandoc
	cfg.Annotation = config.AnnotationSupplemental
	text := "" +
		"``` {.python #main file=main.py}\n" +
		"<<body>>\n" +
		"print('done')\n" +
		"```\n" +
		"``` {.python #body}\n" +
		"x = 1\n" +
		"```\n"
	doc := parseDoc(t, "doc.md", text, cfg)
	idx := block.NewBlockIndex([]*block.Document{doc})
	table := lang.NewTable(nil)

	results, err := ResolveAll([]*block.Document{doc}, idx, cfg, table)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	res := results[0]
	if res.Text != "x = 1\nprint('done')\n" {
		t.Fatalf("supplemental body must stay unannotated, got:\n%s", res.Text)
	}

	sidecar, err := Sidecar(res)
	if err != nil {
		t.Fatalf("sidecar: %v", err)
	}
	var parsed struct {
		Regions []SidecarRegion `json:"regions"`
	}
	if err := json.Unmarshal([]byte(sidecar), &parsed); err != nil {
		t.Fatalf("sidecar is not valid JSON: %v", err)
	}
	if len(parsed.Regions) != 2 {
		t.Fatalf("expected 2 regions (body, main), got %d: %+v", len(parsed.Regions), parsed.Regions)
	}
	if parsed.Regions[0].Block != "doc:body" || parsed.Regions[0].Start != 1 || parsed.Regions[0].End != 1 {
		t.Errorf("unexpected first region: %+v", parsed.Regions[0])
	}
	if parsed.Regions[1].Block != "doc:main" || parsed.Regions[1].Start != 2 || parsed.Regions[1].End != 2 {
		t.Errorf("unexpected second region: %+v", parsed.Regions[1])
	}
}

func TestSidecarName(t *testing.T) {
	if got := SidecarName("src/main.py"); got != "src/main.py.entangled-map.json" {
		t.Fatalf("unexpected sidecar name: %q", got)
	}
}
