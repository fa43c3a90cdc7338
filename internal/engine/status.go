package engine

import (
	"github.com/entangled-go/entangled/internal/filedb"
	"github.com/entangled-go/entangled/internal/locate"
	"github.com/entangled-go/entangled/internal/tangle"
	"github.com/entangled-go/entangled/internal/txn"
)

// Status classifies every tracked path (plus any target the current
// documents would produce but don't yet track) against what's on disk.
func (c *Context) Status() (map[string]filedb.Status, error) {
	out := make(map[string]filedb.Status)

	for _, p := range c.DB.Paths() {
		out[p] = c.classify(p)
	}

	docs, idx, _, err := c.LoadDocuments()
	if err != nil {
		return nil, err
	}
	results, err := tangle.ResolveAll(docs, idx, c.Config, c.Table)
	if err != nil {
		return nil, err
	}
	for _, res := range results {
		if _, ok := out[res.Target]; !ok {
			out[res.Target] = c.classify(res.Target)
		}
	}
	return out, nil
}

func (c *Context) classify(relPath string) filedb.Status {
	content, exists, err := txn.ReadFile(c.abs(relPath))
	if err != nil {
		exists = false
	}
	var hash string
	if exists {
		hash = filedb.Hash(content)
	}
	return c.DB.Classify(relPath, exists, hash)
}

// Locate resolves a tangled target's output line back to its Markdown
// source position.
func (c *Context) Locate(targetPath string, line int) (locate.Position, bool) {
	return locate.Locate(c.DB, targetPath, line)
}
