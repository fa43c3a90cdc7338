package engine

import (
	"fmt"

	"github.com/entangled-go/entangled/internal/filedb"
	"github.com/entangled-go/entangled/internal/stitch"
	"github.com/entangled-go/entangled/internal/tangle"
	"github.com/entangled-go/entangled/internal/txn"
)

// StitchPlan is the planned transaction for propagating edited target
// files back into their Markdown sources.
type StitchPlan struct {
	Tx           *txn.Transaction
	targets      map[string]tangle.Result // keyed by target path, for LineMap refresh after apply
	sourceHashes map[string]string        // Markdown path -> content hash at plan time
}

// PlanStitch re-tangles the current documents (to know each target's
// expected annotation layout and reachable block set), reads each target
// off disk, recovers block updates from its markers, and plans the
// Markdown patches needed to reconcile.
func (c *Context) PlanStitch(force bool) (*StitchPlan, error) {
	if err := stitch.RequireStandardAnnotation(c.Config); err != nil {
		return nil, err
	}

	docs, idx, srcHashes, err := c.LoadDocuments()
	if err != nil {
		return nil, err
	}
	results, err := tangle.ResolveAll(docs, idx, c.Config, c.Table)
	if err != nil {
		return nil, err
	}

	byTarget := make(map[string]tangle.Result, len(results))
	var allPatches []stitch.Patch
	for _, res := range results {
		byTarget[res.Target] = res

		data, exists, err := txn.ReadFile(c.abs(res.Target))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", res.Target, err)
		}
		if !exists {
			continue
		}

		// A target whose on-disk content still matches the last tangle
		// has nothing to fold back; skipping it keeps a Markdown-side
		// edit from being reverted out of an untouched target.
		if entry, tracked := c.DB.Get(res.Target); tracked && filedb.Hash(data) == entry.Hash {
			continue
		}

		updates, err := stitch.Parse(data, res.Target)
		if err != nil {
			return nil, err
		}
		patches, err := stitch.Reconcile(docs, idx, c.Config, res.RawTarget, updates)
		if err != nil {
			return nil, err
		}
		allPatches = append(allPatches, patches...)
	}

	read := func(path string) (string, bool, error) { return txn.ReadFile(c.abs(path)) }
	tx, err := txn.PlanStitch(allPatches, c.DB, read, force)
	if err != nil {
		return nil, err
	}
	absolutizeActions(tx, c)

	return &StitchPlan{Tx: tx, targets: byTarget, sourceHashes: srcHashes}, nil
}

// ApplyStitch performs the planned Markdown patches and records every
// source Markdown file in the FileDB — patched files at their written
// content's hash, untouched ones at their plan-time hash. Re-tangling
// afterward is what refreshes target entries to match the edited sources.
func (c *Context) ApplyStitch(plan *StitchPlan) ([]txn.Action, error) {
	completed, err := txn.Apply(plan.Tx)
	if err == nil {
		for path, h := range plan.sourceHashes {
			c.setSourceEntry(path, h)
		}
	}
	for _, a := range completed {
		if a.Kind != txn.PatchDocument {
			continue
		}
		c.setSourceEntry(c.rel(a.Path), filedb.Hash(a.NewContent))
	}
	return completed, err
}
