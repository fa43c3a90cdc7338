package engine

import (
	"github.com/entangled-go/entangled/internal/config"
	"github.com/entangled-go/entangled/internal/filedb"
	"github.com/entangled-go/entangled/internal/tangle"
	"github.com/entangled-go/entangled/internal/txn"
)

// TanglePlan pairs a planned transaction with the composed results it was
// built from, so ApplyTangle can update the FileDB after a successful
// apply without recomposing anything.
type TanglePlan struct {
	Tx           *txn.Transaction
	results      map[string]tangle.Result // keyed by BaseDir-relative target path
	owners       map[string][]string
	sourceHashes map[string]string // Markdown path -> content hash at plan time
}

// PlanTangle composes every tangle target from the current documents and
// plans the filesystem transaction to bring disk in sync, without writing
// anything.
func (c *Context) PlanTangle(force bool) (*TanglePlan, error) {
	docs, idx, srcHashes, err := c.LoadDocuments()
	if err != nil {
		return nil, err
	}

	results, err := tangle.ResolveAll(docs, idx, c.Config, c.Table)
	if err != nil {
		return nil, err
	}
	for i := range results {
		results[i] = tangle.ApplyHooks(results[i], c.Config)
	}

	// Supplemental mode keeps the target body naked and carries the
	// marker map in a sidecar file, planned and tracked like any other
	// tangle output.
	if c.Config.Annotation == config.AnnotationSupplemental {
		sidecars := make([]tangle.Result, 0, len(results))
		for _, r := range results {
			text, serr := tangle.Sidecar(r)
			if serr != nil {
				return nil, serr
			}
			sidecars = append(sidecars, tangle.Result{
				Target:    tangle.SidecarName(r.Target),
				RawTarget: r.RawTarget,
				Text:      text,
			})
		}
		results = append(results, sidecars...)
	}

	byTarget := make(map[string]tangle.Result, len(results))
	owners := make(map[string][]string, len(results))
	for _, r := range results {
		byTarget[r.Target] = r
		owners[r.Target] = ownersFor(docs, r.RawTarget)
	}

	// PlanTangle and the FileDB both operate on BaseDir-relative paths;
	// the read closure is the only place BaseDir is joined in, so the
	// returned actions still carry relative paths.
	read := func(path string) (string, bool, error) { return txn.ReadFile(c.abs(path)) }
	tx, err := txn.PlanTangle(results, c.DB, read, force)
	if err != nil {
		return nil, err
	}
	absolutizeActions(tx, c)

	return &TanglePlan{Tx: tx, results: byTarget, owners: owners, sourceHashes: srcHashes}, nil
}

// ApplyTangle performs the planned writes and updates the FileDB (but does
// not save it — call SaveDB once the caller is done with this run). On a
// fully successful apply the source Markdown files are recorded too, so
// the stitch direction can later tell a manually edited Markdown file
// apart from one the engine last saw.
func (c *Context) ApplyTangle(plan *TanglePlan) ([]txn.Action, error) {
	completed, err := txn.Apply(plan.Tx)
	for _, a := range completed {
		relPath := c.rel(a.Path)
		switch a.Kind {
		case txn.CreateFile, txn.WriteFile:
			res := plan.results[relPath]
			c.DB.Set(filedb.FileEntry{
				Path:    relPath,
				Hash:    filedb.Hash(res.Text),
				Owner:   plan.owners[relPath],
				LineMap: toFiledbLineMap(res.LineMap),
			})
		case txn.DeleteFile:
			c.DB.Delete(relPath)
		}
	}
	if err == nil {
		for path, h := range plan.sourceHashes {
			c.setSourceEntry(path, h)
		}
	}
	return completed, err
}

func toFiledbLineMap(lm []tangle.LineMapEntry) []filedb.LineMapEntry {
	out := make([]filedb.LineMapEntry, 0, len(lm))
	for _, e := range lm {
		if e.Src == nil {
			continue
		}
		out = append(out, filedb.LineMapEntry{
			Line:    e.Line,
			Src:     e.Src.File,
			SrcLine: e.Src.Line,
			Block:   e.Src.BlockID,
		})
	}
	return out
}

// absolutizeActions rewrites every planned action's Path from
// BaseDir-relative to joined onto BaseDir (absolute when BaseDir is), so
// txn.Apply's direct os calls land inside the project directory.
func absolutizeActions(tx *txn.Transaction, c *Context) {
	for i := range tx.Actions {
		tx.Actions[i].Path = c.abs(tx.Actions[i].Path)
	}
}
