package engine

import "github.com/entangled-go/entangled/internal/txn"

// SyncResult reports what each direction of a sync did.
type SyncResult struct {
	StitchActions []txn.Action
	TangleActions []txn.Action
}

// Sync reconciles both directions: it first stitches any externally
// edited targets back into their Markdown sources, then re-tangles so
// Markdown-side edits (and any target left untouched) are brought back in
// step. Stitch runs first so an externally edited target is folded into
// the Markdown before the re-tangle would flag it as a conflict.
func (c *Context) Sync(force bool) (*SyncResult, error) {
	stitchPlan, err := c.PlanStitch(force)
	if err != nil {
		return nil, err
	}
	stitchActions, err := c.ApplyStitch(stitchPlan)
	if err != nil {
		return &SyncResult{StitchActions: stitchActions}, err
	}

	tanglePlan, err := c.PlanTangle(force)
	if err != nil {
		return &SyncResult{StitchActions: stitchActions}, err
	}
	tangleActions, err := c.ApplyTangle(tanglePlan)
	if err != nil {
		return &SyncResult{StitchActions: stitchActions, TangleActions: tangleActions}, err
	}

	return &SyncResult{StitchActions: stitchActions, TangleActions: tangleActions}, nil
}
