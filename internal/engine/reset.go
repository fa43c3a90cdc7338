package engine

import "github.com/entangled-go/entangled/internal/txn"

// Reset clears the FileDB (persisted on the caller's next SaveDB). When
// deleteFiles is set, every currently tracked target is also removed from
// disk; Markdown sources are never deleted.
func (c *Context) Reset(deleteFiles bool) ([]string, error) {
	var removed []string
	if deleteFiles {
		for _, p := range c.DB.Paths() {
			entry, _ := c.DB.Get(p)
			if entry.Owner == nil {
				continue // not a tangle target
			}
			if err := txn.RemoveFile(c.abs(p)); err != nil {
				return removed, err
			}
			removed = append(removed, p)
		}
	}
	c.DB.Clear()
	return removed, nil
}
