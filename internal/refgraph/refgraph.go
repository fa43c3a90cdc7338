// Package refgraph detects cycles among named code blocks before the
// tangler expands <<name>> references, using a three-color DFS over the
// block-name graph.
package refgraph

import (
	"errors"
	"fmt"
)

// ErrCycle is returned when a reference chain loops back on itself.
var ErrCycle = errors.New("cycle detected")

// ErrUnknownRef is returned when a reference names a block that was never
// defined.
var ErrUnknownRef = errors.New("unknown reference")

// color tracks three-color DFS state: unvisited, in-progress (on the
// current path), and fully resolved.
type color int

const (
	white color = iota
	grey
	black
)

// Edges resolves a block name to the names it references. The graph does
// not own the blocks themselves — it only walks the name space.
type Edges func(name string) (refs []string, known bool)

// Checker runs three-color DFS over a name space, detecting cycles and
// dangling references as it goes. Re-use a single Checker across multiple
// root expansions so already-resolved (black) names are not re-walked.
type Checker struct {
	edges  Edges
	colors map[string]color
}

// NewChecker creates a Checker backed by the given edge-resolution function.
func NewChecker(edges Edges) *Checker {
	return &Checker{edges: edges, colors: make(map[string]color)}
}

// CycleError carries the path that closed the cycle, root-to-repeat.
type CycleError struct {
	Name string
	Path []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("%v: %s (path: %v)", ErrCycle, e.Name, e.Path)
}

func (e *CycleError) Unwrap() error { return ErrCycle }

// UnknownRefError names a reference to an undefined block.
type UnknownRefError struct {
	Name string
}

func (e *UnknownRefError) Error() string {
	return fmt.Sprintf("%v: %s", ErrUnknownRef, e.Name)
}

func (e *UnknownRefError) Unwrap() error { return ErrUnknownRef }

// Visit walks name and everything it transitively references, depth-first.
// It returns a *CycleError if a grey (in-progress) node is revisited, or a
// *UnknownRefError if a reference resolves to nothing.
func (c *Checker) Visit(name string) error {
	return c.visit(name, nil)
}

func (c *Checker) visit(name string, path []string) error {
	switch c.colors[name] {
	case black:
		return nil
	case grey:
		return &CycleError{Name: name, Path: append(append([]string{}, path...), name)}
	}

	c.colors[name] = grey
	path = append(path, name)

	refs, known := c.edges(name)
	if !known {
		return &UnknownRefError{Name: name}
	}
	for _, r := range refs {
		if err := c.visit(r, path); err != nil {
			return err
		}
	}

	c.colors[name] = black
	return nil
}
