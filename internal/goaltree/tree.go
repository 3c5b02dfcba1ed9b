// Package goaltree reconstructs the quarterly → weekly → daily hierarchy from
// the flat goal table.
package goaltree

import (
	"fmt"

	"github.com/google/uuid"

	types "github.com/yungbote/goalgrid-backend/internal/domain"
)

// Node is a goal plus its materialized position in the tree. Extra holds
// whatever the decorator attached (week state, typically); the tree itself
// never reads it.
type Node struct {
	Goal     *types.Goal
	Path     string
	Children []*Node
	Extra    any
}

// Decorator attaches presentation state to a node as it is indexed.
type Decorator func(g *types.Goal) any

// Build links a flat set of goals into trees rooted at depth-0 goals.
//
// Two passes over the input: the first allocates every node into an id index,
// the second links children to parents. Insertion order of the input is
// preserved in Children and in the returned roots; nothing is re-sorted here.
//
// A goal at depth > 0 whose parent is missing from the input is corrupt data,
// not a recoverable condition: Build returns an error and no partial tree.
// Adhoc goals (depth -1) do not belong in a tree and are rejected the same way.
func Build(goals []*types.Goal, decorate Decorator) ([]*Node, map[uuid.UUID]*Node, error) {
	index := make(map[uuid.UUID]*Node, len(goals))
	for _, g := range goals {
		if g.Depth < types.DepthQuarterly || g.Depth > types.DepthDaily {
			return nil, nil, fmt.Errorf("goal %s has depth %d, outside the quarterly/weekly/daily hierarchy", g.ID, g.Depth)
		}
		n := &Node{Goal: g}
		if decorate != nil {
			n.Extra = decorate(g)
		}
		index[g.ID] = n
	}

	// Linking walks one depth at a time so a parent's Path is always set
	// before its children compute theirs, regardless of input order.
	var roots []*Node
	for depth := types.DepthQuarterly; depth <= types.DepthDaily; depth++ {
		for _, g := range goals {
			if g.Depth != depth {
				continue
			}
			n := index[g.ID]
			if depth == types.DepthQuarterly {
				n.Path = "/" + g.ID.String()
				roots = append(roots, n)
				continue
			}
			if g.ParentID == nil {
				return nil, nil, fmt.Errorf("depth %d goal %s has no parent", g.Depth, g.ID)
			}
			parent, ok := index[*g.ParentID]
			if !ok {
				return nil, nil, fmt.Errorf("depth %d goal %s has no parent", g.Depth, g.ID)
			}
			if parent.Goal.Depth != g.Depth-1 {
				return nil, nil, fmt.Errorf("depth %d goal %s has parent at depth %d", g.Depth, g.ID, parent.Goal.Depth)
			}
			n.Path = parent.Path + "/" + g.ID.String()
			parent.Children = append(parent.Children, n)
		}
	}

	return roots, index, nil
}
