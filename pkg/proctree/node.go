// Package proctree turns a flat process snapshot into a tree.
//
// Process tables are racy: a parent can exit between two reads, a pid can be
// reused, and a buggy source can even report a process as its own ancestor.
// Build never fails on such data. It drops what cannot be placed and reports
// the counts in Diagnostics.
package proctree

import "github.com/dkoosis/pstree/pkg/color"

// Record describes one process as reported by a process source.
type Record struct {
	PID  int    `json:"pid" yaml:"pid"`
	PPID int    `json:"ppid" yaml:"ppid"`
	Name string `json:"name" yaml:"name"`
}

// Node is one process in a built tree. A node owns its children.
type Node struct {
	PID      int
	PPID     int
	Name     string
	Children []*Node

	// Count is >= 2 for a duplicate group produced by Dedupe. PIDs then
	// lists the collapsed members and PID is zero.
	Count int
	PIDs  []int

	// Color overrides the render-wide node color when set.
	Color *color.Color
}

// IsLeaf reports whether n has no children.
func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}

// IsGroup reports whether n stands for several collapsed leaves.
func (n *Node) IsGroup() bool {
	return n.Count > 1
}

// Diagnostics counts the anomalies Build tolerated.
type Diagnostics struct {
	Records     int // records in the snapshot
	Duplicates  int // records dropped because their pid was already seen
	CycleEdges  int // child links skipped because they would close a cycle
	Unreachable int // records not reachable from the chosen root(s)
}

// Tree is the result of Build: zero or more roots. With root pid 0 it is a
// forest of every top-level process.
type Tree struct {
	Roots       []*Node
	Diagnostics Diagnostics
}

// Len returns the number of nodes in the tree, counting a duplicate group as
// one node.
func (t *Tree) Len() int {
	n := 0
	t.Walk(func(*Node, int) bool {
		n++
		return true
	})
	return n
}

// Walk visits every node depth-first in display order. Returning false from
// fn skips the node's children.
func (t *Tree) Walk(fn func(n *Node, depth int) bool) {
	type frame struct {
		node  *Node
		depth int
	}
	stack := make([]frame, 0, len(t.Roots))
	for i := len(t.Roots) - 1; i >= 0; i-- {
		stack = append(stack, frame{t.Roots[i], 0})
	}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(f.node, f.depth) {
			continue
		}
		for i := len(f.node.Children) - 1; i >= 0; i-- {
			stack = append(stack, frame{f.node.Children[i], f.depth + 1})
		}
	}
}
