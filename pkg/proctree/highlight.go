package proctree

import (
	"slices"

	"github.com/dkoosis/pstree/pkg/color"
)

// Highlight sets c on the node for pid and on each of its ancestors. A pid
// folded into a duplicate group highlights the group. It returns false when
// pid is not in the tree.
func Highlight(t *Tree, pid int, c color.Color) bool {
	if t == nil || pid <= 0 {
		return false
	}
	for _, root := range t.Roots {
		if path := pathTo(root, pid); path != nil {
			for _, n := range path {
				hc := c
				n.Color = &hc
			}
			return true
		}
	}
	return false
}

// pathTo returns the nodes from root down to the node holding pid.
func pathTo(root *Node, pid int) []*Node {
	type frame struct {
		node *Node
		next int
	}
	stack := []frame{{node: root}}
	for len(stack) > 0 {
		f := &stack[len(stack)-1]
		if f.next == 0 && holds(f.node, pid) {
			path := make([]*Node, len(stack))
			for i := range stack {
				path[i] = stack[i].node
			}
			return path
		}
		if f.next == len(f.node.Children) {
			stack = stack[:len(stack)-1]
			continue
		}
		child := f.node.Children[f.next]
		f.next++
		stack = append(stack, frame{node: child})
	}
	return nil
}

func holds(n *Node, pid int) bool {
	if n.IsGroup() {
		return slices.Contains(n.PIDs, pid)
	}
	return n.PID == pid
}
