package proctree

// Dedupe collapses runs of adjacent sibling leaves that share a name into a
// single group node carrying the run length. It works bottom-up, and the
// roots of a forest are treated as siblings under an invisible parent.
//
// Only neighbours are merged, so children named a, b, a stay three nodes.
// Subtrees with children are never merged, whatever their shape.
func Dedupe(t *Tree) {
	if t == nil {
		return
	}

	// Post-order without recursion: collect parents in pre-order, then
	// collapse them in reverse so every child list is final before its
	// parent is looked at.
	var parents []*Node
	t.Walk(func(n *Node, _ int) bool {
		if !n.IsLeaf() {
			parents = append(parents, n)
		}
		return true
	})
	for i := len(parents) - 1; i >= 0; i-- {
		parents[i].Children = collapse(parents[i].Children)
	}
	t.Roots = collapse(t.Roots)
}

func collapse(nodes []*Node) []*Node {
	if len(nodes) < 2 {
		return nodes
	}

	out := make([]*Node, 0, len(nodes))
	for i := 0; i < len(nodes); {
		n := nodes[i]
		j := i + 1
		if n.IsLeaf() && !n.IsGroup() {
			for j < len(nodes) && mergeable(n, nodes[j]) {
				j++
			}
		}

		if j-i < 2 {
			out = append(out, n)
			i = j
			continue
		}

		group := &Node{
			Name:  n.Name,
			PPID:  n.PPID,
			Count: j - i,
			PIDs:  make([]int, 0, j-i),
		}
		for _, m := range nodes[i:j] {
			group.PIDs = append(group.PIDs, m.PID)
		}
		out = append(out, group)
		i = j
	}
	return out
}

func mergeable(first, next *Node) bool {
	return next.IsLeaf() && !next.IsGroup() && next.Name == first.Name
}
