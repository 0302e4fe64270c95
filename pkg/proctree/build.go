package proctree

// Build arranges records into a tree rooted at root.
//
// With root == 0 every record whose parent is missing from the snapshot, or
// which names itself as parent, becomes a top-level root and the result is a
// forest. With any other root the tree holds that process and its
// descendants, or nothing when the pid is absent.
//
// Children keep the order in which they appear in records. Only the first
// record for a pid is used, and records with a non-positive pid are ignored.
func Build(records []Record, root int) *Tree {
	b := newBuilder(records)
	t := &Tree{}

	for _, start := range b.starts(root) {
		t.Roots = append(t.Roots, b.expand(start))
	}

	t.Diagnostics = Diagnostics{
		Records:     len(records),
		Duplicates:  b.duplicates,
		CycleEdges:  b.cycleEdges,
		Unreachable: len(b.byPID) - len(b.placed),
	}
	return t
}

type builder struct {
	records  []Record
	byPID    map[int]int   // pid -> index of the record that owns it
	children map[int][]int // ppid -> child record indexes, in source order
	placed   map[int]bool

	duplicates int
	cycleEdges int
}

func newBuilder(records []Record) *builder {
	b := &builder{
		records:  records,
		byPID:    make(map[int]int, len(records)),
		children: make(map[int][]int),
		placed:   make(map[int]bool, len(records)),
	}

	for i, r := range records {
		if r.PID <= 0 {
			continue
		}
		if _, dup := b.byPID[r.PID]; dup {
			b.duplicates++
			continue
		}
		b.byPID[r.PID] = i
	}

	for i, r := range records {
		if !b.owns(i) || r.PPID == r.PID {
			continue
		}
		b.children[r.PPID] = append(b.children[r.PPID], i)
	}
	return b
}

// owns reports whether records[i] is the record indexed for its pid.
func (b *builder) owns(i int) bool {
	idx, ok := b.byPID[b.records[i].PID]
	return ok && idx == i
}

func (b *builder) starts(root int) []int {
	if root != 0 {
		if i, ok := b.byPID[root]; ok {
			return []int{i}
		}
		return nil
	}

	var starts []int
	for i, r := range b.records {
		if !b.owns(i) {
			continue
		}
		if _, hasParent := b.byPID[r.PPID]; !hasParent || r.PPID == r.PID {
			starts = append(starts, i)
		}
	}
	return starts
}

func (b *builder) node(i int) *Node {
	r := b.records[i]
	b.placed[r.PID] = true
	return &Node{PID: r.PID, PPID: r.PPID, Name: r.Name}
}

// expand builds the subtree under records[start] without recursion. A child
// already on the path from the root is a cycle and is skipped.
func (b *builder) expand(start int) *Node {
	type frame struct {
		node *Node
		kids []int
		next int
	}

	top := b.node(start)
	onPath := map[int]bool{top.PID: true}
	stack := []frame{{node: top, kids: b.children[top.PID]}}

	for len(stack) > 0 {
		f := &stack[len(stack)-1]
		if f.next == len(f.kids) {
			delete(onPath, f.node.PID)
			stack = stack[:len(stack)-1]
			continue
		}

		ci := f.kids[f.next]
		f.next++

		pid := b.records[ci].PID
		if onPath[pid] {
			b.cycleEdges++
			continue
		}
		if b.placed[pid] {
			continue
		}

		child := b.node(ci)
		f.node.Children = append(f.node.Children, child)
		onPath[pid] = true
		stack = append(stack, frame{node: child, kids: b.children[pid]})
	}
	return top
}
