package proctree

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// shape renders a tree as "name(pid)[children...]" for compact assertions.
func shape(nodes []*Node) string {
	s := ""
	for i, n := range nodes {
		if i > 0 {
			s += " "
		}
		if n.IsGroup() {
			s += fmt.Sprintf("%s×%d", n.Name, n.Count)
		} else {
			s += fmt.Sprintf("%s(%d)", n.Name, n.PID)
		}
		if len(n.Children) > 0 {
			s += "[" + shape(n.Children) + "]"
		}
	}
	return s
}

func sampleRecords() []Record {
	return []Record{
		{PID: 1, PPID: 0, Name: "init"},
		{PID: 2, PPID: 1, Name: "sshd"},
		{PID: 3, PPID: 2, Name: "bash"},
		{PID: 4, PPID: 2, Name: "bash"},
	}
}

func TestBuild_RootZeroBuildsForestOfTopLevelProcesses(t *testing.T) {
	t.Parallel()

	records := []Record{
		{PID: 10, PPID: 1, Name: "worker"},
		{PID: 1, PPID: 0, Name: "init"},
		{PID: 2, PPID: 0, Name: "kthreadd"},
		{PID: 20, PPID: 2, Name: "kworker"},
		{PID: 30, PPID: 999, Name: "orphan"},
		{PID: 40, PPID: 40, Name: "selfparent"},
	}

	tree := Build(records, 0)

	assert.Equal(t, "init(1)[worker(10)] kthreadd(2)[kworker(20)] orphan(30) selfparent(40)", shape(tree.Roots))
	assert.Equal(t, Diagnostics{Records: 6}, tree.Diagnostics)
}

func TestBuild_RootsNeverHaveLiveParent(t *testing.T) {
	t.Parallel()

	records := []Record{
		{PID: 5, PPID: 4, Name: "e"},
		{PID: 4, PPID: 3, Name: "d"},
		{PID: 3, PPID: 7, Name: "c"},
		{PID: 7, PPID: 7, Name: "g"},
		{PID: 8, PPID: 100, Name: "h"},
		{PID: 9, PPID: 0, Name: "i"},
		{PID: 11, PPID: 12, Name: "k"},
		{PID: 12, PPID: 11, Name: "l"},
	}
	ids := make(map[int]bool)
	for _, r := range records {
		ids[r.PID] = true
	}

	tree := Build(records, 0)
	require.NotEmpty(t, tree.Roots)
	for _, root := range tree.Roots {
		assert.True(t, !ids[root.PPID] || root.PPID == root.PID,
			"root %d has live parent %d", root.PID, root.PPID)
	}
	// 11 and 12 only point at each other, so neither is a root.
	assert.Equal(t, 2, tree.Diagnostics.Unreachable)
}

func TestBuild_ExplicitRoot(t *testing.T) {
	t.Parallel()

	tree := Build(sampleRecords(), 2)
	assert.Equal(t, "sshd(2)[bash(3) bash(4)]", shape(tree.Roots))
	assert.Equal(t, 1, tree.Diagnostics.Unreachable)
}

func TestBuild_MissingRootYieldsEmptyTree(t *testing.T) {
	t.Parallel()

	tree := Build(sampleRecords(), 4242)
	assert.Empty(t, tree.Roots)
	assert.Equal(t, 0, tree.Len())
	assert.Equal(t, 4, tree.Diagnostics.Unreachable)
}

func TestBuild_EmptyInput(t *testing.T) {
	t.Parallel()

	tree := Build(nil, 0)
	assert.Empty(t, tree.Roots)
	assert.Equal(t, Diagnostics{}, tree.Diagnostics)
}

func TestBuild_PreservesSourceOrderOfChildren(t *testing.T) {
	t.Parallel()

	records := []Record{
		{PID: 1, PPID: 0, Name: "init"},
		{PID: 9, PPID: 1, Name: "zeta"},
		{PID: 3, PPID: 1, Name: "alpha"},
		{PID: 5, PPID: 1, Name: "mid"},
	}

	tree := Build(records, 0)
	assert.Equal(t, "init(1)[zeta(9) alpha(3) mid(5)]", shape(tree.Roots))
}

func TestBuild_TerminatesOnCycles(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		records []Record
		root    int
		want    string
		cycles  int
	}{
		{
			name:    "self parent as explicit root",
			records: []Record{{PID: 1, PPID: 1, Name: "a"}},
			root:    1,
			want:    "a(1)",
		},
		{
			name: "two cycle from explicit root",
			records: []Record{
				{PID: 2, PPID: 3, Name: "b"},
				{PID: 3, PPID: 2, Name: "c"},
			},
			root:   2,
			want:   "b(2)[c(3)]",
			cycles: 1,
		},
		{
			name: "long cycle with tail",
			records: []Record{
				{PID: 1, PPID: 4, Name: "a"},
				{PID: 2, PPID: 1, Name: "b"},
				{PID: 3, PPID: 2, Name: "c"},
				{PID: 4, PPID: 3, Name: "d"},
				{PID: 5, PPID: 2, Name: "e"},
			},
			root:   3,
			want:   "c(3)[d(4)[a(1)[b(2)[e(5)]]]]",
			cycles: 1,
		},
		{
			name: "pure cycle under root zero is dropped",
			records: []Record{
				{PID: 1, PPID: 0, Name: "init"},
				{PID: 2, PPID: 3, Name: "x"},
				{PID: 3, PPID: 2, Name: "y"},
			},
			root: 0,
			want: "init(1)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tree := Build(tt.records, tt.root)
			assert.Equal(t, tt.want, shape(tree.Roots))
			assert.Equal(t, tt.cycles, tree.Diagnostics.CycleEdges)
		})
	}
}

func TestBuild_DeepChainDoesNotOverflow(t *testing.T) {
	t.Parallel()

	const depth = 200_000
	records := make([]Record, 0, depth)
	for pid := 1; pid <= depth; pid++ {
		records = append(records, Record{PID: pid, PPID: pid - 1, Name: "p"})
	}
	// Close the chain into a cycle as well.
	records[0].PPID = depth

	tree := Build(records, 1)
	assert.Equal(t, depth, tree.Len())
	assert.Equal(t, 1, tree.Diagnostics.CycleEdges)
}

func TestBuild_DuplicatePIDsKeepFirstRecord(t *testing.T) {
	t.Parallel()

	records := []Record{
		{PID: 1, PPID: 0, Name: "init"},
		{PID: 2, PPID: 1, Name: "first"},
		{PID: 2, PPID: 1, Name: "second"},
		{PID: 0, PPID: 0, Name: "kernel"},
		{PID: -3, PPID: 1, Name: "bogus"},
	}

	tree := Build(records, 0)
	assert.Equal(t, "init(1)[first(2)]", shape(tree.Roots))
	assert.Equal(t, 1, tree.Diagnostics.Duplicates)
}

func TestTree_Walk(t *testing.T) {
	t.Parallel()

	tree := Build(sampleRecords(), 0)

	var visited []string
	tree.Walk(func(n *Node, depth int) bool {
		visited = append(visited, fmt.Sprintf("%d:%s", depth, n.Name))
		return n.Name != "sshd"
	})
	assert.Equal(t, []string{"0:init", "1:sshd"}, visited)
}
