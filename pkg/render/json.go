package render

import (
	"encoding/json"

	"github.com/dkoosis/pstree/pkg/proctree"
)

// JSON renders the tree as an indented JSON document for automation.
type JSON struct {
	cfg Config
}

// NewJSON creates a JSON renderer. Only MaxDepth of cfg applies.
func NewJSON(cfg Config) *JSON {
	return &JSON{cfg: cfg}
}

// document is the top-level shape shared by the JSON and YAML renderers.
type document struct {
	Version string     `json:"version" yaml:"version"`
	Roots   []nodeView `json:"roots" yaml:"roots"`
}

type nodeView struct {
	PID       int        `json:"pid,omitempty" yaml:"pid,omitempty"`
	PPID      int        `json:"ppid" yaml:"ppid"`
	Name      string     `json:"name" yaml:"name"`
	Count     int        `json:"count,omitempty" yaml:"count,omitempty"`
	PIDs      []int      `json:"pids,omitempty" yaml:"pids,omitempty"`
	Truncated bool       `json:"truncated,omitempty" yaml:"truncated,omitempty"`
	Children  []nodeView `json:"children,omitempty" yaml:"children,omitempty"`
}

// Render formats the tree as JSON.
func (j *JSON) Render(tree *proctree.Tree) string {
	data, err := json.MarshalIndent(newDocument(tree, j.cfg), "", "  ")
	if err != nil {
		errJSON, _ := json.Marshal(map[string]string{"error": err.Error()})
		return string(errJSON) + "\n"
	}
	return string(data) + "\n"
}

func newDocument(tree *proctree.Tree, cfg Config) document {
	doc := document{Version: "1", Roots: []nodeView{}}
	if tree == nil {
		return doc
	}
	for _, root := range tree.Roots {
		doc.Roots = append(doc.Roots, view(root, cfg))
	}
	return doc
}

// view copies the visible part of the subtree at n. Depth is bounded by
// cfg.MaxDepth; without a cutoff it follows the tree, which Build keeps
// acyclic.
func view(n *proctree.Node, cfg Config) nodeView {
	type frame struct {
		src   *proctree.Node
		dst   *nodeView
		depth int
	}

	root := leafView(n)
	stack := []frame{{src: n, dst: &root}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if len(f.src.Children) == 0 {
			continue
		}
		if cfg.truncated(f.depth) {
			f.dst.Truncated = true
			continue
		}
		f.dst.Children = make([]nodeView, len(f.src.Children))
		for i, c := range f.src.Children {
			f.dst.Children[i] = leafView(c)
			stack = append(stack, frame{src: c, dst: &f.dst.Children[i], depth: f.depth + 1})
		}
	}
	return root
}

func leafView(n *proctree.Node) nodeView {
	v := nodeView{PID: n.PID, PPID: n.PPID, Name: n.Name}
	if n.IsGroup() {
		v.Count = n.Count
		v.PIDs = n.PIDs
	}
	return v
}
