package render

import (
	"gopkg.in/yaml.v3"

	"github.com/dkoosis/pstree/pkg/proctree"
)

// YAML renders the tree as a YAML document with the same shape as JSON.
type YAML struct {
	cfg Config
}

// NewYAML creates a YAML renderer. Only MaxDepth of cfg applies.
func NewYAML(cfg Config) *YAML {
	return &YAML{cfg: cfg}
}

// Render formats the tree as YAML.
func (y *YAML) Render(tree *proctree.Tree) string {
	data, err := yaml.Marshal(newDocument(tree, y.cfg))
	if err != nil {
		return "error: " + err.Error() + "\n"
	}
	return string(data)
}
