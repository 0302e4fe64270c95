package magetasks

import (
	"os"
	"path/filepath"
)

var (
	// ModulePath is the Go module path used for version ldflags.
	ModulePath = "github.com/dkoosis/pstree"

	// MainPackage is the package built into BinPath.
	MainPackage = "./cmd/pstree"

	// BinPath is the output path for the built binary.
	BinPath = "./bin/pstree"

	// ProjectRoot is the root directory of the project.
	ProjectRoot string
)

// Initialize records the project root and makes sure bin/ exists.
// Call this from the Magefile init() function.
func Initialize() error {
	var err error
	ProjectRoot, err = os.Getwd()
	if err != nil {
		return err
	}

	binDir := filepath.Join(ProjectRoot, "bin")
	return os.MkdirAll(binDir, 0o750)
}
