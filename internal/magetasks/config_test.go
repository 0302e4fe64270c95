package magetasks

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitialize(t *testing.T) {
	tmpDir := t.TempDir()
	t.Chdir(tmpDir)

	require.NoError(t, Initialize())

	info, err := os.Stat(filepath.Join(tmpDir, "bin"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	expectedRoot, err := filepath.EvalSymlinks(tmpDir)
	require.NoError(t, err)
	actualRoot, err := filepath.EvalSymlinks(ProjectRoot)
	require.NoError(t, err)
	assert.Equal(t, expectedRoot, actualRoot)
}

func TestPaths(t *testing.T) {
	assert.Equal(t, "github.com/dkoosis/pstree", ModulePath)
	assert.Equal(t, "./bin/pstree", BinPath)
	assert.Equal(t, "./cmd/pstree", MainPackage)
}

func TestBuildArgsStampVersion(t *testing.T) {
	built := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	args := buildArgs("v1.2.3", "abc123", built)

	require.Len(t, args, 6)
	assert.Equal(t, "build", args[0])
	assert.Equal(t, BinPath, args[4])
	assert.Equal(t, MainPackage, args[5])
	ldflags := args[2]
	assert.Contains(t, ldflags, "github.com/dkoosis/pstree/internal/version.Version=v1.2.3")
	assert.Contains(t, ldflags, "internal/version.CommitHash=abc123")
	assert.Contains(t, ldflags, "internal/version.BuildDate=2026-01-02T03:04:05Z")
}
