package magetasks

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureOut redirects Out for the duration of the test.
func captureOut(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := Out
	Out = &buf
	t.Cleanup(func() { Out = prev })
	return &buf
}

func TestHeaders(t *testing.T) {
	buf := captureOut(t)

	PrintH1Header("Test Title")
	assert.Contains(t, buf.String(), "Test Title")
	assert.Contains(t, buf.String(), strings.Repeat("=", 80))

	buf.Reset()
	PrintH2Header("Test Section")
	assert.Contains(t, buf.String(), "=== Test Section ===")
}

func TestH1HeaderLongTitle(t *testing.T) {
	buf := captureOut(t)
	title := strings.Repeat("x", 100)

	PrintH1Header(title)
	assert.Contains(t, buf.String(), "\n"+title+"\n")
}

func TestStatusMessages(t *testing.T) {
	tests := []struct {
		name  string
		print func(string)
		want  string
	}{
		{name: "success", print: PrintSuccess, want: "✅ done\n"},
		{name: "warning", print: PrintWarning, want: "⚠️  done\n"},
		{name: "error", print: PrintError, want: "❌ done\n"},
		{name: "info", print: PrintInfo, want: "ℹ️  done\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := captureOut(t)
			tt.print("done")
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestRunMissingCommand(t *testing.T) {
	buf := captureOut(t)

	err := Run("Missing", "pstree-no-such-command-xyz")
	require.Error(t, err)
	assert.True(t, IsCommandNotFound(err))
	assert.NotContains(t, buf.String(), "❌")
}

func TestIsCommandNotFound(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "exec not found", err: exec.ErrNotFound, want: true},
		{name: "wrapped", err: fmt.Errorf("lint: %w", exec.ErrNotFound), want: true},
		{name: "executable message", err: errors.New(`exec: "x": executable file not found in $PATH`), want: true},
		{name: "missing file", err: errors.New("fork/exec /x: no such file or directory"), want: true},
		{name: "other", err: errors.New("exit status 1"), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsCommandNotFound(tt.err))
		})
	}
}

func TestUnformatted(t *testing.T) {
	out := "cmd/pstree/main.go\n_examples/x/y.go\n\npkg/render/json.go\n"
	assert.Equal(t, []string{"cmd/pstree/main.go", "pkg/render/json.go"}, unformatted(out))
	assert.Empty(t, unformatted(""))
}
