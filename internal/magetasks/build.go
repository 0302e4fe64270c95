package magetasks

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// BuildAll builds the pstree binary with version information stamped in.
func BuildAll() error {
	PrintH2Header("Build")

	return Run("Building pstree", "go", buildArgs(getGitVersion(), getGitCommit(), time.Now().UTC())...)
}

func buildArgs(version, commit string, built time.Time) []string {
	pkg := ModulePath + "/internal/version"
	ldflags := fmt.Sprintf("-s -w -X '%s.Version=%s' -X '%s.CommitHash=%s' -X '%s.BuildDate=%s'",
		pkg, version, pkg, commit, pkg, built.Format(time.RFC3339))
	return []string{"build", "-ldflags", ldflags, "-o", BinPath, MainPackage}
}

// Clean removes build artifacts.
func Clean() error {
	PrintH2Header("Clean")

	if err := os.RemoveAll("./bin"); err != nil {
		return err
	}
	_ = os.Remove("coverage.out")
	if err := exec.Command("go", "clean", "-cache").Run(); err != nil {
		PrintWarning("go clean -cache failed: " + err.Error())
	}

	PrintSuccess("Cleaned build artifacts")
	return nil
}

func getGitVersion() string {
	out, err := exec.Command("git", "describe", "--tags", "--always", "--dirty", "--match=v*").Output()
	if err != nil {
		return "dev"
	}
	return strings.TrimSpace(string(out))
}

func getGitCommit() string {
	out, err := exec.Command("git", "rev-parse", "--short", "HEAD").Output()
	if err != nil {
		return "unknown"
	}
	return strings.TrimSpace(string(out))
}
