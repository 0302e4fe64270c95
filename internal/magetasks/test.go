package magetasks

import (
	"os/exec"
)

// TestAll runs all tests.
func TestAll() error {
	PrintH2Header("Tests")
	return Run("go test", "go", "test", "./...")
}

// TestCoverage runs tests with coverage and prints the per-function summary.
func TestCoverage() error {
	PrintH2Header("Test Coverage")

	if err := Run("go test -cover", "go", "test", "-coverprofile=coverage.out", "./..."); err != nil {
		return err
	}

	cmd := exec.Command("go", "tool", "cover", "-func=coverage.out")
	cmd.Stdout = Out
	cmd.Stderr = Out
	_ = cmd.Run()
	return nil
}

// TestRace runs tests with the race detector.
func TestRace() error {
	PrintH2Header("Race Detector")
	return Run("go test -race", "go", "test", "-race", "./...")
}
