package magetasks

import (
	"fmt"
)

// QualityCheck lints, tests and builds. Lint findings are reported but do
// not fail the check.
func QualityCheck() error {
	PrintH2Header("Quality Checks")

	if err := LintAll(); err != nil {
		PrintWarning("Linting issues found")
	}
	if err := TestRace(); err != nil {
		return fmt.Errorf("tests failed: %w", err)
	}
	if err := BuildAll(); err != nil {
		return fmt.Errorf("build failed: %w", err)
	}

	PrintSuccess("Quality checks complete")
	return nil
}

// QualityReport runs the quality check with the per-package test summary.
func QualityReport() error {
	PrintH2Header("Quality Report")

	if err := LintAll(); err != nil {
		PrintWarning("Linting issues found")
	}
	return TestReport()
}
