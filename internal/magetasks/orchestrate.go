package magetasks

import (
	"fmt"
	"time"
)

// Section is one named step of a multi-step workflow.
type Section struct {
	Name        string
	Description string
	Run         func() error
}

// SectionResult records how a section went.
type SectionResult struct {
	Name     string
	Err      error
	Duration time.Duration
}

// RunSections runs sections in order and stops at the first failure.
func RunSections(sections ...Section) ([]SectionResult, error) {
	results := make([]SectionResult, 0, len(sections))
	for _, s := range sections {
		PrintH1Header(s.Name)
		if s.Description != "" {
			PrintInfo(s.Description)
		}

		start := time.Now()
		err := s.Run()
		results = append(results, SectionResult{Name: s.Name, Err: err, Duration: time.Since(start)})
		if err != nil {
			return results, fmt.Errorf("%s: %w", s.Name, err)
		}
	}
	return results, nil
}

// RunAll builds pstree and then runs the test report.
func RunAll() error {
	results, err := RunSections(
		Section{Name: "Build", Description: "Build the pstree binary", Run: BuildAll},
		Section{Name: "Tests", Description: "Run tests with a per-package summary", Run: TestReport},
	)
	for _, r := range results {
		status := "ok"
		if r.Err != nil {
			status = "FAILED"
		}
		fmt.Fprintf(Out, "%-8s %-6s %s\n", r.Name, status, r.Duration.Round(time.Millisecond))
	}
	return err
}
