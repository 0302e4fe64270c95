package magetasks

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/dkoosis/pstree/internal/detect"
)

// testEvent is one line of `go test -json` output.
type testEvent struct {
	Action  string  `json:"Action"`
	Package string  `json:"Package"`
	Test    string  `json:"Test"`
	Elapsed float64 `json:"Elapsed"`
	Output  string  `json:"Output"`
}

// packageResult aggregates the events of one package.
type packageResult struct {
	Name     string
	Passed   int
	Failed   int
	Skipped  int
	Coverage float64
	Duration time.Duration
	Failures []string
	Done     bool
	Status   string
}

// testSummary collects package results from a `go test -json` stream.
type testSummary struct {
	packages map[string]*packageResult
}

func newTestSummary() *testSummary {
	return &testSummary{packages: make(map[string]*packageResult)}
}

// Consume reads events until r is exhausted. Lines that are not JSON
// events, such as build errors, are ignored.
func (s *testSummary) Consume(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		var ev testEvent
		if err := json.Unmarshal(scanner.Bytes(), &ev); err != nil || ev.Package == "" {
			continue
		}
		s.add(ev)
	}
	return scanner.Err()
}

func (s *testSummary) add(ev testEvent) {
	pkg, ok := s.packages[ev.Package]
	if !ok {
		pkg = &packageResult{Name: ev.Package}
		s.packages[ev.Package] = pkg
	}

	switch ev.Action {
	case "pass", "fail", "skip":
		if ev.Test == "" {
			pkg.Done = true
			pkg.Status = ev.Action
			pkg.Duration = time.Duration(ev.Elapsed * float64(time.Second))
			return
		}
		switch ev.Action {
		case "pass":
			pkg.Passed++
		case "fail":
			pkg.Failed++
			pkg.Failures = append(pkg.Failures, ev.Test)
		case "skip":
			pkg.Skipped++
		}
	case "output":
		if cov, ok := parseCoverage(ev.Output); ok {
			pkg.Coverage = cov
		}
	}
}

// parseCoverage extracts the percentage from a "coverage: 45.2% of
// statements" line.
func parseCoverage(line string) (float64, bool) {
	idx := strings.Index(line, "coverage: ")
	if idx < 0 || !strings.Contains(line, "% of statements") {
		return 0, false
	}
	var cov float64
	if _, err := fmt.Sscanf(line[idx:], "coverage: %f%% of statements", &cov); err != nil {
		return 0, false
	}
	return cov, true
}

// Results returns finished packages sorted by import path.
func (s *testSummary) Results() []*packageResult {
	out := make([]*packageResult, 0, len(s.packages))
	for _, p := range s.packages {
		if p.Done {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Failed reports whether any package failed.
func (s *testSummary) Failed() bool {
	for _, p := range s.packages {
		if p.Status == "fail" || p.Failed > 0 {
			return true
		}
	}
	return false
}

// Write prints one line per package, with failing tests listed below.
func (s *testSummary) Write(w io.Writer, r *lipgloss.Renderer) {
	pass := r.NewStyle().Foreground(lipgloss.Color("2"))
	fail := r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	skip := r.NewStyle().Foreground(lipgloss.Color("3"))
	dim := r.NewStyle().Faint(true)

	for _, p := range s.Results() {
		var mark string
		switch {
		case p.Status == "fail" || p.Failed > 0:
			mark = fail.Render("FAIL")
		case p.Passed == 0 && p.Status == "skip":
			mark = skip.Render("SKIP")
		default:
			mark = pass.Render("PASS")
		}

		cov := ""
		if p.Coverage > 0 {
			cov = fmt.Sprintf(" %5.1f%%", p.Coverage)
		}
		fmt.Fprintf(w, "%s %s %s%s\n", mark, shortPackage(p.Name),
			dim.Render(fmt.Sprintf("%d passed, %d failed, %d skipped, %s",
				p.Passed, p.Failed, p.Skipped, p.Duration.Round(time.Millisecond))), cov)
		for _, name := range p.Failures {
			fmt.Fprintf(w, "     %s %s\n", fail.Render("✗"), name)
		}
	}
}

func shortPackage(name string) string {
	return strings.TrimPrefix(strings.TrimPrefix(name, ModulePath), "/")
}

// TestReport runs the test suite with -json and prints a per-package summary.
func TestReport() error {
	PrintH2Header("Test Report")

	cmd := exec.Command("go", "test", "-json", "-cover", "./...")
	cmd.Stderr = Out
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start go test: %w", err)
	}

	summary := newTestSummary()
	consumeErr := summary.Consume(stdout)
	waitErr := cmd.Wait()

	summary.Write(Out, detect.Renderer(os.Stdout, detect.Auto, nil))

	switch {
	case consumeErr != nil:
		return fmt.Errorf("read test events: %w", consumeErr)
	case waitErr != nil || summary.Failed():
		PrintError("Tests failed")
		if waitErr == nil {
			waitErr = fmt.Errorf("tests failed")
		}
		return waitErr
	}
	PrintSuccess("All tests passed")
	return nil
}
