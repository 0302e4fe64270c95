package magetasks

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

const golangciDisable = "--disable=exhaustruct,varnamelen,ireturn,wrapcheck,nlreturn,gochecknoglobals,mnd,depguard,tagalign"

// LintAll runs all linters. Missing optional linters are skipped.
func LintAll() error {
	PrintH2Header("Lint")

	var errs []error

	// Go format
	if err := LintFormat(); err != nil {
		errs = append(errs, err)
	}

	// Go vet
	if err := LintVet(); err != nil {
		errs = append(errs, err)
	}

	// Staticcheck (optional)
	if err := LintStaticcheck(); err != nil {
		if !IsCommandNotFound(err) {
			errs = append(errs, err)
		}
	}

	// Golangci-lint (optional)
	if err := LintGolangci(); err != nil {
		if !IsCommandNotFound(err) {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	PrintSuccess("All linters passed")
	return nil
}

// LintFormat lists files gofmt would change and fails if there are any.
func LintFormat() error {
	PrintInfo("Go Format")
	out, err := exec.Command("gofmt", "-l", ".").Output()
	if err != nil {
		return fmt.Errorf("gofmt failed: %w", err)
	}
	if files := unformatted(string(out)); len(files) > 0 {
		PrintError("Unformatted files: " + strings.Join(files, ", "))
		return fmt.Errorf("%d files need gofmt", len(files))
	}
	PrintSuccess("Go Format")
	return nil
}

// unformatted parses gofmt -l output, ignoring the read-only reference tree.
func unformatted(out string) []string {
	var files []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "_") {
			continue
		}
		files = append(files, line)
	}
	return files
}

// LintVet runs go vet.
func LintVet() error {
	return Run("Go Vet", "go", "vet", "./...")
}

// tool is an optional external linter.
type tool struct {
	label   string
	install string // module path for go install
	name    string
	args    []string
}

var (
	staticcheck = tool{
		label:   "Staticcheck",
		install: "honnef.co/go/tools/cmd/staticcheck",
		name:    "staticcheck",
		args:    []string{"./..."},
	}
	golangci = tool{
		label:   "Golangci-lint",
		install: "github.com/golangci/golangci-lint/cmd/golangci-lint",
		name:    "golangci-lint",
		args:    []string{"run", golangciDisable, "--timeout=5m", "./..."},
	}
)

// with returns a copy of t with extra arguments placed before the rest.
func (t tool) with(label string, extra ...string) tool {
	t.label = label
	t.args = append(append([]string{t.args[0]}, extra...), t.args[1:]...)
	return t
}

// run executes t. A missing binary prints an install hint and returns an
// error for which IsCommandNotFound is true.
func (t tool) run() error {
	err := Run(t.label, t.name, t.args...)
	switch {
	case err == nil:
		return nil
	case IsCommandNotFound(err):
		PrintWarning(fmt.Sprintf("%s not found (install: go install %s@latest)", t.label, t.install))
		return err
	default:
		return fmt.Errorf("%s failed: %w", t.name, err)
	}
}

// LintStaticcheck runs staticcheck.
func LintStaticcheck() error {
	return staticcheck.run()
}

// LintGolangci runs golangci-lint.
func LintGolangci() error {
	return golangci.run()
}

// LintGolangciFix runs golangci-lint with auto-fixes.
func LintGolangciFix() error {
	return golangci.with("Golangci-lint Fix", "--fix").run()
}
