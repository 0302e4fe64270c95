// Package magetasks holds the build, lint, test and quality tasks behind the
// pstree Magefile. Each exported task is a plain func() error so the
// Magefile namespaces stay one-line wrappers.
package magetasks
