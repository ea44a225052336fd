package main

import (
	"bytes"
	"testing"
)

// runCLI executes the root command against an isolated SQLite store in dir
// and returns what was written to stdout and stderr.
func runCLI(t *testing.T, dir string, args ...string) (string, string, error) {
	t.Helper()

	base := []string{"--store", "sqlite", "--db-dir", dir, "--api-key", ""}
	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append(base, args...))

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}
