package testutil

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const runTimeout = 10 * time.Second

// Result is what one invocation of the binary produced.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// RunBinary runs bin with args and stdin inside a temporary directory and
// a private log file. It fails the test on timeout or if bin cannot start.
func RunBinary(t *testing.T, bin, stdin string, args ...string) Result {
	t.Helper()
	dir := t.TempDir()
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	full := append([]string{"--log-file", filepath.Join(dir, "volute.log")}, args...)
	cmd := exec.CommandContext(ctx, bin, full...)
	cmd.Dir = dir
	cmd.Stdin = strings.NewReader(stdin)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if ctx.Err() != nil {
		t.Fatalf("%s timed out after %s", filepath.Base(bin), runTimeout)
	}
	res := Result{Stdout: stdout.String(), Stderr: stderr.String()}
	var exitErr *exec.ExitError
	switch {
	case err == nil:
	case errors.As(err, &exitErr):
		res.ExitCode = exitErr.ExitCode()
	default:
		t.Fatalf("failed to run %s: %v", filepath.Base(bin), err)
	}
	return res
}
