package ui

import (
	"path/filepath"
	"testing"

	"github.com/atomicstack/volute/internal/logging"
)

// withLogFile keeps fault logging out of the package directory.
func withLogFile(t *testing.T) {
	t.Helper()
	logging.Configure(filepath.Join(t.TempDir(), "volute.log"))
	t.Cleanup(func() {
		logging.Configure("")
		logging.SetRunID("")
	})
}
