package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"go.viam.com/test"
)

// TempFile writes contents to name under the test's temporary directory and
// returns the full path. The file is removed with the test's cleanup.
func TempFile(t *testing.T, name string, contents []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	test.That(t, os.WriteFile(path, contents, 0o600), test.ShouldBeNil)
	return path
}
