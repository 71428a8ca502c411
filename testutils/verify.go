// Package testutils implements test utilities.
package testutils

import (
	"go.uber.org/goleak"
)

// VerifyTestMain verifies that no goroutines leak after the package's tests
// finish.
func VerifyTestMain(m goleak.TestingM) {
	goleak.VerifyTestMain(m)
}
