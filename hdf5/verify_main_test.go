package hdf5

import (
	"testing"

	"github.com/kavrakilab/robowflex-go/testutils"
)

// TestMain is used to control the execution of all tests run within this package (including _test packages).
func TestMain(m *testing.M) {
	testutils.VerifyTestMain(m)
}
