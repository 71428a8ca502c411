//go:build no_cgo

package hdf5

import "github.com/pkg/errors"

// openContainer is not supported on no_cgo builds. The HDF5 library
// bindings need cgo.
func openContainer(path string) (container, error) {
	return nil, errors.New("hdf5 loading is not supported on this build")
}
