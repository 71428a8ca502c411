//go:build !windows && !no_cgo

package hdf5

import (
	"fmt"

	"github.com/pkg/errors"
	goutils "go.viam.com/utils"
	hdf5lib "gonum.org/v1/hdf5"
)

// commonFG is the shared surface of library file and group handles.
type commonFG interface {
	NumObjects() (uint, error)
	ObjectNameByIndex(idx uint) (string, error)
	ObjectTypeByIndex(idx uint) (hdf5lib.GType, error)
	OpenGroup(name string) (*hdf5lib.Group, error)
	OpenDataset(name string) (*hdf5lib.Dataset, error)
}

// nativeContainer adapts an open library handle to the container interface.
type nativeContainer struct {
	fg      commonFG
	closeFn func() error
}

func openContainer(path string) (container, error) {
	file, err := hdf5lib.OpenFile(path, hdf5lib.F_ACC_RDONLY)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open hdf5 file %q", path)
	}
	return &nativeContainer{fg: file, closeFn: file.Close}, nil
}

func (c *nativeContainer) children() ([]childInfo, error) {
	num, err := c.fg.NumObjects()
	if err != nil {
		return nil, err
	}
	children := make([]childInfo, 0, num)
	for idx := uint(0); idx < num; idx++ {
		name, err := c.fg.ObjectNameByIndex(idx)
		if err != nil {
			return nil, err
		}
		objType, err := c.fg.ObjectTypeByIndex(idx)
		if err != nil {
			return nil, err
		}
		kind := childOther
		switch objType {
		case hdf5lib.H5G_GROUP:
			kind = childGroup
		case hdf5lib.H5G_DATASET:
			kind = childDataset
		}
		children = append(children, childInfo{name: name, kind: kind})
	}
	return children, nil
}

func (c *nativeContainer) openGroup(name string) (container, error) {
	group, err := c.fg.OpenGroup(name)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open group %q", name)
	}
	return &nativeContainer{fg: group, closeFn: group.Close}, nil
}

func (c *nativeContainer) openDataset(name string) (*Data, error) {
	ds, err := c.fg.OpenDataset(name)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open dataset %q", name)
	}
	d, err := readDataset(ds)
	if err != nil {
		goutils.UncheckedErrorFunc(ds.Close)
		return nil, errors.Wrapf(err, "failed to read dataset %q", name)
	}
	if err := ds.Close(); err != nil {
		return nil, err
	}
	return d, nil
}

func (c *nativeContainer) close() error {
	return c.closeFn()
}

func readDataset(ds *hdf5lib.Dataset) (*Data, error) {
	space := ds.Space()
	if space == nil {
		return nil, errors.New("failed to get dataspace")
	}
	defer goutils.UncheckedErrorFunc(space.Close)
	dims, _, err := space.SimpleExtentDims()
	if err != nil {
		return nil, err
	}
	dt, err := ds.Datatype()
	if err != nil {
		return nil, err
	}
	defer goutils.UncheckedErrorFunc(dt.Close)

	n := dimsLen(dims)
	switch class := dt.Class(); class {
	case hdf5lib.T_INTEGER:
		values := make([]int64, n)
		if n > 0 {
			if err := ds.Read(&values); err != nil {
				return nil, err
			}
		}
		return newIntData(dims, values)
	case hdf5lib.T_FLOAT:
		values := make([]float64, n)
		if n > 0 {
			if err := ds.Read(&values); err != nil {
				return nil, err
			}
		}
		return newFloatData(dims, values)
	default:
		return nil, newUnsupportedClassError(fmt.Sprint(class))
	}
}
