// Package hdf5 loads the group/dataset tree of an HDF5 file eagerly into
// memory. Groups become nested nodes mirroring the container's layout and
// datasets are read in full at load time; only integer and float element
// classes are loadable. Reading the container format itself is delegated to
// the HDF5 library bindings, which require cgo.
package hdf5

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"gonum.org/v1/gonum/mat"
)

// Class is the element class of a dataset.
type Class int

// The loadable element classes.
const (
	ClassInteger Class = iota + 1
	ClassFloat
)

func (c Class) String() string {
	switch c {
	case ClassInteger:
		return "integer"
	case ClassFloat:
		return "double"
	default:
		return "unknown"
	}
}

// Node is one object of a loaded file: either a *Group or a *Data.
type Node interface {
	isNode()
}

// Group is a named collection of child nodes.
type Group struct {
	children map[string]Node
}

func (*Group) isNode() {}

// Child returns the named child node.
func (g *Group) Child(name string) (Node, bool) {
	node, ok := g.children[name]
	return node, ok
}

// Names returns the names of all children in sorted order.
func (g *Group) Names() []string {
	names := make([]string, 0, len(g.children))
	for name := range g.children {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Data is a fully read dataset. The value slices are owned by the Data and
// must not be modified.
type Data struct {
	class  Class
	dims   []uint
	ints   []int64
	floats []float64
}

func (*Data) isNode() {}

func newIntData(dims []uint, values []int64) (*Data, error) {
	if n := dimsLen(dims); n != len(values) {
		return nil, newDataSizeMismatchError(dims, len(values))
	}
	return &Data{class: ClassInteger, dims: dims, ints: values}, nil
}

func newFloatData(dims []uint, values []float64) (*Data, error) {
	if n := dimsLen(dims); n != len(values) {
		return nil, newDataSizeMismatchError(dims, len(values))
	}
	return &Data{class: ClassFloat, dims: dims, floats: values}, nil
}

// Rank returns the number of dimensions.
func (d *Data) Rank() int {
	return len(d.dims)
}

// Dims returns the size of each dimension.
func (d *Data) Dims() []uint {
	out := make([]uint, len(d.dims))
	copy(out, d.dims)
	return out
}

// Class returns the element class.
func (d *Data) Class() Class {
	return d.class
}

// Len returns the total number of elements. A rank-0 scalar has one.
func (d *Data) Len() int {
	return dimsLen(d.dims)
}

// Ints returns the values of an integer dataset in row-major order.
func (d *Data) Ints() ([]int64, error) {
	if d.class != ClassInteger {
		return nil, errors.Errorf("dataset holds %s data, not integer", d.class)
	}
	return d.ints, nil
}

// Floats returns the values of a float dataset in row-major order.
func (d *Data) Floats() ([]float64, error) {
	if d.class != ClassFloat {
		return nil, errors.Errorf("dataset holds %s data, not double", d.class)
	}
	return d.floats, nil
}

// Matrix returns a rank-2 float dataset as a dense matrix sharing the
// dataset's backing values.
func (d *Data) Matrix() (*mat.Dense, error) {
	floats, err := d.Floats()
	if err != nil {
		return nil, err
	}
	if len(d.dims) != 2 {
		return nil, errors.Errorf("dataset has rank %d, need rank 2 for a matrix", len(d.dims))
	}
	return mat.NewDense(int(d.dims[0]), int(d.dims[1]), floats), nil
}

// Status returns a one-line human-readable summary of the dataset.
func (d *Data) Status() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "HDF5DataSet Rank: %d, Type: %s, Dimensions: ", len(d.dims), d.class)
	for i, dim := range d.dims {
		if i > 0 {
			sb.WriteString(" x ")
		}
		fmt.Fprintf(&sb, "%d", dim)
	}
	return sb.String()
}

func dimsLen(dims []uint) int {
	n := 1
	for _, dim := range dims {
		n *= int(dim)
	}
	return n
}

func newDataSizeMismatchError(dims []uint, values int) error {
	return errors.Errorf("dataset has %d values for dimensions %v", values, dims)
}

func newUnsupportedClassError(class string) error {
	return errors.Errorf("unsupported hdf5 datatype class %q, only integer and float data can be loaded", class)
}

// childKind classifies a container child.
type childKind int

const (
	childGroup childKind = iota
	childDataset
	childOther
)

type childInfo struct {
	name string
	kind childKind
}

// container is the read surface of an open HDF5 file or group. The native
// implementation wraps the library bindings; tests substitute an in-memory
// one.
type container interface {
	children() ([]childInfo, error)
	openGroup(name string) (container, error)
	openDataset(name string) (*Data, error)
	close() error
}

// buildGroup walks a container depth-first, loading every dataset.
func buildGroup(c container) (*Group, error) {
	children, err := c.children()
	if err != nil {
		return nil, err
	}
	g := &Group{children: make(map[string]Node, len(children))}
	for _, child := range children {
		switch child.kind {
		case childGroup:
			sub, err := c.openGroup(child.name)
			if err != nil {
				return nil, err
			}
			built, err := buildGroup(sub)
			if err != nil {
				return nil, multierr.Combine(err, sub.close())
			}
			if err := sub.close(); err != nil {
				return nil, err
			}
			g.children[child.name] = built
		case childDataset:
			d, err := c.openDataset(child.name)
			if err != nil {
				return nil, err
			}
			g.children[child.name] = d
		default:
			// named datatypes and other object kinds are not loadable
		}
	}
	return g, nil
}

// File is the fully loaded tree of an HDF5 file. It owns every node for its
// lifetime and is immutable and safe for concurrent reads.
type File struct {
	root *Group
}

// NewFile reads the file at the given path, builds the whole tree, and
// releases the underlying handles before returning.
func NewFile(path string) (*File, error) {
	c, err := openContainer(path)
	if err != nil {
		return nil, err
	}
	root, err := buildGroup(c)
	if err != nil {
		return nil, multierr.Combine(err, c.close())
	}
	if err := c.close(); err != nil {
		return nil, err
	}
	return &File{root: root}, nil
}

// Root returns the file's root group.
func (f *File) Root() *Group {
	return f.root
}

// Lookup resolves a slash-separated path to a node.
func (f *File) Lookup(path string) (Node, error) {
	parts := strings.Split(path, "/")
	var node Node = f.root
	for i, part := range parts {
		g, ok := node.(*Group)
		if !ok {
			return nil, errors.Errorf("path %q crosses a dataset at %q", path, strings.Join(parts[:i], "/"))
		}
		child, ok := g.children[part]
		if !ok {
			return nil, errors.Errorf("no object at path %q", path)
		}
		node = child
	}
	return node, nil
}

// Walk visits every dataset depth-first, siblings in sorted name order,
// with its full slash-separated path. A non-nil error from the callback
// stops the walk.
func (f *File) Walk(fn func(path string, d *Data) error) error {
	return walkGroup(f.root, "", fn)
}

func walkGroup(g *Group, prefix string, fn func(path string, d *Data) error) error {
	for _, name := range g.Names() {
		path := name
		if prefix != "" {
			path = prefix + "/" + name
		}
		switch node := g.children[name].(type) {
		case *Group:
			if err := walkGroup(node, path, fn); err != nil {
				return err
			}
		case *Data:
			if err := fn(path, node); err != nil {
				return err
			}
		}
	}
	return nil
}

// Keys returns the path components of every dataset, in walk order.
func (f *File) Keys() [][]string {
	var keys [][]string
	_ = f.Walk(func(path string, _ *Data) error {
		keys = append(keys, strings.Split(path, "/"))
		return nil
	})
	return keys
}
