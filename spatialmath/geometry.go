package spatialmath

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// GeometryType distinguishes the supported solid primitives.
type GeometryType string

// The set of geometry primitives understood by scenes and goal regions.
const (
	BoxType      GeometryType = "box"
	SphereType   GeometryType = "sphere"
	CylinderType GeometryType = "cylinder"
)

// Geometry is a solid primitive. Dims is interpreted per type: a box stores
// its full extents along X, Y, Z; a sphere stores its radius in X; a cylinder
// stores its radius in X and its length in Z.
type Geometry struct {
	Type  GeometryType
	Dims  r3.Vector
	Label string
}

// NewBox returns a box geometry with the given full extents.
func NewBox(dims r3.Vector, label string) (Geometry, error) {
	if dims.X <= 0 || dims.Y <= 0 || dims.Z <= 0 {
		return Geometry{}, newBadGeometryDimsError(BoxType, dims)
	}
	return Geometry{Type: BoxType, Dims: dims, Label: label}, nil
}

// NewSphere returns a sphere geometry with the given radius.
func NewSphere(radius float64, label string) (Geometry, error) {
	if radius <= 0 {
		return Geometry{}, newBadGeometryDimsError(SphereType, r3.Vector{X: radius})
	}
	return Geometry{Type: SphereType, Dims: r3.Vector{X: radius}, Label: label}, nil
}

// NewCylinder returns a cylinder geometry with the given radius and length.
func NewCylinder(radius, length float64, label string) (Geometry, error) {
	if radius <= 0 || length <= 0 {
		return Geometry{}, newBadGeometryDimsError(CylinderType, r3.Vector{X: radius, Z: length})
	}
	return Geometry{Type: CylinderType, Dims: r3.Vector{X: radius, Z: length}, Label: label}, nil
}

// Radius returns the radius of a sphere or cylinder, and 0 for other types.
func (g Geometry) Radius() float64 {
	switch g.Type {
	case SphereType, CylinderType:
		return g.Dims.X
	default:
		return 0
	}
}

// Length returns the length of a cylinder, and 0 for other types.
func (g Geometry) Length() float64 {
	if g.Type == CylinderType {
		return g.Dims.Z
	}
	return 0
}

func newBadGeometryDimsError(gType GeometryType, dims r3.Vector) error {
	return errors.Errorf("dimensions %v are invalid for a %s, all must be positive", dims, gType)
}
