// Package scene maintains the collision world handed to a planning pipeline:
// named geometric objects attached to the world frame or to each other, with
// re-parenting operations that preserve world pose.
package scene

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/kavrakilab/robowflex-go/spatialmath"
)

// World is the name of the root frame every pose chain resolves to.
const World = "world"

// Object is a named geometry placed relative to a parent frame.
type Object struct {
	Name     string
	Geometry spatialmath.Geometry
	Pose     spatialmath.Pose
	Parent   string
}

// Scene is a mutable collection of objects forming a tree rooted at World.
// Scenes are not safe for concurrent mutation.
type Scene struct {
	objects map[string]*Object
}

// New returns an empty scene.
func New() *Scene {
	return &Scene{objects: map[string]*Object{}}
}

// Add places an object in the scene. An empty parent means World. The parent
// must be World or an existing object so every pose chain stays resolvable.
func (s *Scene) Add(obj Object) error {
	if obj.Name == "" {
		return errors.New("scene object must have a name")
	}
	if obj.Name == World {
		return errors.Errorf("%q is reserved for the root frame", World)
	}
	if _, ok := s.objects[obj.Name]; ok {
		return errors.Errorf("scene already contains an object named %q", obj.Name)
	}
	if obj.Parent == "" {
		obj.Parent = World
	}
	if err := s.checkFrame(obj.Parent); err != nil {
		return err
	}
	s.objects[obj.Name] = &obj
	return nil
}

// Remove deletes the named object. Objects attached to it are re-parented to
// World with their world poses preserved.
func (s *Scene) Remove(name string) error {
	if _, ok := s.objects[name]; !ok {
		return NewFrameNotFoundError(name)
	}
	for _, obj := range s.objects {
		if obj.Parent != name {
			continue
		}
		world, err := s.Pose(obj.Name)
		if err != nil {
			return err
		}
		obj.Parent = World
		obj.Pose = world
	}
	delete(s.objects, name)
	return nil
}

// Object returns a copy of the named object.
func (s *Scene) Object(name string) (Object, error) {
	obj, ok := s.objects[name]
	if !ok {
		return Object{}, NewFrameNotFoundError(name)
	}
	return *obj, nil
}

// Objects returns the names of all objects in sorted order.
func (s *Scene) Objects() []string {
	names := make([]string, 0, len(s.objects))
	for name := range s.objects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Pose returns the named object's pose in the World frame, composed through
// its chain of parents.
func (s *Scene) Pose(name string) (spatialmath.Pose, error) {
	pose := spatialmath.NewZeroPose()
	// bounded walk so a malformed graph cannot loop forever
	for steps := 0; name != World; steps++ {
		if steps > len(s.objects) {
			return spatialmath.Pose{}, errors.Errorf("frame chain through %q does not reach %q", name, World)
		}
		obj, ok := s.objects[name]
		if !ok {
			return spatialmath.Pose{}, NewFrameNotFoundError(name)
		}
		pose = spatialmath.Compose(obj.Pose, pose)
		name = obj.Parent
	}
	return pose, nil
}

// Attach re-parents the named object onto a new frame, recomputing its
// relative pose so its world pose is unchanged.
func (s *Scene) Attach(name, parent string) error {
	obj, ok := s.objects[name]
	if !ok {
		return NewFrameNotFoundError(name)
	}
	if err := s.checkFrame(parent); err != nil {
		return err
	}
	if s.inChain(parent, name) {
		return errors.Errorf("attaching %q to %q would create a cycle", name, parent)
	}
	objWorld, err := s.Pose(name)
	if err != nil {
		return err
	}
	parentWorld := spatialmath.NewZeroPose()
	if parent != World {
		if parentWorld, err = s.Pose(parent); err != nil {
			return err
		}
	}
	obj.Parent = parent
	obj.Pose = spatialmath.Compose(spatialmath.Invert(parentWorld), objWorld)
	return nil
}

// Detach re-parents the named object back onto World, preserving its world
// pose.
func (s *Scene) Detach(name string) error {
	return s.Attach(name, World)
}

// Clone returns a deep copy of the scene.
func (s *Scene) Clone() *Scene {
	out := New()
	for name, obj := range s.objects {
		cp := *obj
		out.objects[name] = &cp
	}
	return out
}

func (s *Scene) checkFrame(name string) error {
	if name == World {
		return nil
	}
	if _, ok := s.objects[name]; !ok {
		return NewFrameNotFoundError(name)
	}
	return nil
}

// inChain reports whether target appears in the parent chain starting at
// name, inclusive.
func (s *Scene) inChain(name, target string) bool {
	for steps := 0; name != World && steps <= len(s.objects); steps++ {
		if name == target {
			return true
		}
		obj, ok := s.objects[name]
		if !ok {
			return false
		}
		name = obj.Parent
	}
	return false
}

// NewFrameNotFoundError returns an error for a frame name the scene does not
// contain.
func NewFrameNotFoundError(name string) error {
	return errors.Errorf("no frame named %q in scene", name)
}
