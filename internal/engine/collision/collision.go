// Package collision resolves the agent against static obstacle volumes.
package collision

import (
	"go.uber.org/zap"

	"github.com/Faultbox/woodland/internal/logger"
	"github.com/Faultbox/woodland/pkg/math"
)

// DefaultHalfExtents is used when an entity has no explicit size.
var DefaultHalfExtents = math.Vec3{X: 7, Y: 10, Z: 7}

// Entity is a static obstacle volume anchored in the world.
type Entity struct {
	Name        string
	HalfExtents math.Vec3
	Position    math.Vec3
	Orientation math.Quat
	Removable   bool // Can be removed by interaction, e.g. a door
}

// NewEntity returns an unrotated entity with the default size.
func NewEntity(name string, pos math.Vec3) Entity {
	return Entity{
		Name:        name,
		HalfExtents: DefaultHalfExtents,
		Position:    pos,
		Orientation: math.QuatIdentity(),
	}
}

// Bounds returns the world box enclosing the oriented entity volume.
func (e Entity) Bounds() math.AABB {
	q := e.Orientation
	if q == (math.Quat{}) {
		q = math.QuatIdentity()
	}
	return math.OrientedBounds(e.Position, e.HalfExtents, q)
}

// Body is something that can be pushed back out of obstacles.
type Body interface {
	RefreshBounds() math.AABB
	Rollback()
	MarkSafe()
}

// Set holds the obstacle volumes of a world.
type Set struct {
	entities []Entity
}

// NewSet creates an empty set.
func NewSet() *Set {
	return &Set{}
}

// Add appends an entity.
func (s *Set) Add(e Entity) {
	s.entities = append(s.entities, e)
}

// Remove deletes the first entity named name.
func (s *Set) Remove(name string) bool {
	for i, e := range s.entities {
		if e.Name == name {
			s.entities = append(s.entities[:i], s.entities[i+1:]...)
			return true
		}
	}
	return false
}

// Len returns the number of entities.
func (s *Set) Len() int {
	return len(s.entities)
}

// Entities returns a copy of the entities in insertion order.
func (s *Set) Entities() []Entity {
	out := make([]Entity, len(s.entities))
	copy(out, s.entities)
	return out
}

// Find returns the entity named name.
func (s *Set) Find(name string) (Entity, bool) {
	for _, e := range s.entities {
		if e.Name == name {
			return e, true
		}
	}
	return Entity{}, false
}

// TestAndResolve checks the body against every entity. On the first overlap
// the body is rolled back to its last safe position and the sweep stops.
// The resulting position then becomes the new safe position.
func (s *Set) TestAndResolve(b Body) bool {
	box := b.RefreshBounds()

	hit := false
	for _, e := range s.entities {
		if box.Overlaps(e.Bounds()) {
			logger.Debug("collision", zap.String("entity", e.Name))
			b.Rollback()
			hit = true
			break
		}
	}

	b.MarkSafe()
	return hit
}

// Overlapping returns the names of all entities intersecting box.
func (s *Set) Overlapping(box math.AABB) []string {
	var names []string
	for _, e := range s.entities {
		if box.Overlaps(e.Bounds()) {
			names = append(names, e.Name)
		}
	}
	return names
}

// Raycast returns the nearest entity hit within maxDist.
func (s *Set) Raycast(origin, dir math.Vec3, maxDist float32) (string, float32, bool) {
	ray := NewRay(origin, dir)

	best := ""
	bestDist := maxDist
	found := false
	for _, e := range s.entities {
		d, ok := ray.IntersectAABB(e.Bounds())
		if !ok || d > bestDist {
			continue
		}
		if !found || d < bestDist {
			best, bestDist, found = e.Name, d, true
		}
	}
	return best, bestDist, found
}
