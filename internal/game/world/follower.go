package world

import (
	"github.com/Faultbox/woodland/internal/engine/terrain"
	"github.com/Faultbox/woodland/pkg/math"
)

// Mover is anything the follower can steer.
type Mover interface {
	Position() math.Vec3
	Move(delta math.Vec3) bool
}

// Follower walks a mover along a passability route, one cell center at a time.
type Follower struct {
	world *World

	// Current path
	path      []terrain.Cell
	pathIndex int

	// Distance at which a waypoint counts as reached
	ArriveRadius float32

	IsFollowingPath bool
}

// NewFollower creates a follower over w.
func NewFollower(w *World) *Follower {
	return &Follower{world: w, ArriveRadius: 0.01}
}

// MoveTo plans a route from the mover's cell to the cell containing dest.
// Returns the planned cells, or nil when no route exists.
func (f *Follower) MoveTo(from, dest math.Vec3) []terrain.Cell {
	f.ClearPath()

	sc, sr := f.world.Pass.Cell(from.X, from.Z)
	gc, gr := f.world.Pass.Cell(dest.X, dest.Z)

	path := f.world.Pass.FindPath(terrain.Cell{Col: sc, Row: sr}, terrain.Cell{Col: gc, Row: gr})
	if len(path) == 0 {
		return nil
	}

	// Skip the start cell, it is the current position
	if len(path) > 1 {
		f.path = path[1:]
	} else {
		f.path = path
	}
	f.IsFollowingPath = true
	return path
}

// Waypoint returns the world position of the current waypoint.
func (f *Follower) Waypoint() (math.Vec3, bool) {
	if !f.IsFollowingPath || f.pathIndex >= len(f.path) {
		return math.Vec3{}, false
	}
	c := f.path[f.pathIndex]
	return f.CellCenter(c), true
}

// CellCenter returns the world XZ center of a passability cell.
func (f *Follower) CellCenter(c terrain.Cell) math.Vec3 {
	m := f.world.Mapping
	return math.Vec3{X: m.PassCellCenter(c.Col), Z: m.PassCellCenter(c.Row)}
}

// Step moves the mover up to dist toward the current waypoint.
// The route is dropped if the mover refuses a step or the step makes no
// progress, e.g. a waypoint outside the playable area.
func (f *Follower) Step(m Mover, dist float32) bool {
	target, ok := f.Waypoint()
	if !ok {
		f.IsFollowingPath = false
		return false
	}

	before := m.Position()
	d := math.Vec3{X: target.X - before.X, Z: target.Z - before.Z}
	if l := d.Length(); l > dist {
		d = d.Scale(dist / l)
	}

	if !m.Move(d) {
		f.ClearPath()
		return false
	}

	pos := m.Position()
	if target.XZ().Distance(pos.XZ()) <= f.ArriveRadius {
		f.pathIndex++
		if f.pathIndex >= len(f.path) {
			f.IsFollowingPath = false
		}
		return true
	}
	if pos.XZ() == before.XZ() {
		f.ClearPath()
		return false
	}
	return true
}

// ClearPath stops the current path following.
func (f *Follower) ClearPath() {
	f.path = nil
	f.pathIndex = 0
	f.IsFollowingPath = false
}

// Path returns the remaining planned cells including the current waypoint.
func (f *Follower) Path() []terrain.Cell {
	if f.pathIndex >= len(f.path) {
		return nil
	}
	return f.path[f.pathIndex:]
}
