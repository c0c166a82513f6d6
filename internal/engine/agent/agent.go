// Package agent provides the navigable first-person agent: a position and
// orientation that moves over the terrain grids.
package agent

import (
	gomath "math"

	"github.com/Faultbox/woodland/internal/engine/terrain"
	"github.com/Faultbox/woodland/pkg/math"
)

// Area is the playable rectangle on the XZ plane.
type Area struct {
	MinX, MaxX float32
	MinZ, MaxZ float32
}

// Clamp limits x and z to the area.
func (a Area) Clamp(p math.Vec3) math.Vec3 {
	p.X = math.Clamp(p.X, a.MinX, a.MaxX)
	p.Z = math.Clamp(p.Z, a.MinZ, a.MaxZ)
	return p
}

// PitchLimit is the largest usable MaxPitch, just short of the poles.
const PitchLimit = float32(gomath.Pi/2 - 0.01)

// Settings configures an Agent.
type Settings struct {
	EyeHeight   float32 // Added to the sampled ground elevation
	MaxPitch    float32 // Max forward elevation in radians, below pi/2
	HalfExtents math.Vec3
	Area        Area
}

// DefaultSettings returns the settings the shipped world is tuned for.
func DefaultSettings() Settings {
	return Settings{
		EyeHeight:   20,
		MaxPitch:    1.4,
		HalfExtents: math.Vec3{X: 3, Y: 10, Z: 3},
		Area:        Area{MinX: -225, MaxX: 1625, MinZ: -235, MaxZ: 1630},
	}
}

// Agent is the single navigable viewpoint.
type Agent struct {
	Settings Settings

	ground *terrain.HeightField
	pass   *terrain.PassabilityGrid

	position    math.Vec3
	orientation math.Quat

	// Base basis captured by SetView. back points away from the view direction.
	back math.Vec3
	side math.Vec3

	box      math.AABB
	lastSafe math.Vec3
}

// New creates an agent over the given grids, looking down -Z from the origin.
// Either grid may be nil, which disables the corresponding check.
func New(ground *terrain.HeightField, pass *terrain.PassabilityGrid, settings Settings) *Agent {
	a := &Agent{
		Settings: settings,
		ground:   ground,
		pass:     pass,
	}
	a.SetView(math.Vec3{}, math.Vec3{Z: -1}, math.AxisY)
	return a
}

// SetView places the agent at pos facing lookAt, and resets orientation.
// The position becomes the last safe position.
func (a *Agent) SetView(pos, lookAt, up math.Vec3) {
	a.back = lookAt.Sub(pos).Normalize().Neg()
	a.side = up.Cross(a.back).Normalize()
	a.orientation = math.QuatIdentity()
	a.position = pos
	a.lastSafe = pos
	a.refreshBounds()
}

// Position returns the agent's world position.
func (a *Agent) Position() math.Vec3 {
	return a.position
}

// Orientation returns the agent's orientation.
func (a *Agent) Orientation() math.Quat {
	return a.orientation
}

// SetPosition teleports the agent without passability checks.
func (a *Agent) SetPosition(p math.Vec3) {
	a.position = p
	a.refreshBounds()
}

// Forward returns the unit view direction.
func (a *Agent) Forward() math.Vec3 {
	return a.orientation.Rotate(a.back).Neg()
}

// Side returns the unit right-hand direction.
func (a *Agent) Side() math.Vec3 {
	return a.orientation.Rotate(a.side)
}

// Up returns the unit up direction of the view.
func (a *Agent) Up() math.Vec3 {
	return a.Side().Cross(a.Forward())
}

// Move applies delta if the destination is passable. The destination is
// clamped to the playable area first; a blocked or out-of-grid destination
// rejects the whole move. Returns whether the agent moved.
func (a *Agent) Move(delta math.Vec3) bool {
	candidate := a.Settings.Area.Clamp(a.position.Add(delta))

	if a.pass != nil && a.pass.IsBlocked(candidate.X, candidate.Z) {
		return false
	}

	a.position = candidate
	a.ResampleHeight()
	a.refreshBounds()
	return true
}

// MoveForward moves along the view direction.
func (a *Agent) MoveForward(amount float32) bool {
	return a.Move(a.Forward().Scale(amount))
}

// MoveSide moves along the side direction; positive is to the right.
func (a *Agent) MoveSide(amount float32) bool {
	return a.Move(a.Side().Scale(amount))
}

// ResampleHeight sets Y to the ground elevation plus eye height.
// Off-grid positions keep their Y.
func (a *Agent) ResampleHeight() {
	if a.ground == nil {
		return
	}
	a.position = a.ground.ClampToGround(a.position, a.Settings.EyeHeight)
	a.refreshBounds()
}

// Rotate pitches about the side axis, then yaws about world up.
// Pitch is limited so the view elevation stays within ±MaxPitch, which is
// itself capped at PitchLimit.
func (a *Agent) Rotate(yaw, pitch float32) {
	if pitch != 0 {
		limit := min(a.Settings.MaxPitch, PitchLimit)
		elev := elevation(a.Forward())
		target := math.Clamp(elev+pitch, -limit, limit)
		if applied := target - elev; applied != 0 {
			q := math.QuatFromAxisAngle(a.Side(), applied)
			a.orientation = q.Mul(a.orientation).Normalize()
		}
	}
	if yaw != 0 {
		q := math.QuatFromAxisAngle(math.AxisY, yaw)
		a.orientation = q.Mul(a.orientation).Normalize()
	}
}

// Pitch returns the current view elevation in radians.
func (a *Agent) Pitch() float32 {
	return elevation(a.Forward())
}

func elevation(forward math.Vec3) float32 {
	return float32(gomath.Asin(float64(math.Clamp(forward.Y, -1, 1))))
}

// Bounds returns the agent's world-space bounding box.
func (a *Agent) Bounds() math.AABB {
	return a.box
}

// RefreshBounds recomputes the bounding box from the current position.
func (a *Agent) RefreshBounds() math.AABB {
	a.refreshBounds()
	return a.box
}

func (a *Agent) refreshBounds() {
	a.box = math.AABBFromCenter(a.position, a.Settings.HalfExtents)
}

// MarkSafe records the current position as the rollback target.
func (a *Agent) MarkSafe() {
	a.lastSafe = a.position
}

// LastSafe returns the rollback target.
func (a *Agent) LastSafe() math.Vec3 {
	return a.lastSafe
}

// Rollback restores the last safe position.
func (a *Agent) Rollback() {
	a.position = a.lastSafe
	a.refreshBounds()
}

// ViewMatrix returns the world-to-view transform.
func (a *Agent) ViewMatrix() math.Mat4 {
	back := a.orientation.Rotate(a.back)
	side := a.Side()
	up := back.Cross(side).Normalize()
	return math.FromBasis(side, up, back, a.position)
}
