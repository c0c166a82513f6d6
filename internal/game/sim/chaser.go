package sim

import (
	gomath "math"

	"github.com/Faultbox/woodland/internal/engine/scene"
	"github.com/Faultbox/woodland/pkg/math"
)

// Chaser drives a node toward the agent across the XZ plane.
type Chaser struct {
	Speed float32 // World units per second
	Reach float32 // Half-width of the square contact zone

	inReach bool
}

// Update moves the node toward the agent and turns it to face the agent.
// Reach is tested against the offset before the move.
func (c *Chaser) Update(tick scene.Tick, n *scene.Node) {
	if tick.Agent == nil {
		return
	}

	target := tick.Agent.Position()
	to := math.Vec3{X: target.X - n.Position.X, Z: target.Z - n.Position.Z}

	c.inReach = math.Abs(to.X) <= c.Reach && math.Abs(to.Z) <= c.Reach

	dist := to.Length()
	if dist == 0 {
		return
	}

	// -Z faces the agent
	heading := float32(gomath.Atan2(float64(-to.X), float64(-to.Z)))
	n.SetOrientation(math.QuatFromAxisAngle(math.AxisY, heading))

	step := c.Speed * tick.Delta
	if step > dist {
		step = dist
	}
	n.Translate(to.Scale(step / dist))
}

// InReach reports whether the agent was inside the contact zone on the last update.
func (c *Chaser) InReach() bool {
	return c.inReach
}

// Reset clears the contact state, e.g. after relocation.
func (c *Chaser) Reset() {
	c.inReach = false
}

// farthest returns the point in candidates farthest from p.
func farthest(p math.Vec3, candidates []math.Vec3) (math.Vec3, bool) {
	if len(candidates) == 0 {
		return math.Vec3{}, false
	}
	best := candidates[0]
	bestDist := best.Distance(p)
	for _, c := range candidates[1:] {
		if d := c.Distance(p); d > bestDist {
			best, bestDist = c, d
		}
	}
	return best, true
}
