package sim

import (
	"github.com/Faultbox/woodland/internal/engine/scene"
	"github.com/Faultbox/woodland/pkg/math"
)

// NodeTransform is one node's final world transform.
type NodeTransform struct {
	ID    scene.NodeID
	Name  string
	Kind  scene.Kind
	World math.Mat4
}

// Frame is the snapshot a renderer consumes after a tick.
type Frame struct {
	Tick uint64
	Time float32

	AgentPosition    math.Vec3
	AgentOrientation math.Quat
	View             math.Mat4

	Nodes   []NodeTransform
	Effects RenderEffects

	Health int
	Immune bool
	Lost   bool
}

// Frame returns the current snapshot. Wind sway is evaluated at the
// simulated time.
func (s *Simulation) Frame() Frame {
	t := float32(s.elapsed.Seconds())

	f := Frame{
		Tick:             s.ticks,
		Time:             t,
		AgentPosition:    s.Agent.Position(),
		AgentOrientation: s.Agent.Orientation(),
		View:             s.Agent.ViewMatrix(),
		Nodes:            make([]NodeTransform, 0, s.Graph.Len()),
		Effects:          s.effects,
		Health:           s.health,
		Immune:           s.Immune(),
		Lost:             s.lost,
	}

	s.Graph.Each(func(id scene.NodeID, n *scene.Node) {
		f.Nodes = append(f.Nodes, NodeTransform{
			ID:    id,
			Name:  n.Name,
			Kind:  n.Kind,
			World: s.Graph.WorldTransform(id, t),
		})
	})
	return f
}
