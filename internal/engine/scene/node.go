// Package scene provides the transform hierarchy: an arena of nodes with
// parent links, orbit pivots and wind sway.
package scene

import (
	"github.com/Faultbox/woodland/pkg/math"
)

// NodeID addresses a node in a Graph. IDs stay valid until the node is removed.
type NodeID int

// NoParent marks a root node.
const NoParent NodeID = -1

// Kind tags what a node represents.
type Kind uint8

// Node kinds.
const (
	KindStatic Kind = iota // Placed world content
	KindBranch             // Procedural tree segment
	KindChaser             // Entity pursuing the agent
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindStatic:
		return "static"
	case KindBranch:
		return "branch"
	case KindChaser:
		return "chaser"
	default:
		return "unknown"
	}
}

// Node is a hierarchical pose. Its world transform is computed on demand by
// Graph.WorldTransform and never stored.
type Node struct {
	Name string
	Kind Kind

	Position    math.Vec3
	Orientation math.Quat
	Scaling     math.Vec3

	// Orbit pivot: the subtree rotates by PivotRotation about -PivotTranslation
	// in the node frame, e.g. the base of a branch segment.
	PivotTranslation math.Vec3
	PivotRotation    math.Quat
	WindAffected     bool

	// Updater is registered when the node is added to a Graph.
	Updater Updater

	parent NodeID
}

// NewNode returns a node with identity pose and unit scale.
func NewNode(name string, kind Kind) *Node {
	return &Node{
		Name:          name,
		Kind:          kind,
		Orientation:   math.QuatIdentity(),
		Scaling:       math.Vec3{X: 1, Y: 1, Z: 1},
		PivotRotation: math.QuatIdentity(),
		parent:        NoParent,
	}
}

// Parent returns the parent ID, or NoParent.
func (n *Node) Parent() NodeID {
	return n.parent
}

// SetPosition sets the local translation.
func (n *Node) SetPosition(p math.Vec3) {
	n.Position = p
}

// Translate offsets the local translation.
func (n *Node) Translate(d math.Vec3) {
	n.Position = n.Position.Add(d)
}

// SetOrientation sets the local rotation.
func (n *Node) SetOrientation(q math.Quat) {
	n.Orientation = q.Normalize()
}

// Rotate applies q on top of the current local rotation.
func (n *Node) Rotate(q math.Quat) {
	n.Orientation = q.Mul(n.Orientation).Normalize()
}

// SetScale sets the local scale.
func (n *Node) SetScale(s math.Vec3) {
	n.Scaling = s
}

// Scale multiplies the local scale component-wise.
func (n *Node) Scale(s math.Vec3) {
	n.Scaling = n.Scaling.Mul(s)
}

// SetOrbitPivot sets the pivot translation and rotation.
func (n *Node) SetOrbitPivot(translation math.Vec3, rotation math.Quat) {
	n.PivotTranslation = translation
	n.PivotRotation = rotation.Normalize()
}

// SetWindAffected toggles wind sway on the pivot rotation.
func (n *Node) SetWindAffected(v bool) {
	n.WindAffected = v
}

// Local returns T · R · orbit · S for the node at time t.
func (n *Node) Local(wind Wind, t float32) math.Mat4 {
	pivotRot := n.PivotRotation
	if n.WindAffected {
		pivotRot = pivotRot.Mul(wind.Sway(t))
	}
	orbit := math.Translate(n.PivotTranslation.Neg()).
		Mul(pivotRot.ToMat4()).
		Mul(math.Translate(n.PivotTranslation))

	return math.Translate(n.Position).
		Mul(n.Orientation.ToMat4()).
		Mul(orbit).
		Mul(math.Scale(n.Scaling))
}
