// Package flora builds procedural trees as scene hierarchies from a small
// branch rule table.
package flora

import (
	"errors"
	"fmt"
	gomath "math"

	"github.com/Faultbox/woodland/internal/engine/scene"
	"github.com/Faultbox/woodland/pkg/math"
)

// ErrUnknownRole is returned when a rule references a role with no rule.
var ErrUnknownRole = errors.New("no rule for branch role")

// Role decides what a branch segment spawns and how it hinges.
type Role uint8

// Branch roles.
const (
	SplitDiagonal Role = 1 // Leans one way, spawns SplitDiagonal + Diagonal
	Diagonal      Role = 2 // Leans the other way, spawns SplitStraight
	SplitStraight Role = 3 // Straight, spawns SplitDiagonal + Diagonal
)

// String returns the role name.
func (r Role) String() string {
	switch r {
	case SplitDiagonal:
		return "split-diagonal"
	case Diagonal:
		return "diagonal"
	case SplitStraight:
		return "split-straight"
	default:
		return fmt.Sprintf("role(%d)", uint8(r))
	}
}

// Rule describes one role.
type Rule struct {
	Children   []Role
	Pivot      bool      // Hinge the segment at its base
	PivotAxis  math.Vec3 // Hinge axis, used when Pivot is set
	PivotAngle float32   // Hinge angle in radians
	Wind       bool      // Sway the hinge with the wind
}

// Builder turns a rule table into branch hierarchies.
type Builder struct {
	Rules          map[Role]Rule
	Root           Role
	NodeBudget     int
	SegmentSpacing float32 // Child offset along the parent's local up axis
	PivotHeight    float32 // Hinge offset, half the segment length
}

// DefaultRules returns the reference rule table.
func DefaultRules(angle float32) map[Role]Rule {
	return map[Role]Rule{
		SplitDiagonal: {
			Children:   []Role{SplitDiagonal, Diagonal},
			Pivot:      true,
			PivotAxis:  math.AxisZ,
			PivotAngle: angle,
			Wind:       true,
		},
		Diagonal: {
			Children:   []Role{SplitStraight},
			Pivot:      true,
			PivotAxis:  math.AxisZ.Neg(),
			PivotAngle: angle,
		},
		SplitStraight: {
			Children: []Role{SplitDiagonal, Diagonal},
		},
	}
}

// NewBuilder returns a builder with the reference rule table and a 30-node budget.
func NewBuilder() *Builder {
	return &Builder{
		Rules:          DefaultRules(gomath.Pi / 8),
		Root:           SplitDiagonal,
		NodeBudget:     30,
		SegmentSpacing: 3.5,
		PivotHeight:    2,
	}
}

// Tree is the result of a build.
type Tree struct {
	Name  string
	Root  scene.NodeID
	Nodes []scene.NodeID // Breadth-first order; Nodes[0] is Root
	Roles []Role         // Roles[i] belongs to Nodes[i]
}

// Count returns how many segments have role r.
func (t Tree) Count(r Role) int {
	n := 0
	for _, role := range t.Roles {
		if role == r {
			n++
		}
	}
	return n
}

type pending struct {
	role   Role
	parent scene.NodeID
}

// Build adds a tree named name to g, breadth-first, until NodeBudget segments
// exist or no role spawns further children. Segments are named
// "<name>_branch<i>". The root is never hinged or swayed.
func (b *Builder) Build(g *scene.Graph, name string) (Tree, error) {
	tree := Tree{Name: name, Root: scene.NoParent}
	queue := []pending{{role: b.Root, parent: scene.NoParent}}

	for i := 0; i < b.NodeBudget && len(queue) > 0; i++ {
		item := queue[0]
		queue = queue[1:]

		rule, ok := b.Rules[item.role]
		if !ok {
			return tree, fmt.Errorf("%w: %s", ErrUnknownRole, item.role)
		}

		n := scene.NewNode(fmt.Sprintf("%s_branch%d", name, i), scene.KindBranch)
		id := g.Add(n)

		if i == 0 {
			tree.Root = id
		} else {
			if err := g.SetParent(id, item.parent); err != nil {
				return tree, fmt.Errorf("attaching %s: %w", n.Name, err)
			}
			n.SetPosition(math.Vec3{Y: b.SegmentSpacing})
			if rule.Pivot {
				n.SetOrbitPivot(math.Vec3{Y: b.PivotHeight}, math.QuatFromAxisAngle(rule.PivotAxis, rule.PivotAngle))
			}
			n.SetWindAffected(rule.Wind)
		}

		tree.Nodes = append(tree.Nodes, id)
		tree.Roles = append(tree.Roles, item.role)

		for _, child := range rule.Children {
			queue = append(queue, pending{role: child, parent: id})
		}
	}

	return tree, nil
}
