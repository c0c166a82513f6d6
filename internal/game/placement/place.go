package placement

import (
	"fmt"
	gomath "math"

	"go.uber.org/zap"

	"github.com/Faultbox/woodland/internal/engine/collision"
	"github.com/Faultbox/woodland/internal/engine/flora"
	"github.com/Faultbox/woodland/internal/engine/scene"
	"github.com/Faultbox/woodland/internal/game/world"
	"github.com/Faultbox/woodland/internal/logger"
	"github.com/Faultbox/woodland/pkg/math"
)

// EntityGroundOffset places obstacle anchors slightly below the ground.
const EntityGroundOffset = -3

// ScatterHalfExtents is the obstacle size of scattered instances without an
// entity spec.
var ScatterHalfExtents = math.Vec3{X: 5, Y: 25, Z: 5}

// DefaultChaserStart is where the chaser appears when content names none.
var DefaultChaserStart = math.Vec3{X: 1600, Y: 35, Z: 1570}

// DefaultChaserSpawns returns the relocation points used when content names none.
func DefaultChaserSpawns() []math.Vec3 {
	return []math.Vec3{
		{X: -199, Y: 35, Z: -235},
		{X: 1620, Y: 35, Z: -235},
		{X: 1622, Y: 35, Z: 1611},
		{X: -225, Y: 35, Z: 1630},
	}
}

// Instance is one member of a scattered group.
type Instance struct {
	Position math.Vec3
	Scale    float32
}

// Group is a scattered group, drawn as one instanced node.
type Group struct {
	Name      string
	Kind      string
	Node      scene.NodeID
	Instances []Instance
}

// Layout is what Apply placed.
type Layout struct {
	Trees        []flora.Tree
	Props        map[string]scene.NodeID
	Groups       []Group
	Bridges      []math.Vec3
	ChaserStart  math.Vec3
	ChaserSpawns []math.Vec3
}

// Placer puts content into a world.
type Placer struct {
	World    *world.World // Nil skips ground clamping and river crossings
	Graph    *scene.Graph
	Entities *collision.Set
	Builder  *flora.Builder

	// Used for entity specs without explicit half extents
	DefaultHalfExtents math.Vec3

	// Seed for scatter groups that do not set their own
	Seed int64
}

// NewPlacer returns a placer with the default tree builder.
func NewPlacer(w *world.World, g *scene.Graph, entities *collision.Set) *Placer {
	return &Placer{
		World:              w,
		Graph:              g,
		Entities:           entities,
		Builder:            flora.NewBuilder(),
		DefaultHalfExtents: collision.DefaultHalfExtents,
	}
}

// Apply places everything in c.
func (p *Placer) Apply(c *Content) (*Layout, error) {
	layout := &Layout{
		Props:        make(map[string]scene.NodeID),
		ChaserStart:  DefaultChaserStart,
		ChaserSpawns: DefaultChaserSpawns(),
	}

	// Crossings change the ground, so carve them before anything is clamped.
	if p.World != nil {
		for i, x := range c.RiverCrossings {
			layout.Bridges = append(layout.Bridges, p.placeBridge(i, x))
		}
	}

	for _, t := range c.Trees {
		tree, err := p.placeTree(t)
		if err != nil {
			return nil, err
		}
		layout.Trees = append(layout.Trees, tree)
	}

	for _, ps := range c.Props {
		layout.Props[ps.Name] = p.placeProp(ps)
	}

	for _, r := range c.Rows {
		for i := 0; i < r.Count; i++ {
			ps := r.PropSpec
			ps.Name = fmt.Sprintf("%s%d", r.Name, r.First+i)
			ps.Position = Vec3{
				r.Position[0] + r.Step[0]*float32(i),
				r.Position[1] + r.Step[1]*float32(i),
				r.Position[2] + r.Step[2]*float32(i),
			}
			layout.Props[ps.Name] = p.placeProp(ps)
		}
	}

	grid := DefaultScatterGrid()
	if c.Grid != nil {
		grid = *c.Grid
	}
	for _, s := range c.Scatter {
		layout.Groups = append(layout.Groups, p.placeScatter(grid, s))
	}

	if c.ChaserStart != nil {
		layout.ChaserStart = c.ChaserStart.Vec()
	}
	if len(c.ChaserSpawns) > 0 {
		layout.ChaserSpawns = layout.ChaserSpawns[:0]
		for _, s := range c.ChaserSpawns {
			layout.ChaserSpawns = append(layout.ChaserSpawns, s.Vec())
		}
	}

	logger.Info("world content placed",
		zap.Int("trees", len(layout.Trees)),
		zap.Int("props", len(layout.Props)),
		zap.Int("groups", len(layout.Groups)),
		zap.Int("bridges", len(layout.Bridges)),
		zap.Int("entities", p.Entities.Len()))

	return layout, nil
}

// ground returns pos with Y at the ground plus offset, or pos unchanged off-grid.
func (p *Placer) ground(pos math.Vec3, offset float32) math.Vec3 {
	if p.World == nil {
		return pos
	}
	return p.World.Height.ClampToGround(pos, offset)
}

func yaw(degrees float32) math.Quat {
	return math.QuatFromAxisAngle(math.AxisY, degrees*gomath.Pi/180)
}

func uniform(s float32) math.Vec3 {
	if s == 0 {
		s = 1
	}
	return math.Vec3{X: s, Y: s, Z: s}
}

func (p *Placer) placeTree(t TreeSpec) (flora.Tree, error) {
	tree, err := p.Builder.Build(p.Graph, t.Name)
	if err != nil {
		return tree, fmt.Errorf("building tree %s: %w", t.Name, err)
	}

	root := p.Graph.Node(tree.Root)
	root.SetScale(uniform(t.Scale))
	root.SetOrientation(yaw(t.Rotation))
	root.SetPosition(p.ground(t.Position.Vec(), t.GroundOffset))
	return tree, nil
}

func (p *Placer) placeProp(ps PropSpec) scene.NodeID {
	n := scene.NewNode(ps.Name, scene.KindStatic)
	n.SetScale(uniform(ps.Scale))
	n.SetOrientation(yaw(ps.Rotation))
	n.SetPosition(p.ground(ps.Position.Vec(), ps.GroundOffset))
	id := p.Graph.Add(n)

	if ps.Entity != nil {
		anchor := ps.Position.Vec().Add(ps.Entity.Offset.Vec())
		p.addEntity(ps.Name, anchor, n.Orientation, ps.Entity, p.DefaultHalfExtents)
	}
	return id
}

func (p *Placer) placeScatter(grid ScatterGrid, s ScatterSpec) Group {
	n := scene.NewNode(s.Name, scene.KindStatic)
	group := Group{Name: s.Name, Kind: s.Kind, Node: p.Graph.Add(n)}

	spec := s.Entity
	if spec == nil {
		spec = &EntitySpec{}
	}

	if s.Seed == 0 {
		s.Seed = p.Seed
	}

	for i, pos := range grid.Scatter(s) {
		pos = p.ground(pos, EntityGroundOffset)
		group.Instances = append(group.Instances, Instance{Position: pos, Scale: uniform(s.Scale).X})
		p.addEntity(fmt.Sprintf("%s_%d", s.Name, i), pos, math.QuatIdentity(), spec, ScatterHalfExtents)
	}

	logger.Debug("scatter group placed", zap.String("name", s.Name), zap.Int("instances", len(group.Instances)))
	return group
}

func (p *Placer) addEntity(name string, anchor math.Vec3, q math.Quat, spec *EntitySpec, fallback math.Vec3) {
	half := spec.HalfExtents.Vec()
	if half == (math.Vec3{}) {
		half = fallback
	}
	p.Entities.Add(collision.Entity{
		Name:        name,
		HalfExtents: half,
		Position:    p.ground(anchor, EntityGroundOffset),
		Orientation: q,
		Removable:   spec.Removable,
	})
}

func (p *Placer) placeBridge(i int, x float32) math.Vec3 {
	pos := p.World.CarveBridge(x)

	n := scene.NewNode(fmt.Sprintf("Bridge%d", i), scene.KindStatic)
	n.SetPosition(pos)
	p.Graph.Add(n)
	return pos
}
