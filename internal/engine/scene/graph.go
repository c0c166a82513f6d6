package scene

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/woodland/internal/logger"
	"github.com/Faultbox/woodland/pkg/math"
)

// Graph errors.
var (
	ErrUnknownNode = errors.New("unknown node")
	ErrCycle       = errors.New("parent assignment would create a cycle")
	ErrTooDeep     = errors.New("hierarchy exceeds max depth")
)

// DefaultMaxDepth bounds parent chains. Generated trees stay far below it.
const DefaultMaxDepth = 64

// AgentView is the agent state visible to node updaters.
type AgentView interface {
	Position() math.Vec3
}

// Tick carries per-tick inputs to node updaters.
type Tick struct {
	Agent AgentView
	Delta float32 // Seconds since the previous tick
	Time  float32 // Global animation time in seconds
}

// Updater is implemented by node behaviours that advance every tick.
type Updater interface {
	Update(tick Tick, node *Node)
}

// Graph owns every node in an arena indexed by NodeID.
type Graph struct {
	Wind     Wind
	MaxDepth int

	nodes    []*Node // nil slots are removed nodes
	byName   map[string]NodeID
	updaters []NodeID
}

// NewGraph creates an empty graph.
func NewGraph(wind Wind) *Graph {
	return &Graph{
		Wind:     wind,
		MaxDepth: DefaultMaxDepth,
		byName:   make(map[string]NodeID),
	}
}

// Add inserts n as a root and returns its ID. A node with an Updater is
// registered for Update here. A later node with the same name shadows the
// earlier one in Find.
func (g *Graph) Add(n *Node) NodeID {
	id := NodeID(len(g.nodes))
	n.parent = NoParent
	g.nodes = append(g.nodes, n)
	if n.Name != "" {
		g.byName[n.Name] = id
	}
	if n.Updater != nil {
		g.updaters = append(g.updaters, id)
	}
	return id
}

// Node returns the node for id, or nil.
func (g *Graph) Node(id NodeID) *Node {
	if id < 0 || int(id) >= len(g.nodes) {
		return nil
	}
	return g.nodes[id]
}

// Find returns the ID of the node with the given name.
func (g *Graph) Find(name string) (NodeID, bool) {
	id, ok := g.byName[name]
	return id, ok
}

// Len returns the number of live nodes.
func (g *Graph) Len() int {
	n := 0
	for _, node := range g.nodes {
		if node != nil {
			n++
		}
	}
	return n
}

// Each calls fn for every live node in insertion order.
func (g *Graph) Each(fn func(id NodeID, n *Node)) {
	for i, node := range g.nodes {
		if node != nil {
			fn(NodeID(i), node)
		}
	}
}

// SetParent attaches child under parent. Pass NoParent to detach.
func (g *Graph) SetParent(child, parent NodeID) error {
	c := g.Node(child)
	if c == nil {
		return fmt.Errorf("%w: child %d", ErrUnknownNode, child)
	}
	if parent == NoParent {
		c.parent = NoParent
		return nil
	}
	if g.Node(parent) == nil {
		return fmt.Errorf("%w: parent %d", ErrUnknownNode, parent)
	}

	depth := 0
	for cur := parent; cur != NoParent; cur = g.nodes[cur].parent {
		if cur == child {
			return fmt.Errorf("%w: %s under %s", ErrCycle, c.Name, g.nodes[parent].Name)
		}
		depth++
		if depth > g.maxDepth() {
			return fmt.Errorf("%w: attaching %s", ErrTooDeep, c.Name)
		}
	}

	c.parent = parent
	return nil
}

// Children returns the direct children of id in insertion order.
func (g *Graph) Children(id NodeID) []NodeID {
	var out []NodeID
	for i, node := range g.nodes {
		if node != nil && node.parent == id {
			out = append(out, NodeID(i))
		}
	}
	return out
}

// Depth returns the number of ancestors of id.
func (g *Graph) Depth(id NodeID) int {
	d := 0
	for n := g.Node(id); n != nil && n.parent != NoParent && d <= g.maxDepth(); n = g.Node(n.parent) {
		d++
	}
	return d
}

// Remove deletes id. Its children become roots. Returns false if id is unknown.
func (g *Graph) Remove(id NodeID) bool {
	n := g.Node(id)
	if n == nil {
		return false
	}
	for _, c := range g.Children(id) {
		g.nodes[c].parent = NoParent
	}
	if cur, ok := g.byName[n.Name]; ok && cur == id {
		delete(g.byName, n.Name)
	}
	for i, u := range g.updaters {
		if u == id {
			g.updaters = append(g.updaters[:i], g.updaters[i+1:]...)
			break
		}
	}
	g.nodes[id] = nil
	return true
}

// WorldTransform returns parentWorld · T · R · orbit · S for id at time t.
// Chains deeper than MaxDepth are cut off with a warning and the partial
// transform is returned.
func (g *Graph) WorldTransform(id NodeID, t float32) math.Mat4 {
	n := g.Node(id)
	if n == nil {
		return math.Identity()
	}
	return g.worldTransform(n, t, 0)
}

func (g *Graph) worldTransform(n *Node, t float32, depth int) math.Mat4 {
	local := n.Local(g.Wind, t)
	if n.parent == NoParent {
		return local
	}
	if depth >= g.maxDepth() {
		logger.Warn("transform chain cut at max depth",
			zap.String("node", n.Name),
			zap.Int("maxDepth", g.maxDepth()))
		return local
	}
	parent := g.Node(n.parent)
	if parent == nil {
		return local
	}
	return g.worldTransform(parent, t, depth+1).Mul(local)
}

// WorldPosition returns the world-space origin of id at time t.
func (g *Graph) WorldPosition(id NodeID, t float32) math.Vec3 {
	return g.WorldTransform(id, t).Translation()
}

// Update advances every registered updater once.
func (g *Graph) Update(tick Tick) {
	for _, id := range g.updaters {
		if n := g.nodes[id]; n != nil && n.Updater != nil {
			n.Updater.Update(tick, n)
		}
	}
}

func (g *Graph) maxDepth() int {
	if g.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return g.MaxDepth
}
