// Package sim runs the per-tick simulation pipeline: input, agent movement,
// hierarchy update, chaser contact, collision resolution, frame snapshot.
package sim

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/woodland/internal/config"
	"github.com/Faultbox/woodland/internal/engine/agent"
	"github.com/Faultbox/woodland/internal/engine/collision"
	"github.com/Faultbox/woodland/internal/engine/flora"
	"github.com/Faultbox/woodland/internal/engine/scene"
	"github.com/Faultbox/woodland/internal/game/placement"
	"github.com/Faultbox/woodland/internal/game/world"
	"github.com/Faultbox/woodland/internal/logger"
	"github.com/Faultbox/woodland/pkg/math"
)

// ChaserName is the scene name of the chaser node.
const ChaserName = "Chaser"

// Input is one tick of player intent.
type Input struct {
	Forward, Back, Left, Right bool

	// Mouse motion in pixels since the previous tick
	MouseDX, MouseDY float32

	Interact bool
	// Open a river crossing at the agent's x
	CarveCrossing bool
}

func (in Input) moving() bool {
	return in.Forward || in.Back || in.Left || in.Right
}

// Simulation owns the world state advanced by Tick.
type Simulation struct {
	cfg *config.Config

	World    *world.World
	Graph    *scene.Graph
	Entities *collision.Set
	Agent    *agent.Agent
	Layout   *placement.Layout

	follower *world.Follower

	chaser   *Chaser
	chaserID scene.NodeID

	active   bool
	lost     bool
	health   int
	immunity time.Duration
	effects  RenderEffects

	elapsed      time.Duration
	ticks        uint64
	lastInteract time.Duration
	interacted   bool
	bridges      int
}

// New builds a simulation over w, placing content into a fresh scene.
// The simulation starts active.
func New(cfg *config.Config, w *world.World, content *placement.Content) (*Simulation, error) {
	g := scene.NewGraph(scene.Wind{
		Strength:  cfg.Wind.Strength,
		SweepAxis: vec(cfg.Wind.SweepAxis),
	})
	entities := collision.NewSet()

	placer := placement.NewPlacer(w, g, entities)
	placer.Builder = &flora.Builder{
		Rules:          flora.DefaultRules(cfg.Tree.PivotAngle),
		Root:           flora.SplitDiagonal,
		NodeBudget:     cfg.Tree.NodeBudget,
		SegmentSpacing: cfg.Tree.SegmentSpacing,
		PivotHeight:    cfg.Tree.PivotHeight,
	}
	placer.DefaultHalfExtents = vec(cfg.Collision.DefaultHalfExtents)
	placer.Seed = cfg.Sim.Seed

	if content == nil {
		content = &placement.Content{}
	}
	layout, err := placer.Apply(content)
	if err != nil {
		return nil, fmt.Errorf("placing world content: %w", err)
	}

	s := &Simulation{
		cfg:      cfg,
		World:    w,
		Graph:    g,
		Entities: entities,
		Layout:   layout,
		follower: world.NewFollower(w),
		chaserID: scene.NoParent,
		active:   true,
		health:   cfg.Chaser.Health,
		effects:  newEffects(cfg.Effects),
		bridges:  len(layout.Bridges),
	}

	s.Agent = w.NewAgent(agent.Settings{
		EyeHeight:   cfg.Agent.EyeHeight,
		MaxPitch:    cfg.Agent.MaxPitch,
		HalfExtents: vec(cfg.Agent.HalfExtents),
	})
	s.Agent.SetView(vec(cfg.Agent.Start), vec(cfg.Agent.LookAt), math.AxisY)
	s.Agent.ResampleHeight()
	s.Agent.MarkSafe()

	if cfg.Chaser.Enabled {
		s.chaser = &Chaser{Speed: cfg.Chaser.Speed, Reach: cfg.Chaser.Reach}
		n := scene.NewNode(ChaserName, scene.KindChaser)
		n.SetScale(math.Vec3{X: 0.3, Y: 0.3, Z: 0.3})
		n.SetPosition(layout.ChaserStart)
		n.Updater = s.chaser
		s.chaserID = g.Add(n)
	}

	logger.Info("simulation ready",
		zap.Int("nodes", g.Len()),
		zap.Int("entities", entities.Len()),
		zap.Bool("chaser", cfg.Chaser.Enabled))

	return s, nil
}

func vec(a [3]float32) math.Vec3 {
	return math.Vec3{X: a[0], Y: a[1], Z: a[2]}
}

// SetActive opens or closes the tick gate. A lost simulation stays closed.
func (s *Simulation) SetActive(active bool) {
	s.active = active && !s.lost
}

// Active reports whether Tick advances the world.
func (s *Simulation) Active() bool {
	return s.active
}

// Lost reports whether the agent ran out of health.
func (s *Simulation) Lost() bool {
	return s.lost
}

// Health returns the remaining health.
func (s *Simulation) Health() int {
	return s.health
}

// Immune reports whether chaser contact is currently ignored.
func (s *Simulation) Immune() bool {
	return s.immunity > 0
}

// Effects returns the current render effects.
func (s *Simulation) Effects() RenderEffects {
	return s.effects
}

// Ticks returns the number of ticks advanced.
func (s *Simulation) Ticks() uint64 {
	return s.ticks
}

// Elapsed returns the simulated time.
func (s *Simulation) Elapsed() time.Duration {
	return s.elapsed
}

// Chaser returns the chaser node ID, or NoParent when disabled.
func (s *Simulation) Chaser() scene.NodeID {
	return s.chaserID
}

// Tick advances the world by dt. Nothing happens while the gate is closed.
// Returns whether the tick ran.
func (s *Simulation) Tick(dt time.Duration, in Input) bool {
	if !s.active {
		return false
	}

	s.elapsed += dt
	s.ticks++
	seconds := float32(dt.Seconds())

	s.applyInput(seconds, in)

	s.Graph.Update(scene.Tick{
		Agent: s.Agent,
		Delta: seconds,
		Time:  float32(s.elapsed.Seconds()),
	})

	s.resolveChaser(dt)

	s.Entities.TestAndResolve(s.Agent)
	return true
}

func (s *Simulation) applyInput(seconds float32, in Input) {
	sens := s.cfg.Agent.MouseSensitivity
	if in.MouseDX != 0 || in.MouseDY != 0 {
		s.Agent.Rotate(-in.MouseDX*sens, -in.MouseDY*sens)
	}

	step := s.cfg.Agent.MoveSpeed * seconds
	if in.moving() {
		s.follower.ClearPath()
	}
	if in.Forward {
		s.Agent.MoveForward(step)
	}
	if in.Back {
		s.Agent.MoveForward(-step)
	}
	if in.Left {
		s.Agent.MoveSide(-step)
	}
	if in.Right {
		s.Agent.MoveSide(step)
	}
	if !in.moving() && s.follower.IsFollowingPath {
		s.follower.Step(s.Agent, step)
	}

	if in.CarveCrossing {
		s.CarveCrossing(s.Agent.Position().X)
	}
	if in.Interact {
		s.Interact()
	}
}

func (s *Simulation) resolveChaser(dt time.Duration) {
	if s.immunity > 0 {
		s.immunity -= dt
		if s.immunity < 0 {
			s.immunity = 0
		}
	}

	if s.chaser == nil || !s.chaser.InReach() || s.Immune() {
		return
	}

	s.health--
	s.immunity = s.cfg.Chaser.Immunity
	s.effects.escalate(s.health, s.cfg.Chaser.Health, s.cfg.Effects.BloodStep)
	s.relocateChaser()

	logger.Info("chaser contact", zap.Int("health", s.health))

	if s.health <= 0 {
		s.lost = true
		s.active = false
		logger.Info("agent lost")
	}
}

// relocateChaser warps the chaser to the spawn point farthest from the agent.
func (s *Simulation) relocateChaser() {
	n := s.Graph.Node(s.chaserID)
	if n == nil {
		return
	}
	if p, ok := farthest(s.Agent.Position(), s.Layout.ChaserSpawns); ok {
		n.SetPosition(p)
	}
	s.chaser.Reset()
}

// Interact removes the nearest removable entity the agent is looking at
// within reach. Returns its name.
func (s *Simulation) Interact() (string, bool) {
	if s.interacted && s.elapsed-s.lastInteract < s.cfg.Collision.InteractCooldown {
		return "", false
	}
	s.interacted = true
	s.lastInteract = s.elapsed

	name, _, ok := s.Entities.Raycast(s.Agent.Position(), s.Agent.Forward(), s.cfg.Collision.InteractReach)
	if !ok {
		return "", false
	}
	e, _ := s.Entities.Find(name)
	if !e.Removable {
		return "", false
	}

	s.Entities.Remove(name)
	if id, ok := s.Graph.Find(name); ok {
		s.Graph.Remove(id)
	}
	logger.Info("entity removed", zap.String("name", name))
	return name, true
}

// CarveCrossing opens a river crossing at world x and adds a bridge node.
func (s *Simulation) CarveCrossing(x float32) math.Vec3 {
	pos := s.World.CarveBridge(x)

	n := scene.NewNode(fmt.Sprintf("Bridge%d", s.bridges), scene.KindStatic)
	n.SetPosition(pos)
	s.Graph.Add(n)
	s.bridges++
	s.Layout.Bridges = append(s.Layout.Bridges, pos)
	return pos
}

// WalkTo plans a route to dest that later ticks follow while no movement
// keys are held. Returns false when no route exists.
func (s *Simulation) WalkTo(dest math.Vec3) bool {
	return s.follower.MoveTo(s.Agent.Position(), dest) != nil
}

// Walking reports whether a planned route is being followed.
func (s *Simulation) Walking() bool {
	return s.follower.IsFollowingPath
}
