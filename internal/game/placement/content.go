// Package placement describes the authored world content and puts it into a
// scene: animated trees, props with obstacle volumes, scattered instances,
// river crossings and chaser spawn points.
package placement

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/woodland/pkg/math"
)

// Content validation errors.
var (
	ErrUnnamed        = errors.New("placement has no name")
	ErrDuplicateName  = errors.New("duplicate placement name")
	ErrInvalidCount   = errors.New("invalid placement count")
	ErrInvalidExtents = errors.New("entity half extents must be positive")
)

// Vec3 is a YAML-friendly [x, y, z] triple.
type Vec3 [3]float32

// Vec returns v as a math vector.
func (v Vec3) Vec() math.Vec3 {
	return math.Vec3{X: v[0], Y: v[1], Z: v[2]}
}

// EntitySpec attaches an obstacle volume to a placement.
type EntitySpec struct {
	HalfExtents Vec3 `yaml:"half_extents"`
	Offset      Vec3 `yaml:"offset"` // Added to the anchor before ground clamping
	Removable   bool `yaml:"removable"`
}

// TreeSpec places one procedural tree.
type TreeSpec struct {
	Name         string  `yaml:"name"`
	Position     Vec3    `yaml:"position"`
	Scale        float32 `yaml:"scale"`
	Rotation     float32 `yaml:"rotation"` // Degrees about +Y
	GroundOffset float32 `yaml:"ground_offset"`
}

// PropSpec places one static object.
type PropSpec struct {
	Name         string      `yaml:"name"`
	Kind         string      `yaml:"kind"` // Free-form tag for the renderer, e.g. "cabin"
	Position     Vec3        `yaml:"position"`
	Scale        float32     `yaml:"scale"`
	Rotation     float32     `yaml:"rotation"`
	GroundOffset float32     `yaml:"ground_offset"`
	Entity       *EntitySpec `yaml:"entity,omitempty"`
}

// RowSpec places Count copies of a prop along a line. Copies are named
// "<name><first+i>".
type RowSpec struct {
	PropSpec `yaml:",inline"`
	Step     Vec3 `yaml:"step"`
	Count    int  `yaml:"count"`
	First    int  `yaml:"first"`
}

// IgnoreArea excludes scattered instances whose x/z fall strictly inside it.
type IgnoreArea struct {
	MinX float32 `yaml:"min_x"`
	MaxX float32 `yaml:"max_x"`
	MinZ float32 `yaml:"min_z"`
	MaxZ float32 `yaml:"max_z"`
}

// Contains reports whether (x, z) lies strictly inside the area.
func (a IgnoreArea) Contains(x, z float32) bool {
	return x > a.MinX && x < a.MaxX && z > a.MinZ && z < a.MaxZ
}

// ScatterSpec places a seeded, grid-jittered group of instances.
type ScatterSpec struct {
	Name   string       `yaml:"name"`
	Kind   string       `yaml:"kind"`
	Count  int          `yaml:"count"`
	Seed   int64        `yaml:"seed"`
	Scale  float32      `yaml:"scale"`
	Offset Vec3         `yaml:"offset"` // Shifts the ignore-area test only
	Ignore []IgnoreArea `yaml:"ignore"`
	Entity *EntitySpec  `yaml:"entity,omitempty"`
}

// Content is the authored world layout.
type Content struct {
	Trees          []TreeSpec    `yaml:"trees"`
	Props          []PropSpec    `yaml:"props"`
	Rows           []RowSpec     `yaml:"rows"`
	Scatter        []ScatterSpec `yaml:"scatter"`
	Grid           *ScatterGrid  `yaml:"scatter_grid,omitempty"`
	RiverCrossings []float32     `yaml:"river_crossings"` // World x of each crossing
	ChaserStart    *Vec3         `yaml:"chaser_start,omitempty"`
	ChaserSpawns   []Vec3        `yaml:"chaser_spawns"`
}

// Parse decodes content from YAML. Unknown keys are rejected.
func Parse(data []byte) (*Content, error) {
	return Read(bytes.NewReader(data))
}

// Read decodes content from r.
func Read(r io.Reader) (*Content, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var c Content
	if err := dec.Decode(&c); err != nil {
		if errors.Is(err, io.EOF) {
			return &c, nil
		}
		return nil, fmt.Errorf("decoding world content: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// ParseFile reads and decodes content from disk.
func ParseFile(path string) (*Content, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading world content: %w", err)
	}
	return Parse(data)
}

// Validate checks names and sizes.
func (c *Content) Validate() error {
	seen := make(map[string]bool)
	claim := func(section, name string) error {
		if name == "" {
			return fmt.Errorf("%w in %s", ErrUnnamed, section)
		}
		if seen[name] {
			return fmt.Errorf("%w: %s", ErrDuplicateName, name)
		}
		seen[name] = true
		return nil
	}

	for _, t := range c.Trees {
		if err := claim("trees", t.Name); err != nil {
			return err
		}
	}
	for _, p := range c.Props {
		if err := claim("props", p.Name); err != nil {
			return err
		}
		if err := p.Entity.validate(p.Name); err != nil {
			return err
		}
	}
	for _, r := range c.Rows {
		if err := claim("rows", r.Name); err != nil {
			return err
		}
		if r.Count < 0 {
			return fmt.Errorf("%w: %s count=%d", ErrInvalidCount, r.Name, r.Count)
		}
		if err := r.Entity.validate(r.Name); err != nil {
			return err
		}
	}
	for _, s := range c.Scatter {
		if err := claim("scatter", s.Name); err != nil {
			return err
		}
		if s.Count < 0 {
			return fmt.Errorf("%w: %s count=%d", ErrInvalidCount, s.Name, s.Count)
		}
		if err := s.Entity.validate(s.Name); err != nil {
			return err
		}
	}
	return nil
}

func (e *EntitySpec) validate(owner string) error {
	if e == nil {
		return nil
	}
	h := e.HalfExtents
	if h == (Vec3{}) {
		return nil // Use the default size
	}
	if h[0] <= 0 || h[1] <= 0 || h[2] <= 0 {
		return fmt.Errorf("%w: %s %v", ErrInvalidExtents, owner, h)
	}
	return nil
}

// Encode writes content as YAML.
func (c *Content) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("encoding world content: %w", err)
	}
	return enc.Close()
}
