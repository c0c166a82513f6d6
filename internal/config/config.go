// Package config handles simulation configuration loading and management.
package config

import "time"

// Config holds all simulation settings.
type Config struct {
	World     WorldConfig     `yaml:"world"`
	Agent     AgentConfig     `yaml:"agent"`
	Wind      WindConfig      `yaml:"wind"`
	Tree      TreeConfig      `yaml:"tree"`
	Collision CollisionConfig `yaml:"collision"`
	Chaser    ChaserConfig    `yaml:"chaser"`
	Effects   EffectsConfig   `yaml:"effects"`
	Data      DataConfig      `yaml:"data"`
	Sim       SimConfig       `yaml:"sim"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// WorldConfig holds the world-to-grid mapping and playable area.
type WorldConfig struct {
	Offset             float32 `yaml:"offset"`              // Added to world x/z before scaling
	CellScale          float32 `yaml:"cell_scale"`          // Heightfield cells per world unit
	HeightScale        float32 `yaml:"height_scale"`        // Vertical scale applied to samples
	PassabilityDivisor int     `yaml:"passability_divisor"` // Heightfield cells per passability cell
	MinX               float32 `yaml:"min_x"`
	MaxX               float32 `yaml:"max_x"`
	MinZ               float32 `yaml:"min_z"`
	MaxZ               float32 `yaml:"max_z"`
	RiverMinZ          float32 `yaml:"river_min_z"` // River band, world z
	RiverMaxZ          float32 `yaml:"river_max_z"`
	BridgeElevation    float32 `yaml:"bridge_elevation"` // Raw sample value written by a crossing
}

// AgentConfig holds player movement settings.
type AgentConfig struct {
	MoveSpeed        float32    `yaml:"move_speed"` // World units per second
	MouseSensitivity float32    `yaml:"mouse_sensitivity"`
	EyeHeight        float32    `yaml:"eye_height"`
	MaxPitch         float32    `yaml:"max_pitch"` // Radians
	HalfExtents      [3]float32 `yaml:"half_extents"`
	Start            [3]float32 `yaml:"start"`
	LookAt           [3]float32 `yaml:"look_at"`
}

// WindConfig holds branch sway settings.
type WindConfig struct {
	Strength  float32    `yaml:"strength"` // Max sway angle, radians
	SweepAxis [3]float32 `yaml:"sweep_axis"`
}

// TreeConfig holds procedural tree settings.
type TreeConfig struct {
	NodeBudget     int     `yaml:"node_budget"`
	SegmentSpacing float32 `yaml:"segment_spacing"`
	PivotHeight    float32 `yaml:"pivot_height"`
	PivotAngle     float32 `yaml:"pivot_angle"`
}

// CollisionConfig holds static entity defaults.
type CollisionConfig struct {
	DefaultHalfExtents [3]float32    `yaml:"default_half_extents"`
	InteractReach      float32       `yaml:"interact_reach"`
	InteractCooldown   time.Duration `yaml:"interact_cooldown"`
}

// ChaserConfig holds settings for the pursuing entity.
type ChaserConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Speed    float32       `yaml:"speed"`
	Reach    float32       `yaml:"reach"` // Square contact half-width on XZ
	Height   float32       `yaml:"height"`
	Health   int           `yaml:"health"`
	Immunity time.Duration `yaml:"immunity"`
}

// EffectsConfig holds post-effect parameters handed to the renderer.
type EffectsConfig struct {
	BlurSamples  int     `yaml:"blur_samples"`
	PixelSpacing float32 `yaml:"pixel_spacing"`
	BloodStep    float32 `yaml:"blood_step"` // Blood factor added per lost health point
}

// DataConfig holds world data file paths.
type DataConfig struct {
	Dir         string `yaml:"dir"`
	HeightField string `yaml:"heightfield"`
	Passability string `yaml:"passability"`
	Content     string `yaml:"content"`
}

// SimConfig holds headless runner settings.
type SimConfig struct {
	TickRate int   `yaml:"tick_rate"` // Ticks per second
	Ticks    int   `yaml:"ticks"`     // 0 runs until interrupted
	Seed     int64 `yaml:"seed"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		World: WorldConfig{
			Offset:             250,
			CellScale:          0.1,
			HeightScale:        25,
			PassabilityDivisor: 2,
			MinX:               -225,
			MaxX:               1625,
			MinZ:               -235,
			MaxZ:               1630,
			RiverMinZ:          140,
			RiverMaxZ:          210,
			BridgeElevation:    0.4,
		},
		Agent: AgentConfig{
			MoveSpeed:        60,
			MouseSensitivity: 0.002,
			EyeHeight:        20,
			MaxPitch:         1.4,
			HalfExtents:      [3]float32{3, 10, 3},
			Start:            [3]float32{-190, 50, -120},
			LookAt:           [3]float32{-190, 50, -110},
		},
		Wind: WindConfig{
			Strength:  0.05,
			SweepAxis: [3]float32{0, 0, 1},
		},
		Tree: TreeConfig{
			NodeBudget:     30,
			SegmentSpacing: 3.5,
			PivotHeight:    2,
			PivotAngle:     0.39269908, // pi/8
		},
		Collision: CollisionConfig{
			DefaultHalfExtents: [3]float32{7, 10, 7},
			InteractReach:      30,
			InteractCooldown:   500 * time.Millisecond,
		},
		Chaser: ChaserConfig{
			Enabled:  true,
			Speed:    55,
			Reach:    15,
			Height:   35,
			Health:   3,
			Immunity: 2 * time.Second,
		},
		Effects: EffectsConfig{
			BlurSamples:  10,
			PixelSpacing: 0.004,
			BloodStep:    0.1,
		},
		Data: DataConfig{
			Dir:         "data",
			HeightField: "terrain.heightfield",
			Passability: "impassable.csv",
			Content:     "world.yaml",
		},
		Sim: SimConfig{
			TickRate: 60,
			Ticks:    0,
			Seed:     1,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
