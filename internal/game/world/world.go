// Package world loads the walkable world and applies edits to it.
package world

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/woodland/internal/assets"
	"github.com/Faultbox/woodland/internal/config"
	"github.com/Faultbox/woodland/internal/engine/agent"
	"github.com/Faultbox/woodland/internal/engine/terrain"
	"github.com/Faultbox/woodland/internal/logger"
	"github.com/Faultbox/woodland/pkg/formats"
	"github.com/Faultbox/woodland/pkg/math"
)

// ErrDimensionMismatch is returned when the passability grid does not cover
// the heightfield at the configured divisor.
var ErrDimensionMismatch = errors.New("passability grid does not match heightfield")

// World is the walkable terrain: elevation, passability and the playable area.
type World struct {
	Mapping terrain.GridMapping
	Height  *terrain.HeightField
	Pass    *terrain.PassabilityGrid
	Area    agent.Area

	RiverMinZ       float32
	RiverMaxZ       float32
	BridgeElevation float32
}

// MappingFromConfig returns the grid mapping described by cfg.
func MappingFromConfig(cfg config.WorldConfig) terrain.GridMapping {
	return terrain.GridMapping{
		Offset:             cfg.Offset,
		CellScale:          cfg.CellScale,
		HeightScale:        cfg.HeightScale,
		PassabilityDivisor: cfg.PassabilityDivisor,
	}
}

// AreaFromConfig returns the playable area described by cfg.
func AreaFromConfig(cfg config.WorldConfig) agent.Area {
	return agent.Area{MinX: cfg.MinX, MaxX: cfg.MaxX, MinZ: cfg.MinZ, MaxZ: cfg.MaxZ}
}

// New assembles a world from already parsed grids.
func New(height *formats.HeightFieldData, pass *formats.PassabilityData, cfg config.WorldConfig) (*World, error) {
	mapping := MappingFromConfig(cfg)

	h, err := terrain.HeightFieldFromData(height, mapping)
	if err != nil {
		return nil, fmt.Errorf("building heightfield: %w", err)
	}
	p, err := terrain.PassabilityFromData(pass, mapping)
	if err != nil {
		return nil, fmt.Errorf("building passability grid: %w", err)
	}

	wantW, wantD := mapping.PassDims(h.Width, h.Depth)
	if p.Width != wantW || p.Depth != wantD {
		return nil, fmt.Errorf("%w: heightfield %dx%d needs %dx%d cells, got %dx%d",
			ErrDimensionMismatch, h.Width, h.Depth, wantW, wantD, p.Width, p.Depth)
	}

	return &World{
		Mapping:         mapping,
		Height:          h,
		Pass:            p,
		Area:            AreaFromConfig(cfg),
		RiverMinZ:       cfg.RiverMinZ,
		RiverMaxZ:       cfg.RiverMaxZ,
		BridgeElevation: cfg.BridgeElevation,
	}, nil
}

// Load reads and parses the heightfield and passability files concurrently.
func Load(ctx context.Context, m *assets.Manager, cfg *config.Config) (*World, error) {
	var (
		height *formats.HeightFieldData
		pass   *formats.PassabilityData
	)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		data, err := m.Load(cfg.Data.HeightField)
		if err != nil {
			return fmt.Errorf("loading heightfield: %w", err)
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		height, err = formats.ParseHeightField(data)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", cfg.Data.HeightField, err)
		}
		return nil
	})

	g.Go(func() error {
		data, err := m.Load(cfg.Data.Passability)
		if err != nil {
			return fmt.Errorf("loading passability: %w", err)
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		pass, err = formats.ParsePassability(data)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", cfg.Data.Passability, err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	w, err := New(height, pass, cfg.World)
	if err != nil {
		return nil, err
	}

	logger.Info("world loaded",
		zap.Int("width", w.Height.Width),
		zap.Int("depth", w.Height.Depth),
		zap.Int("pass_width", w.Pass.Width),
		zap.Int("pass_depth", w.Pass.Depth),
		zap.Int("blocked", w.Pass.CountBlocked()))

	return w, nil
}

// CarveRiverCrossing flattens a corridor across the river band at world x and
// opens the matching passability cells with barriers on either side. It
// returns the world x at which a bridge should be placed.
func (w *World) CarveRiverCrossing(x float32) float32 {
	bridgeX := w.Height.CarveCorridor(x, w.Mapping.HeightRows(w.RiverMinZ, w.RiverMaxZ), w.BridgeElevation)
	w.Pass.CarvePath(w.Mapping.PassIndex(x), w.Mapping.PassRows(w.RiverMinZ, w.RiverMaxZ))

	logger.Debug("river crossing carved", zap.Float32("x", x), zap.Float32("bridge_x", bridgeX))
	return bridgeX
}

// CarveBridge carves a river crossing at world x and returns the ground
// position of its bridge, midway across the river band.
func (w *World) CarveBridge(x float32) math.Vec3 {
	bx := w.CarveRiverCrossing(x)
	return w.Height.ClampToGround(math.Vec3{X: bx, Z: (w.RiverMinZ + w.RiverMaxZ) / 2}, 0)
}

// NewAgent creates an agent bound to the world's grids.
func (w *World) NewAgent(settings agent.Settings) *agent.Agent {
	settings.Area = w.Area
	return agent.New(w.Height, w.Pass, settings)
}
