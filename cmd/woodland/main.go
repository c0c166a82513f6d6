// Package main runs the woodland simulation headless.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/woodland/internal/assets"
	"github.com/Faultbox/woodland/internal/config"
	"github.com/Faultbox/woodland/internal/game/placement"
	"github.com/Faultbox/woodland/internal/game/sim"
	"github.com/Faultbox/woodland/internal/game/world"
	"github.com/Faultbox/woodland/internal/logger"
	"github.com/Faultbox/woodland/pkg/math"
)

var flagWalk = flag.String("walk", "", "Walk the agent to world x,z")

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== Woodland ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logger.Error("simulation failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}

	logger.Info("simulation finished normally")
}

func run(ctx context.Context, cfg *config.Config) error {
	m := assets.NewManager()
	defer m.Close()
	if err := m.AddRoot(cfg.Data.Dir); err != nil {
		return err
	}

	w, err := world.Load(ctx, m, cfg)
	if err != nil {
		return err
	}

	content, err := loadContent(m, cfg.Data.Content)
	if err != nil {
		return err
	}

	s, err := sim.New(cfg, w, content)
	if err != nil {
		return err
	}

	if *flagWalk != "" {
		dest, err := parseXZ(*flagWalk)
		if err != nil {
			return fmt.Errorf("parsing -walk: %w", err)
		}
		if !s.WalkTo(dest) {
			logger.Warn("no route to destination", zap.Float32("x", dest.X), zap.Float32("z", dest.Z))
		}
	}

	return loop(ctx, cfg.Sim, s)
}

// loadContent reads the world layout. A missing file yields an empty world.
func loadContent(m *assets.Manager, name string) (*placement.Content, error) {
	data, err := m.Load(name)
	if errors.Is(err, assets.ErrNotFound) {
		logger.Warn("no world content, starting empty", zap.String("file", name))
		return &placement.Content{}, nil
	}
	if err != nil {
		return nil, err
	}

	c, err := placement.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", name, err)
	}
	return c, nil
}

func loop(ctx context.Context, cfg config.SimConfig, s *sim.Simulation) error {
	rate := cfg.TickRate
	if rate <= 0 {
		rate = 60
	}
	dt := time.Second / time.Duration(rate)

	ticker := time.NewTicker(dt)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("interrupted", zap.Uint64("ticks", s.Ticks()))
			return nil
		case <-ticker.C:
		}

		if !s.Tick(dt, sim.Input{}) {
			break
		}

		if s.Ticks()%uint64(rate) == 0 {
			f := s.Frame()
			logger.Debug("frame",
				zap.Uint64("tick", f.Tick),
				zap.Float32("x", f.AgentPosition.X),
				zap.Float32("y", f.AgentPosition.Y),
				zap.Float32("z", f.AgentPosition.Z),
				zap.Int("health", f.Health),
				zap.Int("nodes", len(f.Nodes)))
		}

		if cfg.Ticks > 0 && s.Ticks() >= uint64(cfg.Ticks) {
			break
		}
	}

	f := s.Frame()
	logger.Info("simulation stopped",
		zap.Uint64("ticks", f.Tick),
		zap.Duration("elapsed", s.Elapsed()),
		zap.Int("health", f.Health),
		zap.Bool("lost", f.Lost))
	return nil
}

func parseXZ(s string) (math.Vec3, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return math.Vec3{}, fmt.Errorf("expected x,z, got %q", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 32)
	if err != nil {
		return math.Vec3{}, err
	}
	z, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 32)
	if err != nil {
		return math.Vec3{}, err
	}
	return math.Vec3{X: float32(x), Z: float32(z)}, nil
}
