// terraintool is a CLI utility for inspecting and editing woodland terrain data.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Faultbox/woodland/internal/config"
	"github.com/Faultbox/woodland/internal/engine/terrain"
	"github.com/Faultbox/woodland/internal/game/world"
	"github.com/Faultbox/woodland/pkg/formats"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "info":
		cmdInfo(args)
	case "sample":
		cmdSample(args)
	case "carve":
		cmdCarve(args)
	case "route":
		cmdRoute(args)
	case "gen":
		cmdGen(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`terraintool - woodland terrain data utility

Usage:
  terraintool <command> [options]

Commands:
  info <dir>                      Show heightfield and passability information
  sample <dir> <x,z>              Print ground elevation at a world position
  carve [-out dir] <dir> <x>      Carve a river crossing at world x
  route <dir> <x,z> <x,z>         Find a passable route between two positions
  gen [-w n] [-d n] <dir>         Write a flat, fully passable world

Every command reads terrain.heightfield and impassable.csv from <dir> and
accepts -offset, -cell, -height-scale and -divisor to override the mapping.

Examples:
  terraintool info data
  terraintool sample data -190,-120
  terraintool carve -out patched data 600
  terraintool route data -190,-120 600,400`)
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

// worldFlags registers the mapping overrides on fs.
func worldFlags(fs *flag.FlagSet) *config.WorldConfig {
	cfg := config.Default().World
	fs.Var(float32Value{&cfg.Offset}, "offset", "World offset added before scaling")
	fs.Var(float32Value{&cfg.CellScale}, "cell", "Heightfield cells per world unit")
	fs.Var(float32Value{&cfg.HeightScale}, "height-scale", "Vertical sample scale")
	fs.IntVar(&cfg.PassabilityDivisor, "divisor", cfg.PassabilityDivisor, "Heightfield cells per passability cell")
	return &cfg
}

type float32Value struct{ p *float32 }

func (v float32Value) String() string {
	if v.p == nil {
		return "0"
	}
	return strconv.FormatFloat(float64(*v.p), 'g', -1, 32)
}

func (v float32Value) Set(s string) error {
	f, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return err
	}
	*v.p = float32(f)
	return nil
}

func loadWorld(dir string, cfg config.WorldConfig) *world.World {
	h, err := formats.ParseHeightFieldFile(filepath.Join(dir, config.Default().Data.HeightField))
	if err != nil {
		fail("Error: %v", err)
	}
	p, err := formats.ParsePassabilityFile(filepath.Join(dir, config.Default().Data.Passability))
	if err != nil {
		fail("Error: %v", err)
	}
	w, err := world.New(h, p, cfg)
	if err != nil {
		fail("Error: %v", err)
	}
	return w
}

func parseXZ(s string) (float32, float32) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		fail("Invalid position %q, expected x,z", s)
	}
	x, errX := strconv.ParseFloat(strings.TrimSpace(parts[0]), 32)
	z, errZ := strconv.ParseFloat(strings.TrimSpace(parts[1]), 32)
	if errX != nil || errZ != nil {
		fail("Invalid position %q, expected x,z", s)
	}
	return float32(x), float32(z)
}

func cmdInfo(args []string) {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	cfg := worldFlags(fs)
	fs.Parse(args)

	if fs.NArg() < 1 {
		fail("Usage: terraintool info <dir>")
	}

	w := loadWorld(fs.Arg(0), *cfg)
	lo, hi := w.Height.Range()
	blocked := w.Pass.CountBlocked()
	total := w.Pass.Width * w.Pass.Depth

	m := w.Mapping
	fmt.Printf("Data:        %s\n", fs.Arg(0))
	fmt.Printf("Heightfield: %d x %d\n", w.Height.Width, w.Height.Depth)
	fmt.Printf("Elevation:   %.3f .. %.3f (x%.1f)\n", lo, hi, m.HeightScale)
	fmt.Printf("Passability: %d x %d\n", w.Pass.Width, w.Pass.Depth)
	fmt.Printf("Blocked:     %d of %d (%.1f%%)\n", blocked, total, 100*float64(blocked)/float64(total))
	fmt.Printf("World X:     %.1f .. %.1f\n", m.World(0), m.World(float32(w.Height.Width-1)))
	fmt.Printf("World Z:     %.1f .. %.1f\n", m.World(0), m.World(float32(w.Height.Depth-1)))
}

func cmdSample(args []string) {
	fs := flag.NewFlagSet("sample", flag.ExitOnError)
	cfg := worldFlags(fs)
	fs.Parse(args)

	if fs.NArg() < 2 {
		fail("Usage: terraintool sample <dir> <x,z>")
	}

	w := loadWorld(fs.Arg(0), *cfg)
	x, z := parseXZ(fs.Arg(1))

	y, ok := w.Height.Sample(x, z, 0)
	if !ok {
		fail("Position %.2f,%.2f is outside the heightfield", x, z)
	}
	col, row := w.Pass.Cell(x, z)
	fmt.Printf("Elevation: %.3f\n", y)
	fmt.Printf("Cell:      %d,%d\n", col, row)
	fmt.Printf("Blocked:   %v\n", w.Pass.BlockedAt(col, row))
}

func cmdCarve(args []string) {
	fs := flag.NewFlagSet("carve", flag.ExitOnError)
	cfg := worldFlags(fs)
	out := fs.String("out", "", "Output directory (default: overwrite input)")
	fs.Parse(args)

	if fs.NArg() < 2 {
		fail("Usage: terraintool carve [-out dir] <dir> <x>")
	}

	x, err := strconv.ParseFloat(fs.Arg(1), 32)
	if err != nil {
		fail("Invalid x %q", fs.Arg(1))
	}

	w := loadWorld(fs.Arg(0), *cfg)
	before := w.Pass.CountBlocked()
	bridgeX := w.CarveRiverCrossing(float32(x))

	dir := *out
	if dir == "" {
		dir = fs.Arg(0)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		fail("Error: %v", err)
	}
	writeWorld(dir, w.Height.Data(), w.Pass.Data())

	fmt.Printf("Bridge at x=%.2f\n", bridgeX)
	fmt.Printf("Blocked cells: %d -> %d\n", before, w.Pass.CountBlocked())
	fmt.Printf("Written to %s\n", dir)
}

func cmdRoute(args []string) {
	fs := flag.NewFlagSet("route", flag.ExitOnError)
	cfg := worldFlags(fs)
	fs.Parse(args)

	if fs.NArg() < 3 {
		fail("Usage: terraintool route <dir> <x,z> <x,z>")
	}

	w := loadWorld(fs.Arg(0), *cfg)
	x1, z1 := parseXZ(fs.Arg(1))
	x2, z2 := parseXZ(fs.Arg(2))

	sc, sr := w.Pass.Cell(x1, z1)
	gc, gr := w.Pass.Cell(x2, z2)
	path := w.Pass.FindPath(terrain.Cell{Col: sc, Row: sr}, terrain.Cell{Col: gc, Row: gr})
	if path == nil {
		fail("No route from %d,%d to %d,%d", sc, sr, gc, gr)
	}

	m := w.Mapping
	fmt.Printf("Route: %d cells\n", len(path))
	for _, c := range path {
		fmt.Printf("  %4d,%-4d  (%.1f, %.1f)\n", c.Col, c.Row, m.PassCellCenter(c.Col), m.PassCellCenter(c.Row))
	}
}

func cmdGen(args []string) {
	fs := flag.NewFlagSet("gen", flag.ExitOnError)
	cfg := worldFlags(fs)
	width := fs.Int("w", 200, "Heightfield width")
	depth := fs.Int("d", 200, "Heightfield depth")
	elevation := fs.Float64("e", 0, "Raw elevation of every sample")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fail("Usage: terraintool gen [-w n] [-d n] <dir>")
	}

	m := world.MappingFromConfig(*cfg)
	h, err := terrain.Flat(*width, *depth, float32(*elevation), m)
	if err != nil {
		fail("Error: %v", err)
	}
	pw, pd := m.PassDims(*width, *depth)
	p, err := terrain.OpenGrid(pw, pd, m)
	if err != nil {
		fail("Error: %v", err)
	}

	dir := fs.Arg(0)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		fail("Error: %v", err)
	}
	writeWorld(dir, h.Data(), p.Data())
	fmt.Printf("Wrote %dx%d heightfield and %dx%d passability grid to %s\n", *width, *depth, pw, pd, dir)
}

func writeWorld(dir string, h *formats.HeightFieldData, p *formats.PassabilityData) {
	defaults := config.Default().Data

	hf, err := os.Create(filepath.Join(dir, defaults.HeightField))
	if err != nil {
		fail("Error: %v", err)
	}
	if err := h.Encode(hf); err != nil {
		hf.Close()
		fail("Error: %v", err)
	}
	if err := hf.Close(); err != nil {
		fail("Error: %v", err)
	}

	pf, err := os.Create(filepath.Join(dir, defaults.Passability))
	if err != nil {
		fail("Error: %v", err)
	}
	if err := p.Encode(pf); err != nil {
		pf.Close()
		fail("Error: %v", err)
	}
	if err := pf.Close(); err != nil {
		fail("Error: %v", err)
	}
}
