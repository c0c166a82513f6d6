package config

import "flag"

var (
	flagConfig   = flag.String("config", "", "Path to config file")
	flagDebug    = flag.Bool("debug", false, "Enable debug logging")
	flagDataDir  = flag.String("data", "", "World data directory")
	flagTicks    = flag.Int("ticks", -1, "Number of ticks to simulate (0 = until interrupted)")
	flagTickRate = flag.Int("tick-rate", 0, "Ticks per second")
	flagSeed     = flag.Int64("seed", 0, "Placement seed")
	flagNoChaser = flag.Bool("no-chaser", false, "Disable the chaser")
	flagLogFile  = flag.String("log-file", "", "Rotating log file path")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagDataDir != "" {
		cfg.Data.Dir = *flagDataDir
	}
	if *flagTicks >= 0 {
		cfg.Sim.Ticks = *flagTicks
	}
	if *flagTickRate > 0 {
		cfg.Sim.TickRate = *flagTickRate
	}
	if *flagSeed != 0 {
		cfg.Sim.Seed = *flagSeed
	}
	if *flagNoChaser {
		cfg.Chaser.Enabled = false
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
}
