package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestNopBeforeInit(t *testing.T) {
	Reset()
	// Must not panic or write anywhere.
	Info("dropped", zap.Int("n", 1))
	Sugar.Debugf("dropped %d", 2)
	Sync()
}

func TestLogLevels(t *testing.T) {
	defer Reset()

	tests := []struct {
		level    string
		expected []string
		excluded []string
	}{
		{
			level:    "error",
			expected: []string{"ERROR"},
			excluded: []string{"WARN", "INFO", "DEBUG"},
		},
		{
			level:    "warn",
			expected: []string{"ERROR", "WARN"},
			excluded: []string{"INFO", "DEBUG"},
		},
		{
			level:    "info",
			expected: []string{"ERROR", "WARN", "INFO"},
			excluded: []string{"DEBUG"},
		},
		{
			level:    "debug",
			expected: []string{"ERROR", "WARN", "INFO", "DEBUG"},
			excluded: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			InitWithWriter(tt.level, &buf)

			Debug("debug message")
			Info("info message")
			Warn("warn message")
			Error("error message")

			out := buf.String()
			for _, exp := range tt.expected {
				if !strings.Contains(out, exp) {
					t.Errorf("expected %s in log output", exp)
				}
			}
			for _, exc := range tt.excluded {
				if strings.Contains(out, exc) {
					t.Errorf("unexpected %s in log output for level %s", exc, tt.level)
				}
			}
		})
	}
}

func TestCallerIsHelperCaller(t *testing.T) {
	defer Reset()

	var buf bytes.Buffer
	InitWithWriter("info", &buf)
	Info("where")

	if !strings.Contains(buf.String(), "logger_test.go") {
		t.Errorf("expected caller logger_test.go, got %q", buf.String())
	}
}

func TestNamed(t *testing.T) {
	defer Reset()

	var buf bytes.Buffer
	InitWithWriter("info", &buf)
	Named("terrain").Info("loaded", zap.Int("width", 4))

	out := buf.String()
	if !strings.Contains(out, "terrain") {
		t.Errorf("expected logger name in output, got %q", out)
	}
	if !strings.Contains(out, "width") {
		t.Errorf("expected field in output, got %q", out)
	}
	if !strings.Contains(out, "logger_test.go") {
		t.Errorf("expected caller logger_test.go, got %q", out)
	}
}

func TestFileOutput(t *testing.T) {
	defer Reset()

	logFile := filepath.Join(t.TempDir(), "sim.log")
	cfg := FileConfig{
		Path:       logFile,
		MaxSizeMB:  1,
		MaxBackups: 1,
		MaxAgeDays: 1,
		Compress:   false,
	}
	if err := InitWithFileConfig("info", cfg, false); err != nil {
		t.Fatalf("failed to init logger: %v", err)
	}

	Sugar.Infof("tick %d", 42)
	Sync()

	content, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if !strings.Contains(string(content), "tick 42") {
		t.Errorf("expected message in log file, got %q", content)
	}
}

func TestDefaultFileConfig(t *testing.T) {
	cfg := DefaultFileConfig("/tmp/test.log")

	if cfg.Path != "/tmp/test.log" {
		t.Errorf("expected path /tmp/test.log, got %s", cfg.Path)
	}
	if cfg.MaxSizeMB != 20 {
		t.Errorf("expected MaxSizeMB 20, got %d", cfg.MaxSizeMB)
	}
	if cfg.MaxBackups != 3 {
		t.Errorf("expected MaxBackups 3, got %d", cfg.MaxBackups)
	}
	if !cfg.Compress {
		t.Error("expected Compress to be true")
	}
}
