package simulation

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/lao-tseu-is-alive/go-boids-emergence/pkg/behavior"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func TestLoadConfig_Formats(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "json",
			file: "boids.json",
			content: `{
  "worldWidth": 640,
  "seed": 7,
  "updateMode": "sequential",
  "parameters": {"cohesionWeight": 2.5, "populationSize": 40},
  "autopilot": {"enabled": false}
}`,
		},
		{
			name: "yaml",
			file: "boids.yaml",
			content: `worldWidth: 640
seed: 7
updateMode: sequential
parameters:
  cohesionWeight: 2.5
  populationSize: 40
autopilot:
  enabled: false
`,
		},
		{
			name: "toml",
			file: "boids.toml",
			content: `worldWidth = 640
seed = 7
updateMode = "sequential"

[parameters]
cohesionWeight = 2.5
populationSize = 40

[autopilot]
enabled = false
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadConfig(writeFile(t, tt.file, tt.content))
			if err != nil {
				t.Fatalf("LoadConfig() error = %v", err)
			}
			if cfg.WorldWidth != 640 {
				t.Errorf("WorldWidth = %v; want 640", cfg.WorldWidth)
			}
			if cfg.WorldHeight != DefaultConfig().WorldHeight {
				t.Errorf("WorldHeight = %v; want default", cfg.WorldHeight)
			}
			if cfg.Seed != 7 {
				t.Errorf("Seed = %d; want 7", cfg.Seed)
			}
			if cfg.Parameters.CohesionWeight != 2.5 || cfg.Parameters.PopulationSize != 40 {
				t.Errorf("parameters = %+v", cfg.Parameters)
			}
			if cfg.Parameters.SeparationWeight != behavior.DefaultSeparationWeight {
				t.Errorf("SeparationWeight = %v; want default", cfg.Parameters.SeparationWeight)
			}
			if cfg.Autopilot.Enabled {
				t.Error("autopilot should be disabled")
			}
			p, err := cfg.BehaviorParameters()
			if err != nil {
				t.Fatalf("BehaviorParameters() error = %v", err)
			}
			if p.UpdateMode != behavior.UpdateSequential {
				t.Errorf("UpdateMode = %v; want sequential", p.UpdateMode)
			}
		})
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"negative max speed", "bad.json", `{"parameters": {"maxSpeed": -1}}`},
		{"unknown field", "bad.json", `{"numRedAtStart": 5}`},
		{"unknown glyph", "bad.yaml", "glyph: hexagon\n"},
		{"zero width", "bad.toml", "worldWidth = 0\n"},
		{"fractional population", "bad.json", `{"parameters": {"populationSize": 1.5}}`},
		{"broken json", "bad.json", `{"worldWidth":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadConfig(writeFile(t, tt.file, tt.content)); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestLoadConfig_UnsupportedFormat(t *testing.T) {
	_, err := LoadConfig(writeFile(t, "boids.ini", "worldWidth=1"))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("error = %v; want ErrUnsupportedFormat", err)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestConfig_WriteYAMLRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 99
	cfg.Glyph = "letter"
	path := filepath.Join(t.TempDir(), "config.yaml")

	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML() error = %v", err)
	}
	got, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("dumped config does not load back: %v", err)
	}
	if *got != *cfg {
		t.Errorf("got %+v; want %+v", got, cfg)
	}
}

func TestConfig_SimulationState(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 12345
	cfg.Parameters.PopulationSize = 15
	cfg.Autopilot.Increment = 0.01

	a, err := cfg.SimulationState()
	if err != nil {
		t.Fatalf("SimulationState() error = %v", err)
	}
	b, _ := cfg.SimulationState()

	if a.Flock.Len() != 15 {
		t.Fatalf("flock size = %d; want 15", a.Flock.Len())
	}
	for i := range a.Flock.Boids {
		if !a.Flock.Boids[i].Position.Eq(b.Flock.Boids[i].Position) {
			t.Fatalf("boid %d: same seed gave different positions", i)
		}
	}
	if !a.AutopilotEnabled || a.Driver == nil || a.Driver.Increment != 0.01 {
		t.Errorf("autopilot not configured: enabled=%v driver=%+v", a.AutopilotEnabled, a.Driver)
	}
}

func TestConfig_SimulationStatePicksSeed(t *testing.T) {
	cfg := DefaultConfig()
	if _, err := cfg.SimulationState(); err != nil {
		t.Fatalf("SimulationState() error = %v", err)
	}
	if cfg.Seed == 0 {
		t.Error("a random seed should have been recorded")
	}
}

func TestConfig_BadUpdateMode(t *testing.T) {
	cfg := DefaultConfig()
	cfg.UpdateMode = "parallel"
	if _, err := cfg.SimulationState(); err == nil {
		t.Error("expected an error for an unknown update mode")
	}
}
