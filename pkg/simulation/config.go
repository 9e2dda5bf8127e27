package simulation

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/lao-tseu-is-alive/go-boids-emergence/pkg/behavior"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed config.schema.json
var configSchema string

// ErrUnsupportedFormat is returned by LoadConfig for an unknown file extension.
var ErrUnsupportedFormat = errors.New("unsupported config format")

// ParametersConfig mirrors behavior.Parameters with serialisation tags.
type ParametersConfig struct {
	AlignmentWeight    float64 `json:"alignmentWeight" yaml:"alignmentWeight"`
	CohesionWeight     float64 `json:"cohesionWeight" yaml:"cohesionWeight"`
	SeparationWeight   float64 `json:"separationWeight" yaml:"separationWeight"`
	PerceptionRadius   float64 `json:"perceptionRadius" yaml:"perceptionRadius"`
	MaxSpeed           float64 `json:"maxSpeed" yaml:"maxSpeed"`
	MaxForce           float64 `json:"maxForce" yaml:"maxForce"`
	PopulationSize     int     `json:"populationSize" yaml:"populationSize"`
	AgitationThreshold float64 `json:"agitationThreshold" yaml:"agitationThreshold"`
}

// AutopilotConfig configures the Perlin parameter driver.
type AutopilotConfig struct {
	Enabled   bool    `json:"enabled" yaml:"enabled"`
	Increment float64 `json:"increment" yaml:"increment"`
	// Seed of the noise generator. Zero derives it from the world seed.
	Seed int64 `json:"seed" yaml:"seed"`
}

type Config struct {
	// World Dimensions
	WorldWidth  float64 `json:"worldWidth" yaml:"worldWidth"`
	WorldHeight float64 `json:"worldHeight" yaml:"worldHeight"`

	// Seed drives boid placement. Zero picks a random seed at startup.
	Seed uint64 `json:"seed" yaml:"seed"`

	// Ticks per second of the interactive front ends.
	TPS int `json:"tps" yaml:"tps"`

	Glyph      string           `json:"glyph" yaml:"glyph"`
	UpdateMode string           `json:"updateMode" yaml:"updateMode"`
	Parameters ParametersConfig `json:"parameters" yaml:"parameters"`
	Autopilot  AutopilotConfig  `json:"autopilot" yaml:"autopilot"`
}

func DefaultConfig() *Config {
	p := behavior.DefaultParameters()
	return &Config{
		WorldWidth:  1000,
		WorldHeight: 800,
		TPS:         60,
		Glyph:       behavior.GlyphTriangle.String(),
		UpdateMode:  p.UpdateMode.String(),
		Parameters: ParametersConfig{
			AlignmentWeight:    p.AlignmentWeight,
			CohesionWeight:     p.CohesionWeight,
			SeparationWeight:   p.SeparationWeight,
			PerceptionRadius:   p.PerceptionRadius,
			MaxSpeed:           p.MaxSpeed,
			MaxForce:           p.MaxForce,
			PopulationSize:     p.PopulationSize,
			AgitationThreshold: p.AgitationThreshold,
		},
		Autopilot: AutopilotConfig{
			Enabled:   true,
			Increment: behavior.DefaultPhaseIncrement,
		},
	}
}

// LoadConfig reads a JSON, YAML or TOML file (chosen by extension), validates
// it against the embedded schema and applies it over DefaultConfig.
// Fields missing from the file keep their default value.
func LoadConfig(configFile string) (*Config, error) {
	b, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	doc, err := normalize(filepath.Ext(configFile), b)
	if err != nil {
		return nil, err
	}
	return parseConfig(doc)
}

// normalize converts the raw file content to JSON so that a single schema
// validates every format.
func normalize(ext string, b []byte) ([]byte, error) {
	var v map[string]interface{}
	switch strings.ToLower(ext) {
	case ".json":
		return b, nil
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &v); err != nil {
			return nil, fmt.Errorf("failed to decode config yaml: %w", err)
		}
	case ".toml":
		if err := toml.Unmarshal(b, &v); err != nil {
			return nil, fmt.Errorf("failed to decode config toml: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if v == nil {
		v = map[string]interface{}{}
	}
	out, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to convert config to json: %w", err)
	}
	return out, nil
}

func parseConfig(doc []byte) (*Config, error) {
	sch, err := jsonschema.CompileString("config.schema.json", configSchema)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}

	var v interface{}
	if err := json.NewDecoder(bytes.NewReader(doc)).Decode(&v); err != nil {
		return nil, fmt.Errorf("failed to decode config json: %w", err)
	}
	if err := sch.Validate(v); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(doc, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// BehaviorParameters converts the config into the live parameter set.
func (c *Config) BehaviorParameters() (behavior.Parameters, error) {
	mode, err := behavior.ParseUpdateMode(c.UpdateMode)
	if err != nil {
		return behavior.Parameters{}, err
	}
	return behavior.Parameters{
		AlignmentWeight:    c.Parameters.AlignmentWeight,
		CohesionWeight:     c.Parameters.CohesionWeight,
		SeparationWeight:   c.Parameters.SeparationWeight,
		PerceptionRadius:   c.Parameters.PerceptionRadius,
		MaxSpeed:           c.Parameters.MaxSpeed,
		MaxForce:           c.Parameters.MaxForce,
		PopulationSize:     c.Parameters.PopulationSize,
		AgitationThreshold: c.Parameters.AgitationThreshold,
		UpdateMode:         mode,
	}, nil
}

// GlyphKind returns the configured glyph, triangle when unset.
func (c *Config) GlyphKind() (behavior.Glyph, error) {
	return behavior.ParseGlyph(c.Glyph)
}

// SimulationState builds the core state described by the config: a flock
// seeded from Seed and a Perlin autopilot. A zero Seed is replaced by a
// random one and written back so the run can be reproduced.
func (c *Config) SimulationState() (*behavior.SimulationState, error) {
	p, err := c.BehaviorParameters()
	if err != nil {
		return nil, err
	}
	if c.Seed == 0 {
		c.Seed = rand.Uint64()
	}
	rng := rand.New(rand.NewPCG(c.Seed, c.Seed^0x9e3779b97f4a7c15))
	s := behavior.NewSimulationState(p, c.WorldWidth, c.WorldHeight, rng)

	noiseSeed := c.Autopilot.Seed
	if noiseSeed == 0 {
		noiseSeed = int64(c.Seed >> 1)
	}
	s.Driver = behavior.NewParameterDriver(behavior.NewPerlinNoise(noiseSeed))
	if c.Autopilot.Increment > 0 {
		s.Driver.Increment = c.Autopilot.Increment
	}
	s.AutopilotEnabled = c.Autopilot.Enabled
	return s, nil
}
