package tuning

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// Config holds every knob the overworld streamer and generator read.
// Immutable after load.
type Config struct {
	ChunkSize    int `yaml:"chunk_size"`
	LoadRadius   int `yaml:"load_radius"`
	UnloadRadius int `yaml:"unload_radius"`

	Elevation NoiseParams `yaml:"elevation"`
	Moisture  NoiseParams `yaml:"moisture"`

	// Ordered ascending. A sample equal to a threshold falls into the
	// higher band (exclusive upper bound).
	ElevationThresholds []float64 `yaml:"elevation_thresholds"`
	MoistureThresholds  []float64 `yaml:"moisture_thresholds"`

	// (len(ElevationThresholds)+1) rows x (len(MoistureThresholds)+1) cols
	// of biome ids.
	BiomeMatrix [][]string `yaml:"biome_matrix"`
}

type NoiseParams struct {
	Frequency  float64 `yaml:"frequency"`
	Octaves    int     `yaml:"octaves"`
	Lacunarity float64 `yaml:"lacunarity"`
	Gain       float64 `yaml:"gain"`
}

const schemaJSON = `{
  "type": "object",
  "properties": {
    "chunk_size": {"type": "integer", "minimum": 1},
    "load_radius": {"type": "integer", "minimum": 0},
    "unload_radius": {"type": "integer", "minimum": 0},
    "elevation": {"$ref": "#/$defs/noise"},
    "moisture": {"$ref": "#/$defs/noise"},
    "elevation_thresholds": {"type": "array", "items": {"type": "number"}},
    "moisture_thresholds": {"type": "array", "items": {"type": "number"}},
    "biome_matrix": {
      "type": "array",
      "items": {"type": "array", "items": {"type": "string"}}
    }
  },
  "$defs": {
    "noise": {
      "type": "object",
      "properties": {
        "frequency": {"type": "number", "exclusiveMinimum": 0},
        "octaves": {"type": "integer", "minimum": 1},
        "lacunarity": {"type": "number"},
        "gain": {"type": "number"}
      }
    }
  }
}`

// Default is the hard-coded fallback used when tuning.yaml is absent.
func Default() Config {
	return Config{
		ChunkSize:    32,
		LoadRadius:   3,
		UnloadRadius: 5,
		Elevation: NoiseParams{
			Frequency:  0.01,
			Octaves:    4,
			Lacunarity: 2.0,
			Gain:       0.5,
		},
		Moisture: NoiseParams{
			Frequency:  0.008,
			Octaves:    3,
			Lacunarity: 2.0,
			Gain:       0.5,
		},
		ElevationThresholds: []float64{0.0, 0.25, 0.4, 0.55, 0.7, 0.85},
		MoistureThresholds:  []float64{0.2, 0.4, 0.6, 0.8},
		BiomeMatrix: [][]string{
			{"deep_ocean", "deep_ocean", "ocean", "ocean", "ocean"},
			{"beach", "beach", "grassland", "grassland", "marsh"},
			{"desert", "grassland", "grassland", "forest", "swamp"},
			{"desert", "grassland", "forest", "forest", "swamp"},
			{"scrubland", "grassland", "forest", "forest", "forest"},
			{"mountains", "mountains", "mountains", "taiga", "taiga"},
			{"snow_peak", "snow_peak", "snow_peak", "snow_peak", "snow_peak"},
		},
	}
}

// Load reads and validates a tuning document.
func Load(path string) (Config, error) {
	c := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}

	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return c, fmt.Errorf("tuning.yaml: %w", err)
	}
	if err := validate(doc); err != nil {
		return c, fmt.Errorf("tuning.yaml: %w", err)
	}

	if err := yaml.Unmarshal(raw, &c); err != nil {
		return c, fmt.Errorf("tuning.yaml: %w", err)
	}
	if err := c.check(); err != nil {
		return c, fmt.Errorf("tuning.yaml: %w", err)
	}
	return c, nil
}

// LoadOrDefault degrades to Default when the file is missing or broken.
// Missing config is a deployment warning, not a fatal error.
func LoadOrDefault(path string, logger *log.Logger) Config {
	c, err := Load(path)
	if err != nil {
		if logger != nil {
			logger.Printf("tuning: %v (using built-in defaults)", err)
		}
		return Default()
	}
	return c
}

func validate(doc any) error {
	schema, err := jsonschema.CompileString("tuning.schema.json", schemaJSON)
	if err != nil {
		return err
	}
	// Round-trip through encoding/json so the instance carries json-decoded
	// types, which is what the validator expects.
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	return schema.Validate(v)
}

func (c Config) check() error {
	if c.ChunkSize < 1 {
		return fmt.Errorf("chunk_size must be >= 1, got %d", c.ChunkSize)
	}
	if c.UnloadRadius < c.LoadRadius {
		return fmt.Errorf("unload_radius %d < load_radius %d", c.UnloadRadius, c.LoadRadius)
	}
	for i := 1; i < len(c.ElevationThresholds); i++ {
		if c.ElevationThresholds[i] <= c.ElevationThresholds[i-1] {
			return fmt.Errorf("elevation_thresholds not strictly ascending at %d", i)
		}
	}
	for i := 1; i < len(c.MoistureThresholds); i++ {
		if c.MoistureThresholds[i] <= c.MoistureThresholds[i-1] {
			return fmt.Errorf("moisture_thresholds not strictly ascending at %d", i)
		}
	}
	if len(c.BiomeMatrix) > 0 {
		if len(c.BiomeMatrix) != len(c.ElevationThresholds)+1 {
			return fmt.Errorf("biome_matrix rows: got %d want %d", len(c.BiomeMatrix), len(c.ElevationThresholds)+1)
		}
		for i, row := range c.BiomeMatrix {
			if len(row) != len(c.MoistureThresholds)+1 {
				return fmt.Errorf("biome_matrix row %d cols: got %d want %d", i, len(row), len(c.MoistureThresholds)+1)
			}
		}
	}
	return nil
}
