package world

import (
	"testing"

	"wildmarch/internal/sim/tuning"
)

func bandedConfig() tuning.Config {
	cfg := tuning.Default()
	cfg.ElevationThresholds = []float64{0.25, 0.4, 0.55, 0.7, 0.85}
	cfg.MoistureThresholds = []float64{0.5}
	cfg.BiomeMatrix = [][]string{
		{"band0_dry", "band0_wet"},
		{"band1_dry", "band1_wet"},
		{"band2_dry", "band2_wet"},
		{"band3_dry", "band3_wet"},
		{"band4_dry", "band4_wet"},
		{"band5_dry", "band5_wet"},
	}
	return cfg
}

func TestThresholdUpperBoundExclusive(t *testing.T) {
	c := NewClassifier(bandedConfig())

	// A sample exactly on a threshold falls into the higher band.
	if got := c.Classify(0.25, 0.0); got != "band1_dry" {
		t.Errorf("elevation 0.25 -> %q, want band1_dry", got)
	}
	if got := c.Classify(0.2499, 0.0); got != "band0_dry" {
		t.Errorf("elevation 0.2499 -> %q, want band0_dry", got)
	}
	if got := c.Classify(0.85, 0.0); got != "band5_dry" {
		t.Errorf("elevation 0.85 -> %q, want band5_dry", got)
	}
	if got := c.Classify(0.3, 0.5); got != "band1_wet" {
		t.Errorf("moisture 0.5 -> %q, want band1_wet", got)
	}
}

func TestFreshwaterBand(t *testing.T) {
	c := NewClassifier(bandedConfig())

	// [0, 0.05) is inland fresh water regardless of the matrix; the sea
	// uses negative elevation.
	if got := c.Classify(0.0, 0.1); got != BiomeDeepFresh {
		t.Errorf("elevation 0 moisture 0.1 -> %q, want %q", got, BiomeDeepFresh)
	}
	if got := c.Classify(0.049, 0.9); got != BiomeShallowFresh {
		t.Errorf("elevation 0.049 moisture 0.9 -> %q, want %q", got, BiomeShallowFresh)
	}
	if got := c.Classify(0.05, 0.1); got == BiomeDeepFresh || got == BiomeShallowFresh {
		t.Errorf("elevation 0.05 should leave the freshwater band, got %q", got)
	}
	if got := c.Classify(-0.01, 0.1); got == BiomeDeepFresh || got == BiomeShallowFresh {
		t.Errorf("negative elevation should not be fresh water, got %q", got)
	}
}

func TestFallbackModeIgnoresMoisture(t *testing.T) {
	cfg := tuning.Default()
	cfg.BiomeMatrix = nil
	cfg.ElevationThresholds = nil
	cfg.MoistureThresholds = nil
	c := NewClassifier(cfg)

	if got := c.Classify(-0.5, 0.9); got != "ocean" {
		t.Errorf("fallback negative elevation -> %q, want ocean", got)
	}
	if got := c.Classify(0.2, 0.1); got != "grassland" {
		t.Errorf("fallback 0.2 -> %q, want grassland", got)
	}
	if got := c.Classify(0.5, 0.99); got != "forest" {
		t.Errorf("fallback 0.5 -> %q, want forest", got)
	}
	if got := c.Classify(0.9, 0.0); got != "mountains" {
		t.Errorf("fallback 0.9 -> %q, want mountains", got)
	}
}

func TestMalformedMatrixFallsBack(t *testing.T) {
	cfg := bandedConfig()
	cfg.BiomeMatrix = cfg.BiomeMatrix[:3] // wrong row count
	c := NewClassifier(cfg)
	if got := c.Classify(0.9, 0.0); got != "mountains" {
		t.Errorf("broken matrix should use fallback bands, got %q", got)
	}
}
