package world

import "wildmarch/internal/sim/tuning"

// Freshwater band: a narrow positive elevation sliver marking inland
// depressions. The sea sits below zero; this keeps lakes and ponds
// distinct from contiguous ocean.
const (
	freshwaterMin      = 0.0
	freshwaterMax      = 0.05
	freshwaterDeepMax  = 0.4 // moisture below this -> deep fresh water
	BiomeDeepFresh     = "water_deep_fresh"
	BiomeShallowFresh  = "water_shallow_fresh"
	BiomeFallbackOcean = "ocean"
)

// Classifier turns (elevation, moisture) samples into biome ids via the
// configured threshold matrix. Stateless aside from loaded configuration.
type Classifier struct {
	elevThresholds  []float64
	moistThresholds []float64
	matrix          [][]string
}

// NewClassifier builds a classifier from config. With no matrix or
// thresholds configured it runs in fallback mode: a four-band
// elevation-only split.
func NewClassifier(cfg tuning.Config) *Classifier {
	c := &Classifier{}
	if len(cfg.BiomeMatrix) == len(cfg.ElevationThresholds)+1 && len(cfg.BiomeMatrix) > 0 {
		ok := true
		for _, row := range cfg.BiomeMatrix {
			if len(row) != len(cfg.MoistureThresholds)+1 {
				ok = false
				break
			}
		}
		if ok {
			c.elevThresholds = cfg.ElevationThresholds
			c.moistThresholds = cfg.MoistureThresholds
			c.matrix = cfg.BiomeMatrix
		}
	}
	return c
}

// Classify maps one sample pair to a biome id. Threshold comparisons are
// exclusive on the upper bound: a sample exactly equal to a threshold
// falls into the higher band. Regeneration determinism depends on this
// ordering staying fixed.
func (c *Classifier) Classify(elevation, moisture float64) string {
	if elevation >= freshwaterMin && elevation < freshwaterMax {
		if moisture < freshwaterDeepMax {
			return BiomeDeepFresh
		}
		return BiomeShallowFresh
	}

	if c.matrix == nil {
		return fallbackClassify(elevation)
	}

	row := bandIndex(c.elevThresholds, elevation)
	col := bandIndex(c.moistThresholds, moisture)
	return c.matrix[row][col]
}

// bandIndex counts thresholds <= v: the index of the first threshold
// exceeding v.
func bandIndex(thresholds []float64, v float64) int {
	i := 0
	for _, t := range thresholds {
		if v < t {
			break
		}
		i++
	}
	return i
}

// fallbackClassify ignores moisture entirely.
func fallbackClassify(elevation float64) string {
	switch {
	case elevation < 0:
		return BiomeFallbackOcean
	case elevation < 0.4:
		return "grassland"
	case elevation < 0.7:
		return "forest"
	default:
		return "mountains"
	}
}
