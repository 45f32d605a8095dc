// Package testkit provides deterministic synthetic datasets for tests:
// gaussian inlier clusters with a known fraction of injected uniform
// outliers, plus ground-truth labels to judge detector output against.
package testkit

import (
	"math/rand"

	"gonum.org/v1/gonum/stat/distuv"

	"goutlier/domain/dataset"
)

// GeneratorConfig controls the synthetic dataset shape
type GeneratorConfig struct {
	NSamples  int
	NFeatures int
	// OutlierFraction of samples are drawn far outside the inlier cloud.
	OutlierFraction float64
	// InlierMean and InlierStdDev parametrize the gaussian cloud.
	InlierMean   float64
	InlierStdDev float64
	// OutlierOffset shifts outliers away from the cloud center, in
	// multiples of InlierStdDev.
	OutlierOffset float64
	Seed          int64
}

// DefaultGeneratorConfig returns a shape that every detector in the toolkit
// should separate cleanly.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		NSamples:        200,
		NFeatures:       3,
		OutlierFraction: 0.05,
		InlierMean:      10,
		InlierStdDev:    1.5,
		OutlierOffset:   10,
		Seed:            42,
	}
}

// Generate builds a matrix plus ground-truth labels (1 = injected outlier).
// Outliers occupy the trailing rows so tests can address them directly.
func Generate(cfg GeneratorConfig) (*dataset.Matrix, []int) {
	rng := rand.New(rand.NewSource(cfg.Seed))
	normal := distuv.Normal{
		Mu:    cfg.InlierMean,
		Sigma: cfg.InlierStdDev,
		Src:   rng,
	}

	nOutliers := int(float64(cfg.NSamples) * cfg.OutlierFraction)
	nInliers := cfg.NSamples - nOutliers

	data := make([][]float64, 0, cfg.NSamples)
	labels := make([]int, 0, cfg.NSamples)

	for i := 0; i < nInliers; i++ {
		row := make([]float64, cfg.NFeatures)
		for j := range row {
			row[j] = normal.Rand()
		}
		data = append(data, row)
		labels = append(labels, 0)
	}

	// Outliers sit OutlierOffset sigmas from the center, jittered
	// uniformly so they do not collapse onto one point.
	distance := cfg.OutlierOffset * cfg.InlierStdDev
	for i := 0; i < nOutliers; i++ {
		row := make([]float64, cfg.NFeatures)
		for j := range row {
			sign := 1.0
			if rng.Intn(2) == 0 {
				sign = -1.0
			}
			row[j] = cfg.InlierMean + sign*(distance+rng.Float64()*cfg.InlierStdDev)
		}
		data = append(data, row)
		labels = append(labels, 1)
	}

	return dataset.NewMatrix(data), labels
}
