package hbos

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"goutlier/domain/core"
	"goutlier/domain/dataset"
	"goutlier/domain/detection"
)

// densityTolerance is the absolute slack allowed when checking that bin
// densities integrate to one. Histograms are discrete approximations, so
// the check is deliberately loose.
const densityTolerance = 0.1

// degenerateHalfWidth widens the range of a constant-valued feature to
// [v-0.5, v+0.5] so bin widths stay positive and densities finite. All
// probability mass lands in the bin containing the constant value; the
// feature contributes the same score to every sample and is effectively
// non-discriminative.
const degenerateHalfWidth = 0.5

// buildHistograms partitions each feature of the training matrix into nBins
// equal-width bins over the closed [min, max] range observed for that
// feature, and records the empirical probability density of every bin
// (count / (nSamples * binWidth)). The returned histograms are immutable
// fitted state, indexed positionally by feature.
func buildHistograms(m *dataset.Matrix, nBins int) ([]detection.FeatureHistogram, error) {
	nSamples := m.Rows()
	nFeatures := m.Cols()

	histograms := make([]detection.FeatureHistogram, nFeatures)
	for i := 0; i < nFeatures; i++ {
		col := m.Column(i)

		lo := floats.Min(col)
		hi := floats.Max(col)
		if lo == hi {
			lo -= degenerateHalfWidth
			hi += degenerateHalfWidth
		}

		edges := make([]float64, nBins+1)
		width := (hi - lo) / float64(nBins)
		for b := 0; b < nBins; b++ {
			edges[b] = lo + float64(b)*width
		}
		// Assign the last edge exactly so the closed range covers max.
		edges[nBins] = hi

		counts := make([]float64, nBins)
		for _, v := range col {
			b := int((v - lo) / width)
			if b >= nBins {
				// The maximum value belongs to the last bin.
				b = nBins - 1
			}
			counts[b]++
		}

		densities := make([]float64, nBins)
		for b := range counts {
			densities[b] = counts[b] / (float64(nSamples) * width)
		}

		if err := checkDensityIntegral(edges, densities, i); err != nil {
			return nil, err
		}

		histograms[i] = detection.FeatureHistogram{
			BinEdges:  edges,
			Densities: densities,
		}
	}

	return histograms, nil
}

// checkDensityIntegral verifies that density*width summed over all bins is
// one within densityTolerance.
func checkDensityIntegral(edges, densities []float64, feature int) error {
	total := 0.0
	for b := range densities {
		total += densities[b] * (edges[b+1] - edges[b])
	}
	if math.Abs(total-1) > densityTolerance {
		return fmt.Errorf("%w: feature %d integrates to %.6f",
			core.ErrDensityInvariant, feature, total)
	}
	return nil
}
