package hbos

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goutlier/domain/dataset"
)

func TestBuildHistograms_WorkedExample(t *testing.T) {
	// Single feature [1,2,2,3,3,3,4,4,5] with 4 bins: edges [1,2,3,4,5],
	// half-open bins except the last, so counts are [1,2,3,3] and
	// densities counts/9.
	m := singleFeature(1, 2, 2, 3, 3, 3, 4, 4, 5)

	histograms, err := buildHistograms(m, 4)
	require.NoError(t, err)
	require.Len(t, histograms, 1)

	h := histograms[0]
	require.Len(t, h.BinEdges, 5)
	require.Len(t, h.Densities, 4)

	for b, want := range []float64{1, 2, 3, 4, 5} {
		assert.InDelta(t, want, h.BinEdges[b], 1e-12)
	}
	for b, count := range []float64{1, 2, 3, 3} {
		assert.InDelta(t, count/9.0, h.Densities[b], 1e-12, "bin %d", b)
	}
}

func TestBuildHistograms_DensityIntegratesToOne(t *testing.T) {
	matrices := map[string]*dataset.Matrix{
		"uniform":    singleFeature(0, 1, 2, 3, 4, 5, 6, 7, 8, 9),
		"skewed":     singleFeature(1, 1, 1, 1, 1, 2, 3, 50),
		"negative":   singleFeature(-10, -5, -1, 0, 3, 7),
		"two_values": singleFeature(0, 0, 0, 1, 1, 1),
	}

	for name, m := range matrices {
		t.Run(name, func(t *testing.T) {
			for _, nBins := range []int{1, 3, 10} {
				histograms, err := buildHistograms(m, nBins)
				require.NoError(t, err, "nBins=%d", nBins)

				h := histograms[0]
				total := 0.0
				for b := range h.Densities {
					total += h.Densities[b] * (h.BinEdges[b+1] - h.BinEdges[b])
				}
				assert.InDelta(t, 1.0, total, densityTolerance, "nBins=%d", nBins)
			}
		})
	}
}

func TestBuildHistograms_ConstantFeature(t *testing.T) {
	// A constant feature gets its range widened to [v-0.5, v+0.5] so bin
	// widths stay positive; all mass falls in the bin containing v.
	m := singleFeature(7, 7, 7, 7)

	histograms, err := buildHistograms(m, 5)
	require.NoError(t, err)

	h := histograms[0]
	assert.InDelta(t, 6.5, h.BinEdges[0], 1e-12)
	assert.InDelta(t, 7.5, h.BinEdges[5], 1e-12)

	total := 0.0
	nonZero := 0
	for b := range h.Densities {
		total += h.Densities[b] * (h.BinEdges[b+1] - h.BinEdges[b])
		if h.Densities[b] > 0 {
			nonZero++
		}
	}
	assert.InDelta(t, 1.0, total, densityTolerance)
	assert.Equal(t, 1, nonZero)
}

func TestBuildHistograms_SingleSampleSingleBin(t *testing.T) {
	// One sample and one bin is the most degenerate shape: the widened
	// range gives a unit-width bin holding the full mass.
	m := singleFeature(3)

	histograms, err := buildHistograms(m, 1)
	require.NoError(t, err)

	h := histograms[0]
	require.Len(t, h.Densities, 1)
	assert.InDelta(t, 2.5, h.BinEdges[0], 1e-12)
	assert.InDelta(t, 3.5, h.BinEdges[1], 1e-12)
	assert.InDelta(t, 1.0, h.Densities[0], 1e-12)
}

func TestBuildHistograms_MultiFeatureIndependence(t *testing.T) {
	// Each feature is binned over its own range, independent of the others.
	m := dataset.NewMatrix([][]float64{
		{0, 100},
		{1, 200},
		{2, 300},
		{3, 400},
	})

	histograms, err := buildHistograms(m, 2)
	require.NoError(t, err)
	require.Len(t, histograms, 2)

	assert.InDelta(t, 0, histograms[0].BinEdges[0], 1e-12)
	assert.InDelta(t, 3, histograms[0].BinEdges[2], 1e-12)
	assert.InDelta(t, 100, histograms[1].BinEdges[0], 1e-12)
	assert.InDelta(t, 400, histograms[1].BinEdges[2], 1e-12)
}

func singleFeature(values ...float64) *dataset.Matrix {
	data := make([][]float64, len(values))
	for i, v := range values {
		data[i] = []float64{v}
	}
	return dataset.NewMatrix(data)
}
