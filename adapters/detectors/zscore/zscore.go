// Package zscore implements a per-feature standard-score detector: a sample's
// anomaly score is the largest absolute z-score across its features. It is
// the cheapest strategy in the toolkit and a useful baseline next to hbos.
package zscore

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/montanaflynn/stats"

	"goutlier/domain/core"
	"goutlier/domain/dataset"
	"goutlier/internal/validation"
)

// DetectorName identifies the detector in results
const DetectorName = "zscore"

// ZScore is fitted with per-feature mean and standard deviation. A constant
// feature (zero deviation) is non-discriminative and contributes zero to
// every sample's score.
type ZScore struct {
	mu      sync.RWMutex
	fitted  bool
	means   []float64
	stddevs []float64
}

// New returns an unfitted detector
func New() *ZScore {
	return &ZScore{}
}

// Name returns the detector identifier
func (z *ZScore) Name() string {
	return DetectorName
}

// Fit records mean and population standard deviation per feature
func (z *ZScore) Fit(ctx context.Context, m *dataset.Matrix) error {
	if err := validation.CheckMatrix(m); err != nil {
		return err
	}

	cols := m.Cols()
	means := make([]float64, cols)
	stddevs := make([]float64, cols)
	for i := 0; i < cols; i++ {
		col := stats.Float64Data(m.Column(i))
		mean, err := stats.Mean(col)
		if err != nil {
			return err
		}
		sd, err := stats.StandardDeviation(col)
		if err != nil {
			return err
		}
		means[i] = mean
		stddevs[i] = sd
	}

	z.mu.Lock()
	z.means = means
	z.stddevs = stddevs
	z.fitted = true
	z.mu.Unlock()
	return nil
}

// DecisionFunction returns max |(v - mean) / stddev| across features per sample
func (z *ZScore) DecisionFunction(ctx context.Context, m *dataset.Matrix) ([]float64, error) {
	z.mu.RLock()
	fitted, means, stddevs := z.fitted, z.means, z.stddevs
	z.mu.RUnlock()

	if !fitted {
		return nil, fmt.Errorf("%w: %s", core.ErrNotFitted, DetectorName)
	}
	if err := validation.CheckMatrix(m); err != nil {
		return nil, err
	}
	if err := validation.CheckFeatureCount(m, len(means)); err != nil {
		return nil, err
	}

	scores := make([]float64, m.Rows())
	for j, row := range m.Data {
		maxAbs := 0.0
		for i, v := range row {
			if stddevs[i] == 0 {
				continue
			}
			if abs := math.Abs((v - means[i]) / stddevs[i]); abs > maxAbs {
				maxAbs = abs
			}
		}
		scores[j] = maxAbs
	}
	return scores, nil
}
