// Package iqr implements a Tukey-fence detector: per feature, values beyond
// [Q1 - k*IQR, Q3 + k*IQR] accumulate a score proportional to how far they
// exceed the fence, in IQR units. The per-sample score is the sum over
// features, so multi-axis violations rank above single-axis ones.
package iqr

import (
	"context"
	"fmt"
	"sync"

	"github.com/montanaflynn/stats"

	"goutlier/domain/core"
	"goutlier/domain/dataset"
	"goutlier/internal/validation"
)

// DetectorName identifies the detector in results
const DetectorName = "iqr"

// DefaultFenceFactor is the conventional Tukey multiplier
const DefaultFenceFactor = 1.5

type fences struct {
	lower, upper, iqr float64
}

// IQR is fitted with per-feature Tukey fences. A feature with zero IQR is
// non-discriminative and skipped when scoring.
type IQR struct {
	factor float64

	mu     sync.RWMutex
	fitted bool
	fences []fences
}

// New returns an unfitted detector with fence multiplier k; k must be
// positive, and DefaultFenceFactor is the usual choice.
func New(k float64) (*IQR, error) {
	if k <= 0 {
		return nil, core.NewParameterError("fence_factor",
			fmt.Sprintf("must be positive, got %g", k))
	}
	return &IQR{factor: k}, nil
}

// Name returns the detector identifier
func (d *IQR) Name() string {
	return DetectorName
}

// Fit records quartile fences per feature
func (d *IQR) Fit(ctx context.Context, m *dataset.Matrix) error {
	if err := validation.CheckMatrix(m); err != nil {
		return err
	}

	cols := m.Cols()
	fitted := make([]fences, cols)
	for i := 0; i < cols; i++ {
		col := stats.Float64Data(m.Column(i))
		q, err := stats.Quartile(col)
		if err != nil {
			return err
		}
		iqr := q.Q3 - q.Q1
		fitted[i] = fences{
			lower: q.Q1 - d.factor*iqr,
			upper: q.Q3 + d.factor*iqr,
			iqr:   iqr,
		}
	}

	d.mu.Lock()
	d.fences = fitted
	d.fitted = true
	d.mu.Unlock()
	return nil
}

// DecisionFunction sums per-feature fence exceedances in IQR units
func (d *IQR) DecisionFunction(ctx context.Context, m *dataset.Matrix) ([]float64, error) {
	d.mu.RLock()
	fitted, perFeature := d.fitted, d.fences
	d.mu.RUnlock()

	if !fitted {
		return nil, fmt.Errorf("%w: %s", core.ErrNotFitted, DetectorName)
	}
	if err := validation.CheckMatrix(m); err != nil {
		return nil, err
	}
	if err := validation.CheckFeatureCount(m, len(perFeature)); err != nil {
		return nil, err
	}

	scores := make([]float64, m.Rows())
	for j, row := range m.Data {
		total := 0.0
		for i, v := range row {
			f := perFeature[i]
			if f.iqr == 0 {
				continue
			}
			switch {
			case v > f.upper:
				total += (v - f.upper) / f.iqr
			case v < f.lower:
				total += (f.lower - v) / f.iqr
			}
		}
		scores[j] = total
	}
	return scores, nil
}
