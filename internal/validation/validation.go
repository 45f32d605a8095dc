package validation

import (
	"fmt"
	"math"

	"goutlier/domain/core"
	"goutlier/domain/dataset"
)

// CheckMatrix verifies that a matrix is usable for fitting or scoring:
// at least one sample and one feature, rectangular rows, and only finite
// values. The first violation found is returned; no partial computation
// should happen after a failed check.
func CheckMatrix(m *dataset.Matrix) error {
	if m == nil || m.Rows() == 0 || m.Cols() == 0 {
		return core.ErrEmptyMatrix
	}

	cols := m.Cols()
	for i, row := range m.Data {
		if len(row) != cols {
			return fmt.Errorf("%w: row %d has %d values, expected %d",
				core.ErrRaggedMatrix, i, len(row), cols)
		}
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%w: at row %d, column %d",
					core.ErrNonFiniteValue, i, j)
			}
		}
	}
	return nil
}

// CheckFeatureCount verifies a query matrix against the feature count seen
// during fit. Histograms are indexed positionally, so this is the only
// compatibility check needed.
func CheckFeatureCount(m *dataset.Matrix, fitted int) error {
	if m.Cols() != fitted {
		return core.NewDimensionError(m.Cols(), fitted)
	}
	return nil
}

// CheckParameter verifies that value lies strictly inside (low, high).
// Used for constructor-time checks so bad configuration never reaches
// fit or score time.
func CheckParameter(value, low, high float64, name string) error {
	if value <= low || value >= high {
		return core.NewParameterError(name,
			fmt.Sprintf("must be in (%g, %g), got %g", low, high, value))
	}
	return nil
}

// CheckParameterClosed verifies that value lies in (low, high].
func CheckParameterClosed(value, low, high float64, name string) error {
	if value <= low || value > high {
		return core.NewParameterError(name,
			fmt.Sprintf("must be in (%g, %g], got %g", low, high, value))
	}
	return nil
}

// CheckPositiveInt verifies that value is a positive integer parameter
func CheckPositiveInt(value int, name string) error {
	if value < 1 {
		return core.NewParameterError(name,
			fmt.Sprintf("must be a positive integer, got %d", value))
	}
	return nil
}
