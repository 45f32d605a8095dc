package validation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"goutlier/domain/core"
	"goutlier/domain/dataset"
)

func TestCheckMatrix_Valid(t *testing.T) {
	m := dataset.NewMatrix([][]float64{{1, 2}, {3, 4}, {5, 6}})
	assert.NoError(t, CheckMatrix(m))
}

func TestCheckMatrix_Empty(t *testing.T) {
	assert.ErrorIs(t, CheckMatrix(nil), core.ErrEmptyMatrix)
	assert.ErrorIs(t, CheckMatrix(dataset.NewMatrix(nil)), core.ErrEmptyMatrix)
	assert.ErrorIs(t, CheckMatrix(dataset.NewMatrix([][]float64{{}})), core.ErrEmptyMatrix)
}

func TestCheckMatrix_Ragged(t *testing.T) {
	m := dataset.NewMatrix([][]float64{{1, 2}, {3}})
	assert.ErrorIs(t, CheckMatrix(m), core.ErrRaggedMatrix)
}

func TestCheckMatrix_NonFinite(t *testing.T) {
	tests := []struct {
		name string
		bad  float64
	}{
		{"nan", math.NaN()},
		{"pos_inf", math.Inf(1)},
		{"neg_inf", math.Inf(-1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := dataset.NewMatrix([][]float64{{1, 2}, {tt.bad, 4}})
			assert.ErrorIs(t, CheckMatrix(m), core.ErrNonFiniteValue)
		})
	}
}

func TestCheckFeatureCount(t *testing.T) {
	m := dataset.NewMatrix([][]float64{{1, 2, 3}})
	assert.NoError(t, CheckFeatureCount(m, 3))
	assert.ErrorIs(t, CheckFeatureCount(m, 2), core.ErrDimensionMismatch)
}

func TestCheckParameter(t *testing.T) {
	assert.NoError(t, CheckParameter(0.1, 0, 1, "alpha"))
	assert.ErrorIs(t, CheckParameter(0, 0, 1, "alpha"), core.ErrInvalidParameter)
	assert.ErrorIs(t, CheckParameter(1, 0, 1, "alpha"), core.ErrInvalidParameter)
	assert.ErrorIs(t, CheckParameter(-3, 0, 1, "tol"), core.ErrInvalidParameter)
}

func TestCheckParameterClosed(t *testing.T) {
	assert.NoError(t, CheckParameterClosed(0.5, 0, 0.5, "contamination"))
	assert.ErrorIs(t, CheckParameterClosed(0, 0, 0.5, "contamination"), core.ErrInvalidParameter)
	assert.ErrorIs(t, CheckParameterClosed(0.6, 0, 0.5, "contamination"), core.ErrInvalidParameter)
}

func TestCheckPositiveInt(t *testing.T) {
	assert.NoError(t, CheckPositiveInt(1, "n_bins"))
	assert.NoError(t, CheckPositiveInt(10, "n_bins"))
	assert.ErrorIs(t, CheckPositiveInt(0, "n_bins"), core.ErrInvalidParameter)
	assert.ErrorIs(t, CheckPositiveInt(-4, "n_bins"), core.ErrInvalidParameter)
}
