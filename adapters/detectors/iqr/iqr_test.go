package iqr

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goutlier/domain/core"
	"goutlier/domain/dataset"
)

func TestNew_ValidatesFactor(t *testing.T) {
	_, err := New(0)
	assert.ErrorIs(t, err, core.ErrInvalidParameter)
	_, err = New(-1.5)
	assert.ErrorIs(t, err, core.ErrInvalidParameter)

	det, err := New(DefaultFenceFactor)
	require.NoError(t, err)
	assert.Equal(t, "iqr", det.Name())
}

func TestIQR_NotFitted(t *testing.T) {
	det, err := New(DefaultFenceFactor)
	require.NoError(t, err)

	_, err = det.DecisionFunction(context.Background(), dataset.NewMatrix([][]float64{{1}}))
	assert.ErrorIs(t, err, core.ErrNotFitted)
}

func TestIQR_FenceExceedance(t *testing.T) {
	det, err := New(DefaultFenceFactor)
	require.NoError(t, err)
	ctx := context.Background()

	train := dataset.NewMatrix([][]float64{
		{1}, {2}, {3}, {4}, {5}, {6}, {7}, {8}, {9}, {10},
	})
	require.NoError(t, det.Fit(ctx, train))

	scores, err := det.DecisionFunction(ctx, dataset.NewMatrix([][]float64{{5}, {50}, {-50}}))
	require.NoError(t, err)

	assert.Equal(t, 0.0, scores[0], "inside the fences scores zero")
	assert.Greater(t, scores[1], 0.0)
	assert.Greater(t, scores[2], 0.0)
	// Exceedance grows with distance.
	far, err := det.DecisionFunction(ctx, dataset.NewMatrix([][]float64{{100}}))
	require.NoError(t, err)
	assert.Greater(t, far[0], scores[1])
}

func TestIQR_ConstantFeatureSkipped(t *testing.T) {
	det, err := New(DefaultFenceFactor)
	require.NoError(t, err)
	ctx := context.Background()

	train := dataset.NewMatrix([][]float64{{5}, {5}, {5}, {5}})
	require.NoError(t, det.Fit(ctx, train))

	scores, err := det.DecisionFunction(ctx, dataset.NewMatrix([][]float64{{999}}))
	require.NoError(t, err)
	assert.Equal(t, 0.0, scores[0])
}
