package zscore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goutlier/domain/core"
	"goutlier/domain/dataset"
)

func TestZScore_NotFitted(t *testing.T) {
	det := New()
	_, err := det.DecisionFunction(context.Background(), dataset.NewMatrix([][]float64{{1}}))
	assert.ErrorIs(t, err, core.ErrNotFitted)
}

func TestZScore_ScoresDeviations(t *testing.T) {
	det := New()
	ctx := context.Background()

	train := dataset.NewMatrix([][]float64{
		{10}, {11}, {9}, {10}, {12}, {8}, {10}, {11}, {9}, {10},
	})
	require.NoError(t, det.Fit(ctx, train))

	scores, err := det.DecisionFunction(ctx, dataset.NewMatrix([][]float64{{10}, {30}}))
	require.NoError(t, err)

	assert.Less(t, scores[0], 1.0, "center value should score low")
	assert.Greater(t, scores[1], 5.0, "far value should score many sigmas out")
}

func TestZScore_ConstantFeatureContributesNothing(t *testing.T) {
	det := New()
	ctx := context.Background()

	// Second feature is constant; only the first should drive scores.
	train := dataset.NewMatrix([][]float64{
		{10, 5}, {11, 5}, {9, 5}, {12, 5}, {8, 5},
	})
	require.NoError(t, det.Fit(ctx, train))

	scores, err := det.DecisionFunction(ctx, dataset.NewMatrix([][]float64{{10, 999}}))
	require.NoError(t, err)
	assert.InDelta(t, 0, scores[0], 0.1)
}

func TestZScore_DimensionMismatch(t *testing.T) {
	det := New()
	ctx := context.Background()
	require.NoError(t, det.Fit(ctx, dataset.NewMatrix([][]float64{{1, 2}, {3, 4}})))

	_, err := det.DecisionFunction(ctx, dataset.NewMatrix([][]float64{{1}}))
	assert.ErrorIs(t, err, core.ErrDimensionMismatch)
}
