package detectors

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goutlier/adapters/detectors/hbos"
	"goutlier/adapters/detectors/iqr"
	"goutlier/adapters/detectors/zscore"
	"goutlier/domain/core"
	"goutlier/internal/testkit"
	"goutlier/ports"
)

func newTestEngine(t *testing.T, contamination float64) *Engine {
	t.Helper()
	h, err := hbos.New(hbos.Config{NBins: 10, Alpha: 0.1, Tol: 0.5, Contamination: contamination})
	require.NoError(t, err)
	q, err := iqr.New(iqr.DefaultFenceFactor)
	require.NoError(t, err)
	return NewEngine(contamination, h, zscore.New(), q)
}

func TestEngine_ListDetectors(t *testing.T) {
	e := newTestEngine(t, 0.1)
	assert.Equal(t, []string{"hbos", "zscore", "iqr"}, e.ListDetectors())
}

func TestEngine_FitScoreAll(t *testing.T) {
	cfg := testkit.DefaultGeneratorConfig()
	matrix, truth := testkit.Generate(cfg)

	e := newTestEngine(t, cfg.OutlierFraction)
	results, err := e.FitScoreAll(context.Background(), matrix)
	require.NoError(t, err)
	require.Len(t, results, 3)

	for _, r := range results {
		require.Len(t, r.Scores, matrix.Rows(), "%s", r.Detector)
		require.Len(t, r.Labels, matrix.Rows(), "%s", r.Detector)
		assert.Greater(t, r.NOutliers, 0, "%s", r.Detector)

		// Every detector should flag most of the injected outliers,
		// which occupy the trailing rows.
		caught := 0
		injected := 0
		for i, l := range truth {
			if l == 1 {
				injected++
				caught += r.Labels[i]
			}
		}
		assert.GreaterOrEqual(t, caught, injected/2,
			"%s caught %d of %d injected outliers", r.Detector, caught, injected)
	}
}

func TestEngine_ScoreAllUsesTrainingCutoffs(t *testing.T) {
	cfg := testkit.DefaultGeneratorConfig()
	matrix, _ := testkit.Generate(cfg)

	e := newTestEngine(t, cfg.OutlierFraction)
	ctx := context.Background()

	trainResults, err := e.FitScoreAll(ctx, matrix)
	require.NoError(t, err)

	cutoffs := make(map[string]float64)
	for _, r := range trainResults {
		cutoffs[r.Detector] = r.Threshold
	}

	queryResults, err := e.ScoreAll(ctx, matrix, cutoffs)
	require.NoError(t, err)

	// Same matrix, same cutoffs: labels must agree with the training pass.
	for i, r := range queryResults {
		assert.Equal(t, trainResults[i].Labels, r.Labels, "%s", r.Detector)
	}
}

func TestEngine_ScoreAllBeforeFitFails(t *testing.T) {
	e := newTestEngine(t, 0.1)
	matrix, _ := testkit.Generate(testkit.DefaultGeneratorConfig())

	_, err := e.ScoreAll(context.Background(), matrix, map[string]float64{
		"hbos": 0, "zscore": 0, "iqr": 0,
	})
	assert.ErrorIs(t, err, core.ErrNotFitted)
}

var _ ports.Detector = (*zscore.ZScore)(nil)
var _ ports.Detector = (*iqr.IQR)(nil)
var _ ports.Detector = (*hbos.HBOS)(nil)
var _ ports.Snapshotter = (*hbos.HBOS)(nil)
