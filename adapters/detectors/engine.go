// Package detectors orchestrates the scoring strategies of the toolkit
// behind one engine, the way a caller would sweep every algorithm over the
// same dataset and compare what each one flags.
package detectors

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"goutlier/domain/dataset"
	"goutlier/domain/detection"
	"goutlier/internal/estimator"
	"goutlier/ports"
)

// Engine runs a set of detectors over the same matrix concurrently. Each
// detector is a separate instance with its own fitted state, so concurrent
// fits do not share anything.
type Engine struct {
	detectors     []ports.Detector
	contamination float64
}

// NewEngine creates an engine over the given detectors. Contamination is
// shared by all of them when deriving thresholds; it is validated on first
// use by the estimator layer.
func NewEngine(contamination float64, dets ...ports.Detector) *Engine {
	return &Engine{
		detectors:     dets,
		contamination: contamination,
	}
}

// ListDetectors returns the names of all registered detectors
func (e *Engine) ListDetectors() []string {
	names := make([]string, len(e.detectors))
	for i, d := range e.detectors {
		names[i] = d.Name()
	}
	return names
}

// FitScoreAll fits every detector on the training matrix, scores it, and
// derives contamination-based labels, all detectors running concurrently.
// Results keep the registration order. The first failing detector aborts
// the sweep.
func (e *Engine) FitScoreAll(ctx context.Context, train *dataset.Matrix) ([]detection.Result, error) {
	thresholder, err := estimator.NewThresholder(e.contamination)
	if err != nil {
		return nil, err
	}

	results := make([]detection.Result, len(e.detectors))
	g, gctx := errgroup.WithContext(ctx)

	for i, det := range e.detectors {
		g.Go(func() error {
			if err := det.Fit(gctx, train); err != nil {
				return fmt.Errorf("fit %s: %w", det.Name(), err)
			}
			scores, err := det.DecisionFunction(gctx, train)
			if err != nil {
				return fmt.Errorf("score %s: %w", det.Name(), err)
			}
			cutoff, labels, err := thresholder.Apply(scores)
			if err != nil {
				return fmt.Errorf("threshold %s: %w", det.Name(), err)
			}

			outliers := 0
			for _, l := range labels {
				outliers += l
			}
			results[i] = detection.Result{
				Detector:  det.Name(),
				Scores:    scores,
				Labels:    labels,
				Threshold: cutoff,
				NOutliers: outliers,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// ScoreAll scores a query matrix against every already-fitted detector,
// labeling with the supplied per-detector cutoffs (typically the thresholds
// from a previous FitScoreAll).
func (e *Engine) ScoreAll(ctx context.Context, query *dataset.Matrix, cutoffs map[string]float64) ([]detection.Result, error) {
	thresholder, err := estimator.NewThresholder(e.contamination)
	if err != nil {
		return nil, err
	}

	results := make([]detection.Result, len(e.detectors))
	g, gctx := errgroup.WithContext(ctx)

	for i, det := range e.detectors {
		g.Go(func() error {
			scores, err := det.DecisionFunction(gctx, query)
			if err != nil {
				return fmt.Errorf("score %s: %w", det.Name(), err)
			}
			cutoff, ok := cutoffs[det.Name()]
			if !ok {
				return fmt.Errorf("no cutoff for detector %s", det.Name())
			}
			labels := thresholder.Labels(scores, cutoff)

			outliers := 0
			for _, l := range labels {
				outliers += l
			}
			results[i] = detection.Result{
				Detector:  det.Name(),
				Scores:    scores,
				Labels:    labels,
				Threshold: cutoff,
				NOutliers: outliers,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
