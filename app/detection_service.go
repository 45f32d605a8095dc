// Package app wires the detection toolkit together: dataset loading,
// detector runs, thresholding, and optional model persistence.
package app

import (
	"context"
	"fmt"

	"goutlier/adapters/detectors"
	"goutlier/adapters/detectors/hbos"
	"goutlier/adapters/detectors/iqr"
	"goutlier/adapters/detectors/zscore"
	"goutlier/domain/core"
	"goutlier/domain/dataset"
	"goutlier/domain/detection"
	"goutlier/internal"
	"goutlier/internal/config"
	"goutlier/ports"
)

// DetectionService orchestrates fit/score runs. The model repository is
// optional; without one, runs are still executed but snapshots are not
// persisted.
type DetectionService struct {
	defaults config.DetectorConfig
	models   ports.ModelRepository
	logger   *internal.Logger
}

// NewDetectionService creates a detection service with the given defaults
func NewDetectionService(defaults config.DetectorConfig, models ports.ModelRepository, logger *internal.Logger) *DetectionService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &DetectionService{
		defaults: defaults,
		models:   models,
		logger:   logger,
	}
}

// RunHBOS fits an HBOS detector on the matrix, derives labels, persists the
// fitted model when a repository is configured, and returns the result.
func (s *DetectionService) RunHBOS(ctx context.Context, m *dataset.Matrix, cfg hbos.Config) (*detection.Result, error) {
	det, err := hbos.New(cfg)
	if err != nil {
		return nil, err
	}
	if err := det.Fit(ctx, m); err != nil {
		return nil, fmt.Errorf("hbos fit: %w", err)
	}

	scores, err := det.TrainingScores()
	if err != nil {
		return nil, err
	}
	threshold, err := det.Threshold()
	if err != nil {
		return nil, err
	}
	labels, err := det.Labels()
	if err != nil {
		return nil, err
	}

	result := &detection.Result{
		Detector:  det.Name(),
		Scores:    scores,
		Labels:    labels,
		Threshold: threshold,
	}
	for _, l := range labels {
		result.NOutliers += l
	}

	if s.models != nil {
		model, err := det.Snapshot()
		if err != nil {
			return nil, err
		}
		if err := s.models.Create(ctx, model); err != nil {
			return nil, fmt.Errorf("persist model: %w", err)
		}
		result.ModelID = model.ID
		s.logger.Info("persisted hbos model %s (%d features, threshold %.4f)",
			model.ID, model.NFeatures, model.Threshold)
	}

	s.logger.Debug("hbos run flagged %d of %d samples", result.NOutliers, m.Rows())
	return result, nil
}

// DefaultHBOSConfig returns the service-level default HBOS configuration
func (s *DetectionService) DefaultHBOSConfig() hbos.Config {
	return hbos.Config{
		NBins:         s.defaults.NBins,
		Alpha:         s.defaults.Alpha,
		Tol:           s.defaults.Tol,
		Contamination: s.defaults.Contamination,
	}
}

// ScoreWithModel loads a persisted HBOS model and scores a query matrix
// against it, labeling with the stored training threshold.
func (s *DetectionService) ScoreWithModel(ctx context.Context, id core.ModelID, m *dataset.Matrix) (*detection.Result, error) {
	if s.models == nil {
		return nil, core.ErrModelNotFound
	}
	model, err := s.models.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	det, err := hbos.Restore(model)
	if err != nil {
		return nil, err
	}
	scores, err := det.DecisionFunction(ctx, m)
	if err != nil {
		return nil, err
	}

	result := &detection.Result{
		Detector:  det.Name(),
		ModelID:   model.ID,
		Scores:    scores,
		Threshold: model.Threshold,
		Labels:    make([]int, len(scores)),
	}
	for i, score := range scores {
		if score > model.Threshold {
			result.Labels[i] = 1
			result.NOutliers++
		}
	}
	return result, nil
}

// GetModel fetches a persisted model by ID
func (s *DetectionService) GetModel(ctx context.Context, id core.ModelID) (*detection.Model, error) {
	if s.models == nil {
		return nil, core.ErrModelNotFound
	}
	return s.models.GetByID(ctx, id)
}

// Sweep runs every detector in the toolkit over the matrix concurrently and
// returns one result per detector.
func (s *DetectionService) Sweep(ctx context.Context, m *dataset.Matrix) ([]detection.Result, error) {
	h, err := hbos.New(s.DefaultHBOSConfig())
	if err != nil {
		return nil, err
	}
	q, err := iqr.New(iqr.DefaultFenceFactor)
	if err != nil {
		return nil, err
	}

	engine := detectors.NewEngine(s.defaults.Contamination, h, zscore.New(), q)
	results, err := engine.FitScoreAll(ctx, m)
	if err != nil {
		return nil, err
	}

	s.logger.Info("sweep scored %d samples with %d detectors", m.Rows(), len(results))
	return results, nil
}

// Detectors lists the names of the strategies the sweep runs
func (s *DetectionService) Detectors() []string {
	return []string{hbos.DetectorName, zscore.DetectorName, iqr.DetectorName}
}
