package ports

import (
	"context"

	"goutlier/domain/dataset"
	"goutlier/domain/detection"
)

// Detector is the uniform capability every scoring strategy implements.
// Fit transitions the detector from unfitted to fitted; DecisionFunction
// returns one raw continuous anomaly score per sample, higher meaning more
// anomalous. Thresholding and labeling live outside the detectors, in the
// estimator layer.
//
// A fitted detector is safe for concurrent DecisionFunction calls; Fit
// requires exclusive access to the instance.
type Detector interface {
	Name() string
	Fit(ctx context.Context, m *dataset.Matrix) error
	DecisionFunction(ctx context.Context, m *dataset.Matrix) ([]float64, error)
}

// Snapshotter is implemented by detectors whose fitted state can be
// serialized for persistence.
type Snapshotter interface {
	Snapshot() (*detection.Model, error)
}
