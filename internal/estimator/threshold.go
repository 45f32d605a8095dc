// Package estimator carries the lifecycle logic shared by every detector:
// turning raw decision scores into a contamination-based cutoff and binary
// labels. Detectors produce scores only; callers compose a Thresholder with
// whichever detector they run, so no detector duplicates this step.
package estimator

import (
	"goutlier/domain/core"
	"goutlier/internal/validation"

	"github.com/montanaflynn/stats"
)

// Outlier label values. Inliers are 0, outliers are 1, matching the usual
// unsupervised detection convention.
const (
	LabelInlier  = 0
	LabelOutlier = 1
)

// Thresholder converts decision scores into a cutoff and labels given an
// expected contamination fraction.
type Thresholder struct {
	contamination float64
}

// NewThresholder validates contamination in (0, 0.5] and returns a Thresholder.
func NewThresholder(contamination float64) (*Thresholder, error) {
	if err := validation.CheckParameterClosed(contamination, 0, 0.5, "contamination"); err != nil {
		return nil, err
	}
	return &Thresholder{contamination: contamination}, nil
}

// Contamination returns the configured contamination fraction
func (t *Thresholder) Contamination() float64 {
	return t.contamination
}

// Cutoff returns the decision-score threshold: the 100*(1-contamination)
// percentile of the training scores. Scores strictly above the cutoff are
// labeled outliers.
func (t *Thresholder) Cutoff(scores []float64) (float64, error) {
	if len(scores) == 0 {
		return 0, core.ErrInsufficientData
	}
	threshold, err := stats.Percentile(stats.Float64Data(scores), 100*(1-t.contamination))
	if err != nil {
		return 0, err
	}
	return threshold, nil
}

// Labels applies a cutoff to decision scores, returning one label per sample.
func (t *Thresholder) Labels(scores []float64, cutoff float64) []int {
	labels := make([]int, len(scores))
	for i, s := range scores {
		if s > cutoff {
			labels[i] = LabelOutlier
		}
	}
	return labels
}

// Apply computes the cutoff from the given training scores and labels them
// in one step.
func (t *Thresholder) Apply(scores []float64) (float64, []int, error) {
	cutoff, err := t.Cutoff(scores)
	if err != nil {
		return 0, nil, err
	}
	return cutoff, t.Labels(scores, cutoff), nil
}
