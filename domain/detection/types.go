package detection

import (
	"goutlier/domain/core"
)

// FeatureHistogram is the fitted state for one feature: nBins+1 strictly
// increasing edges delimiting nBins contiguous intervals, and one probability
// density per interval. Built once during fit and never mutated afterward.
type FeatureHistogram struct {
	BinEdges  []float64 `json:"bin_edges"`
	Densities []float64 `json:"densities"`
}

// NBins returns the number of intervals in the histogram
func (h FeatureHistogram) NBins() int {
	return len(h.Densities)
}

// Model is the serializable snapshot of a fitted detector: its configuration
// scalars, per-feature histograms (for histogram-based detectors), and the
// training-derived threshold. This is the persistence shape; the live
// detector owns its own copy of the state.
type Model struct {
	ID            core.ModelID       `json:"id"`
	Detector      string             `json:"detector"`
	NFeatures     int                `json:"n_features"`
	NBins         int                `json:"n_bins,omitempty"`
	Alpha         float64            `json:"alpha,omitempty"`
	Tol           float64            `json:"tol,omitempty"`
	Contamination float64            `json:"contamination"`
	Histograms    []FeatureHistogram `json:"histograms,omitempty"`
	Threshold     float64            `json:"threshold"`
	Fingerprint   core.Hash          `json:"fingerprint"`
	CreatedAt     core.Timestamp     `json:"created_at"`
}

// Result bundles the output of fitting and scoring one detector on one matrix.
type Result struct {
	Detector  string       `json:"detector"`
	ModelID   core.ModelID `json:"model_id,omitempty"`
	Scores    []float64    `json:"scores"`
	Labels    []int        `json:"labels"`
	Threshold float64      `json:"threshold"`
	NOutliers int          `json:"n_outliers"`
}
