// Package hbos implements histogram-based outlier detection: each feature of
// the training matrix is summarized by an equal-width histogram, and a
// sample's anomaly score is the sign-inverted sum of the log densities of the
// bins its values fall into. Features are assumed independent. See Goldstein
// & Dengel, "Histogram-based Outlier Score (HBOS)".
package hbos

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"goutlier/domain/core"
	"goutlier/domain/dataset"
	"goutlier/domain/detection"
	"goutlier/internal/estimator"
	"goutlier/internal/validation"
)

// DetectorName identifies HBOS in results and persisted models
const DetectorName = "hbos"

// Config is the constructor-time configuration, immutable for the detector's
// lifetime.
type Config struct {
	// NBins is the number of equal-width bins per feature.
	NBins int
	// Alpha is the regularizer added to a bin's density before the
	// logarithm so empty bins stay finite. Must be in (0, 1).
	Alpha float64
	// Tol is the fraction of a bin width within which an out-of-range
	// value is still assigned to the nearest edge bin. Must be in (0, 1).
	Tol float64
	// Contamination is the expected outlier fraction, used only to derive
	// the training threshold. Must be in (0, 0.5].
	Contamination float64
}

// DefaultConfig mirrors the conventional HBOS defaults
func DefaultConfig() Config {
	return Config{
		NBins:         10,
		Alpha:         0.1,
		Tol:           0.5,
		Contamination: 0.1,
	}
}

type state int

const (
	stateUnfitted state = iota
	stateFitted
)

// HBOS is the histogram-based detector. The zero value is unusable; construct
// with New. A fitted instance is safe for concurrent DecisionFunction calls;
// Fit replaces the fitted state wholesale and requires exclusive access.
type HBOS struct {
	cfg         Config
	thresholder *estimator.Thresholder

	mu     sync.RWMutex
	state  state
	fitted *fittedState
}

// fittedState is built once per Fit and read-only afterward, so a refit swaps
// the whole value and can never leak bins from a previous fit.
type fittedState struct {
	histograms  []detection.FeatureHistogram
	nFeatures   int
	trainScores []float64 // sign-inverted decision scores on the training set
	threshold   float64
	labels      []int
	fingerprint core.Hash
	fittedAt    core.Timestamp
}

// New validates the configuration eagerly and returns an unfitted detector.
// Invalid parameters surface here, never at fit or score time.
func New(cfg Config) (*HBOS, error) {
	if err := validation.CheckPositiveInt(cfg.NBins, "n_bins"); err != nil {
		return nil, err
	}
	if err := validation.CheckParameter(cfg.Alpha, 0, 1, "alpha"); err != nil {
		return nil, err
	}
	if err := validation.CheckParameter(cfg.Tol, 0, 1, "tol"); err != nil {
		return nil, err
	}
	thresholder, err := estimator.NewThresholder(cfg.Contamination)
	if err != nil {
		return nil, err
	}
	return &HBOS{
		cfg:         cfg,
		thresholder: thresholder,
		state:       stateUnfitted,
	}, nil
}

// Name returns the detector identifier
func (h *HBOS) Name() string {
	return DetectorName
}

// Config returns the constructor-time configuration
func (h *HBOS) Config() Config {
	return h.cfg
}

// Fit builds per-feature histograms from the training matrix, scores the
// training set to establish the decision-score distribution, and derives the
// contamination threshold and training labels. A failed Fit leaves any prior
// fitted state unchanged.
func (h *HBOS) Fit(ctx context.Context, m *dataset.Matrix) error {
	if err := validation.CheckMatrix(m); err != nil {
		return err
	}

	histograms, err := buildHistograms(m, h.cfg.NBins)
	if err != nil {
		return err
	}

	raw := outlierScores(m, histograms, h.cfg.Alpha, h.cfg.Tol)
	scores := invert(raw)

	threshold, labels, err := h.thresholder.Apply(scores)
	if err != nil {
		return err
	}

	fingerprint, err := histogramFingerprint(histograms)
	if err != nil {
		return err
	}

	h.mu.Lock()
	h.fitted = &fittedState{
		histograms:  histograms,
		nFeatures:   m.Cols(),
		trainScores: scores,
		threshold:   threshold,
		labels:      labels,
		fingerprint: fingerprint,
		fittedAt:    core.Now(),
	}
	h.state = stateFitted
	h.mu.Unlock()

	return nil
}

// DecisionFunction returns the raw continuous anomaly score per sample of
// the query matrix, sign-inverted so higher means more anomalous. It fails
// fast when the detector is unfitted or the query feature count mismatches
// the fitted histograms, and is a pure function of its inputs otherwise.
func (h *HBOS) DecisionFunction(ctx context.Context, m *dataset.Matrix) ([]float64, error) {
	h.mu.RLock()
	fitted := h.fitted
	ok := h.state == stateFitted
	h.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrNotFitted, DetectorName)
	}
	if err := validation.CheckMatrix(m); err != nil {
		return nil, err
	}
	if err := validation.CheckFeatureCount(m, fitted.nFeatures); err != nil {
		return nil, err
	}

	raw := outlierScores(m, fitted.histograms, h.cfg.Alpha, h.cfg.Tol)
	return invert(raw), nil
}

// TrainingScores returns the decision scores computed on the training set
// during Fit, or an error when unfitted.
func (h *HBOS) TrainingScores() ([]float64, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.state != stateFitted {
		return nil, fmt.Errorf("%w: %s", core.ErrNotFitted, DetectorName)
	}
	return h.fitted.trainScores, nil
}

// Threshold returns the contamination-based cutoff derived during Fit.
func (h *HBOS) Threshold() (float64, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.state != stateFitted {
		return 0, fmt.Errorf("%w: %s", core.ErrNotFitted, DetectorName)
	}
	return h.fitted.threshold, nil
}

// Labels returns the binary training labels (1 = outlier) derived during Fit.
func (h *HBOS) Labels() ([]int, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.state != stateFitted {
		return nil, fmt.Errorf("%w: %s", core.ErrNotFitted, DetectorName)
	}
	return h.fitted.labels, nil
}

// Histograms returns the fitted per-feature histograms, or an error when
// unfitted. Callers must treat the returned slices as read-only.
func (h *HBOS) Histograms() ([]detection.FeatureHistogram, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.state != stateFitted {
		return nil, fmt.Errorf("%w: %s", core.ErrNotFitted, DetectorName)
	}
	return h.fitted.histograms, nil
}

// Snapshot serializes the fitted state for persistence: per-feature bin
// edges and densities plus the configuration scalars and threshold.
func (h *HBOS) Snapshot() (*detection.Model, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.state != stateFitted {
		return nil, fmt.Errorf("%w: %s", core.ErrNotFitted, DetectorName)
	}
	return &detection.Model{
		ID:            core.ModelID(core.NewID()),
		Detector:      DetectorName,
		NFeatures:     h.fitted.nFeatures,
		NBins:         h.cfg.NBins,
		Alpha:         h.cfg.Alpha,
		Tol:           h.cfg.Tol,
		Contamination: h.cfg.Contamination,
		Histograms:    h.fitted.histograms,
		Threshold:     h.fitted.threshold,
		Fingerprint:   h.fitted.fingerprint,
		CreatedAt:     h.fitted.fittedAt,
	}, nil
}

// Restore rebuilds a fitted detector from a persisted model snapshot.
func Restore(model *detection.Model) (*HBOS, error) {
	if model.Detector != DetectorName {
		return nil, core.NewParameterError("detector",
			fmt.Sprintf("expected %q, got %q", DetectorName, model.Detector))
	}
	h, err := New(Config{
		NBins:         model.NBins,
		Alpha:         model.Alpha,
		Tol:           model.Tol,
		Contamination: model.Contamination,
	})
	if err != nil {
		return nil, err
	}
	h.fitted = &fittedState{
		histograms:  model.Histograms,
		nFeatures:   model.NFeatures,
		threshold:   model.Threshold,
		fingerprint: model.Fingerprint,
		fittedAt:    model.CreatedAt,
	}
	h.state = stateFitted
	return h, nil
}

// invert flips the sign of the evaluator sums: outliers fall in low-density
// bins, so lower summed log densities mean more anomalous, and the flip makes
// higher decision scores mean more outlying.
func invert(raw []float64) []float64 {
	scores := make([]float64, len(raw))
	for i, v := range raw {
		scores[i] = -v
	}
	return scores
}

func histogramFingerprint(histograms []detection.FeatureHistogram) (core.Hash, error) {
	payload, err := json.Marshal(histograms)
	if err != nil {
		return "", err
	}
	return core.NewHash(payload), nil
}
