package hbos

import (
	"math"
	"sort"

	"goutlier/domain/dataset"
	"goutlier/domain/detection"
)

// featureScorer holds the precomputed per-bin log scores for one feature so
// scoring a value is a binary search plus a lookup. It reads histogram state
// and never mutates it.
type featureScorer struct {
	edges     []float64
	logScores []float64 // log2(density + alpha) per bin
	minScore  float64   // minimum log score across bins, the saturation floor
}

// newFeatureScorer applies the alpha regularizer before the logarithm so an
// empty bin yields log2(alpha) rather than -Inf.
func newFeatureScorer(h detection.FeatureHistogram, alpha float64) featureScorer {
	logScores := make([]float64, len(h.Densities))
	minScore := math.Inf(1)
	for b, d := range h.Densities {
		logScores[b] = math.Log2(d + alpha)
		if logScores[b] < minScore {
			minScore = logScores[b]
		}
	}
	return featureScorer{
		edges:     h.BinEdges,
		logScores: logScores,
		minScore:  minScore,
	}
}

// score maps one value to its log-density contribution.
//
// In-range lookup uses right-closed intervals: a value equal to an edge
// belongs to the interval below it, except the first interval which is also
// left-closed at the global minimum. Out-of-range values within tol bin
// widths of the nearest edge borrow that edge bin's density; anything
// further out saturates at the feature's minimum bin score, so arbitrarily
// extreme values are not penalized without bound.
func (s featureScorer) score(v, tol float64) float64 {
	first := s.edges[0]
	last := s.edges[len(s.edges)-1]

	switch {
	case v < first:
		dist := first - v
		binWidth := s.edges[1] - s.edges[0]
		if dist <= tol*binWidth {
			return s.logScores[0]
		}
		return s.minScore

	case v > last:
		n := len(s.edges)
		dist := v - last
		binWidth := s.edges[n-1] - s.edges[n-2]
		if dist <= tol*binWidth {
			return s.logScores[len(s.logScores)-1]
		}
		return s.minScore

	default:
		// First index with edges[idx] >= v, so bin idx-1 has
		// edges[idx-1] < v <= edges[idx]. idx == 0 only when v equals
		// the global minimum, which belongs to the first bin.
		idx := sort.SearchFloat64s(s.edges, v)
		if idx == 0 {
			return s.logScores[0]
		}
		return s.logScores[idx-1]
	}
}

// outlierScores evaluates the query matrix against fitted histograms and
// returns the un-inverted per-sample sum of per-feature log scores. Callers
// flip the sign when reporting decision scores; the flip must be applied
// the same way to training and query scores so thresholds stay comparable.
func outlierScores(m *dataset.Matrix, histograms []detection.FeatureHistogram, alpha, tol float64) []float64 {
	scorers := make([]featureScorer, len(histograms))
	for i, h := range histograms {
		scorers[i] = newFeatureScorer(h, alpha)
	}

	sums := make([]float64, m.Rows())
	for j, row := range m.Data {
		total := 0.0
		for i := range scorers {
			total += scorers[i].score(row[i], tol)
		}
		sums[j] = total
	}
	return sums
}
