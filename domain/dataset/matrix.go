package dataset

import (
	"strconv"

	"goutlier/domain/core"
)

// Matrix holds a rectangular block of numeric observations: one row per
// sample, one column per feature. Columns are addressed positionally;
// VariableKeys and EntityIDs are optional annotations carried along for
// reporting and are not consulted by the detectors.
type Matrix struct {
	Data         [][]float64        `json:"data"`
	EntityIDs    []core.ID          `json:"entity_ids,omitempty"`
	VariableKeys []core.VariableKey `json:"variable_keys,omitempty"`
}

// NewMatrix wraps raw row-major data in a Matrix
func NewMatrix(data [][]float64) *Matrix {
	return &Matrix{Data: data}
}

// Rows returns the number of samples
func (m *Matrix) Rows() int {
	return len(m.Data)
}

// Cols returns the number of features, zero for an empty matrix
func (m *Matrix) Cols() int {
	if len(m.Data) == 0 {
		return 0
	}
	return len(m.Data[0])
}

// Column copies feature j into a fresh slice
func (m *Matrix) Column(j int) []float64 {
	col := make([]float64, len(m.Data))
	for i, row := range m.Data {
		col[i] = row[j]
	}
	return col
}

// KeyFor returns the variable key for column j, or a positional fallback
// like "col_3" when the matrix carries no headers.
func (m *Matrix) KeyFor(j int) core.VariableKey {
	if j < len(m.VariableKeys) && !core.ID(m.VariableKeys[j]).IsEmpty() {
		return m.VariableKeys[j]
	}
	return core.VariableKey("col_" + strconv.Itoa(j))
}
