package ports

import (
	"goutlier/domain/dataset"
)

// DatasetReader loads tabular numeric data from an external source into a
// matrix. Implementations decide how non-numeric cells and header rows are
// treated and must return an error rather than a partially filled matrix.
type DatasetReader interface {
	ReadMatrix(path string) (*dataset.Matrix, error)
}
