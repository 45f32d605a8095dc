// Package excel loads tabular numeric data from XLSX and CSV files into
// matrices for the detectors. The first row is treated as a header when any
// of its cells fails to parse as a number; a leading non-numeric column is
// treated as entity identifiers.
package excel

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"goutlier/domain/core"
	"goutlier/domain/dataset"
)

// DataReader handles reading Excel and CSV files into matrices
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
}

// NewDataReader creates a reader that handles both Excel and CSV files
func NewDataReader(filePath string) *DataReader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "xlsx"
	if ext == ".csv" {
		fileType = "csv"
	}
	return &DataReader{filePath: filePath, fileType: fileType}
}

// ReadMatrix reads the file into a numeric matrix. Every data cell must
// parse as a float; a malformed cell aborts the read rather than producing
// a partially filled matrix.
func (r *DataReader) ReadMatrix(path string) (*dataset.Matrix, error) {
	if path == "" {
		path = r.filePath
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s file not found: %s", strings.ToUpper(r.fileType), path)
	}

	var rows [][]string
	var err error
	switch r.fileType {
	case "csv":
		rows, err = readCSVRows(path)
	case "xlsx":
		rows, err = readExcelRows(path)
	default:
		return nil, fmt.Errorf("unsupported file type: %s", r.fileType)
	}
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s file has no rows: %s", strings.ToUpper(r.fileType), path)
	}

	return buildMatrix(rows)
}

func readCSVRows(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	return rows, nil
}

func readExcelRows(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	// Always use the first sheet.
	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	return rows, nil
}

// buildMatrix converts raw string rows into a matrix, detecting an optional
// header row and an optional leading entity-ID column.
func buildMatrix(rows [][]string) (*dataset.Matrix, error) {
	hasHeader := !isNumericRow(rows[0])
	dataStart := 0
	var headers []string
	if hasHeader {
		headers = trimRow(rows[0])
		dataStart = 1
	}
	if dataStart >= len(rows) {
		return nil, fmt.Errorf("file has a header row but no data rows")
	}

	// A first column that doesn't parse as numbers holds entity IDs.
	hasEntityCol := !isNumericColumn(rows[dataStart:], 0)

	firstData := 0
	if hasEntityCol {
		firstData = 1
	}

	width := len(rows[dataStart]) - firstData
	if width < 1 {
		return nil, core.ErrEmptyMatrix
	}

	matrix := &dataset.Matrix{}
	for i := dataStart; i < len(rows); i++ {
		row := trimRow(rows[i])
		if len(row) != len(rows[dataStart]) {
			return nil, fmt.Errorf("row %d has %d cells, expected %d",
				i+1, len(row), len(rows[dataStart]))
		}

		if hasEntityCol {
			matrix.EntityIDs = append(matrix.EntityIDs, core.ID(row[0]))
		}

		values := make([]float64, width)
		for j := 0; j < width; j++ {
			v, err := strconv.ParseFloat(row[firstData+j], 64)
			if err != nil {
				return nil, fmt.Errorf("row %d, column %d: %q is not numeric",
					i+1, firstData+j+1, row[firstData+j])
			}
			values[j] = v
		}
		matrix.Data = append(matrix.Data, values)
	}

	if hasHeader {
		for j := firstData; j < len(headers); j++ {
			matrix.VariableKeys = append(matrix.VariableKeys, core.VariableKey(headers[j]))
		}
	}

	return matrix, nil
}

func trimRow(row []string) []string {
	out := make([]string, len(row))
	for i, cell := range row {
		out[i] = strings.TrimSpace(cell)
	}
	return out
}

func isNumericRow(row []string) bool {
	for _, cell := range row {
		if _, err := strconv.ParseFloat(strings.TrimSpace(cell), 64); err != nil {
			return false
		}
	}
	return len(row) > 0
}

func isNumericColumn(rows [][]string, col int) bool {
	for _, row := range rows {
		if col >= len(row) {
			return false
		}
		if _, err := strconv.ParseFloat(strings.TrimSpace(row[col]), 64); err != nil {
			return false
		}
	}
	return true
}
