package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"goutlier/adapters/excel"
	"goutlier/app"
	"goutlier/domain/dataset"
	"goutlier/domain/detection"
	"goutlier/internal/config"
)

var (
	fileFlag = &cli.StringFlag{
		Name:     "file",
		Aliases:  []string{"f"},
		Usage:    "Path to a CSV or XLSX file with one sample per row",
		Required: true,
	}

	binsFlag = &cli.IntFlag{
		Name:  "bins",
		Usage: "Number of histogram bins per feature",
	}

	alphaFlag = &cli.Float64Flag{
		Name:  "alpha",
		Usage: "Density regularizer added before the log transform",
	}

	tolFlag = &cli.Float64Flag{
		Name:  "tol",
		Usage: "Boundary tolerance for values just outside the fitted range",
	}

	contaminationFlag = &cli.Float64Flag{
		Name:  "contamination",
		Usage: "Expected outlier fraction used for thresholding",
	}
)

func main() {
	_ = godotenv.Load()

	cliApp := &cli.App{
		Name:  "goutlier",
		Usage: "Histogram-based outlier detection over tabular data",
		Commands: []*cli.Command{
			scoreCmd(),
			sweepCmd(),
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func scoreCmd() *cli.Command {
	return &cli.Command{
		Name:  "score",
		Usage: "Fit HBOS on a file and report flagged samples",
		Flags: []cli.Flag{fileFlag, binsFlag, alphaFlag, tolFlag, contaminationFlag},
		Action: func(c *cli.Context) error {
			svc, matrix, err := loadService(c)
			if err != nil {
				return err
			}

			hbosCfg := svc.DefaultHBOSConfig()
			if c.IsSet(binsFlag.Name) {
				hbosCfg.NBins = c.Int(binsFlag.Name)
			}
			if c.IsSet(alphaFlag.Name) {
				hbosCfg.Alpha = c.Float64(alphaFlag.Name)
			}
			if c.IsSet(tolFlag.Name) {
				hbosCfg.Tol = c.Float64(tolFlag.Name)
			}
			if c.IsSet(contaminationFlag.Name) {
				hbosCfg.Contamination = c.Float64(contaminationFlag.Name)
			}

			result, err := svc.RunHBOS(c.Context, matrix, hbosCfg)
			if err != nil {
				return err
			}
			printFlagged(matrix, result)
			return writeJSON(result)
		},
	}
}

func sweepCmd() *cli.Command {
	return &cli.Command{
		Name:  "sweep",
		Usage: "Run every detector over a file and compare results",
		Flags: []cli.Flag{fileFlag},
		Action: func(c *cli.Context) error {
			svc, matrix, err := loadService(c)
			if err != nil {
				return err
			}

			results, err := svc.Sweep(c.Context, matrix)
			if err != nil {
				return err
			}
			return writeJSON(map[string]interface{}{"results": results})
		},
	}
}

func loadService(c *cli.Context) (*app.DetectionService, *dataset.Matrix, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	path := c.String(fileFlag.Name)
	matrix, err := excel.NewDataReader(path).ReadMatrix(path)
	if err != nil {
		return nil, nil, err
	}

	return app.NewDetectionService(cfg.Detector, nil, nil), matrix, nil
}

func printFlagged(m *dataset.Matrix, result *detection.Result) {
	fmt.Fprintf(os.Stderr, "flagged %d of %d samples (threshold %.4f)\n",
		result.NOutliers, m.Rows(), result.Threshold)
	for i, label := range result.Labels {
		if label == 0 {
			continue
		}
		name := fmt.Sprintf("row %d", i+1)
		if i < len(m.EntityIDs) {
			name = m.EntityIDs[i].String()
		}
		fmt.Fprintf(os.Stderr, "  %s: score %.4f\n", name, result.Scores[i])
	}
}

func writeJSON(payload interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}
