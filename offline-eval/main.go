package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/parquet-go/parquet-go"

	"csb/synthetic-targets/internal/evaluation"
)

const (
	targetRowsFile    = "data-rows.gob"
	candidateRowsFile = "candidate-rows.gob"
	resultsFile       = "offline-evaluation.parquet"
	defaultK          = 5
)

// summaryRow is the per-run line of the summary parquet file.
type summaryRow struct {
	Run       string
	Samples   int
	K         int
	Precision float64
	Recall    float64
}

func main() {
	if len(os.Args) < 2 || len(os.Args) > 3 {
		fmt.Fprintf(os.Stderr, "usage: %s <base_path> [k]\n", os.Args[0])
		os.Exit(1)
	}
	basePath := os.Args[1]
	if basePath == "" {
		panic(fmt.Errorf("basePath is required"))
	}
	k := defaultK
	if len(os.Args) == 3 {
		var err error
		k, err = strconv.Atoi(os.Args[2])
		if err != nil || k < 1 {
			panic(fmt.Errorf("invalid k: must be a positive number"))
		}
	}

	entries, err := os.ReadDir(basePath)
	if err != nil {
		panic(err)
	}

	var summary []summaryRow
	for _, entry := range entries {
		if row, ok := evaluate(basePath, entry, k); ok {
			summary = append(summary, row)
		}
	}

	if len(summary) == 0 {
		fmt.Println("no runs found")
		return
	}
	err = parquet.WriteFile(filepath.Join(basePath, "offline-summary.parquet"), summary)
	if err != nil {
		fmt.Printf("failed to write offline-summary.parquet: %v\n", err)
	}
}

// evaluate recomputes exact precision and recall for one run directory.
func evaluate(basePath string, entry os.DirEntry, k int) (summaryRow, bool) {
	if !entry.IsDir() {
		return summaryRow{}, false
	}
	runDir := filepath.Join(basePath, entry.Name())

	target, err := evaluation.GobSource{Path: filepath.Join(runDir, targetRowsFile)}.GetDataSet()
	if err != nil {
		fmt.Printf("failed to read %s for %s: %v\n", targetRowsFile, entry.Name(), err)
		return summaryRow{}, false
	}
	candidate, err := evaluation.GobSource{Path: filepath.Join(runDir, candidateRowsFile)}.GetDataSet()
	if err != nil {
		fmt.Printf("failed to read %s for %s: %v\n", candidateRowsFile, entry.Name(), err)
		return summaryRow{}, false
	}
	if k >= len(target) || k >= len(candidate) {
		fmt.Printf("skipping %s: k=%d needs more than %d samples\n", entry.Name(), k, min(len(target), len(candidate)))
		return summaryRow{}, false
	}

	result := evaluation.Evaluate(target, candidate, k)
	err = parquet.WriteFile(filepath.Join(runDir, resultsFile), result.Results)
	if err != nil {
		fmt.Printf("failed to write %s for %s: %v\n", resultsFile, entry.Name(), err)
	}
	fmt.Printf("%s: precision %.4f, recall %.4f (k=%d)\n", entry.Name(), result.Precision, result.Recall, k)

	return summaryRow{
		Run:       entry.Name(),
		Samples:   result.Samples,
		K:         k,
		Precision: result.Precision,
		Recall:    result.Recall,
	}, true
}
