package main

import (
	"os"
	"path/filepath"
	"testing"

	"csb/synthetic-targets/internal/evaluation"
)

func rowsOnLine(xs ...float32) []evaluation.DataRow {
	rows := make([]evaluation.DataRow, len(xs))
	for i, x := range xs {
		rows[i] = evaluation.DataRow{Id: int64(i), Vector: evaluation.Vector{x, 0}}
	}
	return rows
}

func writeRun(t *testing.T, basePath, name string, target, candidate []evaluation.DataRow) {
	t.Helper()
	runDir := filepath.Join(basePath, name)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := evaluation.WriteGob(filepath.Join(runDir, targetRowsFile), target); err != nil {
		t.Fatal(err)
	}
	if err := evaluation.WriteGob(filepath.Join(runDir, candidateRowsFile), candidate); err != nil {
		t.Fatal(err)
	}
}

func TestEvaluate_RunDirectories(t *testing.T) {
	basePath := t.TempDir()
	writeRun(t, basePath, "output-config1", rowsOnLine(0, 1, 2, 3), rowsOnLine(0.5, 2.5, 50, 60))
	if err := os.WriteFile(filepath.Join(basePath, "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(basePath, "empty"), 0755); err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(basePath)
	if err != nil {
		t.Fatal(err)
	}

	var evaluated []summaryRow
	for _, entry := range entries {
		if row, ok := evaluate(basePath, entry, 1); ok {
			evaluated = append(evaluated, row)
		}
	}

	if len(evaluated) != 1 {
		t.Fatalf("Expected 1 evaluated run, got %d", len(evaluated))
	}
	if evaluated[0].Run != "output-config1" || evaluated[0].Precision != 0.5 {
		t.Errorf("Unexpected summary: %+v", evaluated[0])
	}
	if _, err := os.Stat(filepath.Join(basePath, "output-config1", resultsFile)); err != nil {
		t.Errorf("Expected %s to be written: %v", resultsFile, err)
	}
}

func TestEvaluate_SkipsRunsWithTooFewSamples(t *testing.T) {
	basePath := t.TempDir()
	writeRun(t, basePath, "small", rowsOnLine(0, 1), rowsOnLine(0, 1))

	entries, err := os.ReadDir(basePath)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := evaluate(basePath, entries[0], 5); ok {
		t.Error("Expected run with fewer samples than k to be skipped")
	}
}
