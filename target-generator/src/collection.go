package main

import "csb/synthetic-targets/internal/evaluation"

// Collection persists an evaluation: per-sample results as parquet and the
// headline metrics as a CSV summary line.
func Collection(logger *Logger, result evaluation.Evaluation) error {
	logger.LogSummary(result)
	return logger.LogEvaluationResults(result.Results)
}
