package main

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"csb/synthetic-targets/internal/evaluation"
	"csb/synthetic-targets/targets"
)

// Dataset holds the sample sets of one run.
type Dataset struct {
	Target        []evaluation.DataRow
	Candidate     []evaluation.DataRow
	TargetSamples *mat.Dense
	Rotation      *mat.Dense // nil unless samples were rotated
}

// ToDataRows converts the rows of samples to DataRows with consecutive ids.
func ToDataRows(samples mat.Matrix, label string) []evaluation.DataRow {
	n, dim := samples.Dims()
	rows := make([]evaluation.DataRow, n)
	for i := range n {
		vector := make(evaluation.Vector, dim)
		for j := range dim {
			vector[j] = float32(samples.At(i, j))
		}
		rows[i] = evaluation.DataRow{Id: int64(i), Vector: vector, Label: label}
	}
	return rows
}

/**
* BuildDataset constructs the target and the candidate distribution and draws
* config.samples samples from each. When config.rotate is set, both sample sets
* are expressed in the eigenbasis of the target samples' covariance.
 */
func BuildDataset(config Config, logger *Logger) (Dataset, error) {
	target, err := targets.New(config.target.variant, config.target.targetsConfig())
	if err != nil {
		return Dataset{}, fmt.Errorf("failed to build target: %w", err)
	}
	candidate, err := targets.New(config.candidate.variant, config.candidate.targetsConfig())
	if err != nil {
		return Dataset{}, fmt.Errorf("failed to build candidate: %w", err)
	}
	logger.Logf("Target %v:\n%s", config.target.variant, targets.Describe(target))
	logger.Logf("Candidate %v:\n%s", config.candidate.variant, targets.Describe(candidate))

	targetSamples := target.Sample(config.samples)
	candidateSamples := candidate.Sample(config.samples)

	var rotation *mat.Dense
	if config.rotate {
		rotation, err = targets.RotationMatrix(targetSamples)
		if err != nil {
			return Dataset{}, err
		}
		if targetSamples, err = targets.Transform(targetSamples, rotation); err != nil {
			return Dataset{}, err
		}
		if candidateSamples, err = targets.Transform(candidateSamples, rotation); err != nil {
			return Dataset{}, err
		}
		logger.Log("Rotated samples into the target eigenbasis")
	}

	return Dataset{
		Target:        ToDataRows(targetSamples, config.target.variant.String()),
		Candidate:     ToDataRows(candidateSamples, config.candidate.variant.String()),
		TargetSamples: targetSamples,
		Rotation:      rotation,
	}, nil
}
