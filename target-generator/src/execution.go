package main

import (
	"context"

	"github.com/milvus-io/milvus/client/v2/milvusclient"

	"csb/synthetic-targets/internal/evaluation"
)

/**
* ExecuteEvaluation computes precision with neighbour searches against the
* published target collection: each candidate sample is checked only against
* its k nearest target rows, which approximates the exact manifold test.
* Recall is computed by brute force since the candidate is not published.
 */
func ExecuteEvaluation(
	c *milvusclient.Client,
	collection string,
	vecFieldName string,
	dataset Dataset,
	k int,
	concurrency int,
) (evaluation.Evaluation, error) {
	ctx := context.Background()
	logger, err := NewLogger("evaluation")
	if err != nil {
		return evaluation.Evaluation{}, err
	}
	defer logger.Close()
	logger.Log("Executing evaluation...")

	/* Load Collection */
	task, err := c.LoadCollection(ctx, milvusclient.NewLoadCollectionOption(collection))
	if err != nil {
		return evaluation.Evaluation{}, err
	}
	task.Await(ctx)

	radii := evaluation.ManifoldRadii(dataset.Target, k)
	byId, _ := evaluation.IndexRows(dataset.Target)

	search := milvusSearch(c, collection, vecFieldName, k, logger)
	queries, err := SearchNeighbors(dataset.Candidate, search, logger, concurrency)
	if err != nil {
		return evaluation.Evaluation{}, err
	}
	results := make([]evaluation.EvaluationResult, len(queries))
	for i, q := range queries {
		results[i] = evaluation.InManifold(dataset.Candidate[i], q.ResultIds, byId, radii)
	}

	_, recall := evaluation.EvaluateManifold(dataset.Candidate, dataset.Target, k)
	logger.Log("Finished evaluation")

	return evaluation.Evaluation{
		Samples:   len(dataset.Candidate),
		K:         k,
		Precision: evaluation.FractionInManifold(results),
		Recall:    recall,
		Results:   results,
	}, nil
}
