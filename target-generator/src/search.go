package main

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/milvus-io/milvus/client/v2/entity"
	"github.com/milvus-io/milvus/client/v2/milvusclient"

	"csb/synthetic-targets/internal/evaluation"
)

// NeighborQuery is a single kNN search of one candidate sample against the
// published target collection.
type NeighborQuery struct {
	Id             int64
	QueryVector    evaluation.Vector
	ResultIds      []int64
	Latency        time.Duration
	StartTimestamp time.Time
}

// searchFunc returns the ids of the nearest published rows to vector.
type searchFunc func(ctx context.Context, vector evaluation.Vector) ([]int64, error)

// milvusSearch searches the k nearest rows of collection by vecFieldName.
func milvusSearch(c *milvusclient.Client, collection string, vecFieldName string, k int, logger *Logger) searchFunc {
	return func(ctx context.Context, vector evaluation.Vector) ([]int64, error) {
		searchRes, err := c.Search(ctx,
			milvusclient.NewSearchOption(
				collection,
				k,
				[]entity.Vector{entity.FloatVector(vector)},
			).WithANNSField(vecFieldName),
		)
		if err != nil {
			return nil, err
		}

		if len(searchRes) != 1 {
			logger.Logf("Unexpected number of result sets: %d", len(searchRes))
		}
		var ids []int64
		for _, resultSet := range searchRes {
			ids = resultSet.IDs.FieldData().GetScalars().GetLongData().Data
		}
		return ids, nil
	}
}

// Execute performs the k-NN search for this query and records metrics.
func (q *NeighborQuery) Execute(ctx context.Context, search searchFunc, logger *Logger) error {
	start := time.Now()
	ids, err := search(ctx, q.QueryVector)
	q.Latency = time.Since(start)
	q.StartTimestamp = start
	if err != nil {
		return err
	}
	q.ResultIds = ids
	logger.LogQuery(q)
	return nil
}

/**
* SearchNeighbors runs one search per query row on a pool of workers and
* returns the queries in input order. Failed searches are logged; if any
* search failed the error reports how many, since a query without result ids
* would otherwise count as outside the manifold.
 */
func SearchNeighbors(
	queries []evaluation.DataRow,
	search searchFunc,
	logger *Logger,
	numWorkers int,
) ([]NeighborQuery, error) {
	executed := make([]NeighborQuery, len(queries))
	workChan := make(chan int, numWorkers*2)
	var failed atomic.Int64
	var firstErr error
	var errOnce sync.Once

	var wg sync.WaitGroup
	for i := range numWorkers {
		wg.Add(1)
		go func(workerId int) {
			defer wg.Done()
			ctx := context.Background()
			for idx := range workChan {
				query := &executed[idx]
				query.Id = queries[idx].Id
				query.QueryVector = queries[idx].Vector
				if err := query.Execute(ctx, search, logger); err != nil {
					logger.Logf("Search worker %d: error: %v", workerId, err)
					failed.Add(1)
					errOnce.Do(func() { firstErr = err })
				}
			}
		}(i)
	}

	// Feed queries to workers
	for i := range queries {
		workChan <- i
	}
	close(workChan)

	wg.Wait()
	logger.Logf("Search completed: %d queries executed, %d failed", len(queries), failed.Load())
	if n := failed.Load(); n > 0 {
		return executed, fmt.Errorf("%d of %d neighbour searches failed: %w", n, len(queries), firstErr)
	}
	return executed, nil
}
