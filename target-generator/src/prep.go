package main

import (
	"context"
	"fmt"
	"time"

	"github.com/milvus-io/milvus/client/v2/entity"
	"github.com/milvus-io/milvus/client/v2/index"
	"github.com/milvus-io/milvus/client/v2/milvusclient"

	"csb/synthetic-targets/internal/evaluation"
)

func CreateCollection(
	c *milvusclient.Client,
	ctx context.Context,
	dbName string,
	collection string,
	idFieldName string,
	vecFieldName string,
	dim int,
	fieldName string,
	logger *Logger,
) error {
	/* Create database and schema */
	logger.Log("Creating db...")
	err := c.CreateDatabase(ctx, milvusclient.NewCreateDatabaseOption(dbName))
	if err != nil {
		logger.Log(err.Error())
	}
	err = c.UseDatabase(ctx, milvusclient.NewUseDatabaseOption(dbName))
	if err != nil {
		return err
	}

	logger.Log("Creating Schema...")
	schema := entity.NewSchema().
		WithField(entity.NewField().
			WithName(idFieldName).
			WithIsAutoID(false).
			WithIsPrimaryKey(true).
			WithDataType(entity.FieldTypeInt64),
		).
		WithField(entity.NewField().
			WithName(vecFieldName).
			WithDataType(entity.FieldTypeFloatVector).
			WithDim(int64(dim)),
		).
		WithField(entity.NewField().
			WithName(fieldName).
			WithDataType(entity.FieldTypeVarChar).
			WithMaxLength(64),
		).
		WithDescription("samples of a synthetic target distribution")
	logger.Log("Creating collection...")
	return c.CreateCollection(ctx, milvusclient.NewCreateCollectionOption(collection, schema))
}

/**
* InsertDataset inserts data column-wise in batches of batchSize rows and
* flushes the collection once all batches are written.
 */
func InsertDataset(
	c *milvusclient.Client,
	ctx context.Context,
	collection string,
	idFieldName string,
	vecFieldName string,
	fieldName string,
	data []evaluation.DataRow,
	batchSize int,
	logger *Logger,
) error {
	if len(data) == 0 {
		return fmt.Errorf("no rows to insert into %s", collection)
	}
	dim := len(data[0].Vector)

	logger.Logf("Inserting %d rows in batches of %d...", len(data), batchSize)
	var inserted int64
	for start := 0; start < len(data); start += batchSize {
		batch := data[start:min(start+batchSize, len(data))]
		ids := make([]int64, len(batch))
		vectors := make([][]float32, len(batch))
		labels := make([]string, len(batch))
		for i, r := range batch {
			ids[i] = r.Id
			vectors[i] = r.Vector
			labels[i] = r.Label
		}

		res, err := c.Insert(ctx, milvusclient.NewColumnBasedInsertOption(collection).
			WithInt64Column(idFieldName, ids).
			WithFloatVectorColumn(vecFieldName, dim, vectors).
			WithVarcharColumn(fieldName, labels),
		)
		if err != nil {
			return fmt.Errorf("insert of rows %d-%d failed: %w", start, start+len(batch)-1, err)
		}
		inserted += res.InsertCount
	}
	logger.Logf("Insert completed: %d rows", inserted)
	return flushCollection(c, ctx, collection, logger)
}

func flushCollection(
	c *milvusclient.Client,
	ctx context.Context,
	collection string,
	logger *Logger,
) error {
	/* Flush and await the flush */
	task, err := c.Flush(ctx, milvusclient.NewFlushOption(collection))
	if err != nil {
		return err
	}
	task.Await(ctx)
	logger.Log("Flush completed")
	return nil
}

// Prepare publishes the target samples: it creates the collection, inserts
// the rows of datasource and builds an HNSW index over the vector field.
func Prepare(
	c *milvusclient.Client,
	dbName string,
	collection string,
	idFieldName string,
	vecFieldName string,
	dim int,
	fieldName string,
	indexParams ConstructionIndexParameters,
	insertBatchSize int,
	datasource evaluation.DataSource,
) error {
	logger, err := NewLogger("prepare")
	if err != nil {
		return err
	}
	defer logger.Close()

	ctx := context.Background() // we don't want any timeouts for the preparation

	/* Create Database and Collection */
	err = CreateCollection(
		c,
		ctx,
		dbName,
		collection,
		idFieldName,
		vecFieldName,
		dim,
		fieldName,
		logger,
	)
	if err != nil {
		return err
	}

	/* Get Dataset */
	data, err := datasource.GetDataSet()
	if err != nil {
		return err
	}

	/* Insert Dataset */
	err = InsertDataset(
		c,
		ctx,
		collection,
		idFieldName,
		vecFieldName,
		fieldName,
		data,
		insertBatchSize,
		logger,
	)
	if err != nil {
		return err
	}

	/* Create the index */
	indexStartTime := time.Now()

	indexTask, err := c.CreateIndex(ctx, milvusclient.NewCreateIndexOption(
		collection,
		vecFieldName,
		index.NewHNSWIndex(
			index.MetricType(indexParams.distanceMetric),
			indexParams.M,
			indexParams.efConstruction,
		),
	),
	)
	if err != nil {
		return err
	}
	indexTask.Await(ctx)
	logger.Logf("Index constructed in %v", time.Since(indexStartTime))

	// Sanity-Check index Creation
	indices, err := c.ListIndexes(ctx, milvusclient.NewListIndexOption(collection))
	if err != nil {
		return err
	}
	logger.Logf("Indices on the collection: %v", indices)

	return nil
}
