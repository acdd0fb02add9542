package main

import (
	"context"
	"errors"

	"github.com/milvus-io/milvus/client/v2/milvusclient"
)

// Cleanup releases and drops the published collection, then drops its
// database. The database drop is attempted even if the collection could not
// be dropped; all errors are returned joined.
func Cleanup(c *milvusclient.Client, dbName string, collection string) error {
	logger, err := NewLogger("cleanup")
	if err != nil {
		return err
	}
	defer logger.Close()
	logger.Log("Cleaning up Milvus database and collection...")
	ctx := context.Background()

	var errs []error
	if err := c.ReleaseCollection(ctx, milvusclient.NewReleaseCollectionOption(collection)); err != nil {
		logger.Logf("Release of %s failed: %v", collection, err)
	}
	if err := c.DropCollection(ctx, milvusclient.NewDropCollectionOption(collection)); err != nil {
		errs = append(errs, err)
	} else {
		logger.Log("Collection dropped successfully")
	}

	if err := c.DropDatabase(ctx, milvusclient.NewDropDatabaseOption(dbName)); err != nil {
		errs = append(errs, err)
	} else {
		logger.Log("Database dropped successfully")
	}
	return errors.Join(errs...)
}
