package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/milvus-io/milvus/client/v2/milvusclient"

	"csb/synthetic-targets/internal/evaluation"
	"csb/synthetic-targets/targets"
)

type ConstructionIndexParameters struct {
	distanceMetric string
	M              int
	efConstruction int
}

// DistributionParameters selects one mixture variant and its constructor arguments.
type DistributionParameters struct {
	variant    targets.Variant
	components int
	dimensions int
	seed       int64
}

func (p DistributionParameters) targetsConfig() targets.Config {
	return targets.Config{Components: p.components, Dimensions: p.dimensions, Seed: p.seed}
}

type Config struct {
	milvusAddr      string
	dbName          string
	collection      string
	idFieldName     string
	vecFieldName    string
	fieldName       string
	concurrency     int
	k               int // neighbourhood size for manifold radii and searches
	samples         int // samples drawn per distribution
	rotate          bool
	plotSamples     int // target samples drawn into the correlation heatmap
	insertBatchSize int
	target          DistributionParameters
	candidate       DistributionParameters // stands in for the generative model under evaluation
	indexParameters ConstructionIndexParameters
}

const milvusPort = "19530"

// getMilvusAddr returns the Milvus address from environment variable MILVUS_IP or localhost as fallback.
func getMilvusAddr() string {
	ip := os.Getenv("MILVUS_IP")
	if ip == "" {
		fmt.Println("MILVUS_IP not set, defaulting to localhost")
		ip = "localhost"
	}
	return ip + ":" + milvusPort
}

var config Config = Config{
	milvusAddr:      getMilvusAddr(),
	dbName:          "targets",
	collection:      "targetSamples",
	idFieldName:     "id",
	vecFieldName:    "vector",
	fieldName:       "label",
	concurrency:     8,
	k:               5,
	samples:         5000,
	rotate:          false,
	plotSamples:     2000,
	insertBatchSize: 1000,
	target: DistributionParameters{
		variant:    targets.VariantMixMultiNormal1,
		components: targets.DefaultComponents,
		dimensions: targets.DefaultDimensions,
		seed:       targets.DefaultSeed,
	},
	indexParameters: ConstructionIndexParameters{
		distanceMetric: "L2", // euclidean distance (constant)
		M:              16,
		efConstruction: 200,
	},
}

func parseArgs() (configId int, useMilvus bool, err error) {
	if len(os.Args) < 2 || len(os.Args) > 3 {
		return 0, false, fmt.Errorf(`usage: %s <config_id> <use_milvus>
			config_id:  target configuration number (configs/target-<config_id>.txt)
			Optional: use_milvus (true/false) whether to publish target samples to Milvus and search them there (defaults to false)`,
			os.Args[0])
	}

	configId, err = strconv.Atoi(os.Args[1])
	if err != nil || configId < 1 {
		return 0, false, fmt.Errorf("invalid config_id: must be a positive number")
	}

	if len(os.Args) == 3 {
		useMilvus, err = strconv.ParseBool(os.Args[2])
		if err != nil {
			return 0, false, fmt.Errorf("invalid use_milvus: must be true or false")
		}
	}

	return configId, useMilvus, nil
}

func main() {
	/* Parse CLI arguments and load configurations */
	configId, useMilvus, err := parseArgs()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	err = LoadTargetConfig(fmt.Sprintf("configs/target-%d.txt", configId), &config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load target configuration: %v\n", err)
		os.Exit(1)
	}
	SetOutputDir(fmt.Sprintf("output-config%d", configId))

	logger, err := NewLogger("main")
	if err != nil {
		panic(err)
	}
	defer logger.Close()
	logger.Logf("Run started with config Id %d:\n%+v", configId, config)

	/* Build target and candidate distributions, draw samples */
	dataset, err := BuildDataset(config, logger)
	if err != nil {
		panic(err)
	}
	if err = logger.LogDataRows(targetRowsFile, dataset.Target); err != nil {
		panic(err)
	}
	if err = logger.LogDataRows(candidateRowsFile, dataset.Candidate); err != nil {
		panic(err)
	}
	plotted := targets.Subsample(dataset.TargetSamples, config.plotSamples, config.target.seed)
	if err = targets.PlotCorrelation(plotted, outputPath("correlation.png")); err != nil {
		logger.Logf("Failed to render correlation heatmap: %v", err)
	}

	/* Evaluate candidate against target */
	var result evaluation.Evaluation
	if useMilvus {
		result, err = evaluateWithMilvus(dataset, logger)
	} else {
		result = evaluation.Evaluate(dataset.Target, dataset.Candidate, config.k)
	}
	if err != nil {
		panic(err)
	}
	result.TargetVariant = config.target.variant.String()
	result.CandidateVariant = config.candidate.variant.String()
	result.Rotated = config.rotate

	/* Persist results */
	err = Collection(logger, result)
	if err != nil {
		panic(err)
	}

	logger.Logf("Precision %.4f, recall %.4f (k=%d)", result.Precision, result.Recall, config.k)
	logger.Logf("Run finished, outputs in %s", GetOutputDir())
}

func evaluateWithMilvus(dataset Dataset, logger *Logger) (evaluation.Evaluation, error) {
	ctx := context.Background()
	logger.Logf("Connecting to Milvus at %s...", config.milvusAddr)
	c, err := milvusclient.New(ctx, &milvusclient.ClientConfig{
		Address:  config.milvusAddr,
		Username: "root",
		Password: "Milvus",
	})
	if err != nil {
		return evaluation.Evaluation{}, err
	}
	defer c.Close(ctx)
	logger.Log("Successfully connected")

	/* Publish target samples: create collection, insert data, create index */
	err = Prepare(
		c,
		config.dbName,
		config.collection,
		config.idFieldName,
		config.vecFieldName,
		config.dim(),
		config.fieldName,
		config.indexParameters,
		config.insertBatchSize,
		evaluation.StaticSource{Rows: dataset.Target},
	)
	if err != nil {
		return evaluation.Evaluation{}, err
	}

	result, err := ExecuteEvaluation(
		c,
		config.collection,
		config.vecFieldName,
		dataset,
		config.k,
		config.concurrency,
	)

	/* Cleanup */
	logger.Log("Cleaning up: deleting collection and database...")
	if cleanupErr := Cleanup(c, config.dbName, config.collection); cleanupErr != nil {
		logger.Log(cleanupErr.Error())
	}
	return result, err
}

func (c Config) dim() int {
	return c.target.dimensions
}
