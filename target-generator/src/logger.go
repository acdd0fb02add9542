package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/parquet-go/parquet-go"

	"csb/synthetic-targets/internal/evaluation"
)

type Logger struct {
	logFile      *os.File
	queryLogFile *os.File
	summaryFile  *os.File
}

const (
	basePath = "log"
	// CSV format for logging neighbour searches and run summaries
	queryFormat   = "timestamp,queryId,resultIds,latencyMus\n"
	summaryFormat = "timestamp,targetVariant,candidateVariant,samples,k,rotated,precision,recall\n"

	targetRowsFile    = "data-rows.gob"
	candidateRowsFile = "candidate-rows.gob"
	evaluationFile    = "evaluation.parquet"
)

// outputDir holds the current output directory, set by SetOutputDir
var outputDir = "output"

// SetOutputDir sets the output directory for all log files
func SetOutputDir(dir string) {
	outputDir = dir
}

// GetOutputDir returns the current output directory
func GetOutputDir() string {
	return outputDir
}

func ensureOutputDir() error {
	err := os.MkdirAll(outputDir, 0755)
	if err != nil && !os.IsExist(err) {
		return err
	}
	return nil
}

// outputPath prefixes the output directory to create a full file path.
func outputPath(filename string) string {
	return filepath.Join(outputDir, filename)
}

func openAppend(filename string) (*os.File, error) {
	return os.OpenFile(outputPath(filename), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
}

func NewLogger(prefix string) (*Logger, error) {
	if err := ensureOutputDir(); err != nil {
		return nil, err
	}

	logFile, err := openAppend(fmt.Sprintf("%s-%s.txt", prefix, basePath))
	if err != nil {
		return nil, err
	}
	queryFile, err := openAppend(fmt.Sprintf("%s-queries.csv", prefix))
	if err != nil {
		logFile.Close()
		return nil, err
	}
	summaryFile, err := openAppend(fmt.Sprintf("%s-summary.csv", prefix))
	if err != nil {
		logFile.Close()
		queryFile.Close()
		return nil, err
	}

	queryFile.WriteString(queryFormat)
	summaryFile.WriteString(summaryFormat)

	return &Logger{
		logFile:      logFile,
		queryLogFile: queryFile,
		summaryFile:  summaryFile,
	}, nil
}

func (l *Logger) Log(msg string) {
	timestamp := time.Now().Format(time.DateTime)
	logEntry := fmt.Sprintf("[%s] - %s\n", timestamp, msg)
	l.logFile.WriteString(logEntry)
}

func (l *Logger) Logf(format string, args ...any) {
	logEntry := fmt.Sprintf(format, args...)
	l.Log(logEntry)
	fmt.Println(logEntry)
}

// LogQuery logs the details of a neighbour search in CSV format.
func (l *Logger) LogQuery(query *NeighborQuery) {
	logEntry := fmt.Sprintf(
		"%s,%d,\"%v\",%d\n",
		query.StartTimestamp.Format(time.DateTime),
		query.Id,
		query.ResultIds,
		query.Latency.Microseconds(),
	)
	l.queryLogFile.WriteString(logEntry)
}

// LogSummary appends the headline metrics of an evaluation in CSV format.
func (l *Logger) LogSummary(e evaluation.Evaluation) {
	logEntry := fmt.Sprintf(
		"%s,%s,%s,%d,%d,%t,%f,%f\n",
		time.Now().Format(time.DateTime),
		e.TargetVariant,
		e.CandidateVariant,
		e.Samples,
		e.K,
		e.Rotated,
		e.Precision,
		e.Recall,
	)
	l.summaryFile.WriteString(logEntry)
}

func (l *Logger) LogDataRows(filename string, data []evaluation.DataRow) error {
	return evaluation.WriteGob(outputPath(filename), data)
}

func (l *Logger) LogEvaluationResults(results []evaluation.EvaluationResult) error {
	return parquet.WriteFile(outputPath(evaluationFile), results)
}

func (l *Logger) Close() {
	l.logFile.Close()
	l.queryLogFile.Close()
	l.summaryFile.Close()
}
