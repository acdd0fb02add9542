package evaluation

import (
	"encoding/gob"
	"os"
)

type Vector []float32

// DataRow is one sample of a target or candidate distribution.
type DataRow struct {
	Id     int64
	Vector Vector
	Label  string
}

type DataSource interface {
	GetDataSet() ([]DataRow, error)
}

// StaticSource serves rows that are already in memory.
type StaticSource struct {
	Rows []DataRow
}

// GobSource reads rows persisted with WriteGob.
type GobSource struct {
	Path string
}

func (s StaticSource) GetDataSet() ([]DataRow, error) {
	return s.Rows, nil
}

func (r GobSource) GetDataSet() ([]DataRow, error) {
	gobFile, err := os.Open(r.Path)
	if err != nil {
		return nil, err
	}
	defer gobFile.Close()

	var data []DataRow
	decoder := gob.NewDecoder(gobFile)
	err = decoder.Decode(&data)
	return data, err
}

// WriteGob persists rows to path in gob format.
func WriteGob(path string, rows []DataRow) error {
	gobFile, err := os.Create(path)
	if err != nil {
		return err
	}
	defer gobFile.Close()

	encoder := gob.NewEncoder(gobFile)
	if err := encoder.Encode(rows); err != nil {
		return err
	}
	return gobFile.Close()
}
