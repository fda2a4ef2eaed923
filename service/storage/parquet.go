package storage

import (
	"errors"
	"fmt"
	"github.com/aleph-zero/tinysql/engine"
	"github.com/segmentio/parquet-go"
	"io"
	"os"
)

// parquetReader reads <table>.parquet files whose integer columns are named after
// the catalog columns. Columns the catalog does not declare are ignored.
type parquetReader struct{}

func (parquetReader) extension() string { return ".parquet" }

func (parquetReader) read(path string, columns []string) ([]engine.Tuple, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pqFile, err := parquet.OpenFile(file, stat.Size())
	if err != nil {
		return nil, Error{
			ErrorCode: InvalidRecord,
			Message:   fmt.Sprintf("opening %s: %v", path, err),
			Err:       err,
		}
	}

	// leaf column index of every catalog column, in catalog order
	leaves := make([]int, len(columns))
	for i, column := range columns {
		leaf, ok := pqFile.Schema().Lookup(column)
		if !ok {
			return nil, Error{
				ErrorCode: InvalidRecord,
				Message:   fmt.Sprintf("reading %s: no column %s", path, column),
			}
		}
		leaves[i] = leaf.ColumnIndex
	}

	reader := parquet.NewReader(pqFile)
	defer reader.Close()

	rows := make([]engine.Tuple, 0, pqFile.NumRows())
	buffer := make([]parquet.Row, 64)
	for {
		n, err := reader.ReadRows(buffer)
		for _, record := range buffer[:n] {
			row, err := toTuple(record, leaves, columns)
			if err != nil {
				return nil, Error{
					ErrorCode: InvalidRecord,
					Message:   fmt.Sprintf("reading %s: row %d: %v", path, len(rows)+1, err),
					Err:       err,
				}
			}
			rows = append(rows, row)
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, Error{
				ErrorCode: InvalidRecord,
				Message:   fmt.Sprintf("reading %s: %v", path, err),
				Err:       err,
			}
		}
	}
	return rows, nil
}

func toTuple(record parquet.Row, leaves []int, columns []string) (engine.Tuple, error) {
	row := make(engine.Tuple, len(leaves))
	for i, leaf := range leaves {
		v, ok := lookup(record, leaf)
		if !ok {
			return nil, fmt.Errorf("column %s is missing", columns[i])
		}
		switch v.Kind() {
		case parquet.Int64:
			row[i] = engine.NewIntValue(v.Int64())
		case parquet.Int32:
			row[i] = engine.NewIntValue(int64(v.Int32()))
		default:
			return nil, fmt.Errorf("column %s: %s is not an integer", columns[i], v.Kind())
		}
	}
	return row, nil
}

func lookup(record parquet.Row, leaf int) (parquet.Value, bool) {
	for _, v := range record {
		if v.Column() == leaf {
			return v, !v.IsNull()
		}
	}
	return parquet.Value{}, false
}
