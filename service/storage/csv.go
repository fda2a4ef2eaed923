package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"github.com/aleph-zero/tinysql/engine"
	"io"
	"os"
	"strconv"
	"strings"
)

// csvReader reads <table>.csv files with one integer field per column. Fields may
// be quoted or padded with whitespace.
type csvReader struct{}

func (csvReader) extension() string { return ".csv" }

func (csvReader) read(path string, columns []string) ([]engine.Tuple, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(columns)
	r.TrimLeadingSpace = true

	var rows []engine.Tuple
	for {
		record, err := r.Read()
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

		row := make(engine.Tuple, len(record))
		for i, field := range record {
			v, err := strconv.ParseInt(strings.TrimSpace(field), 10, 64)
			if err != nil {
				line, _ := r.FieldPos(i)
				return nil, Error{
					ErrorCode: InvalidRecord,
					Message:   fmt.Sprintf("reading %s: line %d: column %s: '%s' is not an integer", path, line, columns[i], field),
					Err:       err,
				}
			}
			row[i] = engine.NewIntValue(v)
		}
		rows = append(rows, row)
	}
	return rows, nil
}
