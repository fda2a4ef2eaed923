package metastore

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

const (
	beginTable = "<begin_table>"
	endTable   = "<end_table>"
)

type format interface {
	decode(r io.Reader) ([]*TableMetadata, error)
	encode(w io.Writer, tables []*TableMetadata) error
}

// formatOf picks the catalog format from the file extension: `.json` is the JSON
// filestore, anything else the block format of metadata.txt.
func formatOf(path string) format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return jsonFormat{}
	}
	return textFormat{}
}

/* *** metadata.txt *** */

// textFormat reads blocks of the form
//
//	<begin_table>
//	table1
//	A
//	B
//	<end_table>
//
// Lines are trimmed and blank lines ignored.
type textFormat struct{}

func (textFormat) decode(r io.Reader) ([]*TableMetadata, error) {
	const (
		outside = iota
		expectName
		inColumns
	)

	var tables []*TableMetadata
	var current *TableMetadata
	state := outside
	lineNo := 0

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch {
		case line == beginTable:
			if state != outside {
				return nil, malformed(lineNo, "unexpected %s", beginTable)
			}
			state = expectName
		case line == endTable:
			if state != inColumns {
				return nil, malformed(lineNo, "unexpected %s", endTable)
			}
			tables = append(tables, current)
			current = nil
			state = outside
		case state == expectName:
			current = NewTableMetadata(line)
			state = inColumns
		case state == inColumns:
			current.Columns = append(current.Columns, line)
		default:
			return nil, malformed(lineNo, "'%s' outside of a table block", line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if state != outside {
		return nil, malformed(lineNo, "missing %s", endTable)
	}
	return tables, nil
}

func (textFormat) encode(w io.Writer, tables []*TableMetadata) error {
	bw := bufio.NewWriter(w)
	for _, table := range tables {
		fmt.Fprintln(bw, beginTable)
		fmt.Fprintln(bw, table.TableName)
		for _, column := range table.Columns {
			fmt.Fprintln(bw, column)
		}
		fmt.Fprintln(bw, endTable)
	}
	return bw.Flush()
}

func malformed(line int, format string, args ...any) error {
	return Error{
		ErrorCode: MalformedCatalog,
		Message:   fmt.Sprintf("line %d: %s", line, fmt.Sprintf(format, args...)),
	}
}

/* *** JSON filestore *** */

type jsonFormat struct{}

type jsonCatalog struct {
	Tables []*TableMetadata `json:"tables"`
}

func (jsonFormat) decode(r io.Reader) ([]*TableMetadata, error) {
	var catalog jsonCatalog
	if err := json.NewDecoder(r).Decode(&catalog); err != nil {
		return nil, fmt.Errorf("unmarshalling filestore: %w", err)
	}
	return catalog.Tables, nil
}

func (jsonFormat) encode(w io.Writer, tables []*TableMetadata) error {
	data, err := json.MarshalIndent(jsonCatalog{Tables: tables}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling filestore: %w", err)
	}
	_, err = w.Write(append(data, '\n'))
	return err
}
