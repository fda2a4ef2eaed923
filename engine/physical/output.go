package physical

import (
	"encoding/json"
	"fmt"
	"github.com/aleph-zero/tinysql/engine"
	"github.com/olekukonko/tablewriter"
	"io"
	"strings"
)

type Result struct {
	Header []string
	Schema engine.Schema
	Rows   []engine.Tuple
}

type Format string

const (
	CSV   Format = "csv"
	Table Format = "table"
	JSON  Format = "json"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case CSV, Table, JSON:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format '%s'", s)
	}
}

func (r *Result) Render(w io.Writer, format Format) error {
	switch format {
	case CSV:
		if _, err := fmt.Fprintln(w, strings.Join(r.Header, ",")); err != nil {
			return err
		}
		for _, row := range r.Rows {
			if _, err := fmt.Fprintln(w, strings.Join(row.Strings(), ",")); err != nil {
				return err
			}
		}
		return nil
	case Table:
		table := tablewriter.NewWriter(w)
		table.SetHeader(r.Header)
		table.SetAutoFormatHeaders(false)
		table.SetAutoWrapText(false)
		table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
		table.SetAlignment(tablewriter.ALIGN_RIGHT)
		for _, row := range r.Rows {
			table.Append(row.Strings())
		}
		table.Render()
		return nil
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r.Records())
	default:
		return fmt.Errorf("unknown output format '%s'", format)
	}
}

func (r *Result) Records() []map[string]engine.Value {
	records := make([]map[string]engine.Value, 0, len(r.Rows))
	for _, row := range r.Rows {
		record := make(map[string]engine.Value, len(row))
		for i, v := range row {
			if i < len(r.Header) {
				record[r.Header[i]] = v
			}
		}
		records = append(records, record)
	}
	return records
}
