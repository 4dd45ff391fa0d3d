package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/s0up4200/millennium/millennium"
)

type recordsOutput struct {
	Count   *int64               `json:"count,omitempty"`
	Records []*millennium.Record `json:"records"`
}

// printRecords writes GET results in the given format
func printRecords(w io.Writer, format string, count *int64, records []*millennium.Record) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(recordsOutput{Count: count, Records: records})
	}

	if count != nil {
		fmt.Fprintf(w, "Total: %d\n", *count)
	}
	if len(records) == 0 {
		fmt.Fprintln(w, "No records returned.")
		return nil
	}

	columns := columnsOf(records)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(columns, "\t"))
	for _, rec := range records {
		row := make([]string, len(columns))
		for i, col := range columns {
			row[i] = cell(rec, col)
		}
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

// printRecord writes a POST result in the given format
func printRecord(w io.Writer, format string, rec *millennium.Record) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rec)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, field := range rec.Fields() {
		fmt.Fprintf(tw, "%s:\t%s\n", field, cell(rec, field))
	}
	return tw.Flush()
}

// columnsOf returns the union of field names in first-seen order
func columnsOf(records []*millennium.Record) []string {
	seen := make(map[string]bool)
	var columns []string
	for _, rec := range records {
		for _, field := range rec.Fields() {
			if !seen[field] {
				seen[field] = true
				columns = append(columns, field)
			}
		}
	}
	return columns
}

func cell(rec *millennium.Record, field string) string {
	switch v := rec.Value(field).(type) {
	case *millennium.Record, []any:
		b, err := json.Marshal(v)
		if err != nil {
			return "?"
		}
		return string(b)
	default:
		return strings.ReplaceAll(rec.String(field), "\n", " ")
	}
}
