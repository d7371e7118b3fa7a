// Copyright 2026 The Plantwatch Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
)

// PrintJSON writes v as indented JSON to w, for commands invoked with
// --json.
func PrintJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return Internal("encoding output: %w", err)
	}
	return nil
}

// Table writes aligned columnar output. Pass a header row first, then
// data rows; Flush renders everything.
type Table struct {
	writer *tabwriter.Writer
}

// NewTable returns a table writing to w.
func NewTable(w io.Writer) *Table {
	return &Table{writer: tabwriter.NewWriter(w, 2, 0, 3, ' ', 0)}
}

// Row appends one row of cells.
func (t *Table) Row(cells ...any) {
	for i, cell := range cells {
		if i > 0 {
			fmt.Fprint(t.writer, "\t")
		}
		fmt.Fprint(t.writer, cell)
	}
	fmt.Fprintln(t.writer)
}

// Flush renders the accumulated rows.
func (t *Table) Flush() {
	t.writer.Flush()
}
