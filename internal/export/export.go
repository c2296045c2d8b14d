// Package export writes a snapshot's tables to disk as CSV, one file per
// table, ready for a property-graph bulk loader.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/starford/ansuz/internal/graph"
)

// WriteDir writes every snapshot table into dir as <table>.csv, creating
// the directory if needed. Existing files are overwritten, so repeated
// exports of the same snapshot produce identical bytes.
func WriteDir(dir string, snap *graph.Snapshot) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("export: create dir: %w", err)
	}
	for _, table := range snap.Tables() {
		if err := writeTable(dir, table); err != nil {
			return err
		}
	}
	return nil
}

func writeTable(dir string, table graph.Table) error {
	f, err := os.Create(filepath.Join(dir, table.Name+".csv"))
	if err != nil {
		return fmt.Errorf("export: create %s: %w", table.Name, err)
	}
	if err := writeCSV(f, table); err != nil {
		f.Close()
		return fmt.Errorf("export: write %s: %w", table.Name, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("export: close %s: %w", table.Name, err)
	}
	return nil
}

func writeCSV(w io.Writer, table graph.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(table.Columns); err != nil {
		return err
	}
	record := make([]string, len(table.Columns))
	for _, row := range table.Rows {
		for i, value := range row {
			record[i] = escape(value)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// escape keeps every record on a single line: backslashes double and
// newlines become literal \n, in that order so unescaping can round-trip.
func escape(value string) string {
	value = strings.ReplaceAll(value, `\`, `\\`)
	value = strings.ReplaceAll(value, "\n", `\n`)
	return value
}
