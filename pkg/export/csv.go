package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// CSVExporter renders tabular records into CSV bytes.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Render writes a header row followed by each record. Every record must have
// the same number of columns as the header.
func (e *CSVExporter) Render(headers []string, records [][]string) ([]byte, error) {
	if len(headers) == 0 {
		return nil, fmt.Errorf("csv requires at least one header")
	}

	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("write csv headers: %w", err)
	}
	for i, record := range records {
		if len(record) != len(headers) {
			return nil, fmt.Errorf("csv record %d has %d columns, want %d", i, len(record), len(headers))
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("write csv record: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
