package statement

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Table is a parsed statement: canonical column names plus one map per data row.
type Table struct {
	Columns []string
	Rows    []map[string]string
}

// HasColumn reports whether the canonical column is present.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// ReadCSV parses a statement export. Headers are canonicalized so that
// "Receipt No." and "receipt_no" name the same column.
func ReadCSV(r io.Reader) (*Table, error) {
	br := bufio.NewReader(r)

	// sniff the delimiter from the first KB, as exports come comma or tab separated
	sample, _ := br.Peek(1024)
	reader := csv.NewReader(br)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true
	if !bytes.Contains(sample, []byte(",")) && bytes.Contains(sample, []byte("\t")) {
		reader.Comma = '\t'
	}

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoHeader
		}
		return nil, fmt.Errorf("%w: %v", ErrNoHeader, err)
	}

	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = CanonicalColumn(h)
	}

	table := &Table{Columns: columns}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read statement row %d: %w", len(table.Rows)+1, err)
		}
		if strings.TrimSpace(strings.Join(record, "")) == "" {
			continue
		}

		row := make(map[string]string, len(columns))
		for i, col := range columns {
			if i < len(record) {
				row[col] = strings.TrimSpace(record[i])
			}
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}

// CanonicalColumn lowercases a header, drops a UTF-8 BOM and trailing dots,
// and joins words with underscores.
func CanonicalColumn(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.TrimRight(h, ".")
	return strings.Join(strings.Fields(h), "_")
}
