package data

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go.uber.org/multierr"
)

var missingTokens = map[string]bool{"": true, "na": true, "nan": true, "null": true, "none": true}

// ParseValue turns a raw CSV cell into a Value. Cells that parse as floats
// become numbers unless asLabel is set.
func ParseValue(s string, asLabel bool) Value {
	s = strings.TrimSpace(s)
	if missingTokens[strings.ToLower(s)] {
		return Missing()
	}
	if asLabel {
		return Label(s)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return Number(f)
	}
	return Label(s)
}

func ParseOutcome(s string) (Outcome, error) {
	s = strings.TrimSpace(s)
	if missingTokens[strings.ToLower(s)] {
		return Unknown, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Unknown, fmt.Errorf("outcome %q: %w", s, err)
	}
	switch f {
	case 0:
		return Good, nil
	case 1:
		return Bad, nil
	}
	return Unknown, fmt.Errorf("outcome %q is not 0 or 1", s)
}

// Table is a parsed CSV file with a header row.
type Table struct {
	Header []string
	Rows   [][]string
}

func ReadTable(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseTable(f)
}

func ParseTable(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("%w: csv has no data rows", ErrInvalidDataset)
	}
	return &Table{Header: rows[0], Rows: rows[1:]}, nil
}

func (t *Table) column(name string) (int, error) {
	for i, h := range t.Header {
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: column %q not found", ErrInvalidDataset, name)
}

// Dataset extracts a predictor/target pair. Every malformed row is reported,
// not just the first one.
func (t *Table) Dataset(predictor, target string, asLabel bool) (*Dataset, error) {
	pi, err := t.column(predictor)
	if err != nil {
		return nil, err
	}
	ti, err := t.column(target)
	if err != nil {
		return nil, err
	}
	values := make([]Value, 0, len(t.Rows))
	outcomes := make([]Outcome, 0, len(t.Rows))
	var errs error
	for i, row := range t.Rows {
		if pi >= len(row) || ti >= len(row) {
			errs = multierr.Append(errs, fmt.Errorf("row %d: %d fields", i+2, len(row)))
			continue
		}
		o, err := ParseOutcome(row[ti])
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("row %d: %w", i+2, err))
			continue
		}
		values = append(values, ParseValue(row[pi], asLabel))
		outcomes = append(outcomes, o)
	}
	if errs != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDataset, errs)
	}
	return NewDataset(predictor, target, values, outcomes)
}
