package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// tableReader reads a tab separated file with a header row and looks
// cells up by column name.
type tableReader struct {
	name   string
	cr     *csv.Reader
	header []string
	cols   map[string]int
}

func newTableReader(r io.Reader, name string, required []string) (*tableReader, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%s: empty file, expected a header row", name)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read header: %w", name, err)
	}

	t := &tableReader{
		name:   name,
		cr:     cr,
		header: make([]string, len(header)),
		cols:   make(map[string]int, len(header)),
	}
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		t.header[i] = h
		t.cols[h] = i
	}

	var missing []string
	for _, col := range required {
		if _, ok := t.cols[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%s: missing required column(s) %s", name, strings.Join(missing, ", "))
	}
	return t, nil
}

// next returns the next record, or io.EOF
func (t *tableReader) next() ([]string, error) {
	rec, err := t.cr.Read()
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("%s: %w", t.name, err)
	}
	return rec, err
}

// get returns the trimmed cell for col, or "" when the column is absent
// or the record is short.
func (t *tableReader) get(rec []string, col string) string {
	i, ok := t.cols[col]
	if !ok || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

// sameHeader reports whether other carries exactly the same columns in the same order
func (t *tableReader) sameHeader(other *tableReader) bool {
	if len(t.header) != len(other.header) {
		return false
	}
	for i := range t.header {
		if t.header[i] != other.header[i] {
			return false
		}
	}
	return true
}

// parseHolding parses a position VALUE or SSHPRNAMT cell. A negative
// amount is malformed and stored as 0.
func parseHolding(s string) (int64, bool) {
	v, ok := parseAmount(s)
	if !ok || v < 0 {
		return 0, false
	}
	return v, true
}

// parseAmount parses a numeric cell. Blank cells count as zero and are
// reported as not ok, as are unparseable ones. Float notation is accepted
// and truncated.
func parseAmount(s string) (int64, bool) {
	if s == "" {
		return 0, false
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int64(f), true
}
