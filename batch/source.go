package batch

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/sunkingbms/litmos-two/types"
)

// RecordSource streams records one at a time. Next returns io.EOF after
// the last record; any other error aborts the job as a source failure.
type RecordSource interface {
	Next() (types.Record, error)
}

// csvSource reads delimited input with a header row and yields one
// Record per data row, pairing header names with cell values.
type csvSource struct {
	reader  *csv.Reader
	header  []string
	started bool
}

var _ RecordSource = &csvSource{}

func NewCSVSource(r io.Reader) RecordSource {
	cr := csv.NewReader(r)
	// rows may be ragged; missing trailing cells become absent fields
	cr.FieldsPerRecord = -1
	return &csvSource{reader: cr}
}

func (s *csvSource) Next() (types.Record, error) {
	if !s.started {
		header, err := s.reader.Read()
		if err != nil {
			return nil, err
		}
		s.header = header
		s.started = true
	}

	row, err := s.reader.Read()
	if err != nil {
		return nil, err
	}

	rec := make(types.Record, len(s.header))
	for i, name := range s.header {
		if i < len(row) {
			rec[name] = row[i]
		}
	}
	return rec, nil
}

// sliceSource serves a fixed set of records; used by tests and by
// queue-fed batches that arrive fully materialized.
type sliceSource struct {
	records []types.Record
	pos     int
}

var _ RecordSource = &sliceSource{}

func NewSliceSource(records []types.Record) RecordSource {
	return &sliceSource{records: records}
}

func (s *sliceSource) Next() (types.Record, error) {
	if s.pos >= len(s.records) {
		return nil, io.EOF
	}
	rec := s.records[s.pos]
	s.pos++
	return rec, nil
}

// CountCSVRows counts non-blank data rows (header excluded), reading at
// most limit+1 rows so oversized uploads fail fast. Intake validation
// uses it before any job exists.
func CountCSVRows(r io.Reader, limit int) (int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	if _, err := cr.Read(); err != nil {
		return 0, err
	}

	count := 0
	for {
		row, err := cr.Read()
		if err == io.EOF {
			return count, nil
		}
		if err != nil {
			return count, err
		}
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				count++
				break
			}
		}
		if limit > 0 && count > limit {
			return count, nil
		}
	}
}
