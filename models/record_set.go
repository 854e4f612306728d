package models

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNoViolations    = errors.New("no violations provided")
	ErrMalformedRecord = errors.New("malformed violation record")
	ErrUnknownCategory = errors.New("unknown violation type")
	ErrDuplicateRecord = errors.New("duplicate violation id")
)

// IsInputError reports whether err was caused by the submitted records
// rather than by the generator.
func IsInputError(err error) bool {
	return errors.Is(err, ErrNoViolations) ||
		errors.Is(err, ErrMalformedRecord) ||
		errors.Is(err, ErrUnknownCategory) ||
		errors.Is(err, ErrDuplicateRecord)
}

// Summary holds the statistics shown on the cover, analytics and conclusion pages.
type Summary struct {
	Total       int
	TopCategory string
	Counts      map[string]int
}

// RecordSet is a validated, ordered collection of violation records.
type RecordSet struct {
	records []ViolationRecord
	summary Summary
}

// NewRecordSet validates the records and computes the summary once.
func NewRecordSet(records []ViolationRecord) (*RecordSet, error) {
	if len(records) == 0 {
		return nil, ErrNoViolations
	}

	seen := make(map[Text]int, len(records))
	out := make([]ViolationRecord, 0, len(records))
	for i, r := range records {
		r.Type = strings.TrimSpace(r.Type)
		r.ImageURL = strings.TrimSpace(r.ImageURL)
		if r.ID == "" {
			return nil, fmt.Errorf("record %d: missing id: %w", i, ErrMalformedRecord)
		}
		if r.Type == "" {
			return nil, fmt.Errorf("record %q: missing type: %w", r.ID, ErrMalformedRecord)
		}
		if TypeIndex(r.Type) < 0 {
			return nil, fmt.Errorf("record %q: %q: %w", r.ID, r.Type, ErrUnknownCategory)
		}
		if j, ok := seen[r.ID]; ok {
			return nil, fmt.Errorf("records %d and %d share id %q: %w", j, i, r.ID, ErrDuplicateRecord)
		}
		seen[r.ID] = i
		out = append(out, r)
	}

	return &RecordSet{records: out, summary: Summarize(out)}, nil
}

// Summarize derives the summary statistics. It is pure: the same records
// always give the same summary.
func Summarize(records []ViolationRecord) Summary {
	s := Summary{Total: len(records), Counts: make(map[string]int)}
	for _, r := range records {
		s.Counts[r.Type]++
	}
	// Ties go to the alphabetically first category.
	best := 0
	for t, c := range s.Counts {
		if c > best || (c == best && t < s.TopCategory) {
			best = c
			s.TopCategory = t
		}
	}
	return s
}

// Len returns the number of records.
func (s *RecordSet) Len() int {
	return len(s.records)
}

// Records returns the records in ingestion order.
func (s *RecordSet) Records() []ViolationRecord {
	out := make([]ViolationRecord, len(s.records))
	copy(out, s.records)
	return out
}

// ByCategory returns the records of one category in ingestion order.
func (s *RecordSet) ByCategory(category string) []ViolationRecord {
	var out []ViolationRecord
	for _, r := range s.records {
		if r.Type == category {
			out = append(out, r)
		}
	}
	return out
}

// Summary returns the precomputed summary. Counts is a copy.
func (s *RecordSet) Summary() Summary {
	counts := make(map[string]int, len(s.summary.Counts))
	for k, v := range s.summary.Counts {
		counts[k] = v
	}
	return Summary{Total: s.summary.Total, TopCategory: s.summary.TopCategory, Counts: counts}
}
