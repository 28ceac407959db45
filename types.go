package csvload

import (
	"fmt"
	"strconv"
	"strings"
)

// Batch size constants (rows per INSERT round trip)
const (
	// DefaultBatchSize is the default number of rows per INSERT round trip
	DefaultBatchSize = 1000
	// MinBatchSize is the minimum allowed rows per round trip
	MinBatchSize = 1
)

// File format delimiters
const (
	// csvDelimiter is the delimiter for CSV files
	csvDelimiter = ','
	// tsvDelimiter is the delimiter for TSV files
	tsvDelimiter = '\t'
)

// Header is the ordered list of column names shared by all rows of a Dataset.
type Header []string

// newHeader creates a new Header.
func newHeader(h []string) Header {
	return Header(h)
}

// Equal reports whether two headers have the same columns in the same order.
func (h Header) Equal(h2 Header) bool {
	if len(h) != len(h2) {
		return false
	}
	for i, v := range h {
		if v != h2[i] {
			return false
		}
	}
	return true
}

// Record is a single row of string fields, in header order.
type Record []string

// newRecord creates a new Record.
func newRecord(r []string) Record {
	return Record(r)
}

// Equal reports whether two records have the same fields in the same order.
func (r Record) Equal(r2 Record) bool {
	if len(r) != len(r2) {
		return false
	}
	for i, v := range r {
		if v != r2[i] {
			return false
		}
	}
	return true
}

// BatchSize represents a batch size with validation.
type BatchSize int

// NewBatchSize creates a new BatchSize, falling back to DefaultBatchSize
// when size is below MinBatchSize.
func NewBatchSize(size int) BatchSize {
	if size < MinBatchSize {
		return BatchSize(DefaultBatchSize)
	}
	return BatchSize(size)
}

// Int returns the int value of BatchSize.
func (bs BatchSize) Int() int {
	return int(bs)
}

// String returns the string representation of BatchSize.
func (bs BatchSize) String() string {
	return strconv.Itoa(int(bs))
}

// IsValid checks if the batch size is valid.
func (bs BatchSize) IsValid() bool {
	return int(bs) >= MinBatchSize
}

// validateColumnNames checks for duplicate column names and returns an error
// if found. Comparison is case-sensitive after trimming whitespace.
func validateColumnNames(columns []string) error {
	columnsSeen := make(map[string]bool)
	for _, col := range columns {
		trimmedCol := strings.TrimSpace(col)
		if columnsSeen[trimmedCol] {
			return fmt.Errorf("%w: %s", errDuplicateColumnName, col)
		}
		columnsSeen[trimmedCol] = true
	}
	return nil
}
