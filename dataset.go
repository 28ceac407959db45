package csvload

import (
	"fmt"
	"strings"
)

// Dataset represents the contents of one parsed file: an ordered sequence of
// records sharing the column set given by the header.
type Dataset struct {
	// path is the file the dataset was parsed from, empty for combined datasets.
	path string
	// header is the ordered column names taken from the file's first line.
	header Header
	// records is the data rows in file order.
	records []Record
	// columns contains inferred type information for each column.
	columns columnInfoList
}

// newDataset creates a new Dataset and infers column types from the records.
func newDataset(path string, header Header, records []Record) *Dataset {
	return &Dataset{
		path:    path,
		header:  header,
		records: records,
		columns: newColumnInfoList(header, records),
	}
}

// Path returns the file path the dataset was parsed from.
// It is empty for datasets produced by Concat.
func (d *Dataset) Path() string {
	return d.path
}

// Header returns the ordered column names.
func (d *Dataset) Header() Header {
	return d.header
}

// Records returns the data rows in file order.
func (d *Dataset) Records() []Record {
	return d.records
}

// NumRows returns the number of data rows.
func (d *Dataset) NumRows() int {
	return len(d.records)
}

// Equal compares two datasets by header and records, ignoring path.
func (d *Dataset) Equal(d2 *Dataset) bool {
	if !d.header.Equal(d2.header) {
		return false
	}
	if len(d.records) != len(d2.records) {
		return false
	}
	for i, record := range d.records {
		if !record.Equal(d2.records[i]) {
			return false
		}
	}
	return true
}

// columnIndex returns a lookup from column name to position.
func (d *Dataset) columnIndex() map[string]int {
	index := make(map[string]int, len(d.header))
	for i, name := range d.header {
		index[name] = i
	}
	return index
}

// Concat merges datasets row-wise into one combined Dataset, preserving the
// input order of datasets and then rows within each dataset.
//
// Every dataset must carry the same column SET as the first one; datasets
// whose columns differ make Concat fail with ErrSchemaMismatch naming the
// offending files. Column order may differ between datasets: rows are
// re-projected onto the first dataset's column order.
func Concat(datasets ...*Dataset) (*Dataset, error) {
	if len(datasets) == 0 {
		return nil, fmt.Errorf("%w: no datasets to concatenate", ErrEmptyPathList)
	}

	base := datasets[0]
	baseIndex := base.columnIndex()

	var mismatched []string
	for _, ds := range datasets[1:] {
		if !sameColumnSet(baseIndex, ds.header) {
			mismatched = append(mismatched, ds.path)
		}
	}
	if len(mismatched) > 0 {
		return nil, fmt.Errorf("%w: columns of %s differ from %s",
			ErrSchemaMismatch, strings.Join(mismatched, ", "), base.path)
	}

	total := 0
	for _, ds := range datasets {
		total += len(ds.records)
	}

	combined := make([]Record, 0, total)
	combined = append(combined, base.records...)

	for _, ds := range datasets[1:] {
		if ds.header.Equal(base.header) {
			combined = append(combined, ds.records...)
			continue
		}

		// Same column set in a different order: re-project each row.
		mapping := make([]int, len(base.header))
		dsIndex := ds.columnIndex()
		for i, name := range base.header {
			mapping[i] = dsIndex[name]
		}
		for _, record := range ds.records {
			row := make(Record, len(base.header))
			for i, src := range mapping {
				if src < len(record) {
					row[i] = record[src]
				}
			}
			combined = append(combined, row)
		}
	}

	return newDataset("", base.header, combined), nil
}

// sameColumnSet reports whether header matches the column set in index,
// ignoring order.
func sameColumnSet(index map[string]int, header Header) bool {
	if len(header) != len(index) {
		return false
	}
	for _, name := range header {
		if _, ok := index[name]; !ok {
			return false
		}
	}
	return true
}
