package csvload

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// Progress describes one completed step of a load. Read steps carry the file
// path that was just parsed; insert steps carry the running row count.
type Progress struct {
	// Path is the file that was just read, empty for insert steps.
	Path string
	// Table is the target table name.
	Table string
	// Rows is the number of rows appended so far.
	Rows int64
	// TotalRows is the total number of rows that will be appended.
	TotalRows int64
}

// Result reports what a successful load did.
type Result struct {
	// Table is the target table name.
	Table string
	// Files is the number of input files read.
	Files int
	// Rows is the total number of rows appended.
	Rows int64
	// Batches is the number of INSERT round trips executed.
	Batches int
}

// Loader appends the contents of delimited files to an existing database
// table. Configure it by chaining the With* methods, then call Load.
//
// A Loader holds no state between loads and the zero configuration
// (DefaultBatchSize rows per round trip, generic placeholders) works for
// SQLite and MySQL-style drivers. The *sql.DB is owned by the caller.
type Loader struct {
	db         *sql.DB
	batchSize  BatchSize
	dialect    Dialect
	onProgress func(Progress)
	validator  *validator
}

// NewLoader creates a Loader that writes through the given database handle.
func NewLoader(db *sql.DB) *Loader {
	return &Loader{
		db:        db,
		batchSize: NewBatchSize(DefaultBatchSize),
		dialect:   DialectGeneric,
		validator: newValidator(),
	}
}

// WithBatchSize sets the number of rows sent per INSERT round trip.
// Sizes below MinBatchSize fall back to DefaultBatchSize. The batch size is
// purely a round-trip knob: it never changes which rows end up in the table.
//
// Returns the loader for method chaining.
func (l *Loader) WithBatchSize(size int) *Loader {
	l.batchSize = NewBatchSize(size)
	return l
}

// WithDialect sets the placeholder and quoting style for the target
// database.
//
// Returns the loader for method chaining.
func (l *Loader) WithDialect(d Dialect) *Loader {
	l.dialect = d
	return l
}

// WithProgress registers a callback invoked after each file read and after
// each executed batch. The callback runs synchronously on the loading
// goroutine.
//
// Returns the loader for method chaining.
func (l *Loader) WithProgress(fn func(Progress)) *Loader {
	l.onProgress = fn
	return l
}

// Load reads every file in paths, concatenates the datasets preserving file
// order and then row order, and appends the combined rows to table.
//
// The path list must be non-empty and every file must exist and carry the
// same column set as the first one; otherwise Load fails before writing
// anything. The append runs in a single transaction: either every row is
// inserted or none are, and any database failure is returned wrapped in
// ErrWriteFailed with the table name. Load is not idempotent: calling it
// twice appends the rows twice.
func (l *Loader) Load(ctx context.Context, table string, paths ...string) (*Result, error) {
	if strings.TrimSpace(table) == "" {
		return nil, errors.New("csvload: table name cannot be empty")
	}
	if err := l.validator.validatePaths(paths); err != nil {
		return nil, err
	}

	datasets := make([]*Dataset, 0, len(paths))
	for _, path := range paths {
		ds, err := ReadFile(path)
		if err != nil {
			return nil, err
		}
		datasets = append(datasets, ds)
		l.notify(Progress{Path: path, Table: table})
	}

	combined, err := Concat(datasets...)
	if err != nil {
		return nil, err
	}

	result, err := l.appendDataset(ctx, table, combined)
	if err != nil {
		return nil, err
	}
	result.Files = len(paths)
	return result, nil
}

// appendDataset writes every record of the dataset to the table in batches
// inside one transaction.
func (l *Loader) appendDataset(ctx context.Context, table string, ds *Dataset) (*Result, error) {
	records := ds.Records()
	total := int64(len(records))
	result := &Result{Table: table}

	if total == 0 {
		return result, nil
	}

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, NewErrorContext("append", "").WithTable(table).Wrap(fmt.Errorf("%w: %s", ErrWriteFailed, err))
	}

	columns := ds.Header()
	inserted := int64(0)
	batchSize := l.batchSize.Int()

	var insertBatch func(batch []Record) error
	if l.dialect.supportsMultiRowValues() {
		insertBatch = func(batch []Record) error {
			query := l.dialect.InsertQuery(table, columns, len(batch))
			args := l.bindArgs(batch, ds.columns)
			_, err := tx.ExecContext(ctx, query, args...)
			return err
		}
	} else {
		// Dialects without multi-row VALUES get a prepared single-row
		// INSERT executed once per record of the batch.
		stmt, err := tx.PrepareContext(ctx, l.dialect.InsertQuery(table, columns, 1))
		if err != nil {
			_ = tx.Rollback()
			return nil, NewErrorContext("append", "").WithTable(table).Wrap(fmt.Errorf("%w: %s", ErrWriteFailed, err))
		}
		defer func() {
			_ = stmt.Close()
		}()
		insertBatch = func(batch []Record) error {
			for _, record := range batch {
				if _, err := stmt.ExecContext(ctx, l.bindArgs([]Record{record}, ds.columns)...); err != nil {
					return err
				}
			}
			return nil
		}
	}

	for start := 0; start < len(records); start += batchSize {
		end := min(start+batchSize, len(records))
		batch := records[start:end]

		if err := insertBatch(batch); err != nil {
			_ = tx.Rollback()
			return nil, NewErrorContext("append", "").WithTable(table).Wrap(fmt.Errorf("%w: %s", ErrWriteFailed, err))
		}

		inserted += int64(len(batch))
		result.Batches++
		l.notify(Progress{Table: table, Rows: inserted, TotalRows: total})
	}

	if err := tx.Commit(); err != nil {
		return nil, NewErrorContext("append", "").WithTable(table).Wrap(fmt.Errorf("%w: %s", ErrWriteFailed, err))
	}

	result.Rows = inserted
	return result, nil
}

// bindArgs flattens records into driver arguments, converting each field to
// the value matching its column's inferred type.
func (l *Loader) bindArgs(batch []Record, columns columnInfoList) []any {
	args := make([]any, 0, len(batch)*len(columns))
	for _, record := range batch {
		for i, col := range columns {
			value := ""
			if i < len(record) {
				value = record[i]
			}
			args = append(args, convertValue(value, col.Type))
		}
	}
	return args
}

// notify invokes the progress callback when one is registered.
func (l *Loader) notify(p Progress) {
	if l.onProgress != nil {
		l.onProgress(p)
	}
}
