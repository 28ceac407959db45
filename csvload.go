package csvload

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// ReadFile parses a single file into a Dataset. The file's first line (or
// first row, for XLSX and Parquet input) becomes the column header and the
// remaining lines become the records, in file order.
//
// Supported file formats:
//   - CSV files (.csv)
//   - TSV files (.tsv)
//   - Excel files (.xlsx)
//   - Parquet files (.parquet)
//   - Compressed versions of the text formats (.gz, .bz2, .xz, .zst)
//
// Every failure is returned as an error carrying the file path: missing
// files report ErrFileNotFound, files without content or header report
// ErrEmptyFile, and unparseable content reports ErrInvalidData. ReadFile
// never returns a partial Dataset alongside an error.
//
// Example usage:
//
//	ds, err := csvload.ReadFile("data/events.csv.gz")
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Printf("%d rows, columns %v\n", ds.NumRows(), ds.Header())
func ReadFile(path string) (*Dataset, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("csvload: path cannot be empty")
	}

	f := newFile(path)
	if f.fileType == FileTypeUnsupported {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	return f.parse()
}

// Load reads every file in paths, concatenates them, and appends the
// combined rows to the named pre-existing table through db, using the
// default batch size (DefaultBatchSize rows per round trip) and the generic
// placeholder style.
//
// Use a Loader for per-load configuration (batch size, SQL dialect,
// progress reporting):
//
//	result, err := csvload.NewLoader(db).
//		WithDialect(csvload.DialectPostgres).
//		WithBatchSize(500).
//		Load(ctx, "warehouse.events", "jan.csv", "feb.csv")
//
// Load validates the path list before any I/O (an empty list reports
// ErrEmptyPathList), requires every file to share the first file's column
// set (ErrSchemaMismatch otherwise), and runs the append in one transaction
// so a database failure rolls back every row and is reported as
// ErrWriteFailed. The table must already exist; Load never issues DDL.
func Load(ctx context.Context, db *sql.DB, table string, paths ...string) (*Result, error) {
	return NewLoader(db).Load(ctx, table, paths...)
}
