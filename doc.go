// Package csvload reads delimited files into in-memory datasets and
// bulk-appends their rows to an existing table in a relational database
// reachable through a caller-supplied *sql.DB.
//
// csvload never creates or alters schema: the target table must already
// exist and its columns must match the column headers of the input files.
// Rows are always appended, never replaced or upserted, so repeating a load
// duplicates rows.
//
// # Features
//
//   - Read CSV, TSV, Excel (XLSX), and Parquet files
//   - Automatic handling of compressed files (gzip, bzip2, xz, zstandard)
//   - Column type inference (INTEGER, REAL, datetime, TEXT) so the database
//     receives typed values instead of raw strings
//   - Concatenation of multiple files with column-set validation
//   - Batched multi-row INSERT statements with configurable batch size
//   - Placeholder and quoting styles for PostgreSQL, MySQL, SQL Server,
//     Oracle, and SQLite
//
// # Basic Usage
//
// The simplest way to load files is the Load function:
//
//	result, err := csvload.Load(ctx, db, "events", "jan.csv", "feb.csv")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("inserted %d rows in %d batches\n", result.Rows, result.Batches)
//
// # Advanced Usage
//
// For more control, configure a Loader:
//
//	loader := csvload.NewLoader(db).
//	    WithDialect(csvload.DialectPostgres).
//	    WithBatchSize(500)
//
//	result, err := loader.Load(ctx, "warehouse.events", "jan.csv.gz", "feb.csv.gz")
//
// # Error Handling
//
// Every failure is surfaced to the caller as a distinct, inspectable error
// that names the file or table involved. Use errors.Is against the exported
// sentinel errors (ErrFileNotFound, ErrEmptyFile, ErrSchemaMismatch,
// ErrWriteFailed, ...) to branch on the failure class. A failed load never
// reports success: the append runs inside a single transaction that is
// rolled back when any batch fails.
//
// # Connection Ownership
//
// The *sql.DB handle is owned by the caller. csvload never opens, pools, or
// closes connections, and callers must not use the handle concurrently from
// another goroutine during a load.
package csvload
