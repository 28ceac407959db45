package csvload

import (
	"errors"
	"fmt"
	"strings"
)

// Standard error values for the failure classes a load can hit. Callers can
// branch on them with errors.Is; the wrapped message carries the file path
// or table name that triggered the failure.
var (
	// errDuplicateColumnName is returned when a file header contains duplicate column names
	errDuplicateColumnName = errors.New("duplicate column name")

	// ErrEmptyPathList indicates that no file paths were given to a load
	ErrEmptyPathList = errors.New("csvload: empty file path list")

	// ErrFileNotFound indicates a named input file does not exist
	ErrFileNotFound = errors.New("csvload: file not found")

	// ErrEmptyFile indicates an input file has no content or no header line
	ErrEmptyFile = errors.New("csvload: empty file")

	// ErrInvalidData indicates malformed or unparseable file content
	ErrInvalidData = errors.New("csvload: invalid data format")

	// ErrUnsupportedFormat indicates an unsupported file extension
	ErrUnsupportedFormat = errors.New("csvload: unsupported file format")

	// ErrSchemaMismatch indicates input files whose column sets differ
	ErrSchemaMismatch = errors.New("csvload: column set mismatch")

	// ErrWriteFailed indicates the database rejected the append
	ErrWriteFailed = errors.New("csvload: writing rows to table failed")
)

// ErrorContext provides context for where an error occurred
type ErrorContext struct {
	Operation string
	FilePath  string
	TableName string
}

// NewErrorContext creates a new error context for an operation
func NewErrorContext(operation, filePath string) *ErrorContext {
	return &ErrorContext{
		Operation: operation,
		FilePath:  filePath,
	}
}

// WithTable adds table context to the error
func (ec *ErrorContext) WithTable(tableName string) *ErrorContext {
	ec.TableName = tableName
	return ec
}

// Wrap creates a formatted error with context around baseErr
func (ec *ErrorContext) Wrap(baseErr error) error {
	var parts []string
	parts = append(parts, fmt.Sprintf("csvload: %s failed", ec.Operation))

	if ec.FilePath != "" {
		parts = append(parts, "file: "+ec.FilePath)
	}

	if ec.TableName != "" {
		parts = append(parts, "table: "+ec.TableName)
	}

	context := strings.Join(parts, ", ")
	if baseErr != nil {
		return fmt.Errorf("%s: %w", context, baseErr)
	}
	return errors.New(context)
}
