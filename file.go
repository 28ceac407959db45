package csvload

import (
	"bytes"
	"compress/bzip2"
	"compress/gzip"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	pqfile "github.com/apache/arrow/go/v18/parquet/file"
	"github.com/apache/arrow/go/v18/parquet/pqarrow"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
	"github.com/xuri/excelize/v2"
)

// FileType represents supported input file types.
type FileType int

const (
	// FileTypeCSV represents CSV file type
	FileTypeCSV FileType = iota
	// FileTypeTSV represents TSV file type
	FileTypeTSV
	// FileTypeXLSX represents Excel XLSX file type
	FileTypeXLSX
	// FileTypeParquet represents Parquet file type
	FileTypeParquet
	// FileTypeUnsupported represents unsupported file type
	FileTypeUnsupported
)

// File extensions
const (
	// extCSV is the CSV file extension
	extCSV = ".csv"
	// extTSV is the TSV file extension
	extTSV = ".tsv"
	// extXLSX is the Excel XLSX file extension
	extXLSX = ".xlsx"
	// extParquet is the Parquet file extension
	extParquet = ".parquet"
	// extGZ is the gzip compression extension
	extGZ = ".gz"
	// extBZ2 is the bzip2 compression extension
	extBZ2 = ".bz2"
	// extXZ is the xz compression extension
	extXZ = ".xz"
	// extZSTD is the zstd compression extension
	extZSTD = ".zst"
)

// file represents a single input file that can be parsed into a Dataset.
type file struct {
	path     string
	fileType FileType
}

// newFile creates a new file with its type detected from the extension.
func newFile(path string) *file {
	return &file{
		path:     path,
		fileType: detectFileType(path),
	}
}

// detectFileType detects file type from extension, considering compressed files.
func detectFileType(path string) FileType {
	basePath := strings.ToLower(path)
	for _, ext := range []string{extGZ, extBZ2, extXZ, extZSTD} {
		if strings.HasSuffix(basePath, ext) {
			basePath = strings.TrimSuffix(basePath, ext)
			break
		}
	}

	switch filepath.Ext(basePath) {
	case extCSV:
		return FileTypeCSV
	case extTSV:
		return FileTypeTSV
	case extXLSX:
		return FileTypeXLSX
	case extParquet:
		return FileTypeParquet
	default:
		return FileTypeUnsupported
	}
}

// isSupportedFile checks if the file has a supported extension.
func isSupportedFile(fileName string) bool {
	return detectFileType(fileName) != FileTypeUnsupported
}

// isGZ returns true if file is gzip compressed
func (f *file) isGZ() bool {
	return strings.HasSuffix(strings.ToLower(f.path), extGZ)
}

// isBZ2 returns true if file is bzip2 compressed
func (f *file) isBZ2() bool {
	return strings.HasSuffix(strings.ToLower(f.path), extBZ2)
}

// isXZ returns true if file is xz compressed
func (f *file) isXZ() bool {
	return strings.HasSuffix(strings.ToLower(f.path), extXZ)
}

// isZSTD returns true if file is zstd compressed
func (f *file) isZSTD() bool {
	return strings.HasSuffix(strings.ToLower(f.path), extZSTD)
}

// openReader opens the file and returns a reader that handles decompression.
func (f *file) openReader() (io.Reader, func() error, error) {
	osFile, err := os.Open(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("%w: %s", ErrFileNotFound, f.path)
		}
		return nil, nil, fmt.Errorf("csvload: failed to open %s: %w", f.path, err)
	}

	var reader io.Reader = osFile
	closer := osFile.Close

	switch {
	case f.isGZ():
		gzReader, err := gzip.NewReader(osFile)
		if err != nil {
			_ = osFile.Close()
			return nil, nil, fmt.Errorf("%w: %s: %s", ErrInvalidData, f.path, err)
		}
		reader = gzReader
		closer = func() error {
			_ = gzReader.Close()
			return osFile.Close()
		}
	case f.isBZ2():
		reader = bzip2.NewReader(osFile)
	case f.isXZ():
		xzReader, err := xz.NewReader(osFile)
		if err != nil {
			_ = osFile.Close()
			return nil, nil, fmt.Errorf("%w: %s: %s", ErrInvalidData, f.path, err)
		}
		reader = xzReader
	case f.isZSTD():
		decoder, err := zstd.NewReader(osFile)
		if err != nil {
			_ = osFile.Close()
			return nil, nil, fmt.Errorf("%w: %s: %s", ErrInvalidData, f.path, err)
		}
		reader = decoder
		closer = func() error {
			decoder.Close()
			return osFile.Close()
		}
	}

	return reader, closer, nil
}

// parse converts the file into a Dataset.
func (f *file) parse() (*Dataset, error) {
	switch f.fileType {
	case FileTypeCSV:
		return f.parseDelimited(csvDelimiter)
	case FileTypeTSV:
		return f.parseDelimited(tsvDelimiter)
	case FileTypeXLSX:
		return f.parseXLSX()
	case FileTypeParquet:
		return f.parseParquet()
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, f.path)
	}
}

// parseDelimited parses CSV or TSV content with the given delimiter.
// The first line is the header; the remaining lines are the records.
func (f *file) parseDelimited(delimiter rune) (*Dataset, error) {
	reader, closer, err := f.openReader()
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = closer()
	}()

	csvReader := csv.NewReader(reader)
	csvReader.Comma = delimiter
	rows, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %s", ErrInvalidData, f.path, err)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyFile, f.path)
	}

	header := newHeader(rows[0])
	if err := validateColumnNames(rows[0]); err != nil {
		return nil, fmt.Errorf("%w: %s: %s", ErrInvalidData, f.path, err)
	}

	records := make([]Record, 0, len(rows)-1)
	for i := 1; i < len(rows); i++ {
		records = append(records, newRecord(rows[i]))
	}

	return newDataset(f.path, header, records), nil
}

// parseXLSX parses the first sheet of an XLSX workbook. The first row is the
// header; shorter rows are padded with empty fields.
func (f *file) parseXLSX() (*Dataset, error) {
	reader, closer, err := f.openReader()
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = closer()
	}()

	xlsxFile, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %s", ErrInvalidData, f.path, err)
	}
	defer func() {
		_ = xlsxFile.Close()
	}()

	sheetNames := xlsxFile.GetSheetList()
	if len(sheetNames) == 0 {
		return nil, fmt.Errorf("%w: %s: no sheets found", ErrEmptyFile, f.path)
	}

	rows, err := xlsxFile.GetRows(sheetNames[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %s", ErrInvalidData, f.path, err)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s: sheet %s is empty", ErrEmptyFile, f.path, sheetNames[0])
	}

	if err := validateColumnNames(rows[0]); err != nil {
		return nil, fmt.Errorf("%w: %s: %s", ErrInvalidData, f.path, err)
	}
	header := make(Header, len(rows[0]))
	copy(header, rows[0])

	records := make([]Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		record := make(Record, len(header))
		for j := range header {
			if j < len(row) {
				record[j] = row[j]
			}
		}
		records = append(records, record)
	}

	return newDataset(f.path, header, records), nil
}

// parseParquet parses a Parquet file. Column names come from the file schema
// and every value is rendered to its string form before type inference, so
// Parquet input behaves exactly like delimited input downstream.
func (f *file) parseParquet() (*Dataset, error) {
	reader, closer, err := f.openReader()
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = closer()
	}()

	// Parquet requires random access, so the whole file is read into memory.
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %s", ErrInvalidData, f.path, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyFile, f.path)
	}

	pqReader, err := pqfile.NewParquetReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %s", ErrInvalidData, f.path, err)
	}
	defer func() {
		_ = pqReader.Close()
	}()

	arrowReader, err := pqarrow.NewFileReader(pqReader, pqarrow.ArrowReadProperties{}, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %s", ErrInvalidData, f.path, err)
	}

	arrowTable, err := arrowReader.ReadTable(context.Background())
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %s", ErrInvalidData, f.path, err)
	}
	defer arrowTable.Release()

	schema := arrowTable.Schema()
	header := make(Header, schema.NumFields())
	for i, field := range schema.Fields() {
		header[i] = field.Name
	}
	if err := validateColumnNames(header); err != nil {
		return nil, fmt.Errorf("%w: %s: %s", ErrInvalidData, f.path, err)
	}

	tableReader := array.NewTableReader(arrowTable, 0)
	defer tableReader.Release()

	var records []Record
	for tableReader.Next() {
		batch := tableReader.Record()
		numRows := batch.NumRows()
		for i := range numRows {
			row := make(Record, batch.NumCols())
			for j, col := range batch.Columns() {
				row[j] = formatArrowValue(col, int(i))
			}
			records = append(records, row)
		}
	}
	if err := tableReader.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s: %s", ErrInvalidData, f.path, err)
	}

	return newDataset(f.path, header, records), nil
}

// formatArrowValue renders a single Arrow array element as the string form
// that delimited input would have carried. Nulls become empty fields.
func formatArrowValue(col arrow.Array, row int) string {
	if col.IsNull(row) {
		return ""
	}

	switch arr := col.(type) {
	case *array.String:
		return arr.Value(row)
	case *array.Boolean:
		return strconv.FormatBool(arr.Value(row))
	case *array.Int8:
		return strconv.FormatInt(int64(arr.Value(row)), 10)
	case *array.Int16:
		return strconv.FormatInt(int64(arr.Value(row)), 10)
	case *array.Int32:
		return strconv.FormatInt(int64(arr.Value(row)), 10)
	case *array.Int64:
		return strconv.FormatInt(arr.Value(row), 10)
	case *array.Uint8:
		return strconv.FormatUint(uint64(arr.Value(row)), 10)
	case *array.Uint16:
		return strconv.FormatUint(uint64(arr.Value(row)), 10)
	case *array.Uint32:
		return strconv.FormatUint(uint64(arr.Value(row)), 10)
	case *array.Uint64:
		return strconv.FormatUint(arr.Value(row), 10)
	case *array.Float32:
		return strconv.FormatFloat(float64(arr.Value(row)), 'g', -1, 32)
	case *array.Float64:
		return strconv.FormatFloat(arr.Value(row), 'g', -1, 64)
	default:
		return col.ValueStr(row)
	}
}
