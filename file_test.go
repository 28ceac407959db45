package csvload

import (
	"compress/gzip"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	"github.com/apache/arrow/go/v18/arrow/memory"
	"github.com/apache/arrow/go/v18/parquet"
	"github.com/apache/arrow/go/v18/parquet/pqarrow"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
	"github.com/xuri/excelize/v2"
)

func TestDetectFileType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want FileType
	}{
		{"data.csv", FileTypeCSV},
		{"data.tsv", FileTypeTSV},
		{"data.xlsx", FileTypeXLSX},
		{"data.parquet", FileTypeParquet},
		{"data.csv.gz", FileTypeCSV},
		{"data.csv.bz2", FileTypeCSV},
		{"data.tsv.xz", FileTypeTSV},
		{"data.csv.zst", FileTypeCSV},
		{"DATA.CSV", FileTypeCSV},
		{"data.txt", FileTypeUnsupported},
		{"data.json", FileTypeUnsupported},
		{"data", FileTypeUnsupported},
		{"data.gz", FileTypeUnsupported},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			if got := detectFileType(tt.path); got != tt.want {
				t.Errorf("detectFileType(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestIsSupportedFile(t *testing.T) {
	t.Parallel()

	if !isSupportedFile("events.csv.gz") {
		t.Error("events.csv.gz should be supported")
	}
	if isSupportedFile("events.log") {
		t.Error("events.log should not be supported")
	}
}

// writeTestFile writes content to name under a temp dir and returns the path.
func writeTestFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadFile_CSV(t *testing.T) {
	t.Parallel()

	path := writeTestFile(t, "users.csv", "name,age\nAlice,30\nBob,25\n")

	ds, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() failed: %v", err)
	}

	if !ds.Header().Equal(newHeader([]string{"name", "age"})) {
		t.Errorf("header = %v, want [name age]", ds.Header())
	}
	if ds.NumRows() != 2 {
		t.Fatalf("expected 2 rows, got %d", ds.NumRows())
	}
	if !ds.Records()[0].Equal(newRecord([]string{"Alice", "30"})) {
		t.Errorf("first record = %v, want [Alice 30]", ds.Records()[0])
	}
	if ds.Path() != path {
		t.Errorf("dataset path = %q, want %q", ds.Path(), path)
	}
}

func TestReadFile_TSV(t *testing.T) {
	t.Parallel()

	path := writeTestFile(t, "users.tsv", "name\tage\nAlice\t30\n")

	ds, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() failed: %v", err)
	}
	if !ds.Records()[0].Equal(newRecord([]string{"Alice", "30"})) {
		t.Errorf("first record = %v, want [Alice 30]", ds.Records()[0])
	}
}

func TestReadFile_QuotedFields(t *testing.T) {
	t.Parallel()

	path := writeTestFile(t, "users.csv", "name,note\n\"Smith, Jane\",\"said \"\"hi\"\"\"\n")

	ds, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() failed: %v", err)
	}
	if !ds.Records()[0].Equal(newRecord([]string{"Smith, Jane", `said "hi"`})) {
		t.Errorf("first record = %v", ds.Records()[0])
	}
}

func TestReadFile_Compressed(t *testing.T) {
	t.Parallel()

	const content = "name,age\nAlice,30\nBob,25\n"

	t.Run("gzip", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "users.csv.gz")
		f, err := os.Create(path) //nolint:gosec
		if err != nil {
			t.Fatal(err)
		}
		gzWriter := gzip.NewWriter(f)
		if _, err := gzWriter.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
		if err := gzWriter.Close(); err != nil {
			t.Fatal(err)
		}
		if err := f.Close(); err != nil {
			t.Fatal(err)
		}

		assertUsersDataset(t, path)
	})

	t.Run("xz", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "users.csv.xz")
		f, err := os.Create(path) //nolint:gosec
		if err != nil {
			t.Fatal(err)
		}
		xzWriter, err := xz.NewWriter(f)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := xzWriter.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
		if err := xzWriter.Close(); err != nil {
			t.Fatal(err)
		}
		if err := f.Close(); err != nil {
			t.Fatal(err)
		}

		assertUsersDataset(t, path)
	})

	t.Run("zstd", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "users.csv.zst")
		f, err := os.Create(path) //nolint:gosec
		if err != nil {
			t.Fatal(err)
		}
		encoder, err := zstd.NewWriter(f)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := encoder.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
		if err := encoder.Close(); err != nil {
			t.Fatal(err)
		}
		if err := f.Close(); err != nil {
			t.Fatal(err)
		}

		assertUsersDataset(t, path)
	})
}

// assertUsersDataset checks the two-row users fixture shared by the
// compression subtests.
func assertUsersDataset(t *testing.T, path string) {
	t.Helper()

	ds, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile(%s) failed: %v", path, err)
	}
	if !ds.Header().Equal(newHeader([]string{"name", "age"})) {
		t.Errorf("header = %v, want [name age]", ds.Header())
	}
	if ds.NumRows() != 2 {
		t.Fatalf("expected 2 rows, got %d", ds.NumRows())
	}
	if !ds.Records()[1].Equal(newRecord([]string{"Bob", "25"})) {
		t.Errorf("second record = %v, want [Bob 25]", ds.Records()[1])
	}
}

func TestReadFile_XLSX(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "users.xlsx")

	xlsxFile := excelize.NewFile()
	cells := map[string]any{
		"A1": "name", "B1": "age",
		"A2": "Alice", "B2": 30,
		"A3": "Bob", "B3": 25,
	}
	for cell, value := range cells {
		if err := xlsxFile.SetCellValue("Sheet1", cell, value); err != nil {
			t.Fatal(err)
		}
	}
	if err := xlsxFile.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	if err := xlsxFile.Close(); err != nil {
		t.Fatal(err)
	}

	ds, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() failed: %v", err)
	}
	if !ds.Header().Equal(newHeader([]string{"name", "age"})) {
		t.Errorf("header = %v, want [name age]", ds.Header())
	}
	if ds.NumRows() != 2 {
		t.Fatalf("expected 2 rows, got %d", ds.NumRows())
	}
	if !ds.Records()[0].Equal(newRecord([]string{"Alice", "30"})) {
		t.Errorf("first record = %v, want [Alice 30]", ds.Records()[0])
	}
}

func TestReadFile_Parquet(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "users.parquet")

	schema := arrow.NewSchema([]arrow.Field{
		{Name: "name", Type: arrow.BinaryTypes.String},
		{Name: "age", Type: arrow.PrimitiveTypes.Int64, Nullable: true},
	}, nil)

	builder := array.NewRecordBuilder(memory.DefaultAllocator, schema)
	defer builder.Release()

	builder.Field(0).(*array.StringBuilder).AppendValues([]string{"Alice", "Bob", "Carol"}, nil)
	builder.Field(1).(*array.Int64Builder).AppendValues([]int64{30, 25, 0}, []bool{true, true, false})

	record := builder.NewRecord()
	defer record.Release()

	table := array.NewTableFromRecords(schema, []arrow.Record{record})
	defer table.Release()

	f, err := os.Create(path) //nolint:gosec
	if err != nil {
		t.Fatal(err)
	}
	// pqarrow.WriteTable closes f when it finishes writing.
	if err := pqarrow.WriteTable(table, f, 1024, parquet.NewWriterProperties(), pqarrow.DefaultWriterProps()); err != nil {
		t.Fatal(err)
	}

	ds, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() failed: %v", err)
	}
	if !ds.Header().Equal(newHeader([]string{"name", "age"})) {
		t.Errorf("header = %v, want [name age]", ds.Header())
	}
	if ds.NumRows() != 3 {
		t.Fatalf("expected 3 rows, got %d", ds.NumRows())
	}
	if !ds.Records()[0].Equal(newRecord([]string{"Alice", "30"})) {
		t.Errorf("first record = %v, want [Alice 30]", ds.Records()[0])
	}
	// Parquet nulls arrive as empty fields, same as delimited input.
	if ds.Records()[2][1] != "" {
		t.Errorf("null age = %q, want empty field", ds.Records()[2][1])
	}
}

func TestReadFile_Errors(t *testing.T) {
	t.Parallel()

	t.Run("empty path", func(t *testing.T) {
		t.Parallel()

		if _, err := ReadFile(""); err == nil {
			t.Error("ReadFile(\"\") should fail")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		missing := filepath.Join(t.TempDir(), "missing.csv")
		_, err := ReadFile(missing)
		if !errors.Is(err, ErrFileNotFound) {
			t.Fatalf("ReadFile() = %v, want ErrFileNotFound", err)
		}
		if !strings.Contains(err.Error(), missing) {
			t.Errorf("error %q should carry the file path", err)
		}
	})

	t.Run("unsupported extension", func(t *testing.T) {
		t.Parallel()

		path := writeTestFile(t, "data.txt", "name,age\nAlice,30\n")
		if _, err := ReadFile(path); !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("ReadFile() = %v, want ErrUnsupportedFormat", err)
		}
	})

	t.Run("empty file", func(t *testing.T) {
		t.Parallel()

		path := writeTestFile(t, "empty.csv", "")
		_, err := ReadFile(path)
		if !errors.Is(err, ErrEmptyFile) {
			t.Fatalf("ReadFile() = %v, want ErrEmptyFile", err)
		}
		if !strings.Contains(err.Error(), path) {
			t.Errorf("error %q should carry the file path", err)
		}
	})

	t.Run("header only is not empty", func(t *testing.T) {
		t.Parallel()

		path := writeTestFile(t, "header.csv", "name,age\n")
		ds, err := ReadFile(path)
		if err != nil {
			t.Fatalf("ReadFile() failed: %v", err)
		}
		if ds.NumRows() != 0 {
			t.Errorf("expected 0 rows, got %d", ds.NumRows())
		}
	})

	t.Run("malformed quoting", func(t *testing.T) {
		t.Parallel()

		path := writeTestFile(t, "broken.csv", "name,age\n\"Alice,30\n")
		if _, err := ReadFile(path); !errors.Is(err, ErrInvalidData) {
			t.Errorf("ReadFile() = %v, want ErrInvalidData", err)
		}
	})

	t.Run("ragged rows", func(t *testing.T) {
		t.Parallel()

		path := writeTestFile(t, "ragged.csv", "name,age\nAlice,30,extra\n")
		if _, err := ReadFile(path); !errors.Is(err, ErrInvalidData) {
			t.Errorf("ReadFile() = %v, want ErrInvalidData", err)
		}
	})

	t.Run("duplicate column names", func(t *testing.T) {
		t.Parallel()

		path := writeTestFile(t, "dup.csv", "id,name,id\n1,Alice,2\n")
		if _, err := ReadFile(path); !errors.Is(err, ErrInvalidData) {
			t.Errorf("ReadFile() = %v, want ErrInvalidData", err)
		}
	})

	t.Run("corrupt gzip content", func(t *testing.T) {
		t.Parallel()

		path := writeTestFile(t, "bad.csv.gz", "this is not gzip data")
		if _, err := ReadFile(path); !errors.Is(err, ErrInvalidData) {
			t.Errorf("ReadFile() = %v, want ErrInvalidData", err)
		}
	})
}
