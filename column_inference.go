package csvload

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// columnType represents the inferred type of a column.
type columnType int

const (
	// columnTypeText represents text values
	columnTypeText columnType = iota
	// columnTypeInteger represents integer values
	columnTypeInteger
	// columnTypeReal represents floating point values
	columnTypeReal
	// columnTypeDatetime represents datetime values kept as ISO8601 text
	columnTypeDatetime
)

// String returns the type name used in error messages.
func (ct columnType) String() string {
	switch ct {
	case columnTypeInteger:
		return "INTEGER"
	case columnTypeReal:
		return "REAL"
	case columnTypeDatetime:
		return "DATETIME"
	default:
		return "TEXT"
	}
}

// columnInfo represents column information with name and inferred type
type columnInfo struct {
	Name string
	Type columnType
}

// columnInfoList represents a collection of column information
type columnInfoList []columnInfo

// newColumnInfoList infers column information from header and data records.
// Columns with no non-empty values default to TEXT.
func newColumnInfoList(header Header, records []Record) columnInfoList {
	columnCount := len(header)
	if columnCount == 0 {
		return nil
	}

	columns := make(columnInfoList, columnCount)
	for i, name := range header {
		columns[i] = columnInfo{Name: name, Type: columnTypeText}
	}

	if len(records) == 0 {
		return columns
	}

	for i := range columnCount {
		var values []string
		for _, record := range records {
			if i < len(record) {
				values = append(values, record[i])
			}
		}
		columns[i].Type = inferColumnType(values)
	}

	return columns
}

// datetimePattern pairs a precompiled shape regex with the time layouts it
// may represent.
type datetimePattern struct {
	pattern *regexp.Regexp
	formats []string
}

// Cached datetime patterns, most common shapes first for early termination.
var cachedDatetimePatterns = []datetimePattern{
	{
		regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d+)?(Z|[+-]\d{2}:\d{2})$`),
		[]string{time.RFC3339, time.RFC3339Nano},
	},
	{
		regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d+)?$`),
		[]string{"2006-01-02T15:04:05", "2006-01-02T15:04:05.000"},
	},
	{
		regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}(\.\d+)?$`),
		[]string{"2006-01-02 15:04:05", "2006-01-02 15:04:05.000"},
	},
	{
		regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`),
		[]string{"2006-01-02"},
	},
	{
		regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{4}$`),
		[]string{"1/2/2006", "01/02/2006"},
	},
}

// Type inference constants
const (
	// maxSampleSize limits how many values are sampled for type inference
	maxSampleSize = 1000
	// minConfidenceThreshold is the minimum share of values that must match a type
	minConfidenceThreshold = 0.8
	// minRealThreshold is the minimum share of real values needed to classify as REAL
	minRealThreshold = 0.1
	// minDatetimeLength is the minimum reasonable length for datetime values
	minDatetimeLength = 4
	// maxDatetimeLength is the maximum reasonable length for datetime values
	maxDatetimeLength = 35
)

// isDatetime checks if a string value represents a datetime.
func isDatetime(value string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}

	// Length filter avoids running regexes on obviously non-datetime values.
	valueLen := len(value)
	if valueLen < minDatetimeLength || valueLen > maxDatetimeLength {
		return false
	}

	// A datetime must contain at least one digit and one separator.
	hasDigit := false
	hasSeparator := false
	for _, r := range value {
		if r >= '0' && r <= '9' {
			hasDigit = true
		} else if r == '-' || r == '/' || r == ':' || r == 'T' || r == ' ' {
			hasSeparator = true
		}
		if hasDigit && hasSeparator {
			break
		}
	}
	if !hasDigit || !hasSeparator {
		return false
	}

	for _, dp := range cachedDatetimePatterns {
		if dp.pattern.MatchString(value) {
			for _, format := range dp.formats {
				if _, err := time.Parse(format, value); err == nil {
					return true
				}
			}
		}
	}

	return false
}

// inferColumnType infers the column type from a slice of string values.
// Empty values are ignored; mixed columns fall back to TEXT.
func inferColumnType(values []string) columnType {
	if len(values) == 0 {
		return columnTypeText
	}

	sampleValues := values
	if len(values) > maxSampleSize {
		step := len(values) / maxSampleSize
		sampleValues = make([]string, 0, maxSampleSize)
		for i := 0; i < len(values) && len(sampleValues) < maxSampleSize; i += step {
			sampleValues = append(sampleValues, values[i])
		}
	}

	typeCounts := map[columnType]int{}
	nonEmptyCount := 0

	for _, value := range sampleValues {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		nonEmptyCount++
		typeCounts[classifyValue(value)]++

		// A single text value among many means the column is text.
		if typeCounts[columnTypeText] > 0 {
			return columnTypeText
		}
	}

	if nonEmptyCount == 0 {
		return columnTypeText
	}

	return selectColumnType(typeCounts, nonEmptyCount)
}

// classifyValue determines the type of a single value
func classifyValue(value string) columnType {
	if isDatetime(value) {
		return columnTypeDatetime
	}
	if isInteger(value) {
		return columnTypeInteger
	}
	if isFloat(value) {
		return columnTypeReal
	}
	return columnTypeText
}

// isInteger checks if a value parses as a 64-bit integer.
func isInteger(value string) bool {
	if len(value) == 0 {
		return false
	}
	first := value[0]
	if first != '+' && first != '-' && (first < '0' || first > '9') {
		return false
	}

	_, err := strconv.ParseInt(value, 10, 64)
	return err == nil
}

// isFloat checks if a value parses as a float.
func isFloat(value string) bool {
	hasDigit := false
	for _, r := range value {
		if r >= '0' && r <= '9' {
			hasDigit = true
			break
		}
	}
	if !hasDigit {
		return false
	}

	_, err := strconv.ParseFloat(value, 64)
	return err == nil
}

// selectColumnType selects the best column type based on confidence analysis
func selectColumnType(typeCounts map[columnType]int, totalCount int) columnType {
	datetimeConfidence := float64(typeCounts[columnTypeDatetime]) / float64(totalCount)
	realConfidence := float64(typeCounts[columnTypeReal]) / float64(totalCount)
	integerConfidence := float64(typeCounts[columnTypeInteger]) / float64(totalCount)

	if datetimeConfidence >= minConfidenceThreshold {
		return columnTypeDatetime
	}
	// Mixed numeric columns are REAL when real values make up a meaningful share.
	if realConfidence >= minRealThreshold && (realConfidence+integerConfidence) >= minConfidenceThreshold {
		return columnTypeReal
	}
	if integerConfidence >= minConfidenceThreshold {
		return columnTypeInteger
	}

	if realConfidence > 0 {
		return columnTypeReal
	}
	if integerConfidence > 0 {
		return columnTypeInteger
	}
	if datetimeConfidence > 0 {
		return columnTypeDatetime
	}

	return columnTypeText
}

// convertValue converts a raw string field to the driver value matching the
// inferred column type. Empty fields become NULL for non-text columns.
// Values that fail to parse despite the inferred type are passed through as
// text and left to the database to reject or coerce.
func convertValue(value string, ct columnType) any {
	switch ct {
	case columnTypeInteger:
		if strings.TrimSpace(value) == "" {
			return nil
		}
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			return n
		}
		return value
	case columnTypeReal:
		if strings.TrimSpace(value) == "" {
			return nil
		}
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
		return value
	case columnTypeDatetime:
		if strings.TrimSpace(value) == "" {
			return nil
		}
		return value
	default:
		return value
	}
}
