package exports

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// RowError records one source row that could not be coerced into its record
// type. Loaders count these as row errors; they never abort the file.
type RowError struct {
	Line int
	Err  error
}

func (e RowError) Error() string {
	return errors.Wrapf(e.Err, "line %d", e.Line).Error()
}

// csvFile is a header-indexed view over one tabular export. A missing
// required column is a setup failure for the whole file.
type csvFile struct {
	name  string
	index map[string]int
	rows  [][]string
}

func readCSV(path string, required ...string) (*csvFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open export file")
	}
	defer func() { _ = f.Close() }()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", filepath.Base(path))
	}
	if len(records) == 0 {
		return nil, errors.Errorf("%s: missing header row", filepath.Base(path))
	}

	index := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		index[strings.TrimSpace(name)] = i
	}
	for _, col := range required {
		if _, ok := index[col]; !ok {
			return nil, errors.Errorf("%s: missing required column %q", filepath.Base(path), col)
		}
	}

	return &csvFile{name: filepath.Base(path), index: index, rows: records[1:]}, nil
}

func (c *csvFile) cell(record []string, col string) string {
	i, ok := c.index[col]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

// Timestamp layouts seen across Toast exports.
var timestampLayouts = []string{
	"1/2/06 3:04 PM",
	"1/2/2006 3:04 PM",
	"2006-01-02 15:04:05",
	"1/2/06 15:04",
	"1/2/06",
	"1/2/2006",
}

var clockLayouts = []string{
	"3:04 PM",
	"3:04:05 PM",
	"15:04",
	"15:04:05",
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.Errorf("unrecognized timestamp %q", s)
}

func parseTimestampPtr(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := parseTimestamp(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// parseClockTime normalizes a clock-time cell to "15:04:05" for a TIME column.
func parseClockTime(s string) (*string, error) {
	if s == "" {
		return nil, nil
	}
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			normalized := t.Format("15:04:05")
			return &normalized, nil
		}
	}
	return nil, errors.Errorf("unrecognized time %q", s)
}

func parseInt64(s, col string) (int64, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, errors.Errorf("column %q: invalid integer %q", col, s)
	}
	return n, nil
}

func parseInt(s, col string) (int, error) {
	n, err := parseInt64(s, col)
	return int(n), err
}

func parseIntPtr(s, col string) (*int, error) {
	if s == "" {
		return nil, nil
	}
	n, err := parseInt(s, col)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// parseDecimal treats an empty cell as zero, matching the schema defaults for
// monetary columns.
func parseDecimal(s, col string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", ""))
	if err != nil {
		return decimal.Decimal{}, errors.Errorf("column %q: invalid number %q", col, s)
	}
	return d, nil
}

func parseNullDecimal(s, col string) (decimal.NullDecimal, error) {
	if s == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := parseDecimal(s, col)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}, nil
}

func parseBool(s string) bool {
	switch strings.ToLower(s) {
	case "true", "yes", "y", "1":
		return true
	default:
		return false
	}
}
