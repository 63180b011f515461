package exports

import (
	"time"

	"github.com/shopspring/decimal"
)

// CheckRow is one parsed line of CheckDetails.csv. Check rows are matched to
// orders through the order row's "Checks" column, keyed on CheckNumber.
type CheckRow struct {
	CheckID     int64
	CheckNumber int

	CustomerID     string
	CustomerName   string
	CustomerPhone  string
	CustomerEmail  string
	CustomerFamily string
	LocationCode   string

	OpenedDate *time.Time
	OpenedTime *string

	ItemDescription string
	TableSize       *int

	Discount       decimal.Decimal
	DiscountReason string
	Tax            decimal.Decimal
	Tender         string
	Total          decimal.Decimal
	ReceiptLink    string
}

var checkColumns = []string{
	"Check Id", "Check #", "Customer Id", "Customer", "Customer Phone",
	"Customer Email", "Customer Family", "Location Code", "Opened Date",
	"Opened Time", "Item Description", "Table Size", "Discount",
	"Reason of Discount", "Tax", "Tender", "Total", "Link",
}

// ReadChecks parses CheckDetails.csv.
func ReadChecks(path string) ([]CheckRow, []RowError, error) {
	file, err := readCSV(path, checkColumns...)
	if err != nil {
		return nil, nil, err
	}

	rows := make([]CheckRow, 0, len(file.rows))
	var bad []RowError
	for i, record := range file.rows {
		row, err := parseCheckRow(file, record)
		if err != nil {
			bad = append(bad, RowError{Line: i + 2, Err: err})
			continue
		}
		rows = append(rows, row)
	}
	return rows, bad, nil
}

func parseCheckRow(file *csvFile, record []string) (CheckRow, error) {
	var (
		row CheckRow
		err error
	)

	if row.CheckID, err = parseInt64(file.cell(record, "Check Id"), "Check Id"); err != nil {
		return CheckRow{}, err
	}
	if row.CheckNumber, err = parseInt(file.cell(record, "Check #"), "Check #"); err != nil {
		return CheckRow{}, err
	}

	row.CustomerID = file.cell(record, "Customer Id")
	row.CustomerName = file.cell(record, "Customer")
	row.CustomerPhone = file.cell(record, "Customer Phone")
	row.CustomerEmail = file.cell(record, "Customer Email")
	row.CustomerFamily = file.cell(record, "Customer Family")
	row.LocationCode = file.cell(record, "Location Code")

	if row.OpenedDate, err = parseTimestampPtr(file.cell(record, "Opened Date")); err != nil {
		return CheckRow{}, err
	}
	if row.OpenedTime, err = parseClockTime(file.cell(record, "Opened Time")); err != nil {
		return CheckRow{}, err
	}

	row.ItemDescription = file.cell(record, "Item Description")
	if row.TableSize, err = parseIntPtr(file.cell(record, "Table Size"), "Table Size"); err != nil {
		return CheckRow{}, err
	}

	if row.Discount, err = parseDecimal(file.cell(record, "Discount"), "Discount"); err != nil {
		return CheckRow{}, err
	}
	row.DiscountReason = file.cell(record, "Reason of Discount")
	if row.Tax, err = parseDecimal(file.cell(record, "Tax"), "Tax"); err != nil {
		return CheckRow{}, err
	}
	row.Tender = file.cell(record, "Tender")
	if row.Total, err = parseDecimal(file.cell(record, "Total"), "Total"); err != nil {
		return CheckRow{}, err
	}
	row.ReceiptLink = file.cell(record, "Link")

	return row, nil
}
