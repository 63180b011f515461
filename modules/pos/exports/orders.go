package exports

import (
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// OrderRow is one parsed line of OrderDetails.csv.
type OrderRow struct {
	OrderID     int64
	OrderNumber string
	Location    string
	Server      string
	Checks      string

	Opened time.Time
	Closed *time.Time
	Paid   *time.Time

	GuestCount    int
	TabNames      string
	TableNumber   string
	RevenueCenter string
	DiningArea    string
	ServicePeriod string
	DiningOption  string

	DiscountAmount decimal.Decimal
	Subtotal       decimal.Decimal
	Tax            decimal.Decimal
	Tip            decimal.Decimal
	Gratuity       decimal.Decimal
	Total          decimal.Decimal

	Voided          bool
	DurationMinutes *int
	OrderSource     string
}

var orderColumns = []string{
	"Order Id", "Order #", "Location", "Server", "Checks",
	"Opened", "Closed", "Paid", "# of Guests", "Tab Names", "Table",
	"Revenue Center", "Dining Area", "Service", "Dining Options",
	"Discount Amount", "Amount", "Tax", "Tip", "Gratuity", "Total",
	"Voided", "Duration (Opened to Paid)", "Order Source",
}

// ReadOrders parses OrderDetails.csv. Rows that fail coercion are returned
// as RowErrors alongside the usable rows.
func ReadOrders(path string) ([]OrderRow, []RowError, error) {
	file, err := readCSV(path, orderColumns...)
	if err != nil {
		return nil, nil, err
	}

	rows := make([]OrderRow, 0, len(file.rows))
	var bad []RowError
	for i, record := range file.rows {
		row, err := parseOrderRow(file, record)
		if err != nil {
			bad = append(bad, RowError{Line: i + 2, Err: err})
			continue
		}
		rows = append(rows, row)
	}
	return rows, bad, nil
}

func parseOrderRow(file *csvFile, record []string) (OrderRow, error) {
	var (
		row OrderRow
		err error
	)

	if row.OrderID, err = parseInt64(file.cell(record, "Order Id"), "Order Id"); err != nil {
		return OrderRow{}, err
	}
	row.OrderNumber = file.cell(record, "Order #")
	row.Location = file.cell(record, "Location")
	row.Server = file.cell(record, "Server")
	row.Checks = file.cell(record, "Checks")

	if row.Opened, err = parseTimestamp(file.cell(record, "Opened")); err != nil {
		return OrderRow{}, err
	}
	if row.Closed, err = parseTimestampPtr(file.cell(record, "Closed")); err != nil {
		return OrderRow{}, err
	}
	if row.Paid, err = parseTimestampPtr(file.cell(record, "Paid")); err != nil {
		return OrderRow{}, err
	}

	if row.GuestCount, err = parseInt(file.cell(record, "# of Guests"), "# of Guests"); err != nil {
		return OrderRow{}, err
	}
	row.TabNames = file.cell(record, "Tab Names")
	row.TableNumber = file.cell(record, "Table")
	row.RevenueCenter = file.cell(record, "Revenue Center")
	row.DiningArea = file.cell(record, "Dining Area")
	row.ServicePeriod = file.cell(record, "Service")
	row.DiningOption = file.cell(record, "Dining Options")

	if row.DiscountAmount, err = parseDecimal(file.cell(record, "Discount Amount"), "Discount Amount"); err != nil {
		return OrderRow{}, err
	}
	if row.Subtotal, err = parseDecimal(file.cell(record, "Amount"), "Amount"); err != nil {
		return OrderRow{}, err
	}
	if row.Tax, err = parseDecimal(file.cell(record, "Tax"), "Tax"); err != nil {
		return OrderRow{}, err
	}
	if row.Tip, err = parseDecimal(file.cell(record, "Tip"), "Tip"); err != nil {
		return OrderRow{}, err
	}
	if row.Gratuity, err = parseDecimal(file.cell(record, "Gratuity"), "Gratuity"); err != nil {
		return OrderRow{}, err
	}
	if row.Total, err = parseDecimal(file.cell(record, "Total"), "Total"); err != nil {
		return OrderRow{}, err
	}

	row.Voided = parseBool(file.cell(record, "Voided"))
	if row.DurationMinutes, err = ParseDurationMinutes(file.cell(record, "Duration (Opened to Paid)")); err != nil {
		return OrderRow{}, err
	}
	row.OrderSource = file.cell(record, "Order Source")

	return row, nil
}

// ParseDurationMinutes converts an "H:MM:SS" duration into whole minutes,
// discarding the seconds. An empty cell yields nil.
func ParseDurationMinutes(s string) (*int, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return nil, errors.Errorf("invalid duration %q", s)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return nil, errors.Errorf("invalid duration %q", s)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return nil, errors.Errorf("invalid duration %q", s)
	}
	total := hours*60 + minutes
	return &total, nil
}

// ParseCheckNumbers splits the comma-separated "Checks" column into check
// numbers. Tokens that are not integers are returned separately so the
// caller can log them without dropping the rest.
func ParseCheckNumbers(s string) ([]int, []string) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var (
		numbers []int
		bad     []string
	)
	for _, token := range strings.Split(s, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		n, err := strconv.Atoi(token)
		if err != nil {
			bad = append(bad, token)
			continue
		}
		numbers = append(numbers, n)
	}
	return numbers, bad
}
