package exports

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// TimeEntryRow is one parsed line of TimeEntries.csv. It carries the full
// job and employee identity blocks used by the dimension resolver.
type TimeEntryRow struct {
	Location string

	JobID    int64
	JobGUID  uuid.UUID
	JobCode  string
	JobTitle string

	EmployeeID         int64
	EmployeeGUID       uuid.UUID
	EmployeeExternalID string
	EmployeeName       string

	InDate       time.Time
	OutDate      time.Time
	AutoClockOut bool

	TotalHours      decimal.Decimal
	UnpaidBreakTime decimal.NullDecimal
	PaidBreakTime   decimal.NullDecimal
	PayableHours    decimal.Decimal

	CashTipsDeclared decimal.NullDecimal
	NonCashTips      decimal.NullDecimal
	TotalGratuity    decimal.NullDecimal
	TotalTips        decimal.NullDecimal
	TipsWithheld     decimal.NullDecimal

	Wage          decimal.Decimal
	RegularHours  decimal.NullDecimal
	OvertimeHours decimal.NullDecimal
	RegularPay    decimal.NullDecimal
	OvertimePay   decimal.NullDecimal
	TotalPay      decimal.Decimal
}

var timeEntryColumns = []string{
	"Location", "Job Id", "Job GUID", "Job Code", "Job Title",
	"Employee Id", "Employee GUID", "Employee External Id", "Employee",
	"In Date", "Out Date", "Auto Clock-out", "Total Hours",
	"Unpaid Break Time", "Paid Break Time", "Payable Hours",
	"Cash Tips Declared", "Non Cash Tips", "Total Gratuity", "Total Tips",
	"Tips Withheld", "Wage", "Regular Hours", "Overtime Hours",
	"Regular Pay", "Overtime Pay", "Total Pay",
}

// ReadTimeEntries parses TimeEntries.csv.
func ReadTimeEntries(path string) ([]TimeEntryRow, []RowError, error) {
	file, err := readCSV(path, timeEntryColumns...)
	if err != nil {
		return nil, nil, err
	}

	rows := make([]TimeEntryRow, 0, len(file.rows))
	var bad []RowError
	for i, record := range file.rows {
		row, err := parseTimeEntryRow(file, record)
		if err != nil {
			bad = append(bad, RowError{Line: i + 2, Err: err})
			continue
		}
		rows = append(rows, row)
	}
	return rows, bad, nil
}

func parseTimeEntryRow(file *csvFile, record []string) (TimeEntryRow, error) {
	var (
		row TimeEntryRow
		err error
	)

	row.Location = file.cell(record, "Location")

	if row.JobID, err = parseInt64(file.cell(record, "Job Id"), "Job Id"); err != nil {
		return TimeEntryRow{}, err
	}
	if row.JobGUID, err = uuid.Parse(file.cell(record, "Job GUID")); err != nil {
		return TimeEntryRow{}, errors.Errorf("column %q: invalid uuid %q", "Job GUID", file.cell(record, "Job GUID"))
	}
	row.JobCode = file.cell(record, "Job Code")
	row.JobTitle = file.cell(record, "Job Title")

	if row.EmployeeID, err = parseInt64(file.cell(record, "Employee Id"), "Employee Id"); err != nil {
		return TimeEntryRow{}, err
	}
	if row.EmployeeGUID, err = uuid.Parse(file.cell(record, "Employee GUID")); err != nil {
		return TimeEntryRow{}, errors.Errorf("column %q: invalid uuid %q", "Employee GUID", file.cell(record, "Employee GUID"))
	}
	row.EmployeeExternalID = file.cell(record, "Employee External Id")
	row.EmployeeName = file.cell(record, "Employee")

	if row.InDate, err = parseTimestamp(file.cell(record, "In Date")); err != nil {
		return TimeEntryRow{}, err
	}
	if row.OutDate, err = parseTimestamp(file.cell(record, "Out Date")); err != nil {
		return TimeEntryRow{}, err
	}
	row.AutoClockOut = parseBool(file.cell(record, "Auto Clock-out"))

	if row.TotalHours, err = parseDecimal(file.cell(record, "Total Hours"), "Total Hours"); err != nil {
		return TimeEntryRow{}, err
	}
	if row.UnpaidBreakTime, err = parseNullDecimal(file.cell(record, "Unpaid Break Time"), "Unpaid Break Time"); err != nil {
		return TimeEntryRow{}, err
	}
	if row.PaidBreakTime, err = parseNullDecimal(file.cell(record, "Paid Break Time"), "Paid Break Time"); err != nil {
		return TimeEntryRow{}, err
	}
	if row.PayableHours, err = parseDecimal(file.cell(record, "Payable Hours"), "Payable Hours"); err != nil {
		return TimeEntryRow{}, err
	}

	if row.CashTipsDeclared, err = parseNullDecimal(file.cell(record, "Cash Tips Declared"), "Cash Tips Declared"); err != nil {
		return TimeEntryRow{}, err
	}
	if row.NonCashTips, err = parseNullDecimal(file.cell(record, "Non Cash Tips"), "Non Cash Tips"); err != nil {
		return TimeEntryRow{}, err
	}
	if row.TotalGratuity, err = parseNullDecimal(file.cell(record, "Total Gratuity"), "Total Gratuity"); err != nil {
		return TimeEntryRow{}, err
	}
	if row.TotalTips, err = parseNullDecimal(file.cell(record, "Total Tips"), "Total Tips"); err != nil {
		return TimeEntryRow{}, err
	}
	if row.TipsWithheld, err = parseNullDecimal(file.cell(record, "Tips Withheld"), "Tips Withheld"); err != nil {
		return TimeEntryRow{}, err
	}

	if row.Wage, err = parseDecimal(file.cell(record, "Wage"), "Wage"); err != nil {
		return TimeEntryRow{}, err
	}
	if row.RegularHours, err = parseNullDecimal(file.cell(record, "Regular Hours"), "Regular Hours"); err != nil {
		return TimeEntryRow{}, err
	}
	if row.OvertimeHours, err = parseNullDecimal(file.cell(record, "Overtime Hours"), "Overtime Hours"); err != nil {
		return TimeEntryRow{}, err
	}
	if row.RegularPay, err = parseNullDecimal(file.cell(record, "Regular Pay"), "Regular Pay"); err != nil {
		return TimeEntryRow{}, err
	}
	if row.OvertimePay, err = parseNullDecimal(file.cell(record, "Overtime Pay"), "Overtime Pay"); err != nil {
		return TimeEntryRow{}, err
	}
	if row.TotalPay, err = parseDecimal(file.cell(record, "Total Pay"), "Total Pay"); err != nil {
		return TimeEntryRow{}, err
	}

	return row, nil
}
