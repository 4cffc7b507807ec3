// Package ingest turns an uploaded expense workbook and the vendor reference
// list into the in-memory dataset the audit engine consumes. It fails fast on
// malformed input: a bad row is reported with its position, never repaired.
package ingest

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/garyjia/expense-audit/internal/audit"
)

// Required spreadsheet columns, matched case-insensitively after trimming.
const (
	columnDate     = "date"
	columnVendor   = "vendor"
	columnCategory = "category"
	columnAmount   = "amount"
)

// Dates are parsed day-first: an ambiguous 03/04/2024 is April 3rd.
var dateLayouts = []string{
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"2-1-2006",
	"02.01.2006",
	"2.1.2006",
	"2006-01-02",
	"02/01/06",
	"2/1/06",
	"02 Jan 2006",
	"2 Jan 2006",
}

// WorkbookParser reads expense rows from an xlsx workbook.
type WorkbookParser struct {
	logger *zap.Logger
}

// NewWorkbookParser creates a new workbook parser.
func NewWorkbookParser(logger *zap.Logger) *WorkbookParser {
	return &WorkbookParser{logger: logger}
}

// Parse reads the first sheet of an xlsx workbook. The first row must be a
// header containing at least Date, Vendor, Category and Amount (any casing,
// surrounding whitespace ignored); extra columns are skipped. Returns the
// records in sheet order.
func (p *WorkbookParser) Parse(r io.Reader) ([]audit.ExpenseRecord, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	sheetName := sheets[0]

	// Raw cell values: date-typed cells come back as their Excel serial
	// number instead of a locale-formatted (month-first) display string,
	// which would defeat the day-first parsing.
	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheetName, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheetName)
	}

	columns, err := mapColumns(rows[0])
	if err != nil {
		return nil, err
	}

	records := make([]audit.ExpenseRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		rowNum := i + 2 // 1-based, after the header
		if isBlankRow(row) {
			continue
		}

		record, err := parseRow(row, columns, rowNum)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	p.logger.Info("workbook parsed",
		zap.String("sheet", sheetName),
		zap.Int("records", len(records)))

	return records, nil
}

// ParseFile reads an xlsx workbook from disk.
func (p *WorkbookParser) ParseFile(path string) ([]audit.ExpenseRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	defer f.Close()

	records, err := p.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("workbook %s: %w", path, err)
	}
	return records, nil
}

// columnIndexes maps each required column to its zero-based position.
type columnIndexes struct {
	date     int
	vendor   int
	category int
	amount   int
}

func mapColumns(header []string) (columnIndexes, error) {
	columns := columnIndexes{date: -1, vendor: -1, category: -1, amount: -1}
	for i, cell := range header {
		switch strings.ToLower(strings.TrimSpace(cell)) {
		case columnDate:
			columns.date = i
		case columnVendor:
			columns.vendor = i
		case columnCategory:
			columns.category = i
		case columnAmount:
			columns.amount = i
		}
	}

	var missing []string
	if columns.date < 0 {
		missing = append(missing, "Date")
	}
	if columns.vendor < 0 {
		missing = append(missing, "Vendor")
	}
	if columns.category < 0 {
		missing = append(missing, "Category")
	}
	if columns.amount < 0 {
		missing = append(missing, "Amount")
	}
	if len(missing) > 0 {
		return columns, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}
	return columns, nil
}

func parseRow(row []string, columns columnIndexes, rowNum int) (audit.ExpenseRecord, error) {
	var record audit.ExpenseRecord

	date, err := ParseDate(cellValue(row, columns.date))
	if err != nil {
		return record, fmt.Errorf("row %d: %w", rowNum, err)
	}

	vendor := strings.TrimSpace(cellValue(row, columns.vendor))
	if vendor == "" {
		return record, fmt.Errorf("row %d: vendor is empty", rowNum)
	}

	category := strings.TrimSpace(cellValue(row, columns.category))
	if category == "" {
		return record, fmt.Errorf("row %d: category is empty", rowNum)
	}

	amount, err := parseAmount(cellValue(row, columns.amount))
	if err != nil {
		return record, fmt.Errorf("row %d: %w", rowNum, err)
	}

	record.Date = date
	record.Vendor = vendor
	record.Category = category
	record.Amount = amount
	return record, nil
}

// ParseDate parses a spreadsheet date cell. A numeric value is an Excel
// date serial (the raw form of a date-typed cell); text dates are parsed
// under the day-first convention.
func ParseDate(value string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, fmt.Errorf("date is empty")
	}
	if serial, err := strconv.ParseFloat(trimmed, 64); err == nil {
		if serial <= 0 {
			return time.Time{}, fmt.Errorf("invalid date serial %q", value)
		}
		parsed, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid date serial %q: %w", value, err)
		}
		return parsed, nil
	}
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, trimmed); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", value)
}

// groupedAmountPattern matches amounts with well-formed thousands
// separators, e.g. 1,250.75 but not 1,0,0.
var groupedAmountPattern = regexp.MustCompile(`^-?\d{1,3}(,\d{3})+(\.\d+)?$`)

func parseAmount(value string) (float64, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0, fmt.Errorf("amount is empty")
	}
	// Tolerate thousands separators from formatted cells, but only when the
	// groups are well-formed; stripping arbitrary commas would silently turn
	// garbage like 1,0,0 into a number.
	if strings.Contains(trimmed, ",") {
		if !groupedAmountPattern.MatchString(trimmed) {
			return 0, fmt.Errorf("unparseable amount %q", value)
		}
		trimmed = strings.ReplaceAll(trimmed, ",", "")
	}
	amount, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, fmt.Errorf("unparseable amount %q", value)
	}
	return amount, nil
}

func cellValue(row []string, index int) string {
	if index < 0 || index >= len(row) {
		return ""
	}
	return row[index]
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
