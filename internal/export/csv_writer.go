// Package export writes annotated expense data as delimited text for
// download and for the on-disk audit trail.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"go.uber.org/zap"

	"github.com/garyjia/expense-audit/internal/audit"
)

// FlaggedFileName is the audit-trail side file written next to other output.
const FlaggedFileName = "flagged_output.csv"

// Header lists the exported columns. The internal normalized-vendor helper
// column is deliberately absent.
var Header = []string{
	"Date", "Vendor", "Category", "Amount",
	"Weekday", "High Amount", "Unknown Vendor", "Weekend", "Flagged",
}

// Writer serializes annotated records to UTF-8 CSV.
type Writer struct {
	logger *zap.Logger
}

// NewWriter creates a new CSV writer.
func NewWriter(logger *zap.Logger) *Writer {
	return &Writer{logger: logger}
}

// Write streams the records as CSV to w, header first.
func (wr *Writer) Write(w io.Writer, records []audit.ExpenseRecord) error {
	csvWriter := csv.NewWriter(w)

	if err := csvWriter.Write(Header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for i, record := range records {
		row := []string{
			record.Date.Format("2006-01-02"),
			record.Vendor,
			record.Category,
			strconv.FormatFloat(record.Amount, 'f', -1, 64),
			record.Weekday,
			strconv.FormatBool(record.HighAmount),
			strconv.FormatBool(record.UnknownVendor),
			strconv.FormatBool(record.Weekend),
			strconv.FormatBool(record.Flagged),
		}
		if err := csvWriter.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row %d: %w", i+1, err)
		}
	}

	csvWriter.Flush()
	return csvWriter.Error()
}

// SaveFlagged writes the flagged subset to the audit-trail side file in
// outputDir, creating the directory if needed. Returns the written path.
func (wr *Writer) SaveFlagged(outputDir string, flagged []audit.ExpenseRecord) (string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(outputDir, FlaggedFileName)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if err := wr.Write(f, flagged); err != nil {
		return "", err
	}

	wr.logger.Info("flagged subset exported",
		zap.String("path", path),
		zap.Int("records", len(flagged)))

	return path, nil
}
