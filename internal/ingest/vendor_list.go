package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/garyjia/expense-audit/internal/audit"
)

// LoadVendorList reads the vendor reference CSV and builds the normalized
// reference set. The file must carry a Vendor column (any casing); other
// columns are ignored.
//
// A missing or empty file is not fatal: the loader logs a warning and
// returns an empty set, which makes every vendor in the audited data
// unknown. Over-flagging is the safer posture for an audit tool.
func LoadVendorList(path string, logger *zap.Logger) (*audit.VendorReferenceSet, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Warn("vendor reference list not found, all vendors will be flagged as unknown",
				zap.String("path", path))
			return audit.NewVendorReferenceSet(nil), nil
		}
		return nil, fmt.Errorf("failed to open vendor list %s: %w", path, err)
	}
	defer f.Close()

	set, err := ReadVendorList(f)
	if err != nil {
		return nil, fmt.Errorf("vendor list %s: %w", path, err)
	}

	if set.Len() == 0 {
		logger.Warn("vendor reference list is empty, all vendors will be flagged as unknown",
			zap.String("path", path))
	} else {
		logger.Info("vendor reference list loaded",
			zap.String("path", path),
			zap.Int("vendors", set.Len()))
	}
	return set, nil
}

// ReadVendorList parses vendor reference CSV data from a reader.
func ReadVendorList(r io.Reader) (*audit.VendorReferenceSet, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}
	if len(rows) == 0 {
		return audit.NewVendorReferenceSet(nil), nil
	}

	vendorCol := -1
	for i, cell := range rows[0] {
		if strings.EqualFold(strings.TrimSpace(cell), "Vendor") {
			vendorCol = i
			break
		}
	}
	if vendorCol < 0 {
		return nil, fmt.Errorf("missing required column: Vendor")
	}

	names := make([]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if vendorCol < len(row) {
			names = append(names, row[vendorCol])
		}
	}
	return audit.NewVendorReferenceSet(names), nil
}
