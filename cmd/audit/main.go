// Command audit runs a one-shot expense audit over a workbook without the
// HTTP dashboard: it prints the rule summary to stdout and writes the
// flagged CSV and chart PNGs to the output directory.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/garyjia/expense-audit/internal/audit"
	"github.com/garyjia/expense-audit/internal/config"
	"github.com/garyjia/expense-audit/internal/export"
	"github.com/garyjia/expense-audit/internal/ingest"
	"github.com/garyjia/expense-audit/internal/report"
	"github.com/garyjia/expense-audit/pkg/utils"
)

func main() {
	inputPath := flag.String("input", "", "expense workbook to audit (.xlsx)")
	configPath := flag.String("config", "configs/config.yaml", "path to configuration file")
	vendorsPath := flag.String("vendors", "", "vendor reference CSV (overrides config)")
	outputDir := flag.String("output", "", "output directory (overrides config)")
	topN := flag.Int("top", 0, "number of top vendors to report (overrides config)")
	withCharts := flag.Bool("charts", true, "render chart PNGs into the output directory")
	flag.Parse()

	if *inputPath == "" {
		fmt.Fprintln(os.Stderr, "Usage: audit -input expenses.xlsx [-vendors vendors.csv] [-output dir]")
		os.Exit(2)
	}

	gotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if *vendorsPath != "" {
		cfg.Audit.VendorListPath = *vendorsPath
	}
	if *outputDir != "" {
		cfg.Export.OutputDir = *outputDir
	}
	if *topN > 0 {
		cfg.Audit.TopVendors = *topN
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      "warn", // keep stdout clean for the tables
		OutputPath: "stderr",
		Format:     "console",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, *inputPath, *withCharts, logger); err != nil {
		fmt.Fprintf(os.Stderr, "Audit failed: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, inputPath string, withCharts bool, logger *zap.Logger) error {
	vendors, err := ingest.LoadVendorList(cfg.Audit.VendorListPath, logger)
	if err != nil {
		return err
	}

	parser := ingest.NewWorkbookParser(logger)
	records, err := parser.ParseFile(inputPath)
	if err != nil {
		return err
	}

	engine := audit.NewEngine(logger)
	annotated := engine.Audit(records, vendors, cfg.RuleConfig())
	flagged := audit.FlaggedSubset(annotated)

	printSummary(annotated, flagged, cfg.Audit.TopVendors)

	writer := export.NewWriter(logger)
	path, err := writer.SaveFlagged(cfg.Export.OutputDir, flagged)
	if err != nil {
		return err
	}
	fmt.Printf("\nFlagged subset written to: %s\n", path)

	if withCharts {
		if err := renderCharts(cfg, annotated, logger); err != nil {
			return err
		}
	}
	return nil
}

func printSummary(annotated, flagged []audit.ExpenseRecord, topN int) {
	fmt.Printf("\n=== Expense Audit Summary ===\n")
	fmt.Printf("Entries: %d   Flagged: %d   Total amount: %.2f\n\n", len(annotated), len(flagged), audit.TotalAmount(annotated))

	flaggedTable := tablewriter.NewWriter(os.Stdout)
	flaggedTable.SetHeader([]string{"Date", "Vendor", "Category", "Amount", "High Amount", "Unknown Vendor", "Weekend"})
	for _, record := range flagged {
		flaggedTable.Append([]string{
			record.Date.Format("2006-01-02"),
			record.Vendor,
			record.Category,
			fmt.Sprintf("%.2f", record.Amount),
			strconv.FormatBool(record.HighAmount),
			strconv.FormatBool(record.UnknownVendor),
			strconv.FormatBool(record.Weekend),
		})
	}
	flaggedTable.Render()

	fmt.Printf("\nExpense by category:\n")
	categoryTable := tablewriter.NewWriter(os.Stdout)
	categoryTable.SetHeader([]string{"Category", "Total"})
	for _, total := range audit.CategoryTotals(annotated) {
		categoryTable.Append([]string{total.Category, fmt.Sprintf("%.2f", total.Total)})
	}
	categoryTable.Render()

	fmt.Printf("\nTop %d vendors by amount:\n", topN)
	vendorTable := tablewriter.NewWriter(os.Stdout)
	vendorTable.SetHeader([]string{"Vendor", "Total"})
	for _, total := range audit.TopVendorsByAmount(annotated, topN) {
		vendorTable.Append([]string{total.Vendor, fmt.Sprintf("%.2f", total.Total)})
	}
	vendorTable.Render()
}

func renderCharts(cfg *config.Config, annotated []audit.ExpenseRecord, logger *zap.Logger) error {
	renderer := report.NewChartRenderer(logger)

	charts := []struct {
		filename string
		render   func(f *os.File) error
	}{
		{
			filename: "expense_by_category.png",
			render: func(f *os.File) error {
				return renderer.CategoryPie(f, audit.CategoryTotals(annotated))
			},
		},
		{
			filename: "top_vendors.png",
			render: func(f *os.File) error {
				return renderer.TopVendorsBar(f, audit.TopVendorsByAmount(annotated, cfg.Audit.TopVendors))
			},
		},
	}

	for _, c := range charts {
		path := filepath.Join(cfg.Export.OutputDir, c.filename)
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", path, err)
		}
		if err := c.render(f); err != nil {
			f.Close()
			if err == report.ErrNoData {
				fmt.Printf("Skipping %s: no data to chart\n", c.filename)
				os.Remove(path)
				continue
			}
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Printf("Chart written to: %s\n", path)
	}
	return nil
}
