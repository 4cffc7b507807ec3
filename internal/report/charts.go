// Package report renders the dashboard charts as PNG images.
package report

import (
	"fmt"
	"io"

	"github.com/wcharczuk/go-chart/v2"
	"go.uber.org/zap"

	"github.com/garyjia/expense-audit/internal/audit"
)

// ErrNoData is returned when there is nothing to chart.
var ErrNoData = fmt.Errorf("no data to chart")

// ChartRenderer renders summary charts from an annotated dataset.
type ChartRenderer struct {
	width  int
	height int
	logger *zap.Logger
}

// NewChartRenderer creates a chart renderer with the standard dashboard
// dimensions.
func NewChartRenderer(logger *zap.Logger) *ChartRenderer {
	return &ChartRenderer{
		width:  800,
		height: 400,
		logger: logger,
	}
}

// CategoryPie renders the expense-by-category pie chart as PNG.
func (cr *ChartRenderer) CategoryPie(w io.Writer, totals []audit.CategoryTotal) error {
	values := make([]chart.Value, 0, len(totals))
	for _, total := range totals {
		if total.Total <= 0 {
			continue
		}
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s (%.2f)", total.Category, total.Total),
			Value: total.Total,
		})
	}
	if len(values) == 0 {
		return ErrNoData
	}

	pie := chart.PieChart{
		Title:  "Expense by Category",
		Width:  cr.height, // pie charts render square
		Height: cr.height,
		Values: values,
	}

	if err := pie.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("failed to render category chart: %w", err)
	}

	cr.logger.Debug("category pie chart rendered", zap.Int("categories", len(values)))
	return nil
}

// TopVendorsBar renders the top-vendors-by-amount bar chart as PNG. The bars
// keep the ranking order they are given.
func (cr *ChartRenderer) TopVendorsBar(w io.Writer, vendors []audit.VendorTotal) error {
	bars := make([]chart.Value, 0, len(vendors))
	for _, vendor := range vendors {
		bars = append(bars, chart.Value{
			Label: vendor.Vendor,
			Value: vendor.Total,
		})
	}
	if len(bars) == 0 {
		return ErrNoData
	}

	barChart := chart.BarChart{
		Title: fmt.Sprintf("Top %d Vendors by Expense Amount", len(bars)),
		Background: chart.Style{
			Padding: chart.Box{
				Top:    40,
				Left:   20,
				Right:  20,
				Bottom: 20,
			},
		},
		Width:  cr.width,
		Height: cr.height,
		Bars:   bars,
	}
	barChart.YAxis.ValueFormatter = func(v interface{}) string {
		if vf, isFloat := v.(float64); isFloat {
			return fmt.Sprintf("%.2f", vf)
		}
		return ""
	}

	if err := barChart.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("failed to render vendor chart: %w", err)
	}

	cr.logger.Debug("top vendor bar chart rendered", zap.Int("vendors", len(bars)))
	return nil
}
