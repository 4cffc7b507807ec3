package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/garyjia/expense-audit/internal/audit"
)

// pngMagic is the PNG file signature.
var pngMagic = []byte{0x89, 0x50, 0x4E, 0x47}

func TestCategoryPieRendersPNG(t *testing.T) {
	renderer := NewChartRenderer(zap.NewNop())

	var buf bytes.Buffer
	err := renderer.CategoryPie(&buf, []audit.CategoryTotal{
		{Category: "Office", Total: 149.50},
		{Category: "Travel", Total: 250.50},
		{Category: "Food", Total: 600},
	})
	require.NoError(t, err)
	require.Greater(t, buf.Len(), len(pngMagic))
	assert.Equal(t, pngMagic, buf.Bytes()[:4])
}

func TestCategoryPieNoData(t *testing.T) {
	renderer := NewChartRenderer(zap.NewNop())

	var buf bytes.Buffer
	err := renderer.CategoryPie(&buf, nil)
	assert.ErrorIs(t, err, ErrNoData)

	// Zero-amount categories contribute nothing to a pie.
	err = renderer.CategoryPie(&buf, []audit.CategoryTotal{{Category: "Office", Total: 0}})
	assert.ErrorIs(t, err, ErrNoData)
}

func TestTopVendorsBarRendersPNG(t *testing.T) {
	renderer := NewChartRenderer(zap.NewNop())

	var buf bytes.Buffer
	err := renderer.TopVendorsBar(&buf, []audit.VendorTotal{
		{Vendor: "Acme", Total: 350},
		{Vendor: "Globex", Total: 300},
	})
	require.NoError(t, err)
	require.Greater(t, buf.Len(), len(pngMagic))
	assert.Equal(t, pngMagic, buf.Bytes()[:4])
}

func TestTopVendorsBarNoData(t *testing.T) {
	renderer := NewChartRenderer(zap.NewNop())

	var buf bytes.Buffer
	assert.ErrorIs(t, renderer.TopVendorsBar(&buf, nil), ErrNoData)
}
