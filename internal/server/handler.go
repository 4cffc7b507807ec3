// Package server exposes the audit dashboard over HTTP: spreadsheet upload,
// annotated and filtered views, summaries, chart images, and the flagged CSV
// download.
package server

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/garyjia/expense-audit/internal/audit"
	"github.com/garyjia/expense-audit/internal/export"
	"github.com/garyjia/expense-audit/internal/ingest"
	"github.com/garyjia/expense-audit/internal/report"
)

// Options configures the dashboard handler.
type Options struct {
	Vendors       *audit.VendorReferenceSet
	Rules         audit.RuleConfig
	TopVendors    int
	MaxUploadSize int64
	OutputDir     string
	WriteSideFile bool
}

// Handler serves the dashboard API. It holds at most one uploaded snapshot
// in memory; a new upload replaces the previous one. Nothing outlives the
// process.
type Handler struct {
	parser *ingest.WorkbookParser
	engine *audit.Engine
	writer *export.Writer
	charts *report.ChartRenderer
	opts   Options
	logger *zap.Logger

	mu       sync.RWMutex
	snapshot []audit.ExpenseRecord
	loaded   bool
}

// NewHandler creates the dashboard handler.
func NewHandler(parser *ingest.WorkbookParser, engine *audit.Engine, writer *export.Writer, charts *report.ChartRenderer, opts Options, logger *zap.Logger) *Handler {
	return &Handler{
		parser: parser,
		engine: engine,
		writer: writer,
		charts: charts,
		opts:   opts,
		logger: logger,
	}
}

// RegisterRoutes mounts the dashboard endpoints on the router.
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api/v1")
	{
		api.POST("/upload", h.Upload)
		api.GET("/records", h.Records)
		api.GET("/flagged", h.Flagged)
		api.GET("/summary", h.Summary)
		api.GET("/charts/categories.png", h.CategoryChart)
		api.GET("/charts/vendors.png", h.VendorChart)
		api.GET("/export/flagged.csv", h.ExportFlagged)
	}
}

// Upload ingests an expense workbook, runs the audit pass, and replaces the
// in-memory snapshot. Malformed uploads fail visibly with 400; nothing is
// partially processed.
func (h *Handler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing upload: expected multipart field \"file\""})
		return
	}

	if ext := strings.ToLower(filepath.Ext(fileHeader.Filename)); ext != ".xlsx" {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unsupported file type %q, expected .xlsx", ext)})
		return
	}
	if h.opts.MaxUploadSize > 0 && fileHeader.Size > h.opts.MaxUploadSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "uploaded file is too large"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.logger.Error("failed to open upload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read uploaded file"})
		return
	}
	defer file.Close()

	records, err := h.parser.Parse(file)
	if err != nil {
		h.logger.Warn("rejected malformed upload",
			zap.String("filename", fileHeader.Filename),
			zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	annotated := h.engine.Audit(records, h.opts.Vendors, h.opts.Rules)
	flagged := audit.FlaggedSubset(annotated)

	h.mu.Lock()
	h.snapshot = annotated
	h.loaded = true
	h.mu.Unlock()

	if h.opts.WriteSideFile {
		if _, err := h.writer.SaveFlagged(h.opts.OutputDir, flagged); err != nil {
			// The audit trail copy is best-effort; the upload itself succeeded.
			h.logger.Error("failed to write flagged side file", zap.Error(err))
		}
	}

	h.logger.Info("snapshot replaced",
		zap.String("filename", fileHeader.Filename),
		zap.Int("records", len(annotated)),
		zap.Int("flagged", len(flagged)))

	c.JSON(http.StatusOK, gin.H{
		"records":      len(annotated),
		"flagged":      len(flagged),
		"total_amount": audit.TotalAmount(annotated),
	})
}

// Records returns the annotated rows, narrowed by the vendor, category and
// flag query parameters (combined with AND).
func (h *Handler) Records(c *gin.Context) {
	snapshot, ok := h.currentSnapshot(c)
	if !ok {
		return
	}

	flagState, err := audit.ParseFlagState(c.Query("flag"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	filter := audit.Filter{
		Vendor:    c.Query("vendor"),
		Category:  c.Query("category"),
		FlagState: flagState,
	}
	filtered := filter.Apply(snapshot)

	c.JSON(http.StatusOK, gin.H{
		"records": filtered,
		"count":   len(filtered),
	})
}

// Flagged returns the flagged subset.
func (h *Handler) Flagged(c *gin.Context) {
	snapshot, ok := h.currentSnapshot(c)
	if !ok {
		return
	}

	flagged := audit.FlaggedSubset(snapshot)
	c.JSON(http.StatusOK, gin.H{
		"records": flagged,
		"count":   len(flagged),
	})
}

// Summary returns dataset totals, per-category totals and the top vendors.
func (h *Handler) Summary(c *gin.Context) {
	snapshot, ok := h.currentSnapshot(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total_amount":    audit.TotalAmount(snapshot),
		"total_entries":   len(snapshot),
		"flagged_entries": len(audit.FlaggedSubset(snapshot)),
		"category_totals": audit.CategoryTotals(snapshot),
		"top_vendors":     audit.TopVendorsByAmount(snapshot, h.opts.TopVendors),
	})
}

// CategoryChart renders the expense-by-category pie chart.
func (h *Handler) CategoryChart(c *gin.Context) {
	snapshot, ok := h.currentSnapshot(c)
	if !ok {
		return
	}
	h.renderChart(c, func(buf *bytes.Buffer) error {
		return h.charts.CategoryPie(buf, audit.CategoryTotals(snapshot))
	})
}

// VendorChart renders the top-vendors bar chart.
func (h *Handler) VendorChart(c *gin.Context) {
	snapshot, ok := h.currentSnapshot(c)
	if !ok {
		return
	}
	h.renderChart(c, func(buf *bytes.Buffer) error {
		return h.charts.TopVendorsBar(buf, audit.TopVendorsByAmount(snapshot, h.opts.TopVendors))
	})
}

// ExportFlagged streams the flagged subset as a CSV download.
func (h *Handler) ExportFlagged(c *gin.Context) {
	snapshot, ok := h.currentSnapshot(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.writer.Write(&buf, audit.FlaggedSubset(snapshot)); err != nil {
		h.logger.Error("failed to build csv export", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build export"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="flagged_entries.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// renderChart buffers the PNG so a render failure never corrupts a partially
// written image response.
func (h *Handler) renderChart(c *gin.Context, render func(*bytes.Buffer) error) {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		if errors.Is(err, report.ErrNoData) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no data to chart"})
			return
		}
		h.logger.Error("failed to render chart", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render chart"})
		return
	}
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

// currentSnapshot fetches the uploaded dataset, responding 404 when no
// upload has happened yet.
func (h *Handler) currentSnapshot(c *gin.Context) ([]audit.ExpenseRecord, bool) {
	h.mu.RLock()
	snapshot, loaded := h.snapshot, h.loaded
	h.mu.RUnlock()

	if !loaded {
		c.JSON(http.StatusNotFound, gin.H{"error": "no expense data uploaded yet"})
		return nil, false
	}
	return snapshot, true
}
