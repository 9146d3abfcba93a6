// Package report assembles the narrative PDF report: category statistics
// over dashboard records, an LLM-written analysis, and one page per
// client-rendered chart.
package report

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/campuspulse/wellbeing-cli/internal/config"
	"github.com/campuspulse/wellbeing-cli/internal/dashboard"
	"github.com/campuspulse/wellbeing-cli/internal/store"
	"github.com/campuspulse/wellbeing-cli/pkg/narrative"
)

// TimestampLayout names report files; it doubles as the report ID in
// view and delete URLs.
const TimestampLayout = "2006-01-02_15-04"

// Placeholder is embedded when narrative generation fails. The report
// still ships with its statistics and charts.
const Placeholder = "The written analysis could not be generated for this report. " +
	"The aggregated statistics and charts that follow are complete; " +
	"regenerate the report to include the narrative."

const (
	maxChartWidth  = 190.0
	maxChartHeight = 150.0
)

// Filename returns the PDF filename for a timestamp.
func Filename(timestamp string) string {
	return "Wellbeing_Report_" + timestamp + ".pdf"
}

// PathFor returns the on-disk path of a report by timestamp.
func PathFor(data config.DataConfig, timestamp string) string {
	return filepath.Join(data.ReportsDir(), Filename(timestamp))
}

// Result describes one generated report.
type Result struct {
	Timestamp string
	Path      string
}

// Generator builds reports.
type Generator struct {
	data config.DataConfig
	narr narrative.Client
	db   store.Store
	now  func() time.Time
}

// Option configures a Generator.
type Option func(*Generator)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// WithStore records generated reports in the operational store.
func WithStore(db store.Store) Option {
	return func(g *Generator) { g.db = db }
}

// NewGenerator creates a Generator.
func NewGenerator(data config.DataConfig, narr narrative.Client, opts ...Option) *Generator {
	g := &Generator{data: data, narr: narr, now: time.Now}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate computes statistics, requests the narrative, assembles the
// PDF, and writes it under the reports directory. Chart values must be
// base64 PNG data URIs; an invalid chart fails the whole request before
// anything is written. A narrative failure does not: the report ships
// with placeholder text instead.
func (g *Generator) Generate(ctx context.Context, records []dashboard.Record, charts map[string]string) (*Result, error) {
	images := make(map[string][]byte, len(charts))
	for key, uri := range charts {
		img, err := DecodeChart(uri)
		if err != nil {
			return nil, eris.Wrapf(err, "report: chart %q", key)
		}
		images[key] = img
	}

	stats := Compute(records)
	body, err := g.narr.Generate(ctx, BuildPrompt(stats))
	if err != nil {
		zap.L().Warn("report: narrative generation failed, using placeholder",
			zap.Error(err))
		body = Placeholder
	}

	timestamp := g.now().Format(TimestampLayout)
	path := PathFor(g.data, timestamp)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, eris.Wrap(err, "report: create reports dir")
	}

	if err := renderPDF(path, body, images); err != nil {
		return nil, err
	}

	zap.L().Info("report generated",
		zap.String("timestamp", timestamp),
		zap.Int("records", stats.Total),
		zap.Int("charts", len(images)),
	)

	if g.db != nil {
		if _, err := g.db.CreateReport(ctx, timestamp, path); err != nil {
			zap.L().Warn("report: index write failed", zap.Error(err))
		}
	}

	return &Result{Timestamp: timestamp, Path: path}, nil
}

// renderPDF lays out the title page, narrative body, and one page per
// chart, fitted to the page while keeping aspect ratio.
func renderPDF(path, body string, images map[string][]byte) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "Student Well-being Analysis", "", 1, "C", false, 0, "")
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "", 12)
	pdf.MultiCell(0, 6, tr(body), "", "L", false)

	keys := make([]string, 0, len(images))
	for key := range images {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for i, key := range keys {
		name := fmt.Sprintf("chart-%d", i)
		info := pdf.RegisterImageOptionsReader(name,
			fpdf.ImageOptions{ImageType: "PNG"},
			bytes.NewReader(images[key]),
		)
		if pdf.Err() {
			return eris.Wrapf(pdf.Error(), "report: register chart %q", key)
		}

		w, h := fitChart(info.Width(), info.Height())

		pdf.AddPage()
		pdf.SetFont("Helvetica", "B", 14)
		pdf.CellFormat(0, 10, tr("Analysis for "+chartTitle(key)), "", 1, "L", false, 0, "")
		pdf.ImageOptions(name, 10, pdf.GetY()+4, w, h, false,
			fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return eris.Wrap(err, "report: write pdf")
	}
	return nil
}

// fitChart scales intrinsic image dimensions into the page bounds.
func fitChart(w, h float64) (float64, float64) {
	if w <= 0 || h <= 0 {
		return maxChartWidth, maxChartHeight
	}
	ratio := w / h
	if h > maxChartHeight {
		h = maxChartHeight
		w = h * ratio
	}
	if w > maxChartWidth {
		w = maxChartWidth
		h = w / ratio
	}
	return w, h
}
