// Package report exports price series into spreadsheet workbooks.
package report

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/mkarneyeu/ratewatch/internal/common"
	"github.com/mkarneyeu/ratewatch/internal/interfaces"
	"github.com/mkarneyeu/ratewatch/internal/models"
)

const (
	dataSheet  = "Data"
	statsSheet = "Statistics"
)

// Service implements ReportService with xlsx workbooks.
type Service struct {
	logger *common.Logger
}

// NewService creates the xlsx report exporter.
func NewService(logger *common.Logger) *Service {
	return &Service{logger: logger}
}

// Export builds a two-sheet workbook: the raw dated series on one sheet with
// an embedded line chart, and the summary figures on the other. label names
// the instrument in headers and chart titles.
func (s *Service) Export(ctx context.Context, label string, series []models.PricePoint, stats models.SeriesStats) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(series) == 0 {
		return nil, fmt.Errorf("nothing to export for %s", label)
	}

	f := excelize.NewFile()
	defer f.Close()

	// excelize starts with a default "Sheet1"; rename it instead of
	// leaving an empty sheet in the workbook.
	if err := f.SetSheetName("Sheet1", dataSheet); err != nil {
		return nil, fmt.Errorf("workbook setup failed: %w", err)
	}
	if _, err := f.NewSheet(statsSheet); err != nil {
		return nil, fmt.Errorf("workbook setup failed: %w", err)
	}

	if err := s.writeData(f, label, series); err != nil {
		return nil, err
	}
	if err := s.writeStats(f, label, stats); err != nil {
		return nil, err
	}
	if err := s.addChart(f, label, len(series)); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("workbook serialization failed: %w", err)
	}

	s.logger.Debug().
		Str("instrument", label).
		Int("rows", len(series)).
		Msg("Workbook exported")

	return buf.Bytes(), nil
}

func (s *Service) writeData(f *excelize.File, label string, series []models.PricePoint) error {
	if err := f.SetSheetRow(dataSheet, "A1", &[]interface{}{"Date", label}); err != nil {
		return fmt.Errorf("data sheet write failed: %w", err)
	}
	for i, p := range series {
		cell := fmt.Sprintf("A%d", i+2)
		row := []interface{}{p.Date.Format("2006-01-02"), p.Value}
		if err := f.SetSheetRow(dataSheet, cell, &row); err != nil {
			return fmt.Errorf("data sheet write failed at row %d: %w", i+2, err)
		}
	}
	return nil
}

func (s *Service) writeStats(f *excelize.File, label string, stats models.SeriesStats) error {
	rows := [][]interface{}{
		{"Metric", label},
		{"Mean", stats.Mean},
		{"Median", stats.Median},
		{"Max", stats.Max},
		{"Min", stats.Min},
	}
	for i, row := range rows {
		cell := fmt.Sprintf("A%d", i+1)
		if err := f.SetSheetRow(statsSheet, cell, &row); err != nil {
			return fmt.Errorf("statistics sheet write failed: %w", err)
		}
	}
	return nil
}

func (s *Service) addChart(f *excelize.File, label string, rows int) error {
	chart := &excelize.Chart{
		Type: excelize.Line,
		Series: []excelize.ChartSeries{
			{
				Name:       fmt.Sprintf("%s!$B$1", dataSheet),
				Categories: fmt.Sprintf("%s!$A$2:$A$%d", dataSheet, rows+1),
				Values:     fmt.Sprintf("%s!$B$2:$B$%d", dataSheet, rows+1),
			},
		},
		Title: []excelize.RichTextRun{
			{Text: label},
		},
		Legend: excelize.ChartLegend{Position: "bottom"},
	}
	if err := f.AddChart(dataSheet, "D2", chart); err != nil {
		return fmt.Errorf("chart embed failed: %w", err)
	}
	return nil
}

// Ensure Service implements ReportService
var _ interfaces.ReportService = (*Service)(nil)
