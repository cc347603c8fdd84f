package report

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/mkarneyeu/ratewatch/internal/common"
	"github.com/mkarneyeu/ratewatch/internal/models"
)

func testSeries() []models.PricePoint {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return []models.PricePoint{
		{Date: base, Value: 245.1},
		{Date: base.AddDate(0, 0, 1), Value: 247.3},
		{Date: base.AddDate(0, 0, 2), Value: 244.9},
	}
}

func TestExport_WorkbookHasBothSheets(t *testing.T) {
	svc := NewService(common.NewSilentLogger())

	stats := models.SeriesStats{Mean: 245.77, Median: 245.1, Max: 247.3, Min: 244.9}
	data, err := svc.Export(context.Background(), "Gold", testSeries(), stats)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not a readable workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 2 || sheets[0] != "Data" || sheets[1] != "Statistics" {
		t.Errorf("sheets = %v, want [Data Statistics]", sheets)
	}

	header, err := f.GetCellValue("Data", "B1")
	if err != nil || header != "Gold" {
		t.Errorf("data header = %q (%v), want Gold", header, err)
	}
	firstDate, _ := f.GetCellValue("Data", "A2")
	if firstDate != "2024-01-01" {
		t.Errorf("first date = %q, want 2024-01-01", firstDate)
	}

	mean, _ := f.GetCellValue("Statistics", "B2")
	if mean != "245.77" {
		t.Errorf("mean cell = %q, want 245.77", mean)
	}
}

func TestExport_EmptySeriesFails(t *testing.T) {
	svc := NewService(common.NewSilentLogger())

	_, err := svc.Export(context.Background(), "Gold", nil, models.SeriesStats{})
	if err == nil {
		t.Fatal("expected error for empty series")
	}
}

func TestExport_CancelledContext(t *testing.T) {
	svc := NewService(common.NewSilentLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Export(ctx, "Gold", testSeries(), models.SeriesStats{})
	if err == nil {
		t.Fatal("expected error for cancelled context")
	}
}
