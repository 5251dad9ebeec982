package exporter

import (
	"archive/zip"
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Joaotp75/dashboard-assessores/internal/aggregator"
	"github.com/Joaotp75/dashboard-assessores/internal/logger"
	"github.com/Joaotp75/dashboard-assessores/internal/model"
)

func testTable() model.ConsolidatedTable {
	row := func(advisor, month string, day int, movement, roa, commission float64) model.TransactionRecord {
		return model.TransactionRecord{
			AdvisorCode:     advisor,
			Month:           month,
			Date:            model.DateCell(time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC)),
			Product:         model.TextCell("CDB"),
			MovementValue:   model.NumberCell(movement),
			ROA:             model.NumberCell(roa),
			GrossCommission: model.NumberCell(commission),
			SourceFile:      advisor + "_2024.xlsx",
			Row:             day + 1,
		}
	}
	return model.ConsolidatedTable{
		row("AB1234", "Fevereiro", 1, 2000, 0.02, 40),
		row("AB1234", "Janeiro", 2, 1000, 0.01, 10),
		row("CD5678", "Janeiro", 3, 500, 0.01, 5),
	}
}

func exportToFile(t *testing.T, d *aggregator.Dashboard) (*excelize.File, []byte) {
	t.Helper()
	var buf bytes.Buffer
	if err := NewExporter(logger.Discard()).WriteTo(&buf, d); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	data := buf.Bytes()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	t.Cleanup(func() { _ = f.Close() })
	return f, data
}

func TestExport_WritesAllSheets(t *testing.T) {
	t.Parallel()

	d, err := aggregator.Build(testTable(), model.FilterSelection{AdvisorCode: "AB1234"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	f, data := exportToFile(t, d)

	sheets := f.GetSheetList()
	want := []string{SheetSummary, SheetMonthly, SheetRows}
	if len(sheets) != len(want) {
		t.Fatalf("sheets=%v, want %v", sheets, want)
	}
	for i := range want {
		if sheets[i] != want[i] {
			t.Fatalf("sheets=%v, want %v", sheets, want)
		}
	}

	raw := excelize.Options{RawCellValue: true}
	if v, _ := f.GetCellValue(SheetSummary, "A1"); v != "Lançamentos para AB1234 - Todos" {
		t.Fatalf("title=%q", v)
	}
	if v, _ := f.GetCellValue(SheetSummary, "A8", raw); v != "3000" {
		t.Fatalf("total movement=%q", v)
	}
	if v, _ := f.GetCellValue(SheetSummary, "B8", raw); v != "50" {
		t.Fatalf("total commission=%q", v)
	}

	monthly, err := f.GetRows(SheetMonthly, raw)
	if err != nil {
		t.Fatalf("GetRows monthly: %v", err)
	}
	if len(monthly) != 3 || monthly[1][0] != "Janeiro" || monthly[2][0] != "Fevereiro" {
		t.Fatalf("monthly=%v", monthly)
	}

	rows, err := f.GetRows(SheetRows, raw)
	if err != nil {
		t.Fatalf("GetRows rows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows=%d, want header + 2", len(rows))
	}
	if rows[1][0] != "AB1234" || rows[1][1] != "Fevereiro" || rows[1][4] != "2000" {
		t.Fatalf("first row=%v", rows[1])
	}

	charts := countCharts(t, data)
	if charts != 2 {
		t.Fatalf("charts=%d, want 2", charts)
	}
}

func TestExport_EmptySelection(t *testing.T) {
	t.Parallel()

	d, err := aggregator.Build(testTable(), model.FilterSelection{AdvisorCode: "CD5678", Month: "Fevereiro"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	f, data := exportToFile(t, d)

	if v, _ := f.GetCellValue(SheetSummary, "A7"); v != aggregator.NoticeEmptySelection {
		t.Fatalf("notice=%q", v)
	}
	if n := countCharts(t, data); n != 0 {
		t.Fatalf("charts=%d, want 0", n)
	}
}

func TestExport_Progress(t *testing.T) {
	t.Parallel()

	d, err := aggregator.Build(testTable(), model.AllSelection())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	var events []ProgressEvent
	f, err := NewExporter(logger.Discard()).Export(d, func(ev ProgressEvent) {
		events = append(events, ev)
	})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	defer f.Close()

	if len(events) == 0 || events[len(events)-1].Percent != 100 {
		t.Fatalf("events=%v", events)
	}
	for i := 1; i < len(events); i++ {
		if events[i].Percent < events[i-1].Percent {
			t.Fatalf("progress went backwards: %v", events)
		}
	}
}

func TestExport_NilDashboard(t *testing.T) {
	t.Parallel()
	if _, err := NewExporter(nil).Export(nil, nil); !errors.Is(err, ErrNilDashboard) {
		t.Fatalf("err=%v, want ErrNilDashboard", err)
	}
}

func TestFileName(t *testing.T) {
	t.Parallel()
	if got := FileName(model.FilterSelection{AdvisorCode: "AB1234"}); got != "dashboard_AB1234_Todos.xlsx" {
		t.Fatalf("FileName=%q", got)
	}
}

func countCharts(t *testing.T, data []byte) int {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("zip: %v", err)
	}
	n := 0
	for _, f := range zr.File {
		if strings.HasPrefix(f.Name, "xl/charts/chart") {
			n++
		}
	}
	return n
}
