package consolidator_test

import (
	"errors"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Joaotp75/dashboard-assessores/internal/consolidator"
	"github.com/Joaotp75/dashboard-assessores/internal/model"
)

type sheetFixture struct {
	name string
	rows map[int][]interface{} // 行号（1 开始）→ 单元格
}

var header = []interface{}{"Data", "Produto", "Valor Movimentação", "ROA", "Comissão Bruta"}

func buildWorkbook(t *testing.T, sheets ...sheetFixture) *excelize.File {
	t.Helper()

	f := excelize.NewFile()
	t.Cleanup(func() { _ = f.Close() })

	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), s.name); err != nil {
				t.Fatalf("SetSheetName failed: %v", err)
			}
		} else if _, err := f.NewSheet(s.name); err != nil {
			t.Fatalf("NewSheet failed: %v", err)
		}
		hdr := header
		if err := f.SetSheetRow(s.name, "A1", &hdr); err != nil {
			t.Fatalf("SetSheetRow header failed: %v", err)
		}
		for rowNo, row := range s.rows {
			r := row
			cell, _ := excelize.CoordinatesToCellName(1, rowNo)
			if err := f.SetSheetRow(s.name, cell, &r); err != nil {
				t.Fatalf("SetSheetRow failed: %v", err)
			}
		}
	}
	return f
}

func TestConsolidate_TwoFilesScenario(t *testing.T) {
	t.Parallel()

	jan := buildWorkbook(t, sheetFixture{name: "Janeiro", rows: map[int][]interface{}{
		2: {time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), "Fundo X", 1000.0, 0.01, 10.0},
	}})
	fev := buildWorkbook(t, sheetFixture{name: "Fevereiro", rows: map[int][]interface{}{
		2: {time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC), "Fundo Y", 2000.0, 0.02, 40.0},
	}})

	result, err := consolidator.Consolidate([]*consolidator.Source{
		{Filename: "AB1234_jan.xlsx", Workbook: jan},
		{Filename: "CD5678_fev.xlsx", Workbook: fev},
	})
	if err != nil {
		t.Fatalf("Consolidate failed: %v", err)
	}
	if len(result.Table) != 2 {
		t.Fatalf("expected 2 records, got %d", len(result.Table))
	}

	first := result.Table[0]
	if first.AdvisorCode != "AB1234" || first.Month != "Janeiro" {
		t.Fatalf("unexpected first record: %+v", first)
	}
	if first.Date.Kind != model.CellDate || first.Date.Time.Format("2006-01-02") != "2024-01-05" {
		t.Fatalf("unexpected date cell: %+v", first.Date)
	}
	if first.Product.Kind != model.CellText || first.Product.Text != "Fundo X" {
		t.Fatalf("unexpected product: %+v", first.Product)
	}
	if v, ok := first.MovementValue.Float(); !ok || v != 1000 {
		t.Fatalf("unexpected movement: %v ok=%v", v, ok)
	}
	if v, ok := first.ROA.Float(); !ok || v != 0.01 {
		t.Fatalf("unexpected roa: %v ok=%v", v, ok)
	}
	if first.Row != 2 || first.SourceFile != "AB1234_jan.xlsx" {
		t.Fatalf("unexpected origin: file=%s row=%d", first.SourceFile, first.Row)
	}

	second := result.Table[1]
	if second.AdvisorCode != "CD5678" || second.Month != "Fevereiro" {
		t.Fatalf("unexpected second record: %+v", second)
	}
	if v, _ := second.GrossCommission.Float(); v != 40 {
		t.Fatalf("unexpected commission: %v", v)
	}

	if result.Report.TotalFiles != 2 || result.Report.TotalSheets != 2 || result.Report.TotalRows != 2 {
		t.Fatalf("unexpected report: %+v", result.Report)
	}
}

func TestConsolidate_SkipsBlankRowsAndKeepsOrder(t *testing.T) {
	t.Parallel()

	wb := buildWorkbook(t,
		sheetFixture{name: "Março", rows: map[int][]interface{}{
			3: {nil, "Fundo A", 100.0, nil, nil},
			5: {nil, nil, nil, nil, 1.5},
		}},
		sheetFixture{name: "Janeiro", rows: map[int][]interface{}{
			2: {"05/01/2024", "Fundo B", 50.0, 0.01, 0.5},
		}},
		sheetFixture{name: "Vazia"},
	)

	result, err := consolidator.Consolidate([]*consolidator.Source{{Filename: "XY9999.xlsx", Workbook: wb}})
	if err != nil {
		t.Fatalf("Consolidate failed: %v", err)
	}

	if len(result.Table) != 3 {
		t.Fatalf("expected 3 records, got %d: %+v", len(result.Table), result.Table)
	}
	wantMonths := []string{"Março", "Março", "Janeiro"}
	wantRows := []int{3, 5, 2}
	for i, rec := range result.Table {
		if rec.Month != wantMonths[i] || rec.Row != wantRows[i] {
			t.Fatalf("record %d: month=%s row=%d, want %s/%d", i, rec.Month, rec.Row, wantMonths[i], wantRows[i])
		}
	}

	// 字符串日期保持原样
	if d := result.Table[2].Date; d.Kind != model.CellText || d.Text != "05/01/2024" {
		t.Fatalf("unexpected text date: %+v", d)
	}

	sheets := result.Report.Files[0].Sheets
	if len(sheets) != 3 {
		t.Fatalf("expected 3 sheet results, got %d", len(sheets))
	}
	if sheets[0].BlankRows != 2 || sheets[0].RowsKept != 2 {
		t.Fatalf("unexpected Março result: %+v", sheets[0])
	}
	if sheets[2].Status != consolidator.SheetStatusEmpty || sheets[2].RowsKept != 0 {
		t.Fatalf("unexpected empty sheet result: %+v", sheets[2])
	}
}

func TestConsolidate_NoSources(t *testing.T) {
	t.Parallel()

	result, err := consolidator.Consolidate(nil)
	if err != nil {
		t.Fatalf("Consolidate failed: %v", err)
	}
	if len(result.Table) != 0 {
		t.Fatalf("expected empty table")
	}
	if !result.NoFiles() || result.NoRows() {
		t.Fatalf("expected NoFiles only, got NoFiles=%v NoRows=%v", result.NoFiles(), result.NoRows())
	}
}

func TestConsolidate_FilesWithoutRows(t *testing.T) {
	t.Parallel()

	wb := buildWorkbook(t, sheetFixture{name: "Abril"})
	result, err := consolidator.Consolidate([]*consolidator.Source{{Filename: "ZZ0001.xlsx", Workbook: wb}})
	if err != nil {
		t.Fatalf("Consolidate failed: %v", err)
	}
	if result.NoFiles() || !result.NoRows() {
		t.Fatalf("expected NoRows only, got NoFiles=%v NoRows=%v", result.NoFiles(), result.NoRows())
	}
}

func TestConsolidate_ShortFilename(t *testing.T) {
	t.Parallel()

	wb := buildWorkbook(t, sheetFixture{name: "Maio"})
	_, err := consolidator.Consolidate([]*consolidator.Source{{Filename: "a.xls", Workbook: wb}})
	if !errors.Is(err, consolidator.ErrInvalidFilename) {
		t.Fatalf("expected ErrInvalidFilename, got %v", err)
	}
	var fe *consolidator.FilenameError
	if !errors.As(err, &fe) || fe.Filename != "a.xls" {
		t.Fatalf("expected FilenameError for a.xls, got %v", err)
	}
}

func TestOpenBytes_RoundTrip(t *testing.T) {
	t.Parallel()

	wb := buildWorkbook(t, sheetFixture{name: "Junho", rows: map[int][]interface{}{
		2: {nil, "Fundo Z", 10.0, 0.1, 1.0},
	}})
	buf, err := wb.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer failed: %v", err)
	}

	src, err := consolidator.OpenBytes("QW1234 relatorio.xlsx", buf.Bytes())
	if err != nil {
		t.Fatalf("OpenBytes failed: %v", err)
	}
	defer src.Close()

	result, err := consolidator.Consolidate([]*consolidator.Source{src})
	if err != nil {
		t.Fatalf("Consolidate failed: %v", err)
	}
	if len(result.Table) != 1 || result.Table[0].AdvisorCode != "QW1234" {
		t.Fatalf("unexpected table: %+v", result.Table)
	}
}

func TestOpenBytes_NotAWorkbook(t *testing.T) {
	t.Parallel()

	_, err := consolidator.OpenBytes("AB1234.xlsx", []byte("not a zip"))
	if !errors.Is(err, consolidator.ErrInvalidWorkbook) {
		t.Fatalf("expected ErrInvalidWorkbook, got %v", err)
	}
}
