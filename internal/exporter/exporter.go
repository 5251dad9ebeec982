package exporter

import (
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"github.com/Joaotp75/dashboard-assessores/internal/aggregator"
	"github.com/Joaotp75/dashboard-assessores/internal/model"
)

// 导出工作表名
const (
	SheetSummary = "Resumo"
	SheetMonthly = "Mensal"
	SheetRows    = "Operações"
)

// ContentType xlsx 下载类型
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ErrNilDashboard 没有可导出的视图
var ErrNilDashboard = errors.New("dashboard is nil")

const currencyFormat = `"R$ "#,##0.00`

// Exporter 仪表盘 Excel 导出器
type Exporter struct {
	log logrus.FieldLogger
}

// NewExporter 创建导出器
func NewExporter(log logrus.FieldLogger) *Exporter {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Exporter{log: log}
}

type styles struct {
	header   int
	title    int
	currency int
	percent  int
}

// Export 把当前筛选的仪表盘写成工作簿：Resumo / Mensal（含两条折线图）/ Operações
func (e *Exporter) Export(d *aggregator.Dashboard, progress func(ProgressEvent)) (*excelize.File, error) {
	if d == nil {
		return nil, ErrNilDashboard
	}

	f := excelize.NewFile()
	reportProgress(progress, 5, "准备工作簿")

	st, err := newStyles(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if err := writeSummarySheet(f, st, d); err != nil {
		_ = f.Close()
		return nil, err
	}
	reportProgress(progress, 30, "写入汇总")

	if _, err := f.NewSheet(SheetMonthly); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("create sheet %s: %w", SheetMonthly, err)
	}
	if err := writeMonthlySheet(f, st, d); err != nil {
		_ = f.Close()
		return nil, err
	}
	reportProgress(progress, 60, "写入月度与图表")

	if _, err := f.NewSheet(SheetRows); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("create sheet %s: %w", SheetRows, err)
	}
	if err := writeRowsSheet(f, st, d); err != nil {
		_ = f.Close()
		return nil, err
	}
	reportProgress(progress, 95, "写入明细")

	f.SetActiveSheet(0)
	e.log.WithFields(logrus.Fields{
		"advisor": d.Selection.AdvisorCode,
		"month":   d.Selection.Month,
		"rows":    d.Count,
		"months":  len(d.Monthly),
	}).Info("dashboard exported")
	reportProgress(progress, 100, "完成")
	return f, nil
}

// WriteTo 导出并写入 w
func (e *Exporter) WriteTo(w io.Writer, d *aggregator.Dashboard) error {
	f, err := e.Export(d, nil)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// FileName 下载文件名，例如 dashboard_AB1234_Janeiro.xlsx
func FileName(sel model.FilterSelection) string {
	sel = sel.Normalize()
	return fmt.Sprintf("dashboard_%s_%s.xlsx", sel.AdvisorCode, sel.Month)
}

func newStyles(f *excelize.File) (styles, error) {
	var st styles
	var err error

	st.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E2E8F0"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return st, fmt.Errorf("header style: %w", err)
	}
	st.title, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	if err != nil {
		return st, fmt.Errorf("title style: %w", err)
	}
	format := currencyFormat
	st.currency, err = f.NewStyle(&excelize.Style{CustomNumFmt: &format})
	if err != nil {
		return st, fmt.Errorf("currency style: %w", err)
	}
	// 10 = 0.00%
	st.percent, err = f.NewStyle(&excelize.Style{NumFmt: 10})
	if err != nil {
		return st, fmt.Errorf("percent style: %w", err)
	}
	return st, nil
}

func writeSummarySheet(f *excelize.File, st styles, d *aggregator.Dashboard) error {
	sheet := SheetSummary
	if err := f.SetCellValue(sheet, "A1", d.Title); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", "A1", st.title); err != nil {
		return err
	}

	rows := [][]interface{}{
		{"Assessor", d.Selection.AdvisorCode},
		{"Mês", d.Selection.Month},
		{"Operações", d.Count},
	}
	for i, r := range rows {
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+3), &r); err != nil {
			return fmt.Errorf("write %s: %w", sheet, err)
		}
	}

	if d.Empty {
		return f.SetCellValue(sheet, "A7", d.Notice)
	}

	header := []interface{}{"Movimentação Total", "Comissão Total", "ROA Médio"}
	if err := f.SetSheetRow(sheet, "A7", &header); err != nil {
		return fmt.Errorf("write %s: %w", sheet, err)
	}
	if err := f.SetCellStyle(sheet, "A7", "C7", st.header); err != nil {
		return err
	}
	values := []interface{}{d.Summary.TotalMovement, d.Summary.TotalCommission, d.Summary.AverageROA}
	if err := f.SetSheetRow(sheet, "A8", &values); err != nil {
		return fmt.Errorf("write %s: %w", sheet, err)
	}
	if err := f.SetCellStyle(sheet, "A8", "B8", st.currency); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "C8", "C8", st.percent); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "A", "C", 22)
}

func writeMonthlySheet(f *excelize.File, st styles, d *aggregator.Dashboard) error {
	sheet := SheetMonthly
	header := []interface{}{"Mês", "Movimentação", "Comissão", "ROA", "Operações"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write %s: %w", sheet, err)
	}
	if err := f.SetCellStyle(sheet, "A1", "E1", st.header); err != nil {
		return err
	}

	for i, m := range d.Monthly {
		row := i + 2
		// 百分数口径转为小数，配合 0.00% 格式显示
		values := []interface{}{m.Month, m.Movement, m.Commission, m.ROAPercent / 100, m.Count}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", row), &values); err != nil {
			return fmt.Errorf("write %s: %w", sheet, err)
		}
	}
	if n := len(d.Monthly); n > 0 {
		last := n + 1
		if err := f.SetCellStyle(sheet, "B2", fmt.Sprintf("C%d", last), st.currency); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, "D2", fmt.Sprintf("D%d", last), st.percent); err != nil {
			return err
		}
		if err := addMonthlyCharts(f, sheet, last); err != nil {
			return err
		}
	}
	return f.SetColWidth(sheet, "A", "E", 18)
}

// addMonthlyCharts 两条折线图：按月 movimentação 与按月 comissão
func addMonthlyCharts(f *excelize.File, sheet string, lastRow int) error {
	categories := fmt.Sprintf("'%s'!$A$2:$A$%d", sheet, lastRow)
	charts := []struct {
		cell   string
		title  string
		column string
	}{
		{"G2", "Movimentação por mês", "B"},
		{"G20", "Comissão por mês", "C"},
	}
	for _, c := range charts {
		chart := &excelize.Chart{
			Type: excelize.Line,
			Series: []excelize.ChartSeries{{
				Name:       fmt.Sprintf("'%s'!$%s$1", sheet, c.column),
				Categories: categories,
				Values:     fmt.Sprintf("'%s'!$%s$2:$%s$%d", sheet, c.column, c.column, lastRow),
			}},
			Title:     []excelize.RichTextRun{{Text: c.title}},
			Legend:    excelize.ChartLegend{Position: "none"},
			Dimension: excelize.ChartDimension{Width: 560, Height: 300},
		}
		if err := f.AddChart(sheet, c.cell, chart); err != nil {
			return fmt.Errorf("add chart %q: %w", c.title, err)
		}
	}
	return nil
}

func writeRowsSheet(f *excelize.File, st styles, d *aggregator.Dashboard) error {
	sheet := SheetRows
	header := []interface{}{"Assessor", "Mês", "Data", "Produto", "Valor Movimentação", "ROA", "Comissão Bruta", "Arquivo", "Linha"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write %s: %w", sheet, err)
	}
	if err := f.SetCellStyle(sheet, "A1", "I1", st.header); err != nil {
		return err
	}

	for i, r := range d.Rows {
		row := i + 2
		values := []interface{}{
			r.AdvisorCode,
			r.Month,
			r.DateText,
			r.ProductText,
			cellValue(r.MovementValue),
			cellValue(r.ROA),
			cellValue(r.GrossCommission),
			r.SourceFile,
			r.Row,
		}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", row), &values); err != nil {
			return fmt.Errorf("write %s: %w", sheet, err)
		}
	}
	if n := len(d.Rows); n > 0 {
		last := n + 1
		if err := f.SetCellStyle(sheet, "E2", fmt.Sprintf("E%d", last), st.currency); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, "F2", fmt.Sprintf("F%d", last), st.percent); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, "G2", fmt.Sprintf("G%d", last), st.currency); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(sheet, "A", "G", 16); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "H", "H", 28)
}

// cellValue 数值单元格写数值，其余写展示文本
func cellValue(c model.Cell) interface{} {
	if c.IsEmpty() {
		return nil
	}
	if v, ok := c.Float(); ok {
		return v
	}
	return c.String()
}
