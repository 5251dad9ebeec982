package consolidator

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"github.com/Joaotp75/dashboard-assessores/internal/model"
)

// Workbook 已解码的工作簿：按声明顺序列出工作表，并按行读取单元格
//
// *excelize.File satisfies it.
type Workbook interface {
	GetSheetList() []string
	GetRows(sheet string, opts ...excelize.Options) ([][]string, error)
}

type workbookProps interface {
	GetWorkbookProps() (excelize.WorkbookPropsOptions, error)
}

// Source 一个上传文件
type Source struct {
	Filename string
	Workbook Workbook
}

// Close 关闭底层工作簿
func (s *Source) Close() error {
	if c, ok := s.Workbook.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// OpenSource 从 reader 打开 xlsx 文件
func OpenSource(filename string, r io.Reader) (*Source, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &WorkbookError{Filename: filename, Err: err}
	}
	return &Source{Filename: filename, Workbook: f}, nil
}

// OpenBytes 从内存数据打开 xlsx 文件
func OpenBytes(filename string, data []byte) (*Source, error) {
	return OpenSource(filename, bytes.NewReader(data))
}

// Consolidator 合并器：把多个工作簿的全部工作表展平为一张表
type Consolidator struct {
	log logrus.FieldLogger
}

// New 创建合并器
func New(log logrus.FieldLogger) *Consolidator {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Consolidator{log: log.WithField("component", "consolidator")}
}

// Consolidate 使用默认日志合并
func Consolidate(sources []*Source) (*Result, error) {
	return New(nil).Consolidate(sources)
}

// Consolidate 合并所有文件
//
// Records keep file → worksheet → row order. An empty source list is not an
// error: the result has an empty table and Result.NoFiles reports it.
func (c *Consolidator) Consolidate(sources []*Source) (*Result, error) {
	start := time.Now()
	result := &Result{
		Table:  model.ConsolidatedTable{},
		Report: &Report{Files: []FileResult{}},
	}

	for _, src := range sources {
		code, err := AdvisorCode(src.Filename)
		if err != nil {
			return nil, err
		}
		if src.Workbook == nil {
			return nil, &WorkbookError{Filename: src.Filename, Err: fmt.Errorf("workbook is nil")}
		}

		fr := c.consolidateFile(src, code, &result.Table)
		result.Report.TotalFiles++
		result.Report.TotalSheets += len(fr.Sheets)
		result.Report.TotalRows += fr.RowsKept
		for _, s := range fr.Sheets {
			result.Report.BlankRows += s.BlankRows
			if s.Status == SheetStatusError {
				result.Report.ErrorSheets++
			}
		}
		result.Report.Files = append(result.Report.Files, fr)
	}

	result.Report.Duration = time.Since(start)
	c.log.WithFields(logrus.Fields{
		"files":  result.Report.TotalFiles,
		"sheets": result.Report.TotalSheets,
		"rows":   result.Report.TotalRows,
		"blank":  result.Report.BlankRows,
	}).Info("consolidation finished")

	return result, nil
}

func (c *Consolidator) consolidateFile(src *Source, code string, table *model.ConsolidatedTable) FileResult {
	fr := FileResult{
		Filename:    src.Filename,
		AdvisorCode: code,
		Sheets:      []SheetResult{},
	}

	date1904 := false
	if wp, ok := src.Workbook.(workbookProps); ok {
		if props, err := wp.GetWorkbookProps(); err == nil && props.Date1904 != nil {
			date1904 = *props.Date1904
		}
	}

	for _, sheet := range src.Workbook.GetSheetList() {
		sr := c.consolidateSheet(src, sheet, code, date1904, table)
		fr.RowsKept += sr.RowsKept
		fr.Sheets = append(fr.Sheets, sr)
	}
	return fr
}

func (c *Consolidator) consolidateSheet(src *Source, sheet, code string, date1904 bool, table *model.ConsolidatedTable) SheetResult {
	sr := SheetResult{SheetName: sheet, Status: SheetStatusEmpty}

	raw, err := src.Workbook.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		sr.Status = SheetStatusError
		sr.Error = fmt.Sprintf("读取工作表失败: %v", err)
		c.log.WithError(err).WithFields(logrus.Fields{"file": src.Filename, "sheet": sheet}).Warn("read sheet failed")
		return sr
	}
	formatted, err := src.Workbook.GetRows(sheet)
	if err != nil {
		sr.Status = SheetStatusError
		sr.Error = fmt.Sprintf("读取工作表失败: %v", err)
		c.log.WithError(err).WithFields(logrus.Fields{"file": src.Filename, "sheet": sheet}).Warn("read sheet failed")
		return sr
	}

	// 第 1 行为表头，从第 2 行开始读到最后一个有数据的行
	for i := firstDataRow - 1; i < len(raw); i++ {
		var fmtRow []string
		if i < len(formatted) {
			fmtRow = formatted[i]
		}
		sr.RowsRead++

		rec := model.TransactionRecord{
			AdvisorCode: code,
			Month:       sheet,
			SourceFile:  src.Filename,
			Row:         i + 1,
		}
		cells := make([]model.Cell, dataColumns)
		for col := 1; col <= dataColumns; col++ {
			r, f := cellAt(raw[i], fmtRow, col)
			cells[col-1] = decodeCell(col, r, f, date1904)
		}
		rec.Date = cells[ColDate-1]
		rec.Product = cells[ColProduct-1]
		rec.MovementValue = cells[ColMovementValue-1]
		rec.ROA = cells[ColROA-1]
		rec.GrossCommission = cells[ColGrossCommission-1]

		if !rec.HasData() {
			sr.BlankRows++
			continue
		}
		*table = append(*table, rec)
		sr.RowsKept++
	}

	if sr.RowsKept > 0 {
		sr.Status = SheetStatusImported
	}
	c.log.WithFields(logrus.Fields{
		"file":  src.Filename,
		"sheet": sheet,
		"kept":  sr.RowsKept,
		"blank": sr.BlankRows,
	}).Debug("sheet consolidated")
	return sr
}
