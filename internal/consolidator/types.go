package consolidator

import (
	"time"

	"github.com/Joaotp75/dashboard-assessores/internal/model"
)

// 工作表处理状态
const (
	SheetStatusImported = "imported"
	SheetStatusEmpty    = "empty"
	SheetStatusError    = "error"
)

// SheetResult 单个工作表的处理结果
type SheetResult struct {
	SheetName string `json:"sheetName"`
	Status    string `json:"status"` // imported/empty/error
	RowsRead  int    `json:"rowsRead"`
	RowsKept  int    `json:"rowsKept"`
	BlankRows int    `json:"blankRows"`
	Error     string `json:"error,omitempty"`
}

// FileResult 单个文件的处理结果
type FileResult struct {
	Filename    string        `json:"filename"`
	AdvisorCode string        `json:"advisorCode"`
	RowsKept    int           `json:"rowsKept"`
	Sheets      []SheetResult `json:"sheets"`
}

// Report 合并报告
type Report struct {
	TotalFiles  int           `json:"totalFiles"`
	TotalSheets int           `json:"totalSheets"`
	TotalRows   int           `json:"totalRows"`
	BlankRows   int           `json:"blankRows"`
	ErrorSheets int           `json:"errorSheets"`
	Duration    time.Duration `json:"duration"`
	Files       []FileResult  `json:"files"`
}

// Result 合并结果
type Result struct {
	Table  model.ConsolidatedTable
	Report *Report
}

// NoFiles 未上传任何文件
func (r *Result) NoFiles() bool {
	return r == nil || r.Report == nil || r.Report.TotalFiles == 0
}

// NoRows 上传了文件但没有可用数据行
func (r *Result) NoRows() bool {
	return !r.NoFiles() && len(r.Table) == 0
}
