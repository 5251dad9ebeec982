package model

import "time"

// 上传日志状态
const (
	ImportStatusProcessing = "processing"
	ImportStatusSuccess    = "success"
	ImportStatusEmpty      = "empty"
	ImportStatusFailed     = "failed"
)

// ImportLog 一个上传文件的审计记录（只记元信息，不保存流水）
type ImportLog struct {
	ID             int64      `json:"id"`
	UploadID       string     `json:"uploadId"`
	Filename       string     `json:"filename"`
	AdvisorCode    string     `json:"advisorCode"`
	FileSize       int64      `json:"fileSize"`
	FileHash       string     `json:"fileHash"`
	TotalSheets    int        `json:"totalSheets"`
	ImportedSheets int        `json:"importedSheets"`
	EmptySheets    int        `json:"emptySheets"`
	ImportedRows   int        `json:"importedRows"`
	BlankRows      int        `json:"blankRows"`
	Status         string     `json:"status"`
	ErrorMessage   string     `json:"errorMessage,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	CompletedAt    *time.Time `json:"completedAt,omitempty"`
}

// SheetMeta 工作表元信息
type SheetMeta struct {
	ImportLogID  int64  `json:"importLogId"`
	SourceFile   string `json:"sourceFile"`
	SheetName    string `json:"sheetName"`
	RowsRead     int    `json:"rowsRead"`
	ImportedRows int    `json:"importedRows"`
	BlankRows    int    `json:"blankRows"`
	Status       string `json:"status"`
	ErrorMessage string `json:"errorMessage,omitempty"`
}
