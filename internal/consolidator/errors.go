package consolidator

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidFilename 文件名不足以提取顾问代码
	ErrInvalidFilename = errors.New("invalid filename")
	// ErrInvalidWorkbook 无法作为 xlsx 工作簿打开
	ErrInvalidWorkbook = errors.New("invalid workbook")
)

// FilenameError 文件名过短
type FilenameError struct {
	Filename string
}

func (e *FilenameError) Error() string {
	return fmt.Sprintf("filename %q is shorter than %d characters, cannot derive advisor code", e.Filename, AdvisorCodeLength)
}

func (e *FilenameError) Unwrap() error { return ErrInvalidFilename }

// WorkbookError 打开工作簿失败
type WorkbookError struct {
	Filename string
	Err      error
}

func (e *WorkbookError) Error() string {
	return fmt.Sprintf("open workbook %q: %v", e.Filename, e.Err)
}

func (e *WorkbookError) Unwrap() []error { return []error{ErrInvalidWorkbook, e.Err} }
