package aggregator

import (
	"errors"
	"fmt"
)

// ErrInvalidData 数值列包含无法解析的值
var ErrInvalidData = errors.New("invalid data")

// InvalidDataError 定位到具体单元格的数据错误
type InvalidDataError struct {
	File   string
	Sheet  string
	Row    int
	Column string
	Value  string
}

func (e *InvalidDataError) Error() string {
	return fmt.Sprintf("%s / %s row %d: column %q holds non-numeric value %q", e.File, e.Sheet, e.Row, e.Column, e.Value)
}

func (e *InvalidDataError) Unwrap() error { return ErrInvalidData }
