package model

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// CellKind 单元格值类型
type CellKind int

const (
	CellEmpty CellKind = iota
	CellText
	CellNumber
	CellDate
)

// Cell 工作表中读出的原始标量值
//
// The worksheet does not enforce types, so a cell keeps whatever kind it was
// decoded as and numeric interpretation is deferred to the aggregation step.
type Cell struct {
	Kind   CellKind
	Text   string
	Number float64
	Time   time.Time
}

// EmptyCell 空单元格
func EmptyCell() Cell { return Cell{Kind: CellEmpty} }

// TextCell 文本单元格
func TextCell(s string) Cell {
	if s == "" {
		return EmptyCell()
	}
	return Cell{Kind: CellText, Text: s}
}

// NumberCell 数值单元格
func NumberCell(v float64) Cell { return Cell{Kind: CellNumber, Number: v} }

// DateCell 日期单元格
func DateCell(t time.Time) Cell { return Cell{Kind: CellDate, Time: t} }

// IsEmpty 是否为空（空白文本也视为空）
func (c Cell) IsEmpty() bool {
	switch c.Kind {
	case CellEmpty:
		return true
	case CellText:
		return strings.TrimSpace(c.Text) == ""
	}
	return false
}

// Float returns the numeric value of the cell. Empty cells read as 0; text
// cells are accepted when they hold a plain decimal number.
func (c Cell) Float() (float64, bool) {
	switch c.Kind {
	case CellEmpty:
		return 0, true
	case CellNumber:
		return c.Number, finite(c.Number)
	case CellText:
		s := strings.TrimSpace(c.Text)
		if s == "" {
			return 0, true
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || !finite(v) {
			return 0, false
		}
		return v, true
	}
	return 0, false
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// String 单元格的展示文本
func (c Cell) String() string {
	switch c.Kind {
	case CellText:
		return c.Text
	case CellNumber:
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	case CellDate:
		if c.Time.Hour() == 0 && c.Time.Minute() == 0 && c.Time.Second() == 0 {
			return c.Time.Format("2006-01-02")
		}
		return c.Time.Format("2006-01-02 15:04:05")
	}
	return ""
}

// MarshalJSON emits the natural JSON scalar: null, string or number.
func (c Cell) MarshalJSON() ([]byte, error) {
	switch c.Kind {
	case CellEmpty:
		return []byte("null"), nil
	case CellNumber:
		if !finite(c.Number) {
			return json.Marshal(c.String())
		}
		return json.Marshal(c.Number)
	default:
		return json.Marshal(c.String())
	}
}
