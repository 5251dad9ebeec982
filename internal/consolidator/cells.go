package consolidator

import (
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/Joaotp75/dashboard-assessores/internal/model"
)

// 固定列位置（1 开始），不读取表头
const (
	ColDate            = 1
	ColProduct         = 2
	ColMovementValue   = 3
	ColROA             = 4
	ColGrossCommission = 5

	dataColumns  = 5
	firstDataRow = 2
)

// cellAt 取第 col 列（1 开始）的原始值与格式化值
func cellAt(raw, formatted []string, col int) (string, string) {
	i := col - 1
	var r, f string
	if i < len(raw) {
		r = raw[i]
	}
	if i < len(formatted) {
		f = formatted[i]
	}
	return r, f
}

// decodeCell 将单元格解码为 model.Cell
func decodeCell(col int, raw, formatted string, date1904 bool) model.Cell {
	if strings.TrimSpace(raw) == "" && strings.TrimSpace(formatted) == "" {
		return model.EmptyCell()
	}
	if col == ColProduct {
		if formatted != "" {
			return model.TextCell(formatted)
		}
		return model.TextCell(raw)
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		if formatted == "" {
			return model.TextCell(raw)
		}
		return model.TextCell(formatted)
	}

	if col == ColDate && looksLikeDate(raw, formatted) {
		if t, err := excelize.ExcelDateToTime(v, date1904); err == nil {
			return model.DateCell(t)
		}
	}
	return model.NumberCell(v)
}

// looksLikeDate 序列号被日期格式渲染过
func looksLikeDate(raw, formatted string) bool {
	if formatted == "" || formatted == raw {
		return false
	}
	return strings.ContainsAny(formatted, "/-:")
}
