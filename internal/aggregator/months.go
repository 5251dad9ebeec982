package aggregator

import (
	"sort"
	"strings"
)

// CanonicalMonths 月份标签的固定排序
var CanonicalMonths = []string{
	"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
	"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro",
}

// MonthIndex 返回月份在固定序列中的位置（0 开始），大小写与首尾空格不敏感
func MonthIndex(label string) (int, bool) {
	label = strings.TrimSpace(label)
	for i, m := range CanonicalMonths {
		if strings.EqualFold(label, m) {
			return i, true
		}
	}
	return -1, false
}

// SortMonthLabels 按固定月份顺序排序；无法识别的标签排在最后，按字典序
func SortMonthLabels(labels []string) {
	sort.SliceStable(labels, func(i, j int) bool {
		return monthLess(labels[i], labels[j])
	})
}

func monthLess(a, b string) bool {
	ia, okA := MonthIndex(a)
	ib, okB := MonthIndex(b)
	switch {
	case okA && okB:
		if ia != ib {
			return ia < ib
		}
		return a < b
	case okA:
		return true
	case okB:
		return false
	default:
		return a < b
	}
}
