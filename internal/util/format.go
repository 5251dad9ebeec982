package util

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// CurrencyPrefix 货币前缀（雷亚尔）
const CurrencyPrefix = "R$ "

// FormatCurrency 货币格式，千分位逗号、两位小数，如 "R$ 1,234.56"
func FormatCurrency(value float64) string {
	return CurrencyPrefix + groupThousands(decimal.NewFromFloat(value).StringFixed(2))
}

// FormatPercent 已是百分数的值，如 1.5 → "1.50%"
func FormatPercent(value float64) string {
	return fmt.Sprintf("%.2f%%", value)
}

// FormatRatio 小数形式的比率，如 0.015 → "1.50%"
func FormatRatio(value float64) string {
	return FormatPercent(decimal.NewFromFloat(value).Shift(2).InexactFloat64())
}

func groupThousands(fixed string) string {
	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign = "-"
		fixed = fixed[1:]
	}

	intPart, fracPart := fixed, ""
	if i := strings.IndexByte(fixed, '.'); i >= 0 {
		intPart, fracPart = fixed[:i], fixed[i:]
	}

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + b.String() + fracPart
}
