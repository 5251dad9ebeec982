package aggregator

import (
	"github.com/shopspring/decimal"

	"github.com/Joaotp75/dashboard-assessores/internal/model"
)

// Summary 汇总行
type Summary struct {
	TotalMovement   float64 `json:"totalMovement"`
	TotalCommission float64 `json:"totalCommission"`
	// AverageROA 以小数表示（0.012 = 1.2%）
	AverageROA float64 `json:"averageRoa"`
}

// MonthlyRow 按月汇总行
type MonthlyRow struct {
	Month      string  `json:"month"`
	Movement   float64 `json:"movement"`
	Commission float64 `json:"commission"`
	// ROAPercent 以百分数表示（1.2 = 1.2%），与 Summary.AverageROA 口径不同
	ROAPercent float64 `json:"roaPercent"`
	Count      int     `json:"count"`
}

// Filter 按顾问代码与月份筛选，两者均为精确匹配，保持原顺序
func Filter(table model.ConsolidatedTable, sel model.FilterSelection) model.ConsolidatedTable {
	sel = sel.Normalize()
	out := make(model.ConsolidatedTable, 0, len(table))
	for _, rec := range table {
		if sel.AdvisorCode != model.AllOption && rec.AdvisorCode != sel.AdvisorCode {
			continue
		}
		if sel.Month != model.AllOption && rec.Month != sel.Month {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// Options 下拉选项：“全部”加上按首次出现顺序去重后的值
func Options(table model.ConsolidatedTable) (advisors, months []string) {
	advisors = []string{model.AllOption}
	months = []string{model.AllOption}
	seenAdvisor := make(map[string]bool)
	seenMonth := make(map[string]bool)
	for _, rec := range table {
		if !seenAdvisor[rec.AdvisorCode] {
			seenAdvisor[rec.AdvisorCode] = true
			advisors = append(advisors, rec.AdvisorCode)
		}
		if !seenMonth[rec.Month] {
			seenMonth[rec.Month] = true
			months = append(months, rec.Month)
		}
	}
	return advisors, months
}

// Summarize 计算汇总；总流水 <= 0 时平均 ROA 为 0
func Summarize(rows model.ConsolidatedTable) (Summary, error) {
	movement, commission := decimal.Zero, decimal.Zero
	for _, rec := range rows {
		a, err := readAmounts(rec)
		if err != nil {
			return Summary{}, err
		}
		movement = movement.Add(a.movement)
		commission = commission.Add(a.commission)
	}

	s := Summary{
		TotalMovement:   movement.InexactFloat64(),
		TotalCommission: commission.InexactFloat64(),
	}
	s.AverageROA = ratio(s.TotalCommission, s.TotalMovement)
	return s, nil
}

// BreakdownByMonth 按月份分组汇总，按固定月份顺序输出
func BreakdownByMonth(rows model.ConsolidatedTable) ([]MonthlyRow, error) {
	type group struct {
		movement   decimal.Decimal
		commission decimal.Decimal
		count      int
	}

	groups := make(map[string]*group)
	labels := make([]string, 0)
	for _, rec := range rows {
		a, err := readAmounts(rec)
		if err != nil {
			return nil, err
		}
		g, ok := groups[rec.Month]
		if !ok {
			g = &group{movement: decimal.Zero, commission: decimal.Zero}
			groups[rec.Month] = g
			labels = append(labels, rec.Month)
		}
		g.movement = g.movement.Add(a.movement)
		g.commission = g.commission.Add(a.commission)
		g.count++
	}

	SortMonthLabels(labels)

	out := make([]MonthlyRow, 0, len(labels))
	for _, label := range labels {
		g := groups[label]
		row := MonthlyRow{
			Month:      label,
			Movement:   g.movement.InexactFloat64(),
			Commission: g.commission.InexactFloat64(),
			Count:      g.count,
		}
		row.ROAPercent = ratio(row.Commission, row.Movement) * 100
		out = append(out, row)
	}
	return out, nil
}

// ratio 分母 <= 0 时返回 0
func ratio(numerator, denominator float64) float64 {
	if denominator <= 0 {
		return 0
	}
	return numerator / denominator
}

type amounts struct {
	movement   decimal.Decimal
	roa        decimal.Decimal
	commission decimal.Decimal
}

func readAmounts(rec model.TransactionRecord) (amounts, error) {
	movement, err := cellDecimal(rec, "Valor Movimentação", rec.MovementValue)
	if err != nil {
		return amounts{}, err
	}
	roa, err := cellDecimal(rec, "ROA", rec.ROA)
	if err != nil {
		return amounts{}, err
	}
	commission, err := cellDecimal(rec, "Comissão Bruta", rec.GrossCommission)
	if err != nil {
		return amounts{}, err
	}
	return amounts{movement: movement, roa: roa, commission: commission}, nil
}

func cellDecimal(rec model.TransactionRecord, column string, c model.Cell) (decimal.Decimal, error) {
	v, ok := c.Float()
	if !ok {
		return decimal.Zero, &InvalidDataError{
			File:   rec.SourceFile,
			Sheet:  rec.Month,
			Row:    rec.Row,
			Column: column,
			Value:  c.String(),
		}
	}
	return decimal.NewFromFloat(v), nil
}
