package aggregator

import (
	"fmt"

	"github.com/Joaotp75/dashboard-assessores/internal/model"
	"github.com/Joaotp75/dashboard-assessores/internal/util"
)

// NoticeEmptySelection 当前筛选下没有任何流水
const NoticeEmptySelection = "Nenhuma operação encontrada para este filtro."

// SummaryView 汇总展示（含格式化文本）
type SummaryView struct {
	Summary
	TotalMovementText   string `json:"totalMovementText"`
	TotalCommissionText string `json:"totalCommissionText"`
	AverageROAText      string `json:"averageRoaText"`
}

// MonthlyView 按月展示
type MonthlyView struct {
	MonthlyRow
	MovementText   string `json:"movementText"`
	CommissionText string `json:"commissionText"`
	ROAText        string `json:"roaText"`
}

// RowView 明细行展示
type RowView struct {
	model.TransactionRecord
	DateText            string `json:"dateText"`
	ProductText         string `json:"productText"`
	MovementValueText   string `json:"movementValueText"`
	ROAText             string `json:"roaText"`
	GrossCommissionText string `json:"grossCommissionText"`
}

// Dashboard 一次交互的完整计算结果
type Dashboard struct {
	Selection model.FilterSelection `json:"selection"`
	Title     string                `json:"title"`
	Count     int                   `json:"count"`
	Empty     bool                  `json:"empty"`
	Notice    string                `json:"notice,omitempty"`
	Summary   *SummaryView          `json:"summary,omitempty"`
	Monthly   []MonthlyView         `json:"monthly,omitempty"`
	Rows      []RowView             `json:"rows"`
}

// Build 基于完整合并表重新计算当前筛选的全部视图
func Build(table model.ConsolidatedTable, sel model.FilterSelection) (*Dashboard, error) {
	sel = sel.Normalize()
	rows := Filter(table, sel)

	d := &Dashboard{
		Selection: sel,
		Title:     fmt.Sprintf("Lançamentos para %s - %s", sel.AdvisorCode, sel.Month),
		Count:     len(rows),
		Rows:      []RowView{},
	}
	if len(rows) == 0 {
		d.Empty = true
		d.Notice = NoticeEmptySelection
		return d, nil
	}

	summary, err := Summarize(rows)
	if err != nil {
		return nil, err
	}
	monthly, err := BreakdownByMonth(rows)
	if err != nil {
		return nil, err
	}

	d.Summary = &SummaryView{
		Summary:             summary,
		TotalMovementText:   util.FormatCurrency(summary.TotalMovement),
		TotalCommissionText: util.FormatCurrency(summary.TotalCommission),
		AverageROAText:      util.FormatPercent(summary.AverageROA * 100),
	}

	d.Monthly = make([]MonthlyView, 0, len(monthly))
	for _, m := range monthly {
		d.Monthly = append(d.Monthly, MonthlyView{
			MonthlyRow:     m,
			MovementText:   util.FormatCurrency(m.Movement),
			CommissionText: util.FormatCurrency(m.Commission),
			ROAText:        util.FormatPercent(m.ROAPercent),
		})
	}

	d.Rows = make([]RowView, 0, len(rows))
	for _, rec := range rows {
		d.Rows = append(d.Rows, RowView{
			TransactionRecord:   rec,
			DateText:            rec.Date.String(),
			ProductText:         rec.Product.String(),
			MovementValueText:   formatCell(rec.MovementValue, util.FormatCurrency),
			ROAText:             formatCell(rec.ROA, util.FormatRatio),
			GrossCommissionText: formatCell(rec.GrossCommission, util.FormatCurrency),
		})
	}
	return d, nil
}

func formatCell(c model.Cell, format func(float64) string) string {
	if c.IsEmpty() {
		return ""
	}
	v, ok := c.Float()
	if !ok {
		return c.String()
	}
	return format(v)
}
