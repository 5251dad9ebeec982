package model

// AllOption 筛选“全部”哨兵值
const AllOption = "Todos"

// TransactionRecord 一条佣金流水（来自某个文件某个工作表的一行）
type TransactionRecord struct {
	AdvisorCode     string `json:"advisorCode"`
	Month           string `json:"month"`
	Date            Cell   `json:"date"`
	Product         Cell   `json:"product"`
	MovementValue   Cell   `json:"movementValue"`
	ROA             Cell   `json:"roa"`
	GrossCommission Cell   `json:"grossCommission"`

	SourceFile string `json:"sourceFile"`
	Row        int    `json:"row"` // 工作表中的行号（1 开始）
}

// HasData reports whether at least one of the five data cells is filled.
func (r TransactionRecord) HasData() bool {
	return !r.Date.IsEmpty() ||
		!r.Product.IsEmpty() ||
		!r.MovementValue.IsEmpty() ||
		!r.ROA.IsEmpty() ||
		!r.GrossCommission.IsEmpty()
}

// ConsolidatedTable 合并后的全部流水，按 文件 → 工作表 → 行 顺序
type ConsolidatedTable []TransactionRecord

// FilterSelection 筛选条件；任一维度为 AllOption 表示不限制
type FilterSelection struct {
	AdvisorCode string `json:"advisorCode"`
	Month       string `json:"month"`
}

// AllSelection 不做任何限制的筛选
func AllSelection() FilterSelection {
	return FilterSelection{AdvisorCode: AllOption, Month: AllOption}
}

// Normalize 空值视为“全部”
func (s FilterSelection) Normalize() FilterSelection {
	if s.AdvisorCode == "" {
		s.AdvisorCode = AllOption
	}
	if s.Month == "" {
		s.Month = AllOption
	}
	return s
}
