package service

import (
	"sort"
	"time"

	"moneybook/models"

	"github.com/shopspring/decimal"
)

// UncategorizedName 无类别流水在报表中的名称
const UncategorizedName = "Uncategorized"

// Summary 收支汇总
type Summary struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Net     decimal.Decimal `json:"net"`
	Count   int             `json:"count"`
}

// CategoryTotal 按类别汇总
type CategoryTotal struct {
	CategoryID *uint                  `json:"category_id"`
	Name       string                 `json:"name"`
	Type       models.TransactionType `json:"type"`
	Amount     decimal.Decimal        `json:"amount"`
	Count      int                    `json:"count"`
}

// MonthTotal 单月收支
type MonthTotal struct {
	Month   string          `json:"month"` // 2006-01
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

// BudgetProgress 预算执行情况
type BudgetProgress struct {
	Budget    models.Budget   `json:"budget"`
	Spent     decimal.Decimal `json:"spent"`
	Remaining decimal.Decimal `json:"remaining"`
	Percent   float64         `json:"percent"`
}

// MonthRange 某月的起止时间，区间左闭右开
func MonthRange(year int, month time.Month, loc *time.Location) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 1, 0)
}

// Summarize 汇总收入、支出与结余
func Summarize(list []models.Transaction) Summary {
	s := Summary{Income: decimal.Zero, Expense: decimal.Zero}
	for _, t := range list {
		switch t.Type {
		case models.TransactionTypeIncome:
			s.Income = s.Income.Add(t.Amount)
		case models.TransactionTypeExpense:
			s.Expense = s.Expense.Add(t.Amount)
		}
		s.Count++
	}
	s.Net = s.Income.Sub(s.Expense)
	return s
}

// ByCategory 按类别和类型分组，金额降序
func ByCategory(list []models.Transaction, names map[uint]string) []CategoryTotal {
	type key struct {
		id  uint
		typ models.TransactionType
	}
	groups := make(map[key]*CategoryTotal)
	for _, t := range list {
		k := key{typ: t.Type}
		if t.CategoryID != nil {
			k.id = *t.CategoryID
		}
		g, ok := groups[k]
		if !ok {
			g = &CategoryTotal{Name: UncategorizedName, Type: t.Type, Amount: decimal.Zero}
			if t.CategoryID != nil {
				id := *t.CategoryID
				g.CategoryID = &id
				if name, ok := names[id]; ok {
					g.Name = name
				}
			}
			groups[k] = g
		}
		g.Amount = g.Amount.Add(t.Amount)
		g.Count++
	}

	out := make([]CategoryTotal, 0, len(groups))
	for _, g := range groups {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Amount.Cmp(out[j].Amount); c != 0 {
			return c > 0
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// MonthlyTrend 截至 end 所在月份（含）的最近 months 个月收支，按时间正序
func MonthlyTrend(list []models.Transaction, end time.Time, months int) []MonthTotal {
	if months <= 0 {
		return nil
	}
	out := make([]MonthTotal, months)
	index := make(map[string]int, months)
	first := time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, end.Location()).AddDate(0, -(months - 1), 0)
	for i := 0; i < months; i++ {
		m := first.AddDate(0, i, 0).Format("2006-01")
		out[i] = MonthTotal{Month: m, Income: decimal.Zero, Expense: decimal.Zero}
		index[m] = i
	}
	for _, t := range list {
		i, ok := index[t.Date.In(end.Location()).Format("2006-01")]
		if !ok {
			continue
		}
		if t.Type == models.TransactionTypeIncome {
			out[i].Income = out[i].Income.Add(t.Amount)
		} else {
			out[i].Expense = out[i].Expense.Add(t.Amount)
		}
	}
	return out
}

// ComputeBudgetProgress 统计预算期内该类别的支出，结束日期当天计入
func ComputeBudgetProgress(b models.Budget, list []models.Transaction) BudgetProgress {
	spent := decimal.Zero
	for _, t := range list {
		if t.Type != models.TransactionTypeExpense || t.CategoryID == nil || *t.CategoryID != b.CategoryID {
			continue
		}
		if t.Date.Before(b.PeriodStart) || models.DateAfter(t.Date, b.PeriodEnd) {
			continue
		}
		spent = spent.Add(t.Amount)
	}

	p := BudgetProgress{Budget: b, Spent: spent, Remaining: b.Amount.Sub(spent)}
	if p.Remaining.IsNegative() {
		p.Remaining = decimal.Zero
	}
	if b.Amount.IsPositive() {
		p.Percent, _ = spent.Div(b.Amount).Mul(decimal.NewFromInt(100)).Round(2).Float64()
		if p.Percent > 100 {
			p.Percent = 100
		}
	}
	return p
}
