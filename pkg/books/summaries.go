// Package books holds the aggregation and tax arithmetic behind the summary
// endpoints. Queries arrive pre-scoped to the calling user; nothing in this
// package widens a query's reach.
package books

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Totals aggregates a set of transactions by type.
type Totals struct {
	Income       decimal.Decimal
	IncomeCount  int64
	Expense      decimal.Decimal
	ExpenseCount int64
}

// Net returns income minus expense.
func (t Totals) Net() decimal.Decimal {
	return t.Income.Sub(t.Expense)
}

// Count returns the overall number of transactions aggregated.
func (t Totals) Count() int64 {
	return t.IncomeCount + t.ExpenseCount
}

// TotalsFor runs the grouped aggregation over an already-scoped transaction
// query. Missing types come back as zero totals.
func TotalsFor(q *gorm.DB) (Totals, error) {
	var rows []struct {
		Type  string
		Total decimal.Decimal
		Count int64
	}
	err := q.Select("type, COALESCE(SUM(total_amount), 0) AS total, COUNT(*) AS count").
		Group("type").
		Scan(&rows).Error
	if err != nil {
		return Totals{}, err
	}
	var t Totals
	for _, r := range rows {
		switch r.Type {
		case "income":
			t.Income = r.Total
			t.IncomeCount = r.Count
		case "expense":
			t.Expense = r.Total
			t.ExpenseCount = r.Count
		}
	}
	return t, nil
}
