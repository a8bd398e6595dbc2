package report

import (
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"budget_tracker/internal/model"
	"budget_tracker/internal/reconcile"
)

const otherItem = "Other"

// Params selects the reporting range
type Params struct {
	Period    string
	StartDate string
	EndDate   string
}

type totals struct {
	income, expense, goalSavings, generalSavings decimal.Decimal
}

func (t *totals) add(tx model.Transaction, cls reconcile.Classifier) {
	switch tx.Type {
	case model.TransactionTypeIncome:
		t.income = t.income.Add(tx.Amount)
	case model.TransactionTypeExpense:
		t.expense = t.expense.Add(tx.Amount)
		if cls.IsGoalSavings(tx.Category) {
			t.goalSavings = t.goalSavings.Add(tx.Amount)
		} else if cls.IsGeneralSavings(tx.Category) {
			t.generalSavings = t.generalSavings.Add(tx.Amount)
		}
	}
}

func (t totals) savings() decimal.Decimal { return t.goalSavings.Add(t.generalSavings) }

func (t totals) balance() decimal.Decimal { return t.income.Sub(t.expense) }

func (t totals) empty() bool {
	return t.income.IsZero() && t.expense.IsZero() && t.savings().IsZero()
}

// Generate builds the report for the resolved interval. Transactions without a
// usable date are left out and counted in SkippedTransactions.
func Generate(txs []model.Transaction, cls reconcile.Classifier, p Params, now time.Time) (*model.Report, error) {
	iv, err := Resolve(p.Period, p.StartDate, p.EndDate, now)
	if err != nil {
		return nil, err
	}

	rep := &model.Report{
		Period:                iv.Period,
		StartDate:             iv.Start.Format(model.DateLayout),
		EndDate:               iv.LastDay().Format(model.DateLayout),
		IncomeBreakdownByItem: make(map[string]decimal.Decimal),
		MonthlySummaries:      []model.MonthlySummary{},
		Transactions:          []model.Transaction{},
	}

	for _, tx := range txs {
		if tx.Date.IsZero() {
			rep.SkippedTransactions++
			continue
		}
		if iv.Contains(tx.Date) {
			rep.Transactions = append(rep.Transactions, tx)
		}
	}
	SortByDateDesc(rep.Transactions)

	var sum totals
	for _, tx := range rep.Transactions {
		sum.add(tx, cls)
		if tx.Type == model.TransactionTypeIncome {
			item := strings.TrimSpace(tx.Item)
			if item == "" {
				item = otherItem
			}
			rep.IncomeBreakdownByItem[item] = rep.IncomeBreakdownByItem[item].Add(tx.Amount)
		}
	}
	rep.TotalIncome = sum.income
	rep.TotalExpense = sum.expense
	rep.TotalGoalSavings = sum.goalSavings
	rep.TotalGeneralSavings = sum.generalSavings
	rep.TotalSavings = sum.savings()
	rep.Balance = sum.balance()

	if iv.Period == model.PeriodYearly {
		rep.MonthlySummaries = monthlySummaries(iv, rep.Transactions, cls)
	}
	return rep, nil
}

// SortByDateDesc orders transactions newest first, keeping the relative order of equal dates
func SortByDateDesc(txs []model.Transaction) {
	slices.SortStableFunc(txs, func(a, b model.Transaction) int {
		return b.Date.Compare(a.Date)
	})
}

// nextMonth steps to day 1 of the following month via day 28 + 4 days
func nextMonth(t time.Time) time.Time {
	d := time.Date(t.Year(), t.Month(), 28, 0, 0, 0, 0, t.Location()).AddDate(0, 0, 4)
	return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, d.Location())
}

func monthlySummaries(iv Interval, txs []model.Transaction, cls reconcile.Classifier) []model.MonthlySummary {
	summaries := []model.MonthlySummary{}
	for cursor := iv.Start; cursor.Before(iv.End); {
		next := nextMonth(cursor)
		if next.After(iv.End) {
			next = iv.End
		}
		month := Interval{Start: cursor, End: next}

		var sum totals
		for _, tx := range txs {
			if month.Contains(tx.Date) {
				sum.add(tx, cls)
			}
		}
		if !sum.empty() {
			summaries = append(summaries, model.MonthlySummary{
				Month:        cursor.Format("2006-01"),
				TotalIncome:  sum.income,
				TotalExpense: sum.expense,
				TotalSavings: sum.savings(),
				Balance:      sum.balance(),
			})
		}
		cursor = next
	}
	return summaries
}
