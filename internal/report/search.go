package report

import (
	"strings"

	"github.com/shopspring/decimal"

	"budget_tracker/internal/model"
)

// DefaultPerPage is used when a caller does not ask for a page size
const DefaultPerPage = 10

// Search keeps the transactions whose item, category, description, amount, date,
// type or id contains query, ignoring case. An empty query keeps everything.
func Search(txs []model.Transaction, query string) []model.Transaction {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return txs
	}

	out := make([]model.Transaction, 0, len(txs))
	for _, t := range txs {
		fields := []string{t.Item, t.Category, t.Description, t.Amount.String(), t.DateString(), t.Type, t.ID}
		for _, f := range fields {
			if strings.Contains(strings.ToLower(f), q) {
				out = append(out, t)
				break
			}
		}
	}
	return out
}

// Paginate returns the requested one-based page. Out-of-range pages are empty.
func Paginate(txs []model.Transaction, page, perPage int) model.TransactionPage {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	if page <= 0 {
		page = 1
	}

	total := len(txs)
	totalPages := total / perPage
	if total%perPage != 0 {
		totalPages++
	}
	res := model.TransactionPage{
		Transactions:      []model.Transaction{},
		Page:              page,
		PerPage:           perPage,
		TotalPages:        totalPages,
		TotalTransactions: total,
	}

	// page <= totalPages keeps start below total, so neither product overflows
	if page > totalPages {
		return res
	}
	start := (page - 1) * perPage
	end := total
	if perPage < total-start {
		end = start + perPage
	}
	res.Transactions = txs[start:end]
	return res
}

// TotalExpense sums the expenses in txs
func TotalExpense(txs []model.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, t := range txs {
		if t.Type == model.TransactionTypeExpense {
			total = total.Add(t.Amount)
		}
	}
	return total
}
