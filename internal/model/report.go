package model

import "github.com/shopspring/decimal"

const (
	PeriodDaily          = "daily"
	PeriodWeekly         = "weekly"
	PeriodMonthly        = "monthly"
	PeriodYearly         = "yearly"
	PeriodLastYearToDate = "last_year_to_date"
	PeriodCustom         = "custom"
)

// Report is the derived, non-persisted summary of a date range
type Report struct {
	Period                string                     `json:"period"`
	StartDate             string                     `json:"start_date"`
	EndDate               string                     `json:"end_date"` // Inclusive calendar date
	TotalIncome           decimal.Decimal            `json:"total_income"`
	TotalExpense          decimal.Decimal            `json:"total_expense"`
	TotalGoalSavings      decimal.Decimal            `json:"total_goal_savings"`
	TotalGeneralSavings   decimal.Decimal            `json:"total_general_savings"`
	TotalSavings          decimal.Decimal            `json:"total_savings"`
	Balance               decimal.Decimal            `json:"balance"`
	IncomeBreakdownByItem map[string]decimal.Decimal `json:"income_breakdown_by_item"`
	MonthlySummaries      []MonthlySummary           `json:"monthly_summaries"`
	Transactions          []Transaction              `json:"transactions"`
	SkippedTransactions   int                        `json:"skipped_transactions"`
}

// MonthlySummary is one calendar month of a yearly report
type MonthlySummary struct {
	Month        string          `json:"month"` // YYYY-MM
	TotalIncome  decimal.Decimal `json:"total_income"`
	TotalExpense decimal.Decimal `json:"total_expense"`
	TotalSavings decimal.Decimal `json:"total_savings"`
	Balance      decimal.Decimal `json:"balance"`
}

// ReportRequest carries the query parameters of a report view
type ReportRequest struct {
	Period      string
	StartDate   string
	EndDate     string
	SearchQuery string
	Page        int
	PerPage     int
}

// MonthlyBudget is only attached to monthly reports
type MonthlyBudget struct {
	TotalBudget       decimal.Decimal `json:"total_budget"`
	SavingsGoal       decimal.Decimal `json:"savings_goal"`
	RemainingSpending decimal.Decimal `json:"remaining_spending"`
}

// ReportView is a report together with the searched/paginated transaction slice
// and the goals after a resync
type ReportView struct {
	Report                *Report           `json:"report"`
	Displayed             TransactionPage   `json:"displayed"`
	DisplayedTotalExpense decimal.Decimal   `json:"displayed_total_expense"`
	Budget                *MonthlyBudget    `json:"budget,omitempty"`
	SavingsGoals          []SavingsGoalView `json:"savings_goals"`
	GeneralSavingsTotal   decimal.Decimal   `json:"general_savings_total"` // All-time, not limited to the period
}
