package model

import (
	"slices"

	"github.com/shopspring/decimal"
)

const (
	CategoryGoalSavings    = "Goal Savings"
	CategoryGeneralSavings = "General Savings"

	// DefaultIconKey is the fallback entry of the icon maps
	DefaultIconKey = "_default"
)

// Settings is the user-editable configuration of categories and the monthly savings goal
type Settings struct {
	MonthlySavingsGoal  decimal.Decimal   `json:"monthly_savings_goal"`
	ExpenseCategories   []string          `json:"expense_categories"`
	CategoryIcons       map[string]string `json:"category_icons"`
	IncomeCategories    []string          `json:"income_categories"`
	IncomeCategoryIcons map[string]string `json:"income_category_icons"`
}

type UpdateSettingsRequest struct {
	MonthlySavingsGoal string `json:"monthly_savings_goal" binding:"required"`
}

// DefaultSettings returns a fresh copy of the built-in settings
func DefaultSettings() Settings {
	return Settings{
		MonthlySavingsGoal: decimal.NewFromInt(100),
		ExpenseCategories: []string{
			"Food", "Drink", "Coffee", "Transportation", "Rent", "Utilities", "Shopping",
			"Entertainment", "Gym", "Event", "Petroleum", "Family", "Annual Trip", "Haircut",
			CategoryGeneralSavings, CategoryGoalSavings, "Other",
		},
		CategoryIcons: map[string]string{
			DefaultIconKey:         "fa-tags",
			"Food":                 "fa-utensils",
			"Drink":                "fa-mug-saucer",
			"Coffee":               "fa-coffee",
			"Transportation":       "fa-car",
			"Rent":                 "fa-house",
			"Utilities":            "fa-lightbulb",
			"Shopping":             "fa-bag-shopping",
			"Entertainment":        "fa-film",
			"Gym":                  "fa-dumbbell",
			"Event":                "fa-calendar-check",
			"Petroleum":            "fa-gas-pump",
			"Family":               "fa-people-group",
			"Annual Trip":          "fa-plane",
			"Haircut":              "fa-cut",
			CategoryGeneralSavings: "fa-piggy-bank",
			CategoryGoalSavings:    "fa-bullseye",
			"Other":                "fa-ellipsis-h",
		},
		IncomeCategories: []string{"Salary", "Bonus", "Freelance", "Other"},
		IncomeCategoryIcons: map[string]string{
			DefaultIconKey: "fa-briefcase",
			"Salary":       "fa-money-bill-wave",
			"Bonus":        "fa-gift",
			"Freelance":    "fa-laptop-code",
			"Other":        "fa-search-dollar",
		},
	}
}

// WithDefaults fills every missing section from DefaultSettings
func (s Settings) WithDefaults() Settings {
	def := DefaultSettings()
	if len(s.ExpenseCategories) == 0 {
		s.ExpenseCategories = def.ExpenseCategories
	}
	if len(s.IncomeCategories) == 0 {
		s.IncomeCategories = def.IncomeCategories
	}
	if s.CategoryIcons == nil {
		s.CategoryIcons = def.CategoryIcons
	}
	if s.IncomeCategoryIcons == nil {
		s.IncomeCategoryIcons = def.IncomeCategoryIcons
	}
	return s
}

// HasCategory reports whether category is configured for the transaction type
func (s Settings) HasCategory(txType, category string) bool {
	switch txType {
	case TransactionTypeIncome:
		return slices.Contains(s.IncomeCategories, category)
	case TransactionTypeExpense:
		return slices.Contains(s.ExpenseCategories, category)
	}
	return false
}

// Icon returns the icon for a category, falling back to the type's default icon
func (s Settings) Icon(txType, category string) string {
	icons := s.CategoryIcons
	if txType == TransactionTypeIncome {
		icons = s.IncomeCategoryIcons
	}
	if icon, ok := icons[category]; ok {
		return icon
	}
	return icons[DefaultIconKey]
}
