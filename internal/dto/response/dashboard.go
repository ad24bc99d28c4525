package response

import (
	"finance-tracker/internal/data/entity"
	"finance-tracker/internal/dto/request"
)

// Series is one labelled point of a chart.
type Series struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

type Charts struct {
	ExpenseByMonth    []Series `json:"expense_by_month"`
	ExpenseByCategory []Series `json:"expense_by_category"`
	LoanByYear        []Series `json:"loan_by_year"`
	InsuranceByMonth  []Series `json:"insurance_by_month"`
}

type Dashboard struct {
	Expenses      []*entity.Expense
	TotalExpenses float64

	Loans      []*entity.Loan
	TotalLoans float64

	Insurances   []*entity.Insurance
	TotalPremium float64

	Charts Charts

	Categories         []*entity.Category
	Lenders            []string
	InsuranceProviders []string
	LoanCategories     []string
	PolicyTypes        []string

	Filter request.DashboardFilter
}
