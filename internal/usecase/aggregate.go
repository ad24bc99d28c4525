package usecase

import (
	"sort"
	"time"

	"finance-tracker/internal/data/entity"
	"finance-tracker/internal/dto/response"
)

const (
	monthLabel = "2006-01"
	yearLabel  = "2006"
)

// groupSum totals value per label and returns the groups sorted by label.
// Items for which label reports false are skipped.
func groupSum[T any](items []T, label func(T) (string, bool), value func(T) float64) []response.Series {
	totals := make(map[string]float64)
	for _, item := range items {
		key, ok := label(item)
		if !ok {
			continue
		}
		totals[key] += value(item)
	}

	series := make([]response.Series, 0, len(totals))
	for key, total := range totals {
		series = append(series, response.Series{Label: key, Value: total})
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Label < series[j].Label })
	return series
}

func sum[T any](items []T, value func(T) float64) float64 {
	var total float64
	for _, item := range items {
		total += value(item)
	}
	return total
}

func dateLabel(t *time.Time, layout string) (string, bool) {
	if t == nil {
		return "", false
	}
	return t.UTC().Format(layout), true
}

func expenseAmount(e *entity.Expense) float64 { return e.Amount }
func loanAmount(l *entity.Loan) float64 { return l.Amount }
func insurancePremium(i *entity.Insurance) float64 { return i.Premium }

func TotalExpenses(expenses []*entity.Expense) float64 {
	return sum(expenses, expenseAmount)
}

// ExpensesByMonth groups expenses into chronological YYYY-MM buckets.
func ExpensesByMonth(expenses []*entity.Expense) []response.Series {
	return groupSum(expenses, func(e *entity.Expense) (string, bool) {
		return dateLabel(&e.Date, monthLabel)
	}, expenseAmount)
}

// ExpensesByCategory groups expenses by category name, alphabetically.
func ExpensesByCategory(expenses []*entity.Expense) []response.Series {
	return groupSum(expenses, func(e *entity.Expense) (string, bool) {
		return e.CategoryName, true
	}, expenseAmount)
}

func TotalLoans(loans []*entity.Loan) float64 {
	return sum(loans, loanAmount)
}

// LoansByYear groups loans with a due date into YYYY buckets.
func LoansByYear(loans []*entity.Loan) []response.Series {
	return groupSum(loans, func(l *entity.Loan) (string, bool) {
		return dateLabel(l.DueDate, yearLabel)
	}, loanAmount)
}

func TotalPremium(insurances []*entity.Insurance) float64 {
	return sum(insurances, insurancePremium)
}

// InsurancesByMonth groups policies with a renewal date into YYYY-MM buckets.
func InsurancesByMonth(insurances []*entity.Insurance) []response.Series {
	return groupSum(insurances, func(i *entity.Insurance) (string, bool) {
		return dateLabel(i.RenewalDate, monthLabel)
	}, insurancePremium)
}
