package entity

import "time"

// RecordFilter narrows the dashboard record queries. Empty slices mean no
// restriction. From is inclusive and Until is exclusive.
type RecordFilter struct {
	ExpenseCategories  []string
	LoanLenders        []string
	LoanCategories     []string
	InsuranceProviders []string
	InsuranceTypes     []string
	From               *time.Time
	Until              *time.Time
}
