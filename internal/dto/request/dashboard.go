package request

// DashboardFilter is decoded from the dashboard query string. List fields
// repeat their key, e.g. ?expense_category=Gas&expense_category=Clothes.
type DashboardFilter struct {
	ExpenseCategories  []string `form:"expense_category"`
	LoanLenders        []string `form:"loan_lender"`
	LoanCategories     []string `form:"loan_category"`
	InsuranceProviders []string `form:"insurance_provider"`
	InsuranceTypes     []string `form:"insurance_type"`
	StartDate          string   `form:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate            string   `form:"end_date" validate:"omitempty,datetime=2006-01-02"`
}
