package request

const DateLayout = "2006-01-02"

type ExpenseRequest struct {
	Amount      float64 `form:"amount" validate:"required,gt=0"`
	Description string  `form:"description" validate:"max=200"`
	Date        string  `form:"date" validate:"omitempty,datetime=2006-01-02"`
	CategoryID  int     `form:"category_id" validate:"required,gt=0"`
}

type LoanRequest struct {
	Lender       string   `form:"lender" validate:"required,max=100"`
	Amount       float64  `form:"amount" validate:"required,gt=0"`
	InterestRate *float64 `form:"interest_rate" validate:"omitempty,gte=0"`
	DueDate      string   `form:"due_date" validate:"omitempty,datetime=2006-01-02"`
	LoanCategory string   `form:"loan_category" validate:"required,max=50"`
}

type InsuranceRequest struct {
	Provider    string  `form:"provider" validate:"required,max=100"`
	PolicyType  string  `form:"policy_type" validate:"required,max=50"`
	Premium     float64 `form:"premium" validate:"required,gt=0"`
	RenewalDate string  `form:"renewal_date" validate:"omitempty,datetime=2006-01-02"`
}
