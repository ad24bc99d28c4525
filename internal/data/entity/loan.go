package entity

import "time"

type Loan struct {
	LoanID       int64      `db:"loan_id"`
	Lender       string     `db:"lender"`
	Amount       float64    `db:"amount"`
	InterestRate *float64   `db:"interest_rate"`
	DueDate      *time.Time `db:"due_date"`
	LoanCategory string     `db:"loan_category"`
	UserID       int64      `db:"user_id"`
}
