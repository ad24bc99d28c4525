package entity

import "time"

type Expense struct {
	ExpenseID   int64     `db:"expense_id"`
	Amount      float64   `db:"amount"`
	Description string    `db:"description"`
	Date        time.Time `db:"date"`
	UserID      int64     `db:"user_id"`
	CategoryID  int       `db:"category_id"`

	// joined from categories
	CategoryName string `db:"category_name"`
}
