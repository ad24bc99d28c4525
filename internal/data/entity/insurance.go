package entity

import "time"

type Insurance struct {
	InsuranceID int64      `db:"insurance_id"`
	Provider    string     `db:"provider"`
	PolicyType  string     `db:"policy_type"`
	Premium     float64    `db:"premium"`
	RenewalDate *time.Time `db:"renewal_date"`
	UserID      int64      `db:"user_id"`
}
