package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Loan represents an installment debt
type Loan struct {
	ID             string          `json:"id"`
	UserID         string          `json:"user_id"`
	LoanType       string          `json:"loan_type"`
	Name           string          `json:"name"`
	MonthlyPayment decimal.Decimal `json:"monthly_payment"`
	TotalMonths    int             `json:"total_months"`
	MonthsPaid     int             `json:"months_paid"`
	InterestRate   decimal.Decimal `json:"interest_rate"`
	IsActive       bool            `json:"is_active"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// RemainingMonths is never negative, even when more months were paid than scheduled
func (l Loan) RemainingMonths() int {
	if l.MonthsPaid >= l.TotalMonths {
		return 0
	}
	return l.TotalMonths - l.MonthsPaid
}

// RemainingDebt is the monthly payment times the remaining months
func (l Loan) RemainingDebt() decimal.Decimal {
	return l.MonthlyPayment.Mul(decimal.NewFromInt(int64(l.RemainingMonths())))
}

type LoanInput struct {
	LoanType       string          `json:"loan_type"`
	Name           string          `json:"name"`
	MonthlyPayment decimal.Decimal `json:"monthly_payment"`
	TotalMonths    *int            `json:"total_months"`
	MonthsPaid     *int            `json:"months_paid"`
	InterestRate   decimal.Decimal `json:"interest_rate"`
}

type LoanPatch struct {
	LoanType       *string          `json:"loan_type"`
	Name           *string          `json:"name"`
	MonthlyPayment *decimal.Decimal `json:"monthly_payment"`
	TotalMonths    *int             `json:"total_months"`
	MonthsPaid     *int             `json:"months_paid"`
	InterestRate   *decimal.Decimal `json:"interest_rate"`
}

// ActiveOnCreate treats absent month counts as zero.
func (in LoanInput) ActiveOnCreate() bool {
	paid, total := 0, 0
	if in.MonthsPaid != nil {
		paid = *in.MonthsPaid
	}
	if in.TotalMonths != nil {
		total = *in.TotalMonths
	}
	return paid < total
}

// ActiveOnUpdate only compares when both month counts are supplied; otherwise the loan
// is considered active.
func (p LoanPatch) ActiveOnUpdate() bool {
	if p.MonthsPaid == nil || p.TotalMonths == nil {
		return true
	}
	return *p.MonthsPaid < *p.TotalMonths
}
