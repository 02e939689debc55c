package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	TransactionIncome  = "income"
	TransactionExpense = "expense"
)

// Transaction represents a financial transaction
type Transaction struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Amount    decimal.Decimal `json:"amount"`
	Type      string          `json:"type"`
	Category  string          `json:"category"`
	Note      string          `json:"note"`
	CreatedAt time.Time       `json:"created_at"`
}

type TransactionInput struct {
	Amount   decimal.Decimal `json:"amount"`
	Type     string          `json:"type"`
	Category string          `json:"category"`
	Note     string          `json:"note"`
}

type TransactionPatch struct {
	Amount   *decimal.Decimal `json:"amount"`
	Type     *string          `json:"type"`
	Category *string          `json:"category"`
	Note     *string          `json:"note"`
}
