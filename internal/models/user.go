package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Money is serialized as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// User represents a user profile in the system
type User struct {
	ID            string          `json:"id"`
	FullName      string          `json:"full_name"`
	Email         string          `json:"email"`
	Phone         string          `json:"phone"`
	Gender        string          `json:"gender"`
	Age           int             `json:"age"`
	Occupation    string          `json:"occupation"`
	MaritalStatus string          `json:"marital_status"`
	Location      string          `json:"location"`
	MonthlyIncome decimal.Decimal `json:"monthly_income"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// UserInput is the registration payload
type UserInput struct {
	FullName      string          `json:"full_name"`
	Email         string          `json:"email"`
	Phone         string          `json:"phone"`
	Gender        string          `json:"gender"`
	Age           int             `json:"age"`
	Occupation    string          `json:"occupation"`
	MaritalStatus string          `json:"marital_status"`
	Location      string          `json:"location"`
	MonthlyIncome decimal.Decimal `json:"monthly_income"`
}

// UserPatch is a partial profile update; nil fields are left untouched
type UserPatch struct {
	FullName      *string          `json:"full_name"`
	Email         *string          `json:"email"`
	Phone         *string          `json:"phone"`
	Gender        *string          `json:"gender"`
	Age           *int             `json:"age"`
	Occupation    *string          `json:"occupation"`
	MaritalStatus *string          `json:"marital_status"`
	Location      *string          `json:"location"`
	MonthlyIncome *decimal.Decimal `json:"monthly_income"`
}
