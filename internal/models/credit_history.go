package models

import "time"

// Dependents is the singleton record of people financially dependent on the user
type Dependents struct {
	DependentsCount int        `json:"dependents_count"`
	UpdatedAt       *time.Time `json:"updated_at,omitempty"`
}

type DependentsPatch struct {
	DependentsCount *int `json:"dependents_count"`
}

// CreditHistory is the singleton record of a user's borrowing track record
type CreditHistory struct {
	TotalLoansTaken   int        `json:"total_loans_taken"`
	MissedPayments    int        `json:"missed_payments"`
	HasDefaultHistory bool       `json:"has_default_history"`
	LastUpdated       *time.Time `json:"last_updated,omitempty"`
}

type CreditHistoryPatch struct {
	TotalLoansTaken   *int  `json:"total_loans_taken"`
	MissedPayments    *int  `json:"missed_payments"`
	HasDefaultHistory *bool `json:"has_default_history"`
}
