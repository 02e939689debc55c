package models

import "github.com/shopspring/decimal"

// FinancialSummary is the reduced view of a user's records used for prompting
type FinancialSummary struct {
	User                    User            `json:"user"`
	TotalIncome             decimal.Decimal `json:"total_income"`
	TotalExpense            decimal.Decimal `json:"total_expense"`
	NetCashFlow             decimal.Decimal `json:"net_cash_flow"`
	TotalMonthlyInstallment decimal.Decimal `json:"total_monthly_installment"`
	TotalRemainingDebt      decimal.Decimal `json:"total_remaining_debt"`
	TotalAssetValue         decimal.Decimal `json:"total_asset_value"`
	ActiveLoanCount         int             `json:"active_loan_count"`
	DependentsCount         int             `json:"dependents_count"`
	CreditHistory           CreditHistory   `json:"credit_history"`
	RecentTransactions      []Transaction   `json:"recent_transactions"`
	Loans                   []Loan          `json:"loans"`
	LatestRiskScore         *RiskScore      `json:"latest_risk_score,omitempty"`
}
