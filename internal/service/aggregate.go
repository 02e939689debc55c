package service

import (
	"context"

	"github.com/Dan9191/debtwatch-service/internal/models"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const recentTransactionCount = 5

// FinancialSummary reads every record owned by the user and reduces it. The reads run
// concurrently; reduction starts only after all of them succeeded.
func (s *Service) FinancialSummary(ctx context.Context, userID string) (*models.FinancialSummary, error) {
	var (
		user         *models.User
		transactions []models.Transaction
		loans        []models.Loan
		assets       []models.Asset
		dependents   *models.Dependents
		credit       *models.CreditHistory
		latest       *models.RiskScore
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		user, err = s.store.GetUser(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		transactions, err = s.store.ListTransactions(gctx, userID, 0)
		return err
	})
	g.Go(func() (err error) {
		loans, err = s.store.ListLoans(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		assets, err = s.store.ListAssets(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		dependents, err = s.store.GetDependents(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		credit, err = s.store.GetCreditHistory(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		latest, err = s.store.LatestRiskScore(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary := Summarize(*user, transactions, loans, assets, dependents, credit)
	summary.LatestRiskScore = latest
	return summary, nil
}

// Summarize reduces raw records into a summary. Missing singletons count as zero.
// transactions are expected newest first; only the ordering of RecentTransactions
// depends on it.
func Summarize(user models.User, transactions []models.Transaction, loans []models.Loan, assets []models.Asset,
	dependents *models.Dependents, credit *models.CreditHistory) *models.FinancialSummary {
	summary := &models.FinancialSummary{
		User:                    user,
		TotalIncome:             decimal.Zero,
		TotalExpense:            decimal.Zero,
		TotalMonthlyInstallment: decimal.Zero,
		TotalRemainingDebt:      decimal.Zero,
		TotalAssetValue:         decimal.Zero,
		Loans:                   loans,
	}

	for _, tx := range transactions {
		switch tx.Type {
		case models.TransactionIncome:
			summary.TotalIncome = summary.TotalIncome.Add(tx.Amount)
		case models.TransactionExpense:
			summary.TotalExpense = summary.TotalExpense.Add(tx.Amount)
		}
	}
	summary.NetCashFlow = summary.TotalIncome.Sub(summary.TotalExpense)

	// Every loan counts toward the installment load, active or not.
	for _, loan := range loans {
		summary.TotalMonthlyInstallment = summary.TotalMonthlyInstallment.Add(loan.MonthlyPayment)
		summary.TotalRemainingDebt = summary.TotalRemainingDebt.Add(loan.RemainingDebt())
		if loan.IsActive {
			summary.ActiveLoanCount++
		}
	}

	for _, asset := range assets {
		summary.TotalAssetValue = summary.TotalAssetValue.Add(asset.Value)
	}

	if dependents != nil {
		summary.DependentsCount = dependents.DependentsCount
	}
	if credit != nil {
		summary.CreditHistory = *credit
	}

	recent := transactions
	if len(recent) > recentTransactionCount {
		recent = recent[:recentTransactionCount]
	}
	summary.RecentTransactions = recent

	return summary
}
