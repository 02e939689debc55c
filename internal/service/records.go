package service

import (
	"context"
	"strings"

	"github.com/Dan9191/debtwatch-service/internal/apperror"
	"github.com/Dan9191/debtwatch-service/internal/models"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

func validTransactionType(t string) bool {
	return t == models.TransactionIncome || t == models.TransactionExpense
}

func nonNegative(field string, value decimal.Decimal) error {
	if value.IsNegative() {
		return apperror.Validation("%s must not be negative", field)
	}
	return nil
}

func nonNegativeInt(field string, value *int) error {
	if value != nil && *value < 0 {
		return apperror.Validation("%s must not be negative", field)
	}
	return nil
}

// ListTransactions returns transactions newest first
func (s *Service) ListTransactions(ctx context.Context, userID string, limit int) ([]models.Transaction, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.store.ListTransactions(ctx, userID, limit)
}

func (s *Service) AddTransaction(ctx context.Context, userID string, input models.TransactionInput) (*models.Transaction, error) {
	if !validTransactionType(input.Type) {
		return nil, apperror.Validation("type must be %q or %q", models.TransactionIncome, models.TransactionExpense)
	}
	if err := nonNegative("amount", input.Amount); err != nil {
		return nil, err
	}

	tx := &models.Transaction{
		UserID:   userID,
		Amount:   input.Amount,
		Type:     input.Type,
		Category: strings.TrimSpace(input.Category),
		Note:     input.Note,
	}
	if err := s.store.CreateTransaction(ctx, tx); err != nil {
		return nil, err
	}
	return tx, nil
}

func (s *Service) UpdateTransaction(ctx context.Context, userID, id string, patch models.TransactionPatch) (*models.Transaction, error) {
	if patch.Type != nil && !validTransactionType(*patch.Type) {
		return nil, apperror.Validation("type must be %q or %q", models.TransactionIncome, models.TransactionExpense)
	}
	if patch.Amount != nil {
		if err := nonNegative("amount", *patch.Amount); err != nil {
			return nil, err
		}
	}
	return s.store.UpdateTransaction(ctx, userID, id, patch)
}

func (s *Service) DeleteTransaction(ctx context.Context, userID, id string) error {
	return s.store.DeleteTransaction(ctx, userID, id)
}

func (s *Service) ListLoans(ctx context.Context, userID string) ([]models.Loan, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.store.ListLoans(ctx, userID)
}

func (s *Service) ListActiveLoans(ctx context.Context, userID string) ([]models.Loan, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.store.ListActiveLoans(ctx, userID)
}

func (s *Service) GetLoan(ctx context.Context, userID, id string) (*models.Loan, error) {
	return s.store.GetLoan(ctx, userID, id)
}

// AddLoan stores a loan with is_active derived from the supplied month counts
func (s *Service) AddLoan(ctx context.Context, userID string, input models.LoanInput) (*models.Loan, error) {
	if err := nonNegative("monthly_payment", input.MonthlyPayment); err != nil {
		return nil, err
	}
	if err := nonNegativeInt("total_months", input.TotalMonths); err != nil {
		return nil, err
	}
	if err := nonNegativeInt("months_paid", input.MonthsPaid); err != nil {
		return nil, err
	}

	loan := &models.Loan{
		UserID:         userID,
		LoanType:       strings.TrimSpace(input.LoanType),
		Name:           strings.TrimSpace(input.Name),
		MonthlyPayment: input.MonthlyPayment,
		InterestRate:   input.InterestRate,
		IsActive:       input.ActiveOnCreate(),
	}
	if input.TotalMonths != nil {
		loan.TotalMonths = *input.TotalMonths
	}
	if input.MonthsPaid != nil {
		loan.MonthsPaid = *input.MonthsPaid
	}
	if err := s.store.CreateLoan(ctx, loan); err != nil {
		return nil, err
	}
	return loan, nil
}

// UpdateLoan merges patch and recomputes is_active from the supplied month counts
func (s *Service) UpdateLoan(ctx context.Context, userID, id string, patch models.LoanPatch) (*models.Loan, error) {
	if patch.MonthlyPayment != nil {
		if err := nonNegative("monthly_payment", *patch.MonthlyPayment); err != nil {
			return nil, err
		}
	}
	if err := nonNegativeInt("total_months", patch.TotalMonths); err != nil {
		return nil, err
	}
	if err := nonNegativeInt("months_paid", patch.MonthsPaid); err != nil {
		return nil, err
	}
	return s.store.UpdateLoan(ctx, userID, id, patch, patch.ActiveOnUpdate())
}

func (s *Service) DeleteLoan(ctx context.Context, userID, id string) error {
	return s.store.DeleteLoan(ctx, userID, id)
}

// assetProblem describes why input is not a valid asset, or returns ""
func assetProblem(input models.AssetInput) string {
	if strings.TrimSpace(input.Name) == "" {
		return "asset name is required"
	}
	if input.Value.IsNegative() {
		return "value must not be negative"
	}
	return ""
}

func (s *Service) ListAssets(ctx context.Context, userID string) ([]models.Asset, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.store.ListAssets(ctx, userID)
}

func (s *Service) AddAsset(ctx context.Context, userID string, input models.AssetInput) (*models.Asset, error) {
	if problem := assetProblem(input); problem != "" {
		return nil, apperror.Validation("%s", problem)
	}
	asset := &models.Asset{UserID: userID, Name: strings.TrimSpace(input.Name), Value: input.Value}
	if err := s.store.CreateAsset(ctx, asset); err != nil {
		return nil, err
	}
	return asset, nil
}

func (s *Service) UpdateAsset(ctx context.Context, userID, id string, patch models.AssetPatch) (*models.Asset, error) {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, apperror.Validation("asset name is required")
	}
	if patch.Value != nil {
		if err := nonNegative("value", *patch.Value); err != nil {
			return nil, err
		}
	}
	return s.store.UpdateAsset(ctx, userID, id, patch)
}

func (s *Service) DeleteAsset(ctx context.Context, userID, id string) error {
	return s.store.DeleteAsset(ctx, userID, id)
}

// ReplaceAssets validates the whole set before swapping it in atomically
func (s *Service) ReplaceAssets(ctx context.Context, userID string, inputs []models.AssetInput) ([]models.Asset, error) {
	assets := make([]models.Asset, 0, len(inputs))
	for i, input := range inputs {
		if problem := assetProblem(input); problem != "" {
			return nil, apperror.Validation("assets[%d]: %s", i, problem)
		}
		assets = append(assets, models.Asset{Name: strings.TrimSpace(input.Name), Value: input.Value})
	}
	stored, err := s.store.ReplaceAssets(ctx, userID, assets)
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"user_id": userID, "count": len(stored)}).Info("Assets replaced")
	return stored, nil
}

// GetDependents returns a zeroed record when none was stored yet
func (s *Service) GetDependents(ctx context.Context, userID string) (*models.Dependents, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	dependents, err := s.store.GetDependents(ctx, userID)
	if err != nil {
		return nil, err
	}
	if dependents == nil {
		return &models.Dependents{}, nil
	}
	return dependents, nil
}

func (s *Service) UpdateDependents(ctx context.Context, userID string, patch models.DependentsPatch) (*models.Dependents, error) {
	if err := nonNegativeInt("dependents_count", patch.DependentsCount); err != nil {
		return nil, err
	}
	return s.store.UpsertDependents(ctx, userID, patch)
}

// GetCreditHistory returns a zeroed record when none was stored yet
func (s *Service) GetCreditHistory(ctx context.Context, userID string) (*models.CreditHistory, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	history, err := s.store.GetCreditHistory(ctx, userID)
	if err != nil {
		return nil, err
	}
	if history == nil {
		return &models.CreditHistory{}, nil
	}
	return history, nil
}

func (s *Service) UpdateCreditHistory(ctx context.Context, userID string, patch models.CreditHistoryPatch) (*models.CreditHistory, error) {
	if err := nonNegativeInt("total_loans_taken", patch.TotalLoansTaken); err != nil {
		return nil, err
	}
	if err := nonNegativeInt("missed_payments", patch.MissedPayments); err != nil {
		return nil, err
	}
	return s.store.UpsertCreditHistory(ctx, userID, patch)
}
