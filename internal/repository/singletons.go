package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dan9191/debtwatch-service/internal/apperror"
	"github.com/Dan9191/debtwatch-service/internal/models"
)

// GetDependents returns nil when the user has no dependents record
func (r *Repository) GetDependents(ctx context.Context, userID string) (*models.Dependents, error) {
	var (
		dependents models.Dependents
		updatedAt  sql.NullTime
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT dependents_count, updated_at FROM financial_dependents WHERE user_id = $1`, userID).
		Scan(&dependents.DependentsCount, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperror.Upstream("failed to find dependents", err)
	}
	dependents.UpdatedAt = nullTimePtr(updatedAt)
	return &dependents, nil
}

// UpsertDependents creates the record or merges the supplied fields into it
func (r *Repository) UpsertDependents(ctx context.Context, userID string, patch models.DependentsPatch) (*models.Dependents, error) {
	var (
		dependents models.Dependents
		updatedAt  sql.NullTime
	)
	query := `
		INSERT INTO financial_dependents (user_id, dependents_count, updated_at)
		VALUES ($1, COALESCE($2::integer, 0), $3)
		ON CONFLICT (user_id) DO UPDATE SET
			dependents_count = COALESCE($2::integer, financial_dependents.dependents_count),
			updated_at       = $3
		RETURNING dependents_count, updated_at`
	err := r.db.QueryRowContext(ctx, query, userID, patch.DependentsCount, r.now()).
		Scan(&dependents.DependentsCount, &updatedAt)
	if err != nil {
		return nil, storeError("update dependents", err)
	}
	dependents.UpdatedAt = nullTimePtr(updatedAt)
	return &dependents, nil
}

// GetCreditHistory returns nil when the user has no credit history record
func (r *Repository) GetCreditHistory(ctx context.Context, userID string) (*models.CreditHistory, error) {
	var (
		history     models.CreditHistory
		lastUpdated sql.NullTime
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT total_loans_taken, missed_payments, has_default_history, last_updated FROM credit_history WHERE user_id = $1`, userID).
		Scan(&history.TotalLoansTaken, &history.MissedPayments, &history.HasDefaultHistory, &lastUpdated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperror.Upstream("failed to find credit history", err)
	}
	history.LastUpdated = nullTimePtr(lastUpdated)
	return &history, nil
}

// UpsertCreditHistory creates the record or merges the supplied fields into it
func (r *Repository) UpsertCreditHistory(ctx context.Context, userID string, patch models.CreditHistoryPatch) (*models.CreditHistory, error) {
	var (
		history     models.CreditHistory
		lastUpdated sql.NullTime
	)
	query := `
		INSERT INTO credit_history (user_id, total_loans_taken, missed_payments, has_default_history, last_updated)
		VALUES ($1, COALESCE($2::integer, 0), COALESCE($3::integer, 0), COALESCE($4::boolean, FALSE), $5)
		ON CONFLICT (user_id) DO UPDATE SET
			total_loans_taken   = COALESCE($2::integer, credit_history.total_loans_taken),
			missed_payments     = COALESCE($3::integer, credit_history.missed_payments),
			has_default_history = COALESCE($4::boolean, credit_history.has_default_history),
			last_updated        = $5
		RETURNING total_loans_taken, missed_payments, has_default_history, last_updated`
	err := r.db.QueryRowContext(ctx, query, userID, patch.TotalLoansTaken, patch.MissedPayments,
		patch.HasDefaultHistory, r.now()).
		Scan(&history.TotalLoansTaken, &history.MissedPayments, &history.HasDefaultHistory, &lastUpdated)
	if err != nil {
		return nil, storeError("update credit history", err)
	}
	history.LastUpdated = nullTimePtr(lastUpdated)
	return &history, nil
}
