package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dan9191/debtwatch-service/internal/apperror"
	"github.com/Dan9191/debtwatch-service/internal/models"
)

const transactionColumns = `id, user_id, amount, type, category, note, created_at`

func scanTransaction(row interface{ Scan(...any) error }, tx *models.Transaction) error {
	return row.Scan(&tx.ID, &tx.UserID, &tx.Amount, &tx.Type, &tx.Category, &tx.Note, &tx.CreatedAt)
}

// ListTransactions returns a user's transactions, newest first. limit <= 0 means no limit.
func (r *Repository) ListTransactions(ctx context.Context, userID string, limit int) ([]models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE user_id = $1 ORDER BY created_at DESC, id` + limitClause(limit)
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, apperror.Upstream("failed to list transactions", err)
	}
	defer rows.Close()

	transactions := []models.Transaction{}
	for rows.Next() {
		var tx models.Transaction
		if err := scanTransaction(rows, &tx); err != nil {
			return nil, apperror.Upstream("failed to scan transaction", err)
		}
		transactions = append(transactions, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.Upstream("failed to list transactions", err)
	}
	return transactions, nil
}

// CreateTransaction appends a transaction, assigning its id and creation time
func (r *Repository) CreateTransaction(ctx context.Context, tx *models.Transaction) error {
	tx.ID = r.newID()
	tx.CreatedAt = r.now()
	query := `
		INSERT INTO transactions (id, user_id, amount, type, category, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.ExecContext(ctx, query, tx.ID, tx.UserID, tx.Amount, tx.Type, tx.Category, tx.Note, tx.CreatedAt)
	if err != nil {
		return storeError("create transaction", err)
	}
	return nil
}

// UpdateTransaction merges the non-nil fields of patch into a stored transaction
func (r *Repository) UpdateTransaction(ctx context.Context, userID, id string, patch models.TransactionPatch) (*models.Transaction, error) {
	tx := &models.Transaction{}
	query := `
		UPDATE transactions SET
			amount   = COALESCE($3::numeric, amount),
			type     = COALESCE($4::text, type),
			category = COALESCE($5::text, category),
			note     = COALESCE($6::text, note)
		WHERE user_id = $1 AND id = $2
		RETURNING ` + transactionColumns
	err := scanTransaction(r.db.QueryRowContext(ctx, query, userID, id, patch.Amount, patch.Type, patch.Category, patch.Note), tx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NotFound("transaction not found")
	}
	if err != nil {
		return nil, apperror.Upstream("failed to update transaction", err)
	}
	return tx, nil
}

func (r *Repository) DeleteTransaction(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return apperror.Upstream("failed to delete transaction", err)
	}
	return requireAffected(res, "delete transaction", apperror.NotFound("transaction not found"))
}
