package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dan9191/debtwatch-service/internal/apperror"
	"github.com/Dan9191/debtwatch-service/internal/models"
)

const loanColumns = `id, user_id, loan_type, name, monthly_payment, total_months, months_paid, interest_rate, is_active, created_at, updated_at`

func scanLoan(row interface{ Scan(...any) error }, loan *models.Loan) error {
	return row.Scan(&loan.ID, &loan.UserID, &loan.LoanType, &loan.Name, &loan.MonthlyPayment,
		&loan.TotalMonths, &loan.MonthsPaid, &loan.InterestRate, &loan.IsActive, &loan.CreatedAt, &loan.UpdatedAt)
}

func (r *Repository) queryLoans(ctx context.Context, query string, args ...any) ([]models.Loan, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperror.Upstream("failed to list loans", err)
	}
	defer rows.Close()

	loans := []models.Loan{}
	for rows.Next() {
		var loan models.Loan
		if err := scanLoan(rows, &loan); err != nil {
			return nil, apperror.Upstream("failed to scan loan", err)
		}
		loans = append(loans, loan)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.Upstream("failed to list loans", err)
	}
	return loans, nil
}

// ListLoans returns all loans of a user, oldest first
func (r *Repository) ListLoans(ctx context.Context, userID string) ([]models.Loan, error) {
	return r.queryLoans(ctx, `SELECT `+loanColumns+` FROM loans WHERE user_id = $1 ORDER BY created_at, id`, userID)
}

// ListActiveLoans returns loans whose stored is_active flag is set
func (r *Repository) ListActiveLoans(ctx context.Context, userID string) ([]models.Loan, error) {
	return r.queryLoans(ctx, `SELECT `+loanColumns+` FROM loans WHERE user_id = $1 AND is_active ORDER BY created_at, id`, userID)
}

func (r *Repository) GetLoan(ctx context.Context, userID, id string) (*models.Loan, error) {
	loan := &models.Loan{}
	err := scanLoan(r.db.QueryRowContext(ctx, `SELECT `+loanColumns+` FROM loans WHERE user_id = $1 AND id = $2`, userID, id), loan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NotFound("loan not found")
	}
	if err != nil {
		return nil, apperror.Upstream("failed to find loan", err)
	}
	return loan, nil
}

// CreateLoan appends a loan. IsActive must already be computed by the caller.
func (r *Repository) CreateLoan(ctx context.Context, loan *models.Loan) error {
	now := r.now()
	loan.ID = r.newID()
	loan.CreatedAt = now
	loan.UpdatedAt = now
	query := `
		INSERT INTO loans (id, user_id, loan_type, name, monthly_payment, total_months, months_paid, interest_rate, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)`
	_, err := r.db.ExecContext(ctx, query, loan.ID, loan.UserID, loan.LoanType, loan.Name, loan.MonthlyPayment,
		loan.TotalMonths, loan.MonthsPaid, loan.InterestRate, loan.IsActive, now)
	if err != nil {
		return storeError("create loan", err)
	}
	return nil
}

// UpdateLoan merges patch into a stored loan and overwrites is_active with isActive
func (r *Repository) UpdateLoan(ctx context.Context, userID, id string, patch models.LoanPatch, isActive bool) (*models.Loan, error) {
	loan := &models.Loan{}
	query := `
		UPDATE loans SET
			loan_type       = COALESCE($3::text, loan_type),
			name            = COALESCE($4::text, name),
			monthly_payment = COALESCE($5::numeric, monthly_payment),
			total_months    = COALESCE($6::integer, total_months),
			months_paid     = COALESCE($7::integer, months_paid),
			interest_rate   = COALESCE($8::numeric, interest_rate),
			is_active       = $9,
			updated_at      = $10
		WHERE user_id = $1 AND id = $2
		RETURNING ` + loanColumns
	err := scanLoan(r.db.QueryRowContext(ctx, query, userID, id, patch.LoanType, patch.Name, patch.MonthlyPayment,
		patch.TotalMonths, patch.MonthsPaid, patch.InterestRate, isActive, r.now()), loan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NotFound("loan not found")
	}
	if err != nil {
		return nil, apperror.Upstream("failed to update loan", err)
	}
	return loan, nil
}

func (r *Repository) DeleteLoan(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM loans WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return apperror.Upstream("failed to delete loan", err)
	}
	return requireAffected(res, "delete loan", apperror.NotFound("loan not found"))
}
