package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dan9191/debtwatch-service/internal/apperror"
	"github.com/Dan9191/debtwatch-service/internal/models"
)

const userColumns = `id, full_name, email, phone, gender, age, occupation, marital_status, location, monthly_income, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }, user *models.User) error {
	return row.Scan(&user.ID, &user.FullName, &user.Email, &user.Phone, &user.Gender, &user.Age,
		&user.Occupation, &user.MaritalStatus, &user.Location, &user.MonthlyIncome,
		&user.CreatedAt, &user.UpdatedAt)
}

// CreateUser creates a new user profile. The identifier is supplied by the caller.
func (r *Repository) CreateUser(ctx context.Context, user *models.User) error {
	now := r.now()
	query := `
		INSERT INTO users (id, full_name, email, phone, gender, age, occupation, marital_status, location, monthly_income, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11)`
	_, err := r.db.ExecContext(ctx, query, user.ID, user.FullName, user.Email, user.Phone, user.Gender,
		user.Age, user.Occupation, user.MaritalStatus, user.Location, user.MonthlyIncome, now)
	if pqCode(err) == pqUniqueViolation {
		return apperror.New(apperror.KindConflict, "user already exists")
	}
	if err != nil {
		return apperror.Upstream("failed to create user", err)
	}
	user.CreatedAt = now
	user.UpdatedAt = now
	return nil
}

// GetUser retrieves a user profile by id
func (r *Repository) GetUser(ctx context.Context, id string) (*models.User, error) {
	user := &models.User{}
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	err := scanUser(r.db.QueryRowContext(ctx, query, id), user)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NotFound("user not found")
	}
	if err != nil {
		return nil, apperror.Upstream("failed to find user", err)
	}
	return user, nil
}

// UpdateUser merges the non-nil fields of patch into the stored profile
func (r *Repository) UpdateUser(ctx context.Context, id string, patch models.UserPatch) (*models.User, error) {
	user := &models.User{}
	query := `
		UPDATE users SET
			full_name      = COALESCE($2::text, full_name),
			email          = COALESCE($3::text, email),
			phone          = COALESCE($4::text, phone),
			gender         = COALESCE($5::text, gender),
			age            = COALESCE($6::integer, age),
			occupation     = COALESCE($7::text, occupation),
			marital_status = COALESCE($8::text, marital_status),
			location       = COALESCE($9::text, location),
			monthly_income = COALESCE($10::numeric, monthly_income),
			updated_at     = $11
		WHERE id = $1
		RETURNING ` + userColumns
	err := scanUser(r.db.QueryRowContext(ctx, query, id, patch.FullName, patch.Email, patch.Phone, patch.Gender,
		patch.Age, patch.Occupation, patch.MaritalStatus, patch.Location, patch.MonthlyIncome, r.now()), user)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NotFound("user not found")
	}
	if err != nil {
		return nil, apperror.Upstream("failed to update user", err)
	}
	return user, nil
}

// DeleteUser removes a profile; owned records go with it through ON DELETE CASCADE
func (r *Repository) DeleteUser(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return apperror.Upstream("failed to delete user", err)
	}
	return requireAffected(res, "delete user", apperror.NotFound("user not found"))
}

// UserExists reports whether a profile with the given id exists
func (r *Repository) UserExists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, apperror.Upstream("failed to find user", err)
	}
	return exists, nil
}
