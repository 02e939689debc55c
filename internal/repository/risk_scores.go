package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dan9191/debtwatch-service/internal/apperror"
	"github.com/Dan9191/debtwatch-service/internal/models"
)

const riskScoreColumns = `id, user_id, risk_level, explanation, generated_by_ai, last_calculated`

func scanRiskScore(row interface{ Scan(...any) error }, score *models.RiskScore) error {
	return row.Scan(&score.ID, &score.UserID, &score.RiskLevel, &score.Explanation, &score.GeneratedByAI, &score.LastCalculated)
}

// AppendRiskScore inserts a new history entry. Entries are never updated afterwards.
// LastCalculated is kept when already set by the caller.
func (r *Repository) AppendRiskScore(ctx context.Context, score *models.RiskScore) error {
	score.ID = r.newID()
	if score.LastCalculated.IsZero() {
		score.LastCalculated = r.now()
	}
	query := `
		INSERT INTO risk_scores (id, user_id, risk_level, explanation, generated_by_ai, last_calculated)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.ExecContext(ctx, query, score.ID, score.UserID, score.RiskLevel, score.Explanation,
		score.GeneratedByAI, score.LastCalculated)
	if err != nil {
		return storeError("save risk score", err)
	}
	return nil
}

// LatestRiskScore returns the entry with the greatest last_calculated, or nil when none exist
func (r *Repository) LatestRiskScore(ctx context.Context, userID string) (*models.RiskScore, error) {
	score := &models.RiskScore{}
	query := `SELECT ` + riskScoreColumns + ` FROM risk_scores WHERE user_id = $1 ORDER BY last_calculated DESC LIMIT 1`
	err := scanRiskScore(r.db.QueryRowContext(ctx, query, userID), score)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperror.Upstream("failed to find risk score", err)
	}
	return score, nil
}

// ListRiskScores returns the history newest first. limit <= 0 means no limit.
func (r *Repository) ListRiskScores(ctx context.Context, userID string, limit int) ([]models.RiskScore, error) {
	query := `SELECT ` + riskScoreColumns + ` FROM risk_scores WHERE user_id = $1 ORDER BY last_calculated DESC` + limitClause(limit)
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, apperror.Upstream("failed to list risk scores", err)
	}
	defer rows.Close()

	scores := []models.RiskScore{}
	for rows.Next() {
		var score models.RiskScore
		if err := scanRiskScore(rows, &score); err != nil {
			return nil, apperror.Upstream("failed to scan risk score", err)
		}
		scores = append(scores, score)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.Upstream("failed to list risk scores", err)
	}
	return scores, nil
}
