package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dan9191/debtwatch-service/internal/apperror"
	"github.com/Dan9191/debtwatch-service/internal/models"
)

const assetColumns = `id, user_id, name, value, created_at`

func scanAsset(row interface{ Scan(...any) error }, asset *models.Asset) error {
	return row.Scan(&asset.ID, &asset.UserID, &asset.Name, &asset.Value, &asset.CreatedAt)
}

func (r *Repository) ListAssets(ctx context.Context, userID string) ([]models.Asset, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+assetColumns+` FROM assets WHERE user_id = $1 ORDER BY created_at, id`, userID)
	if err != nil {
		return nil, apperror.Upstream("failed to list assets", err)
	}
	defer rows.Close()

	assets := []models.Asset{}
	for rows.Next() {
		var asset models.Asset
		if err := scanAsset(rows, &asset); err != nil {
			return nil, apperror.Upstream("failed to scan asset", err)
		}
		assets = append(assets, asset)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.Upstream("failed to list assets", err)
	}
	return assets, nil
}

func (r *Repository) CreateAsset(ctx context.Context, asset *models.Asset) error {
	asset.ID = r.newID()
	asset.CreatedAt = r.now()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO assets (id, user_id, name, value, created_at) VALUES ($1, $2, $3, $4, $5)`,
		asset.ID, asset.UserID, asset.Name, asset.Value, asset.CreatedAt)
	if err != nil {
		return storeError("create asset", err)
	}
	return nil
}

func (r *Repository) UpdateAsset(ctx context.Context, userID, id string, patch models.AssetPatch) (*models.Asset, error) {
	asset := &models.Asset{}
	query := `
		UPDATE assets SET
			name  = COALESCE($3::text, name),
			value = COALESCE($4::numeric, value)
		WHERE user_id = $1 AND id = $2
		RETURNING ` + assetColumns
	err := scanAsset(r.db.QueryRowContext(ctx, query, userID, id, patch.Name, patch.Value), asset)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NotFound("asset not found")
	}
	if err != nil {
		return nil, apperror.Upstream("failed to update asset", err)
	}
	return asset, nil
}

func (r *Repository) DeleteAsset(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM assets WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return apperror.Upstream("failed to delete asset", err)
	}
	return requireAffected(res, "delete asset", apperror.NotFound("asset not found"))
}

// ReplaceAssets swaps a user's whole asset set inside one transaction. The user row is
// locked first so concurrent replacements for the same user serialize; readers see either
// the old set or the new one.
func (r *Repository) ReplaceAssets(ctx context.Context, userID string, assets []models.Asset) ([]models.Asset, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, apperror.Upstream("failed to begin transaction", err)
	}
	defer tx.Rollback()

	var lockedID string
	err = tx.QueryRowContext(ctx, `SELECT id FROM users WHERE id = $1 FOR UPDATE`, userID).Scan(&lockedID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NotFound("user not found")
	}
	if err != nil {
		return nil, apperror.Upstream("failed to lock user", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM assets WHERE user_id = $1`, userID); err != nil {
		return nil, apperror.Upstream("failed to delete assets", err)
	}

	now := r.now()
	stored := make([]models.Asset, 0, len(assets))
	for _, asset := range assets {
		asset.ID = r.newID()
		asset.UserID = userID
		asset.CreatedAt = now
		_, err := tx.ExecContext(ctx,
			`INSERT INTO assets (id, user_id, name, value, created_at) VALUES ($1, $2, $3, $4, $5)`,
			asset.ID, asset.UserID, asset.Name, asset.Value, asset.CreatedAt)
		if err != nil {
			return nil, apperror.Upstream("failed to insert asset", err)
		}
		stored = append(stored, asset)
	}

	if err := tx.Commit(); err != nil {
		return nil, apperror.Upstream("failed to commit assets", err)
	}
	return stored, nil
}
