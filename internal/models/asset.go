package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Asset represents something of value owned by a user
type Asset struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Name      string          `json:"name"`
	Value     decimal.Decimal `json:"value"`
	CreatedAt time.Time       `json:"created_at"`
}

type AssetInput struct {
	Name  string          `json:"name"`
	Value decimal.Decimal `json:"value"`
}

type AssetPatch struct {
	Name  *string          `json:"name"`
	Value *decimal.Decimal `json:"value"`
}
