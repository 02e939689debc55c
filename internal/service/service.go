package service

import (
	"context"
	"time"

	"github.com/Dan9191/debtwatch-service/internal/models"
	"github.com/sirupsen/logrus"
)

// Store is the record store the service reads and writes through
type Store interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id string) (*models.User, error)
	UpdateUser(ctx context.Context, id string, patch models.UserPatch) (*models.User, error)
	DeleteUser(ctx context.Context, id string) error
	UserExists(ctx context.Context, id string) (bool, error)

	ListTransactions(ctx context.Context, userID string, limit int) ([]models.Transaction, error)
	CreateTransaction(ctx context.Context, tx *models.Transaction) error
	UpdateTransaction(ctx context.Context, userID, id string, patch models.TransactionPatch) (*models.Transaction, error)
	DeleteTransaction(ctx context.Context, userID, id string) error

	ListLoans(ctx context.Context, userID string) ([]models.Loan, error)
	ListActiveLoans(ctx context.Context, userID string) ([]models.Loan, error)
	GetLoan(ctx context.Context, userID, id string) (*models.Loan, error)
	CreateLoan(ctx context.Context, loan *models.Loan) error
	UpdateLoan(ctx context.Context, userID, id string, patch models.LoanPatch, isActive bool) (*models.Loan, error)
	DeleteLoan(ctx context.Context, userID, id string) error

	ListAssets(ctx context.Context, userID string) ([]models.Asset, error)
	CreateAsset(ctx context.Context, asset *models.Asset) error
	UpdateAsset(ctx context.Context, userID, id string, patch models.AssetPatch) (*models.Asset, error)
	DeleteAsset(ctx context.Context, userID, id string) error
	ReplaceAssets(ctx context.Context, userID string, assets []models.Asset) ([]models.Asset, error)

	GetDependents(ctx context.Context, userID string) (*models.Dependents, error)
	UpsertDependents(ctx context.Context, userID string, patch models.DependentsPatch) (*models.Dependents, error)
	GetCreditHistory(ctx context.Context, userID string) (*models.CreditHistory, error)
	UpsertCreditHistory(ctx context.Context, userID string, patch models.CreditHistoryPatch) (*models.CreditHistory, error)

	AppendRiskScore(ctx context.Context, score *models.RiskScore) error
	LatestRiskScore(ctx context.Context, userID string) (*models.RiskScore, error)
	ListRiskScores(ctx context.Context, userID string, limit int) ([]models.RiskScore, error)

	ListChatrooms(ctx context.Context, userID string) ([]models.Chatroom, error)
	CreateChatroom(ctx context.Context, room *models.Chatroom) error
	GetChatroom(ctx context.Context, userID, id string) (*models.Chatroom, error)
	RenameChatroom(ctx context.Context, userID, id, title string) (*models.Chatroom, error)
	DeleteChatroom(ctx context.Context, userID, id string) error
	ListChatMessages(ctx context.Context, chatroomID string, limit int) ([]models.ChatMessage, error)
	AppendChatExchange(ctx context.Context, chatroomID string, userMsg, assistantMsg *models.ChatMessage) error
}

// Inference turns a prompt into a completion
type Inference interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// RateLimiter guards the inference-backed operations. A nil limiter allows everything.
type RateLimiter interface {
	Allow(ctx context.Context, scope, subject string) (bool, time.Duration, error)
}

// Service handles business logic
type Service struct {
	store     Store
	inference Inference
	limiter   RateLimiter
	log       *logrus.Logger
	now       func() time.Time
}

// NewService initializes a new service
func NewService(store Store, inference Inference, limiter RateLimiter, log *logrus.Logger) *Service {
	return &Service{
		store:     store,
		inference: inference,
		limiter:   limiter,
		log:       log,
		now:       func() time.Time { return time.Now().UTC() },
	}
}
