package service

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/Dan9191/debtwatch-service/internal/apperror"
	"github.com/Dan9191/debtwatch-service/internal/models"
	"github.com/sirupsen/logrus"
)

// memStore is an in-memory Store with the same not-found semantics as the repository
type memStore struct {
	mu           sync.Mutex
	seq          int
	clock        time.Time
	users        map[string]models.User
	transactions map[string][]models.Transaction
	loans        map[string][]models.Loan
	assets       map[string][]models.Asset
	dependents   map[string]models.Dependents
	credit       map[string]models.CreditHistory
	scores       map[string][]models.RiskScore
	rooms        map[string]models.Chatroom
	messages     map[string][]models.ChatMessage

	failWith error
}

func newMemStore() *memStore {
	return &memStore{
		clock:        time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		users:        map[string]models.User{},
		transactions: map[string][]models.Transaction{},
		loans:        map[string][]models.Loan{},
		assets:       map[string][]models.Asset{},
		dependents:   map[string]models.Dependents{},
		credit:       map[string]models.CreditHistory{},
		scores:       map[string][]models.RiskScore{},
		rooms:        map[string]models.Chatroom{},
		messages:     map[string][]models.ChatMessage{},
	}
}

func (m *memStore) nextID(prefix string) string {
	m.seq++
	return fmt.Sprintf("%s-%d", prefix, m.seq)
}

// tick advances the fake clock so every write gets a distinct, increasing timestamp
func (m *memStore) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func (m *memStore) hasUser(id string) bool {
	_, ok := m.users[id]
	return ok
}

func (m *memStore) CreateUser(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	if m.hasUser(user.ID) {
		return apperror.New(apperror.KindConflict, "user already exists")
	}
	now := m.tick()
	user.CreatedAt, user.UpdatedAt = now, now
	m.users[user.ID] = *user
	return nil
}

func (m *memStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	user, ok := m.users[id]
	if !ok {
		return nil, apperror.NotFound("user not found")
	}
	return &user, nil
}

func (m *memStore) UpdateUser(ctx context.Context, id string, patch models.UserPatch) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return nil, apperror.NotFound("user not found")
	}
	if patch.FullName != nil {
		user.FullName = *patch.FullName
	}
	if patch.Age != nil {
		user.Age = *patch.Age
	}
	if patch.Occupation != nil {
		user.Occupation = *patch.Occupation
	}
	if patch.MonthlyIncome != nil {
		user.MonthlyIncome = *patch.MonthlyIncome
	}
	user.UpdatedAt = m.tick()
	m.users[id] = user
	return &user, nil
}

func (m *memStore) DeleteUser(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.hasUser(id) {
		return apperror.NotFound("user not found")
	}
	delete(m.users, id)
	delete(m.transactions, id)
	delete(m.loans, id)
	delete(m.assets, id)
	delete(m.dependents, id)
	delete(m.credit, id)
	delete(m.scores, id)
	return nil
}

func (m *memStore) UserExists(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return false, m.failWith
	}
	return m.hasUser(id), nil
}

func (m *memStore) ListTransactions(ctx context.Context, userID string, limit int) ([]models.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	txs := append([]models.Transaction{}, m.transactions[userID]...)
	sort.SliceStable(txs, func(i, j int) bool { return txs[i].CreatedAt.After(txs[j].CreatedAt) })
	if limit > 0 && len(txs) > limit {
		txs = txs[:limit]
	}
	return txs, nil
}

func (m *memStore) CreateTransaction(ctx context.Context, tx *models.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.hasUser(tx.UserID) {
		return apperror.NotFound("user not found")
	}
	tx.ID = m.nextID("tx")
	tx.CreatedAt = m.tick()
	m.transactions[tx.UserID] = append(m.transactions[tx.UserID], *tx)
	return nil
}

func (m *memStore) UpdateTransaction(ctx context.Context, userID, id string, patch models.TransactionPatch) (*models.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, tx := range m.transactions[userID] {
		if tx.ID != id {
			continue
		}
		if patch.Amount != nil {
			tx.Amount = *patch.Amount
		}
		if patch.Type != nil {
			tx.Type = *patch.Type
		}
		if patch.Category != nil {
			tx.Category = *patch.Category
		}
		if patch.Note != nil {
			tx.Note = *patch.Note
		}
		m.transactions[userID][i] = tx
		return &tx, nil
	}
	return nil, apperror.NotFound("transaction not found")
}

func (m *memStore) DeleteTransaction(ctx context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, tx := range m.transactions[userID] {
		if tx.ID == id {
			m.transactions[userID] = append(m.transactions[userID][:i], m.transactions[userID][i+1:]...)
			return nil
		}
	}
	return apperror.NotFound("transaction not found")
}

func (m *memStore) ListLoans(ctx context.Context, userID string) ([]models.Loan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	return append([]models.Loan{}, m.loans[userID]...), nil
}

func (m *memStore) ListActiveLoans(ctx context.Context, userID string) ([]models.Loan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	active := []models.Loan{}
	for _, loan := range m.loans[userID] {
		if loan.IsActive {
			active = append(active, loan)
		}
	}
	return active, nil
}

func (m *memStore) GetLoan(ctx context.Context, userID, id string) (*models.Loan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, loan := range m.loans[userID] {
		if loan.ID == id {
			return &loan, nil
		}
	}
	return nil, apperror.NotFound("loan not found")
}

func (m *memStore) CreateLoan(ctx context.Context, loan *models.Loan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.hasUser(loan.UserID) {
		return apperror.NotFound("user not found")
	}
	loan.ID = m.nextID("loan")
	loan.CreatedAt = m.tick()
	loan.UpdatedAt = loan.CreatedAt
	m.loans[loan.UserID] = append(m.loans[loan.UserID], *loan)
	return nil
}

func (m *memStore) UpdateLoan(ctx context.Context, userID, id string, patch models.LoanPatch, isActive bool) (*models.Loan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, loan := range m.loans[userID] {
		if loan.ID != id {
			continue
		}
		if patch.LoanType != nil {
			loan.LoanType = *patch.LoanType
		}
		if patch.MonthlyPayment != nil {
			loan.MonthlyPayment = *patch.MonthlyPayment
		}
		if patch.TotalMonths != nil {
			loan.TotalMonths = *patch.TotalMonths
		}
		if patch.MonthsPaid != nil {
			loan.MonthsPaid = *patch.MonthsPaid
		}
		loan.IsActive = isActive
		loan.UpdatedAt = m.tick()
		m.loans[userID][i] = loan
		return &loan, nil
	}
	return nil, apperror.NotFound("loan not found")
}

func (m *memStore) DeleteLoan(ctx context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, loan := range m.loans[userID] {
		if loan.ID == id {
			m.loans[userID] = append(m.loans[userID][:i], m.loans[userID][i+1:]...)
			return nil
		}
	}
	return apperror.NotFound("loan not found")
}

func (m *memStore) ListAssets(ctx context.Context, userID string) ([]models.Asset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	return append([]models.Asset{}, m.assets[userID]...), nil
}

func (m *memStore) CreateAsset(ctx context.Context, asset *models.Asset) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.hasUser(asset.UserID) {
		return apperror.NotFound("user not found")
	}
	asset.ID = m.nextID("asset")
	asset.CreatedAt = m.tick()
	m.assets[asset.UserID] = append(m.assets[asset.UserID], *asset)
	return nil
}

func (m *memStore) UpdateAsset(ctx context.Context, userID, id string, patch models.AssetPatch) (*models.Asset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, asset := range m.assets[userID] {
		if asset.ID != id {
			continue
		}
		if patch.Name != nil {
			asset.Name = *patch.Name
		}
		if patch.Value != nil {
			asset.Value = *patch.Value
		}
		m.assets[userID][i] = asset
		return &asset, nil
	}
	return nil, apperror.NotFound("asset not found")
}

func (m *memStore) DeleteAsset(ctx context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, asset := range m.assets[userID] {
		if asset.ID == id {
			m.assets[userID] = append(m.assets[userID][:i], m.assets[userID][i+1:]...)
			return nil
		}
	}
	return apperror.NotFound("asset not found")
}

func (m *memStore) ReplaceAssets(ctx context.Context, userID string, assets []models.Asset) ([]models.Asset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.hasUser(userID) {
		return nil, apperror.NotFound("user not found")
	}
	now := m.tick()
	stored := make([]models.Asset, 0, len(assets))
	for _, asset := range assets {
		asset.ID = m.nextID("asset")
		asset.UserID = userID
		asset.CreatedAt = now
		stored = append(stored, asset)
	}
	m.assets[userID] = stored
	return append([]models.Asset{}, stored...), nil
}

func (m *memStore) GetDependents(ctx context.Context, userID string) (*models.Dependents, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	d, ok := m.dependents[userID]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func (m *memStore) UpsertDependents(ctx context.Context, userID string, patch models.DependentsPatch) (*models.Dependents, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.hasUser(userID) {
		return nil, apperror.NotFound("user not found")
	}
	d := m.dependents[userID]
	if patch.DependentsCount != nil {
		d.DependentsCount = *patch.DependentsCount
	}
	now := m.tick()
	d.UpdatedAt = &now
	m.dependents[userID] = d
	return &d, nil
}

func (m *memStore) GetCreditHistory(ctx context.Context, userID string) (*models.CreditHistory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	c, ok := m.credit[userID]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (m *memStore) UpsertCreditHistory(ctx context.Context, userID string, patch models.CreditHistoryPatch) (*models.CreditHistory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.hasUser(userID) {
		return nil, apperror.NotFound("user not found")
	}
	c := m.credit[userID]
	if patch.TotalLoansTaken != nil {
		c.TotalLoansTaken = *patch.TotalLoansTaken
	}
	if patch.MissedPayments != nil {
		c.MissedPayments = *patch.MissedPayments
	}
	if patch.HasDefaultHistory != nil {
		c.HasDefaultHistory = *patch.HasDefaultHistory
	}
	now := m.tick()
	c.LastUpdated = &now
	m.credit[userID] = c
	return &c, nil
}

func (m *memStore) AppendRiskScore(ctx context.Context, score *models.RiskScore) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.hasUser(score.UserID) {
		return apperror.NotFound("user not found")
	}
	score.ID = m.nextID("score")
	if score.LastCalculated.IsZero() {
		score.LastCalculated = m.tick()
	}
	m.scores[score.UserID] = append(m.scores[score.UserID], *score)
	return nil
}

func (m *memStore) LatestRiskScore(ctx context.Context, userID string) (*models.RiskScore, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	var latest *models.RiskScore
	for _, score := range m.scores[userID] {
		if latest == nil || score.LastCalculated.After(latest.LastCalculated) {
			s := score
			latest = &s
		}
	}
	return latest, nil
}

func (m *memStore) ListRiskScores(ctx context.Context, userID string, limit int) ([]models.RiskScore, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	scores := append([]models.RiskScore{}, m.scores[userID]...)
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].LastCalculated.After(scores[j].LastCalculated) })
	if limit > 0 && len(scores) > limit {
		scores = scores[:limit]
	}
	return scores, nil
}

func (m *memStore) ListChatrooms(ctx context.Context, userID string) ([]models.Chatroom, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rooms := []models.Chatroom{}
	for _, room := range m.rooms {
		if room.UserID == userID {
			rooms = append(rooms, room)
		}
	}
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].UpdatedAt.After(rooms[j].UpdatedAt) })
	return rooms, nil
}

func (m *memStore) CreateChatroom(ctx context.Context, room *models.Chatroom) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.hasUser(room.UserID) {
		return apperror.NotFound("user not found")
	}
	room.ID = m.nextID("room")
	room.CreatedAt = m.tick()
	room.UpdatedAt = room.CreatedAt
	m.rooms[room.ID] = *room
	return nil
}

func (m *memStore) GetChatroom(ctx context.Context, userID, id string) (*models.Chatroom, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	room, ok := m.rooms[id]
	if !ok || room.UserID != userID {
		return nil, apperror.NotFound("chatroom not found")
	}
	return &room, nil
}

func (m *memStore) RenameChatroom(ctx context.Context, userID, id, title string) (*models.Chatroom, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	room, ok := m.rooms[id]
	if !ok || room.UserID != userID {
		return nil, apperror.NotFound("chatroom not found")
	}
	room.Title = title
	room.UpdatedAt = m.tick()
	m.rooms[id] = room
	return &room, nil
}

func (m *memStore) DeleteChatroom(ctx context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	room, ok := m.rooms[id]
	if !ok || room.UserID != userID {
		return apperror.NotFound("chatroom not found")
	}
	delete(m.rooms, id)
	delete(m.messages, id)
	return nil
}

func (m *memStore) ListChatMessages(ctx context.Context, chatroomID string, limit int) ([]models.ChatMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	messages := append([]models.ChatMessage{}, m.messages[chatroomID]...)
	if limit > 0 && len(messages) > limit {
		messages = messages[len(messages)-limit:]
	}
	return messages, nil
}

func (m *memStore) AppendChatExchange(ctx context.Context, chatroomID string, userMsg, assistantMsg *models.ChatMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	room, ok := m.rooms[chatroomID]
	if !ok {
		return apperror.NotFound("chatroom not found")
	}
	now := m.tick()
	for _, msg := range []*models.ChatMessage{userMsg, assistantMsg} {
		msg.ID = m.nextID("msg")
		msg.ChatroomID = chatroomID
		msg.CreatedAt = now
		m.messages[chatroomID] = append(m.messages[chatroomID], *msg)
	}
	room.UpdatedAt = now
	m.rooms[chatroomID] = room
	return nil
}

// inferenceStub records prompts and replies with a canned answer
type inferenceStub struct {
	mu      sync.Mutex
	reply   string
	err     error
	prompts []string
}

func (s *inferenceStub) Generate(ctx context.Context, prompt string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompts = append(s.prompts, prompt)
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func (s *inferenceStub) lastPrompt() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.prompts) == 0 {
		return ""
	}
	return s.prompts[len(s.prompts)-1]
}

type limiterStub struct {
	allowed bool
	err     error
}

func (l limiterStub) Allow(ctx context.Context, scope, subject string) (bool, time.Duration, error) {
	return l.allowed, 30 * time.Second, l.err
}

func newTestService(store Store, inference Inference, limiter RateLimiter) *Service {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	svc := NewService(store, inference, limiter, logger)
	clock := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	return svc
}
