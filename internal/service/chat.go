package service

import (
	"context"
	"strings"

	"github.com/Dan9191/debtwatch-service/internal/apperror"
	"github.com/Dan9191/debtwatch-service/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	chatHistoryTurns     = 10
	defaultChatroomTitle = "Percakapan baru"
	maxChatroomTitle     = 120
)

// Chat answers a single free-form message using the user's financial context
func (s *Service) Chat(ctx context.Context, userID, message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", apperror.Validation("message is required")
	}
	if err := s.checkRateLimit(ctx, scopeChat, userID); err != nil {
		return "", err
	}

	summary, err := s.FinancialSummary(ctx, userID)
	if err != nil {
		return "", err
	}
	reply, err := s.inference.Generate(ctx, BuildChatPrompt(summary, nil, message))
	if err != nil {
		return "", err
	}
	return reply, nil
}

func (s *Service) ListChatrooms(ctx context.Context, userID string) ([]models.Chatroom, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.store.ListChatrooms(ctx, userID)
}

func chatroomTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return defaultChatroomTitle, nil
	}
	if len([]rune(title)) > maxChatroomTitle {
		return "", apperror.Validation("title must be at most %d characters", maxChatroomTitle)
	}
	return title, nil
}

func (s *Service) CreateChatroom(ctx context.Context, userID string, input models.ChatroomInput) (*models.Chatroom, error) {
	title, err := chatroomTitle(input.Title)
	if err != nil {
		return nil, err
	}
	room := &models.Chatroom{UserID: userID, Title: title}
	if err := s.store.CreateChatroom(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}

func (s *Service) GetChatroom(ctx context.Context, userID, roomID string) (*models.Chatroom, error) {
	return s.store.GetChatroom(ctx, userID, roomID)
}

func (s *Service) RenameChatroom(ctx context.Context, userID, roomID string, input models.ChatroomInput) (*models.Chatroom, error) {
	title, err := chatroomTitle(input.Title)
	if err != nil {
		return nil, err
	}
	return s.store.RenameChatroom(ctx, userID, roomID, title)
}

func (s *Service) DeleteChatroom(ctx context.Context, userID, roomID string) error {
	return s.store.DeleteChatroom(ctx, userID, roomID)
}

func (s *Service) ListChatMessages(ctx context.Context, userID, roomID string) ([]models.ChatMessage, error) {
	if _, err := s.store.GetChatroom(ctx, userID, roomID); err != nil {
		return nil, err
	}
	return s.store.ListChatMessages(ctx, roomID, 0)
}

// SendChatMessage asks the assistant and, only once a reply exists, stores the user
// message and the reply together.
func (s *Service) SendChatMessage(ctx context.Context, userID, roomID string, input models.ChatMessageInput) (*models.ChatExchange, error) {
	message := strings.TrimSpace(input.Message)
	if message == "" {
		return nil, apperror.Validation("message is required")
	}
	if _, err := s.store.GetChatroom(ctx, userID, roomID); err != nil {
		return nil, err
	}
	if err := s.checkRateLimit(ctx, scopeChat, userID); err != nil {
		return nil, err
	}

	history, err := s.store.ListChatMessages(ctx, roomID, chatHistoryTurns)
	if err != nil {
		return nil, err
	}
	summary, err := s.FinancialSummary(ctx, userID)
	if err != nil {
		return nil, err
	}

	reply, err := s.inference.Generate(ctx, BuildChatPrompt(summary, history, message))
	if err != nil {
		return nil, err
	}

	exchange := &models.ChatExchange{
		UserMessage:      models.ChatMessage{Role: models.RoleUser, Content: message},
		AssistantMessage: models.ChatMessage{Role: models.RoleAssistant, Content: reply},
	}
	if err := s.store.AppendChatExchange(ctx, roomID, &exchange.UserMessage, &exchange.AssistantMessage); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"user_id": userID, "chatroom_id": roomID}).Debug("Chat exchange stored")
	return exchange, nil
}
