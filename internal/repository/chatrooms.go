package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dan9191/debtwatch-service/internal/apperror"
	"github.com/Dan9191/debtwatch-service/internal/models"
)

const (
	chatroomColumns    = `id, user_id, title, created_at, updated_at`
	chatMessageColumns = `id, chatroom_id, role, content, created_at`
)

func scanChatroom(row interface{ Scan(...any) error }, room *models.Chatroom) error {
	return row.Scan(&room.ID, &room.UserID, &room.Title, &room.CreatedAt, &room.UpdatedAt)
}

func scanChatMessage(row interface{ Scan(...any) error }, msg *models.ChatMessage) error {
	return row.Scan(&msg.ID, &msg.ChatroomID, &msg.Role, &msg.Content, &msg.CreatedAt)
}

// ListChatrooms returns a user's chatrooms, most recently active first
func (r *Repository) ListChatrooms(ctx context.Context, userID string) ([]models.Chatroom, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+chatroomColumns+` FROM chatrooms WHERE user_id = $1 ORDER BY updated_at DESC, id`, userID)
	if err != nil {
		return nil, apperror.Upstream("failed to list chatrooms", err)
	}
	defer rows.Close()

	rooms := []models.Chatroom{}
	for rows.Next() {
		var room models.Chatroom
		if err := scanChatroom(rows, &room); err != nil {
			return nil, apperror.Upstream("failed to scan chatroom", err)
		}
		rooms = append(rooms, room)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.Upstream("failed to list chatrooms", err)
	}
	return rooms, nil
}

func (r *Repository) CreateChatroom(ctx context.Context, room *models.Chatroom) error {
	now := r.now()
	room.ID = r.newID()
	room.CreatedAt = now
	room.UpdatedAt = now
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO chatrooms (id, user_id, title, created_at, updated_at) VALUES ($1, $2, $3, $4, $4)`,
		room.ID, room.UserID, room.Title, now)
	if err != nil {
		return storeError("create chatroom", err)
	}
	return nil
}

func (r *Repository) GetChatroom(ctx context.Context, userID, id string) (*models.Chatroom, error) {
	room := &models.Chatroom{}
	err := scanChatroom(r.db.QueryRowContext(ctx,
		`SELECT `+chatroomColumns+` FROM chatrooms WHERE user_id = $1 AND id = $2`, userID, id), room)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NotFound("chatroom not found")
	}
	if err != nil {
		return nil, apperror.Upstream("failed to find chatroom", err)
	}
	return room, nil
}

func (r *Repository) RenameChatroom(ctx context.Context, userID, id, title string) (*models.Chatroom, error) {
	room := &models.Chatroom{}
	err := scanChatroom(r.db.QueryRowContext(ctx,
		`UPDATE chatrooms SET title = $3, updated_at = $4 WHERE user_id = $1 AND id = $2 RETURNING `+chatroomColumns,
		userID, id, title, r.now()), room)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NotFound("chatroom not found")
	}
	if err != nil {
		return nil, apperror.Upstream("failed to rename chatroom", err)
	}
	return room, nil
}

// DeleteChatroom removes a chatroom together with its messages
func (r *Repository) DeleteChatroom(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM chatrooms WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return apperror.Upstream("failed to delete chatroom", err)
	}
	return requireAffected(res, "delete chatroom", apperror.NotFound("chatroom not found"))
}

// ListChatMessages returns messages in conversation order. With limit > 0 only the last
// limit messages are returned, still in conversation order.
func (r *Repository) ListChatMessages(ctx context.Context, chatroomID string, limit int) ([]models.ChatMessage, error) {
	query := `SELECT ` + chatMessageColumns + ` FROM chat_messages WHERE chatroom_id = $1 ORDER BY seq`
	if limit > 0 {
		query = `SELECT ` + chatMessageColumns + ` FROM (
			SELECT seq, ` + chatMessageColumns + ` FROM chat_messages WHERE chatroom_id = $1 ORDER BY seq DESC` + limitClause(limit) + `
		) recent ORDER BY seq`
	}
	rows, err := r.db.QueryContext(ctx, query, chatroomID)
	if err != nil {
		return nil, apperror.Upstream("failed to list chat messages", err)
	}
	defer rows.Close()

	messages := []models.ChatMessage{}
	for rows.Next() {
		var msg models.ChatMessage
		if err := scanChatMessage(rows, &msg); err != nil {
			return nil, apperror.Upstream("failed to scan chat message", err)
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.Upstream("failed to list chat messages", err)
	}
	return messages, nil
}

// AppendChatExchange stores a user message and the assistant reply as one unit and
// marks the chatroom as recently active.
func (r *Repository) AppendChatExchange(ctx context.Context, chatroomID string, userMsg, assistantMsg *models.ChatMessage) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return apperror.Upstream("failed to begin transaction", err)
	}
	defer tx.Rollback()

	now := r.now()
	for _, msg := range []*models.ChatMessage{userMsg, assistantMsg} {
		msg.ID = r.newID()
		msg.ChatroomID = chatroomID
		msg.CreatedAt = now
		_, err := tx.ExecContext(ctx,
			`INSERT INTO chat_messages (id, chatroom_id, role, content, created_at) VALUES ($1, $2, $3, $4, $5)`,
			msg.ID, msg.ChatroomID, msg.Role, msg.Content, msg.CreatedAt)
		if err != nil {
			return apperror.Upstream("failed to save chat message", err)
		}
	}

	if _, err := tx.ExecContext(ctx, `UPDATE chatrooms SET updated_at = $2 WHERE id = $1`, chatroomID, now); err != nil {
		return apperror.Upstream("failed to touch chatroom", err)
	}

	if err := tx.Commit(); err != nil {
		return apperror.Upstream("failed to commit chat messages", err)
	}
	return nil
}
