package handler

import (
	"net/http"

	"github.com/Dan9191/debtwatch-service/internal/apperror"
	"github.com/Dan9191/debtwatch-service/internal/middleware"
	"github.com/Dan9191/debtwatch-service/internal/models"
)

// Chat answers a one-off question. The user_id in the body must be the caller.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondWithError(w, r, err)
		return
	}
	subject, _ := middleware.SubjectFromContext(r.Context())
	if req.UserID == "" {
		h.respondWithError(w, r, apperror.Validation("user_id is required"))
		return
	}
	if req.UserID != subject {
		h.respondWithError(w, r, apperror.Forbidden("You can only access your own data"))
		return
	}

	reply, err := h.svc.Chat(detached(r), req.UserID, req.Message)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, models.ChatReply{Reply: reply})
}

func (h *Handler) ListChatrooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.svc.ListChatrooms(r.Context(), pathVar(r, "uid"))
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, rooms)
}

func (h *Handler) CreateChatroom(w http.ResponseWriter, r *http.Request) {
	var input models.ChatroomInput
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &input); err != nil {
			h.respondWithError(w, r, err)
			return
		}
	}
	room, err := h.svc.CreateChatroom(r.Context(), pathVar(r, "uid"), input)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, room)
}

func (h *Handler) GetChatroom(w http.ResponseWriter, r *http.Request) {
	room, err := h.svc.GetChatroom(r.Context(), pathVar(r, "uid"), pathVar(r, "rid"))
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, room)
}

func (h *Handler) RenameChatroom(w http.ResponseWriter, r *http.Request) {
	var input models.ChatroomInput
	if err := decodeJSON(r, &input); err != nil {
		h.respondWithError(w, r, err)
		return
	}
	room, err := h.svc.RenameChatroom(r.Context(), pathVar(r, "uid"), pathVar(r, "rid"), input)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, room)
}

func (h *Handler) DeleteChatroom(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteChatroom(r.Context(), pathVar(r, "uid"), pathVar(r, "rid")); err != nil {
		h.respondWithError(w, r, err)
		return
	}
	respondWithMessage(w, "Chatroom deleted")
}

func (h *Handler) ListChatMessages(w http.ResponseWriter, r *http.Request) {
	messages, err := h.svc.ListChatMessages(r.Context(), pathVar(r, "uid"), pathVar(r, "rid"))
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, messages)
}

func (h *Handler) SendChatMessage(w http.ResponseWriter, r *http.Request) {
	var input models.ChatMessageInput
	if err := decodeJSON(r, &input); err != nil {
		h.respondWithError(w, r, err)
		return
	}
	exchange, err := h.svc.SendChatMessage(detached(r), pathVar(r, "uid"), pathVar(r, "rid"), input)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, exchange)
}
