package handler

import (
	"fmt"
	"net/http"

	"github.com/Dan9191/debtwatch-service/internal/models"
)

// RegisterUser creates the profile of the authenticated user
func (h *Handler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var input models.UserInput
	if err := decodeJSON(r, &input); err != nil {
		h.respondWithError(w, r, err)
		return
	}

	user, err := h.svc.Register(r.Context(), pathVar(r, "uid"), input)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, user)
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.svc.GetUser(r.Context(), pathVar(r, "uid"))
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, user)
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var patch models.UserPatch
	if err := decodeJSON(r, &patch); err != nil {
		h.respondWithError(w, r, err)
		return
	}

	user, err := h.svc.UpdateUser(r.Context(), pathVar(r, "uid"), patch)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, user)
}

// DeleteUser removes the profile together with all of its records
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	uid := pathVar(r, "uid")
	if err := h.svc.DeleteUser(r.Context(), uid); err != nil {
		h.respondWithError(w, r, err)
		return
	}
	respondWithMessage(w, fmt.Sprintf("User %s deleted.", uid))
}

func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.FinancialSummary(r.Context(), pathVar(r, "uid"))
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, summary)
}
