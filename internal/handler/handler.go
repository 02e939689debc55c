package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/Dan9191/debtwatch-service/internal/apperror"
	"github.com/Dan9191/debtwatch-service/internal/middleware"
	"github.com/Dan9191/debtwatch-service/internal/service"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

const maxBodyBytes = 1 << 20

// SessionRevoker invalidates every token issued to a subject so far
type SessionRevoker interface {
	Revoke(ctx context.Context, subject string) error
}

// HealthChecker reports whether the record store is reachable
type HealthChecker interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	svc      *service.Service
	sessions SessionRevoker
	health   HealthChecker
	log      *logrus.Logger
}

func NewHandler(svc *service.Service, sessions SessionRevoker, health HealthChecker, log *logrus.Logger) *Handler {
	return &Handler{svc: svc, sessions: sessions, health: health, log: log}
}

// respondWithJSON writes payload with the given status code
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// respondWithError maps err to its status code and writes {"error", "detail"}
func (h *Handler) respondWithError(w http.ResponseWriter, r *http.Request, err error) {
	kind := apperror.KindOf(err)
	status := apperror.HTTPStatus(kind)
	if status >= http.StatusInternalServerError {
		h.log.WithFields(logrus.Fields{
			"path": r.URL.Path,
			"kind": kind,
		}).WithError(err).Error("Request failed")
	}
	respondWithJSON(w, status, map[string]string{"error": string(kind), "detail": apperror.Message(err)})
}

func respondWithMessage(w http.ResponseWriter, message string) {
	respondWithJSON(w, http.StatusOK, map[string]string{"message": message})
}

// decodeJSON rejects unknown fields and trailing data so typos never reach the store
func decodeJSON(r *http.Request, dst interface{}) error {
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperror.Validation("request body is required")
		}
		return apperror.Validation("invalid request body: %v", err)
	}
	if decoder.More() {
		return apperror.Validation("invalid request body: unexpected trailing data")
	}
	return nil
}

func pathVar(r *http.Request, name string) string {
	return mux.Vars(r)[name]
}

// queryLimit parses ?limit=; zero means no limit
func queryLimit(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0, apperror.Validation("limit must be a non-negative integer")
	}
	return limit, nil
}

// detached keeps inference-backed work running when the caller disconnects
func detached(r *http.Request) context.Context {
	return context.WithoutCancel(r.Context())
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.health.Ping(r.Context()); err != nil {
		h.respondWithError(w, r, apperror.Upstream("record store unreachable", err))
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// RevokeSessions invalidates all tokens the caller holds, including the current one
func (h *Handler) RevokeSessions(w http.ResponseWriter, r *http.Request) {
	subject, _ := middleware.SubjectFromContext(r.Context())
	if err := h.sessions.Revoke(r.Context(), subject); err != nil {
		h.respondWithError(w, r, err)
		return
	}
	h.log.WithField("user_id", subject).Info("Sessions revoked")
	respondWithMessage(w, "Sessions revoked")
}
