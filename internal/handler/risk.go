package handler

import (
	"net/http"

	"github.com/Dan9191/debtwatch-service/internal/models"
)

// noScore is returned by the latest endpoint while the user has never been scored
type noScore struct {
	Message   string            `json:"message"`
	RiskLevel *models.RiskLevel `json:"risk_level"`
}

// GenerateRiskScore runs the scoring pipeline and answers with the new assessment
func (h *Handler) GenerateRiskScore(w http.ResponseWriter, r *http.Request) {
	score, err := h.svc.GenerateRiskScore(detached(r), pathVar(r, "uid"))
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, models.RiskAssessment{
		RiskLevel:   score.RiskLevel,
		Explanation: score.Explanation,
	})
}

func (h *Handler) LatestRiskScore(w http.ResponseWriter, r *http.Request) {
	score, err := h.svc.LatestRiskScore(r.Context(), pathVar(r, "uid"))
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	if score == nil {
		respondWithJSON(w, http.StatusOK, noScore{Message: "No score found"})
		return
	}
	respondWithJSON(w, http.StatusOK, score)
}

func (h *Handler) ListRiskScores(w http.ResponseWriter, r *http.Request) {
	limit, err := queryLimit(r)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	scores, err := h.svc.ListRiskScores(r.Context(), pathVar(r, "uid"), limit)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, scores)
}
