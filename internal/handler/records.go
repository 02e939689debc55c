package handler

import (
	"net/http"

	"github.com/Dan9191/debtwatch-service/internal/models"
)

func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	limit, err := queryLimit(r)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	txs, err := h.svc.ListTransactions(r.Context(), pathVar(r, "uid"), limit)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, txs)
}

func (h *Handler) AddTransaction(w http.ResponseWriter, r *http.Request) {
	var input models.TransactionInput
	if err := decodeJSON(r, &input); err != nil {
		h.respondWithError(w, r, err)
		return
	}
	tx, err := h.svc.AddTransaction(r.Context(), pathVar(r, "uid"), input)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, tx)
}

func (h *Handler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var patch models.TransactionPatch
	if err := decodeJSON(r, &patch); err != nil {
		h.respondWithError(w, r, err)
		return
	}
	tx, err := h.svc.UpdateTransaction(r.Context(), pathVar(r, "uid"), pathVar(r, "id"), patch)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, tx)
}

func (h *Handler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteTransaction(r.Context(), pathVar(r, "uid"), pathVar(r, "id")); err != nil {
		h.respondWithError(w, r, err)
		return
	}
	respondWithMessage(w, "Transaction deleted")
}

func (h *Handler) ListLoans(w http.ResponseWriter, r *http.Request) {
	loans, err := h.svc.ListLoans(r.Context(), pathVar(r, "uid"))
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, loans)
}

func (h *Handler) ListActiveLoans(w http.ResponseWriter, r *http.Request) {
	loans, err := h.svc.ListActiveLoans(r.Context(), pathVar(r, "uid"))
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, loans)
}

func (h *Handler) GetLoan(w http.ResponseWriter, r *http.Request) {
	loan, err := h.svc.GetLoan(r.Context(), pathVar(r, "uid"), pathVar(r, "id"))
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, loan)
}

func (h *Handler) AddLoan(w http.ResponseWriter, r *http.Request) {
	var input models.LoanInput
	if err := decodeJSON(r, &input); err != nil {
		h.respondWithError(w, r, err)
		return
	}
	loan, err := h.svc.AddLoan(r.Context(), pathVar(r, "uid"), input)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, loan)
}

func (h *Handler) UpdateLoan(w http.ResponseWriter, r *http.Request) {
	var patch models.LoanPatch
	if err := decodeJSON(r, &patch); err != nil {
		h.respondWithError(w, r, err)
		return
	}
	loan, err := h.svc.UpdateLoan(r.Context(), pathVar(r, "uid"), pathVar(r, "id"), patch)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, loan)
}

func (h *Handler) DeleteLoan(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteLoan(r.Context(), pathVar(r, "uid"), pathVar(r, "id")); err != nil {
		h.respondWithError(w, r, err)
		return
	}
	respondWithMessage(w, "Loan deleted")
}

func (h *Handler) ListAssets(w http.ResponseWriter, r *http.Request) {
	assets, err := h.svc.ListAssets(r.Context(), pathVar(r, "uid"))
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, assets)
}

// ReplaceAssets swaps the whole asset set for the JSON array in the body
func (h *Handler) ReplaceAssets(w http.ResponseWriter, r *http.Request) {
	var inputs []models.AssetInput
	if err := decodeJSON(r, &inputs); err != nil {
		h.respondWithError(w, r, err)
		return
	}
	assets, err := h.svc.ReplaceAssets(r.Context(), pathVar(r, "uid"), inputs)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, assets)
}

func (h *Handler) UpdateAsset(w http.ResponseWriter, r *http.Request) {
	var patch models.AssetPatch
	if err := decodeJSON(r, &patch); err != nil {
		h.respondWithError(w, r, err)
		return
	}
	asset, err := h.svc.UpdateAsset(r.Context(), pathVar(r, "uid"), pathVar(r, "id"), patch)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, asset)
}

func (h *Handler) DeleteAsset(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteAsset(r.Context(), pathVar(r, "uid"), pathVar(r, "id")); err != nil {
		h.respondWithError(w, r, err)
		return
	}
	respondWithMessage(w, "Asset deleted")
}

func (h *Handler) GetDependents(w http.ResponseWriter, r *http.Request) {
	dependents, err := h.svc.GetDependents(r.Context(), pathVar(r, "uid"))
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, dependents)
}

func (h *Handler) UpdateDependents(w http.ResponseWriter, r *http.Request) {
	var patch models.DependentsPatch
	if err := decodeJSON(r, &patch); err != nil {
		h.respondWithError(w, r, err)
		return
	}
	dependents, err := h.svc.UpdateDependents(r.Context(), pathVar(r, "uid"), patch)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, dependents)
}

func (h *Handler) GetCreditHistory(w http.ResponseWriter, r *http.Request) {
	history, err := h.svc.GetCreditHistory(r.Context(), pathVar(r, "uid"))
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, history)
}

func (h *Handler) UpdateCreditHistory(w http.ResponseWriter, r *http.Request) {
	var patch models.CreditHistoryPatch
	if err := decodeJSON(r, &patch); err != nil {
		h.respondWithError(w, r, err)
		return
	}
	history, err := h.svc.UpdateCreditHistory(r.Context(), pathVar(r, "uid"), patch)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, history)
}
