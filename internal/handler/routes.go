package handler

import (
	"net/http"

	"github.com/Dan9191/debtwatch-service/internal/middleware"
	"github.com/gorilla/mux"
)

// NewRouter wires every route. Everything except /healthz requires a bearer token, and
// /users/{uid} routes are further restricted to their owner.
func NewRouter(h *Handler, verifier middleware.TokenVerifier) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.RequestLogger(h.log), middleware.Recoverer(h.log))

	// Public routes
	r.HandleFunc("/healthz", h.Health).Methods(http.MethodGet)

	// Protected routes
	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.AuthMiddleware(verifier, h.log))
	api.HandleFunc("/chat", h.Chat).Methods(http.MethodPost)

	users := r.PathPrefix("/users/{uid}").Subrouter()
	users.Use(middleware.AuthMiddleware(verifier, h.log), middleware.RequireOwner)

	users.HandleFunc("", h.GetUser).Methods(http.MethodGet)
	users.HandleFunc("", h.RegisterUser).Methods(http.MethodPost)
	users.HandleFunc("", h.UpdateUser).Methods(http.MethodPatch)
	users.HandleFunc("", h.DeleteUser).Methods(http.MethodDelete)
	users.HandleFunc("/summary", h.GetSummary).Methods(http.MethodGet)
	users.HandleFunc("/sessions/revoke", h.RevokeSessions).Methods(http.MethodPost)

	users.HandleFunc("/transactions", h.ListTransactions).Methods(http.MethodGet)
	users.HandleFunc("/transactions", h.AddTransaction).Methods(http.MethodPost)
	users.HandleFunc("/transactions/{id}", h.UpdateTransaction).Methods(http.MethodPatch)
	users.HandleFunc("/transactions/{id}", h.DeleteTransaction).Methods(http.MethodDelete)

	users.HandleFunc("/loans", h.ListLoans).Methods(http.MethodGet)
	users.HandleFunc("/loans", h.AddLoan).Methods(http.MethodPost)
	users.HandleFunc("/loans/active", h.ListActiveLoans).Methods(http.MethodGet)
	users.HandleFunc("/loans/{id}", h.GetLoan).Methods(http.MethodGet)
	users.HandleFunc("/loans/{id}", h.UpdateLoan).Methods(http.MethodPatch)
	users.HandleFunc("/loans/{id}", h.DeleteLoan).Methods(http.MethodDelete)

	users.HandleFunc("/assets", h.ListAssets).Methods(http.MethodGet)
	users.HandleFunc("/assets", h.ReplaceAssets).Methods(http.MethodPost, http.MethodPut)
	users.HandleFunc("/assets/{id}", h.UpdateAsset).Methods(http.MethodPatch)
	users.HandleFunc("/assets/{id}", h.DeleteAsset).Methods(http.MethodDelete)

	users.HandleFunc("/dependents", h.GetDependents).Methods(http.MethodGet)
	users.HandleFunc("/dependents", h.UpdateDependents).Methods(http.MethodPatch)
	users.HandleFunc("/credit_history", h.GetCreditHistory).Methods(http.MethodGet)
	users.HandleFunc("/credit_history", h.UpdateCreditHistory).Methods(http.MethodPatch)

	users.HandleFunc("/risk_scores", h.ListRiskScores).Methods(http.MethodGet)
	users.HandleFunc("/risk_scores/latest", h.LatestRiskScore).Methods(http.MethodGet)
	users.HandleFunc("/risk_scores/generate", h.GenerateRiskScore).Methods(http.MethodPost)

	users.HandleFunc("/chatrooms", h.ListChatrooms).Methods(http.MethodGet)
	users.HandleFunc("/chatrooms", h.CreateChatroom).Methods(http.MethodPost)
	users.HandleFunc("/chatrooms/{rid}", h.GetChatroom).Methods(http.MethodGet)
	users.HandleFunc("/chatrooms/{rid}", h.RenameChatroom).Methods(http.MethodPatch)
	users.HandleFunc("/chatrooms/{rid}", h.DeleteChatroom).Methods(http.MethodDelete)
	users.HandleFunc("/chatrooms/{rid}/messages", h.ListChatMessages).Methods(http.MethodGet)
	users.HandleFunc("/chatrooms/{rid}/messages", h.SendChatMessage).Methods(http.MethodPost)

	return r
}
