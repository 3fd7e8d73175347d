package rules

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/cardledger/cardledger/internal/rules"
)

type Handler struct {
	ruleSvc *rules.Service
}

func NewHandler(ruleSvc *rules.Service) *Handler {
	return &Handler{ruleSvc: ruleSvc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Delete("/{id}", h.remove)
}

type ruleResponse struct {
	ID        uuid.UUID `json:"id"`
	MatchType string    `json:"match_type"`
	Pattern   string    `json:"pattern"`
	Category  string    `json:"category"`
	Priority  int       `json:"priority"`
	CreatedAt time.Time `json:"created_at"`
}

type createRequest struct {
	MatchType string `json:"match_type"`
	Pattern   string `json:"pattern"`
	Category  string `json:"category"`
	Priority  int    `json:"priority"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	ruleSet, err := h.ruleSvc.List(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := make([]ruleResponse, 0, len(ruleSet))
	for _, rule := range ruleSet {
		resp = append(resp, toResponse(rule))
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	rule := rules.Rule{
		MatchType: rules.MatchType(req.MatchType),
		Pattern:   req.Pattern,
		Category:  req.Category,
		Priority:  req.Priority,
	}

	if err := h.ruleSvc.Create(r.Context(), &rule); err != nil {
		if errors.Is(err, rules.ErrInvalidRule) {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	writeJSON(w, http.StatusCreated, toResponse(rule))
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid rule id", http.StatusBadRequest)
		return
	}

	if err := h.ruleSvc.Delete(r.Context(), id); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func toResponse(r rules.Rule) ruleResponse {
	return ruleResponse{
		ID:        r.ID,
		MatchType: string(r.MatchType),
		Pattern:   r.Pattern,
		Category:  r.Category,
		Priority:  r.Priority,
		CreatedAt: r.CreatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
