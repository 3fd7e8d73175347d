package reclassify

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/cardledger/cardledger/internal/reclassify"
	"github.com/cardledger/cardledger/internal/rules"
)

type Handler struct {
	reclassifySvc *reclassify.Service
}

func NewHandler(reclassifySvc *reclassify.Service) *Handler {
	return &Handler{reclassifySvc: reclassifySvc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.run)
}

type runRequest struct {
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
}

type runResponse struct {
	Examined  int `json:"examined"`
	Updated   int `json:"updated"`
	Unchanged int `json:"unchanged"`
}

func (h *Handler) run(w http.ResponseWriter, r *http.Request) {
	var req runRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		http.Error(w, "start_date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	endDate, err := parseDate(req.EndDate)
	if err != nil {
		http.Error(w, "end_date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	result, err := h.reclassifySvc.Run(r.Context(), startDate, endDate)
	if err != nil {
		if errors.Is(err, rules.ErrInvalidRule) {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	resp := runResponse{
		Examined:  result.Examined,
		Updated:   result.Updated,
		Unchanged: result.Unchanged,
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}

	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return nil, err
	}

	return &t, nil
}
