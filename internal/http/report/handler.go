package report

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/cardledger/cardledger/internal/report"
)

type Handler struct {
	reportSvc *report.Service
}

func NewHandler(reportSvc *report.Service) *Handler {
	return &Handler{reportSvc: reportSvc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/monthly", h.monthly)
	r.Get("/categories", h.categories)
}

func (h *Handler) monthly(w http.ResponseWriter, r *http.Request) {
	year, ok := yearParam(w, r)
	if !ok {
		return
	}

	months, err := h.reportSvc.MonthlySummary(r.Context(), year)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, months)
}

func (h *Handler) categories(w http.ResponseWriter, r *http.Request) {
	year, ok := yearParam(w, r)
	if !ok {
		return
	}

	cells, err := h.reportSvc.CategoryBreakdown(r.Context(), year)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, cells)
}

func yearParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	s := r.URL.Query().Get("year")
	if s == "" {
		return 0, true
	}

	year, err := strconv.Atoi(s)
	if err != nil || year < 0 {
		http.Error(w, "year must be a positive integer", http.StatusBadRequest)
		return 0, false
	}

	return year, true
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
