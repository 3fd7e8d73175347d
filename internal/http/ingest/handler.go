package ingest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cardledger/cardledger/internal/ingest"
	"github.com/cardledger/cardledger/internal/rules"
)

type Handler struct {
	ingestSvc *ingest.Service
}

func NewHandler(ingestSvc *ingest.Service) *Handler {
	return &Handler{ingestSvc: ingestSvc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.ingestStatement)
}

type failureDTO struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

type resultResponse struct {
	Inserted int          `json:"inserted"`
	Skipped  int          `json:"skipped"`
	Failed   int          `json:"failed"`
	Failures []failureDTO `json:"failures,omitempty"`
}

func (h *Handler) ingestStatement(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	format := r.FormValue("format")
	if format == "" {
		http.Error(w, "format field is required", http.StatusBadRequest)
		return
	}

	account := r.FormValue("account")
	if account == "" {
		http.Error(w, "account field is required", http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	result, err := h.ingestSvc.Run(r.Context(), format, account, file)
	if err != nil {
		// A broken rule set is a configuration problem, not a server fault.
		if errors.Is(err, rules.ErrInvalidRule) {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}

		if result == nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toResultResponse(result)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func toResultResponse(res *ingest.Result) resultResponse {
	resp := resultResponse{
		Inserted: res.Inserted,
		Skipped:  res.Skipped,
		Failed:   res.Failed,
	}

	for _, f := range res.Failures {
		resp.Failures = append(resp.Failures, failureDTO{Row: f.Row, Error: f.Err.Error()})
	}

	return resp
}
