package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	ingestHandler "github.com/cardledger/cardledger/internal/http/ingest"
	reclassifyHandler "github.com/cardledger/cardledger/internal/http/reclassify"
	reportHandler "github.com/cardledger/cardledger/internal/http/report"
	rulesHandler "github.com/cardledger/cardledger/internal/http/rules"
	txHandler "github.com/cardledger/cardledger/internal/http/transaction"
)

func New(
	transactionsV1 *txHandler.Handler,
	ingestV1 *ingestHandler.Handler,
	rulesV1 *rulesHandler.Handler,
	reclassifyV1 *reclassifyHandler.Handler,
	reportV1 *reportHandler.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/transactions", transactionsV1.Routes)
		r.Route("/ingest", ingestV1.Routes)

		r.Route("/rules", rulesV1.Routes)

		r.Route("/reclassify", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			reclassifyV1.Routes(r)
		})

		r.Route("/reports", reportV1.Routes)
	})

	return router
}
