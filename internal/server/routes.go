package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"mystic_market/pkg/httpx/reply"
	"mystic_market/pkg/logx"
	"mystic_market/pkg/middlewarex"
)

// Handler builds the API router with the standard middleware chain.
func (s Server) Handler(logFieldMaxLen int) http.Handler {
	masker := logx.NewSensitiveDataMasker()

	r := chi.NewRouter()
	r.Use(
		middleware.RealIP,
		middlewarex.TraceID,
		middlewarex.Logger,
		middlewarex.Recovery,
		middlewarex.RequestLogging(masker, logFieldMaxLen),
		middlewarex.ResponseLogging(masker, logFieldMaxLen),
	)

	s.RegisterRoutes(r)

	return r
}

func (s Server) RegisterRoutes(r chi.Router) {
	r.Route("/v1", func(r chi.Router) {
		r.Get("/rarities", handler(s.getV1Rarities))
		r.Get("/discount-table", handler(s.getV1DiscountTable))
		r.Post("/quotes", handler(s.postV1Quotes))

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", handler(s.postV1Sessions))

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", handler(s.getV1Session))
				r.Patch("/", handler(s.patchV1Session))
				r.Delete("/", handler(s.deleteV1Session))
				r.Post("/reroll", handler(s.postV1SessionReroll))
				r.Post("/finalize", handler(s.postV1SessionFinalize))
			})
		})

		if s.SaleServer != nil {
			r.Get("/sales", handler(s.SaleServer.getV1Sales))
		}
	})
}

func handler(f func(http.ResponseWriter, *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := f(w, r); err != nil {
			reply.Error(r.Context(), w, err)
		}
	}
}
