package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/malusev998/currency-converter/logger"
	"github.com/malusev998/currency-converter/session"
)

func NewRouter(s *session.Session, log *logger.Logger, origins []string) http.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	h := &Handler{session: s, log: log}
	if h.log == nil {
		h.log = logger.Nop()
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	r.Use(h.logRequest)

	r.Get("/state", h.HandleState)
	r.Get("/rates", h.HandleRates)
	r.Get("/currencies", h.HandleCurrencies)
	r.Post("/convert", h.HandleConvert)

	return r
}
