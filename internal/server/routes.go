package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"amo_checkbox/pkg/httpx/reply"
)

func (s Server) RegisterRoutes(r chi.Router) {
	r.Get("/health", handler(s.getHealth))

	r.Route("/amocrm", func(r chi.Router) {
		r.Post("/webhook", handler(s.postAmoCRMWebhook))
	})
}

func handler(f func(http.ResponseWriter, *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := f(w, r); err != nil {
			reply.Error(r.Context(), w, err)
		}
	}
}
