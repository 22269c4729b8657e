package rest

import (
	"github.com/go-chi/chi/v5"

	"github.com/webcarros/listing-service/internal/adapter/rest/middleware"
	"github.com/webcarros/listing-service/internal/platform/logger"
)

// NewRouter mounts the public feed routes and the authenticated owner
// routes. Reads are public, every mutation requires a bearer token.
func NewRouter(h *Handler, jwtSecret string, log *logger.Logger) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Logging(log))

	r.Get("/listings", h.ListListings)
	r.Get("/listings/{id}", h.GetListing)
	r.Get("/brands", h.ListBrands)

	r.Group(func(pr chi.Router) {
		pr.Use(middleware.Auth(jwtSecret, log))

		pr.Get("/my/listings", h.MyListings)
		pr.Post("/listings", h.CreateListing)
		pr.Delete("/listings/{id}", h.DeleteListing)

		pr.Post("/media", h.UploadMedia)
		pr.Delete("/media/{id}", h.RemoveMedia)

		pr.Get("/profile", h.GetProfile)
		pr.Put("/profile", h.UpsertProfile)
	})

	return r
}
