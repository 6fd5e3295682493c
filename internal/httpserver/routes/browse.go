package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/regiomag/regiomag/internal/httpserver/deps"
	"github.com/regiomag/regiomag/internal/httpserver/handlers"
)

func init() { Register(registerBrowse) }

func registerBrowse(r chi.Router, d deps.Deps) {
	r.Get("/api/articles", handlers.ListArticles(d))
	r.Get("/api/articles/featured", handlers.GetFeatured(d))
	r.Get("/api/articles/{id}", handlers.GetArticle(d))
	r.Post("/api/articles/{id}/share", handlers.ShareArticle(d))
	r.Get("/api/pages", handlers.ListPages(d))
	r.Get("/api/directory", handlers.ListDirectory(d))
	r.Get("/api/directory/{id}", handlers.GetBusiness(d))
	r.Get("/api/categories", handlers.ListCategories(d))
}
