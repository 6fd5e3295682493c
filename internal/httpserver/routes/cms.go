package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/regiomag/regiomag/internal/httpserver/deps"
	"github.com/regiomag/regiomag/internal/httpserver/handlers"
	"github.com/regiomag/regiomag/internal/httpserver/mw"
)

func init() { Register(registerCMS) }

func registerCMS(r chi.Router, d deps.Deps) {
	guarded := r.With(
		mw.AllowOnlyCIDRS(d.AdminCIDRS, d.TrustProxy, d.Logger),
		mw.EnforceHost(d.AllowedHosts, d.Logger),
	)

	guarded.Put("/api/cms/articles", handlers.SaveArticle(d))
	guarded.Delete("/api/cms/articles/{id}", handlers.DeleteArticle(d))
	guarded.Put("/api/cms/directory", handlers.SaveBusiness(d))
	guarded.Delete("/api/cms/directory/{id}", handlers.DeleteBusiness(d))
	guarded.Post("/api/cms/categories", handlers.AddCategory(d))
	guarded.Delete("/api/cms/categories/{name}", handlers.RemoveCategory(d))
	guarded.Get("/api/cms/stats", handlers.GetStats(d))
	guarded.Post("/api/cms/sync", handlers.SyncNow(d))
}
