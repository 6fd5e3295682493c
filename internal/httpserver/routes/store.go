package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/regiomag/regiomag/internal/httpserver/deps"
	"github.com/regiomag/regiomag/internal/httpserver/handlers"
	"github.com/regiomag/regiomag/internal/httpserver/mw"
)

func init() { Register(registerStore) }

func registerStore(r chi.Router, d deps.Deps) {
	h := handlers.Store(d)
	limited := r.With(mw.RateLimit(mw.RateLimitConfig{
		Burst:        d.StoreRateBurst,
		RefillPerMin: d.StoreRatePerMin,
		TrustProxy:   d.TrustProxy,
	}))
	limited.Get("/api/store", h)
	limited.Post("/api/store", h)
}
