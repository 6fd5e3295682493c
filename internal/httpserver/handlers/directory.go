package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/regiomag/regiomag/internal/domain"
	"github.com/regiomag/regiomag/internal/httpserver/deps"
)

type directoryResponse struct {
	Businesses []domain.Business         `json:"businesses"`
	Categories []domain.BusinessCategory `json:"categories"`
}

// ListDirectory serves the trade directory, optionally filtered by trade.
func ListDirectory(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		category := domain.BusinessCategory(r.URL.Query().Get("category"))
		if category != "" && !domain.ValidBusinessCategory(category) {
			writeError(w, http.StatusBadRequest, "unknown directory category")
			return
		}

		writeJSON(w, http.StatusOK, directoryResponse{
			Businesses: d.Library.Businesses(category),
			Categories: domain.BusinessCategories,
		})
	}
}

// GetBusiness serves a single directory entry.
func GetBusiness(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, ok := d.Library.Business(chi.URLParam(r, "id"))
		if !ok {
			writeError(w, http.StatusNotFound, "business not found")
			return
		}
		writeJSON(w, http.StatusOK, b)
	}
}
