package handlers

import (
	"net/http"

	"github.com/regiomag/regiomag/internal/httpserver/deps"
)

type categoriesResponse struct {
	Categories []string `json:"categories"`
}

// ListCategories serves the editorial category list. The list is not part of
// the synced snapshot; it is rebuilt from the defaults plus every category
// present in the current content set.
func ListCategories(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, categoriesResponse{Categories: d.Library.Categories()})
	}
}
