package handlers

import (
	"net/http"
	"time"

	"github.com/regiomag/regiomag/internal/httpserver/deps"
	"github.com/regiomag/regiomag/internal/library"
)

type statsResponse struct {
	library.Stats
	LastSync string `json:"lastSync,omitempty"`
}

// GetStats serves the CMS dashboard numbers.
func GetStats(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := statsResponse{Stats: d.Library.Stats()}
		if t := d.Library.LastReplace(); !t.IsZero() {
			resp.LastSync = t.UTC().Format(time.RFC3339)
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
