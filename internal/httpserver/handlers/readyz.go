package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/regiomag/regiomag/internal/httpserver/deps"
)

type readyzResponse struct {
	Ready bool `json:"ready"`
}

// Readyz reports readiness: the document store must be initialized and, when
// Redis is configured, reachable.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ready := true

		if ok, err := d.Docs.Initialized(r.Context()); err != nil || !ok {
			ready = false
		}
		if ready && d.Engagement != nil {
			if err := d.Engagement.Ping(r.Context()); err != nil {
				ready = false
			}
		}

		w.Header().Set("Content-Type", "application/json")
		if !ready {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_ = json.NewEncoder(w).Encode(readyzResponse{Ready: ready})
	}
}
