package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/regiomag/regiomag/internal/httpserver/deps"
	"github.com/regiomag/regiomag/internal/logger"
	"github.com/regiomag/regiomag/internal/scheduler"
)

type syncResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// SyncNow runs one full sync cycle: push the in-memory content set upstream,
// persist the acknowledged state. The call is synchronous so the editor gets
// a definite success or failure, and strictly single-flight.
func SyncNow(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.RunSync(r.Context()); err != nil {
			if errors.Is(err, scheduler.ErrSyncInFlight) {
				writeError(w, http.StatusConflict, "a sync is already in progress")
				return
			}
			d.Logger.Error("sync failed", logger.Error(err))
			writeError(w, http.StatusBadGateway, err.Error())
			return
		}

		writeJSON(w, http.StatusOK, syncResponse{
			Status:    "success",
			Message:   "Content synced",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
	}
}
